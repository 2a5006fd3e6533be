package queue

import (
	"encoding/json"

	"github.com/halochain/halo-gov/types/xerrors"
)

// SortedList is a doubly-linked list of uint64 keys ordered by an int64
// value, head at the greatest value. Insert/Remove/Update are O(1) because
// the caller supplies the neighbors of the target position; the list only
// verifies the hints and re-derives at most one link from a stale hint.
// Key zero is the nil sentinel and is never a valid member.
type SortedList struct {
	elements map[uint64]*element
	head     uint64 // greatest value
	tail     uint64 // least value
}

type element struct {
	Key     uint64 `json:"key"`
	Value   int64  `json:"value"`
	lesser  uint64
	greater uint64
}

func NewSortedList() *SortedList {
	return &SortedList{
		elements: make(map[uint64]*element),
	}
}

func (l *SortedList) Len() int {
	return len(l.elements)
}

func (l *SortedList) Contains(key uint64) bool {
	_, ok := l.elements[key]
	return ok
}

func (l *SortedList) ValueOf(key uint64) (int64, bool) {
	el, ok := l.elements[key]
	if !ok {
		return 0, false
	}
	return el.Value, true
}

// Head returns the key with the greatest value, zero when empty.
func (l *SortedList) Head() uint64 {
	return l.head
}

// Tail returns the key with the least value, zero when empty.
func (l *SortedList) Tail() uint64 {
	return l.tail
}

// Insert places key at the position described by the lesser/greater hints.
// Both hints zero is only valid for an empty list; a nonzero hint must be a
// member. Stale hints are corrected by one step of the hint's own adjacency;
// if no consistent position remains, the insert fails with ErrQueueHint.
func (l *SortedList) Insert(key uint64, value int64, lesser, greater uint64) xerrors.XError {
	if key == 0 {
		return xerrors.ErrQueueHint.Wrapf("zero key")
	}
	if l.Contains(key) {
		return xerrors.ErrDuplicatedKey
	}
	if key == lesser || key == greater {
		return xerrors.ErrQueueHint.Wrapf("key %d equals a hint", key)
	}
	if len(l.elements) > 0 && lesser == 0 && greater == 0 {
		return xerrors.ErrQueueHint.Wrapf("hints are required for a non-empty list")
	}
	if lesser != 0 && !l.Contains(lesser) {
		return xerrors.ErrQueueHint.Wrapf("lesser hint %d is not a member", lesser)
	}
	if greater != 0 && !l.Contains(greater) {
		return xerrors.ErrQueueHint.Wrapf("greater hint %d is not a member", greater)
	}

	lesser, greater, ok := l.position(value, lesser, greater)
	if !ok {
		return xerrors.ErrQueueHint.Wrapf("no consistent position for value %d", value)
	}

	el := &element{Key: key, Value: value, lesser: lesser, greater: greater}
	l.elements[key] = el
	if lesser == 0 {
		l.tail = key
	} else {
		l.elements[lesser].greater = key
	}
	if greater == 0 {
		l.head = key
	} else {
		l.elements[greater].lesser = key
	}
	return nil
}

// Push appends key with value zero at the least end, requiring no hints.
func (l *SortedList) Push(key uint64) xerrors.XError {
	return l.Insert(key, 0, 0, l.tail)
}

func (l *SortedList) Remove(key uint64) xerrors.XError {
	el, ok := l.elements[key]
	if !ok {
		return xerrors.ErrNotFoundResult
	}
	if el.lesser == 0 {
		l.tail = el.greater
	} else {
		l.elements[el.lesser].greater = el.greater
	}
	if el.greater == 0 {
		l.head = el.lesser
	} else {
		l.elements[el.greater].lesser = el.lesser
	}
	delete(l.elements, key)
	return nil
}

// Update moves key to the value's position, with the Insert hint contract.
// The element is restored at its previous position when the hints fail, so
// a rejected update has no effect.
func (l *SortedList) Update(key uint64, value int64, lesser, greater uint64) xerrors.XError {
	el, ok := l.elements[key]
	if !ok {
		return xerrors.ErrNotFoundResult
	}
	oldValue, oldLesser, oldGreater := el.Value, el.lesser, el.greater

	_ = l.Remove(key)
	if xerr := l.Insert(key, value, lesser, greater); xerr != nil {
		// the old neighbors are adjacent again after the removal
		if rerr := l.Insert(key, oldValue, oldLesser, oldGreater); rerr != nil {
			panic(rerr)
		}
		return xerr
	}
	return nil
}

// HeadN returns the n greatest-value keys in descending order.
func (l *SortedList) HeadN(n int) ([]uint64, xerrors.XError) {
	if n < 0 || n > len(l.elements) {
		return nil, xerrors.ErrIndexOutOfRange.Wrapf("n=%d, len=%d", n, len(l.elements))
	}
	ret := make([]uint64, 0, n)
	for key := l.head; len(ret) < n; key = l.elements[key].lesser {
		ret = append(ret, key)
	}
	return ret, nil
}

// PopN removes and returns the n greatest-value keys in descending order.
func (l *SortedList) PopN(n int) ([]uint64, xerrors.XError) {
	keys, xerr := l.HeadN(n)
	if xerr != nil {
		return nil, xerr
	}
	for _, key := range keys {
		_ = l.Remove(key)
	}
	return keys, nil
}

// Keys returns all keys in descending value order.
func (l *SortedList) Keys() []uint64 {
	keys, _ := l.HeadN(len(l.elements))
	return keys
}

func (l *SortedList) position(value int64, lesser, greater uint64) (uint64, uint64, bool) {
	if l.validPosition(value, lesser, greater) {
		return lesser, greater, true
	}
	if lesser != 0 {
		if el := l.elements[lesser]; el != nil && l.validPosition(value, lesser, el.greater) {
			return lesser, el.greater, true
		}
	}
	if greater != 0 {
		if el := l.elements[greater]; el != nil && l.validPosition(value, el.lesser, greater) {
			return el.lesser, greater, true
		}
	}
	return 0, 0, false
}

func (l *SortedList) validPosition(value int64, lesser, greater uint64) bool {
	if lesser == 0 && greater == 0 {
		return l.head == 0
	}
	// adjacency
	if lesser == 0 {
		if l.tail != greater {
			return false
		}
	} else if l.elements[lesser].greater != greater {
		return false
	}
	if greater == 0 && l.head != lesser {
		return false
	}
	// value bounds
	if lesser != 0 && l.elements[lesser].Value > value {
		return false
	}
	if greater != 0 && l.elements[greater].Value < value {
		return false
	}
	return true
}

// MarshalJSON writes the elements in ascending value order; the links are
// rebuilt on decode.
func (l *SortedList) MarshalJSON() ([]byte, error) {
	els := make([]*element, 0, len(l.elements))
	for key := l.tail; key != 0; key = l.elements[key].greater {
		els = append(els, l.elements[key])
	}
	return json.Marshal(els)
}

func (l *SortedList) UnmarshalJSON(bz []byte) error {
	var els []*element
	if err := json.Unmarshal(bz, &els); err != nil {
		return err
	}
	l.elements = make(map[uint64]*element)
	l.head = 0
	l.tail = 0
	for _, el := range els {
		if xerr := l.Insert(el.Key, el.Value, l.head, 0); xerr != nil {
			return xerr
		}
	}
	return nil
}
