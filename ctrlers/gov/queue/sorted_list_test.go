package queue

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halochain/halo-gov/types/xerrors"
)

func TestInsertOrdering(t *testing.T) {
	l := NewSortedList()

	require.NoError(t, l.Insert(1, 10, 0, 0))
	require.Equal(t, uint64(1), l.Head())
	require.Equal(t, uint64(1), l.Tail())

	// greater than head
	require.NoError(t, l.Insert(2, 30, 1, 0))
	require.Equal(t, uint64(2), l.Head())

	// between
	require.NoError(t, l.Insert(3, 20, 1, 2))
	require.Equal(t, []uint64{2, 3, 1}, l.Keys())

	// least
	require.NoError(t, l.Insert(4, 5, 0, 1))
	require.Equal(t, uint64(4), l.Tail())
	require.Equal(t, []uint64{2, 3, 1, 4}, l.Keys())
}

func TestInsertRejections(t *testing.T) {
	l := NewSortedList()
	require.NoError(t, l.Insert(1, 10, 0, 0))

	require.True(t, xerrors.Is(l.Insert(0, 0, 0, 1), xerrors.ErrQueueHint))
	require.Equal(t, xerrors.ErrDuplicatedKey, l.Insert(1, 99, 0, 1))
	require.True(t, xerrors.Is(l.Insert(2, 5, 2, 0), xerrors.ErrQueueHint))   // key equals hint
	require.True(t, xerrors.Is(l.Insert(2, 5, 0, 0), xerrors.ErrQueueHint))   // no hints on non-empty
	require.True(t, xerrors.Is(l.Insert(2, 5, 7, 0), xerrors.ErrQueueHint))   // unknown member
	require.True(t, xerrors.Is(l.Insert(2, 99, 0, 1), xerrors.ErrQueueHint))  // value above greater hint
	require.Equal(t, 1, l.Len())
}

func TestStaleHintOneStep(t *testing.T) {
	l := NewSortedList()
	require.NoError(t, l.Insert(1, 10, 0, 0))
	require.NoError(t, l.Insert(2, 20, 1, 0))
	require.NoError(t, l.Insert(3, 30, 2, 0))

	// (1, 3) is no longer adjacent; the greater hint's own lesser link
	// recovers the position (2, 3)
	require.NoError(t, l.Insert(4, 25, 1, 3))
	require.Equal(t, []uint64{3, 4, 2, 1}, l.Keys())

	// (1, 0) is not a head position for 15; one step along the lesser hint
	// recovers (1, 2)
	require.NoError(t, l.Insert(5, 15, 1, 0))
	require.Equal(t, []uint64{3, 4, 2, 5, 1}, l.Keys())
}

func TestPushRemove(t *testing.T) {
	l := NewSortedList()
	for pid := uint64(1); pid <= 5; pid++ {
		require.NoError(t, l.Push(pid))
	}
	// equal values: Push lands at the least end
	require.Equal(t, 5, l.Len())

	require.NoError(t, l.Remove(3))
	require.False(t, l.Contains(3))
	require.Equal(t, 4, l.Len())
	require.Equal(t, xerrors.ErrNotFoundResult, l.Remove(3))

	// remove the remaining ones from both ends
	require.NoError(t, l.Remove(l.Head()))
	require.NoError(t, l.Remove(l.Tail()))
	require.Equal(t, 2, l.Len())
}

func TestUpdateRollback(t *testing.T) {
	l := NewSortedList()
	require.NoError(t, l.Insert(1, 10, 0, 0))
	require.NoError(t, l.Insert(2, 20, 1, 0))
	require.NoError(t, l.Insert(3, 30, 2, 0))

	// bad hints: element must come back at its old position with its old value
	xerr := l.Update(2, 99, 1, 2)
	require.True(t, xerrors.Is(xerr, xerrors.ErrQueueHint))
	v, ok := l.ValueOf(2)
	require.True(t, ok)
	require.Equal(t, int64(20), v)
	require.Equal(t, []uint64{3, 2, 1}, l.Keys())

	require.NoError(t, l.Update(2, 99, 3, 0))
	require.Equal(t, []uint64{2, 3, 1}, l.Keys())

	require.Equal(t, xerrors.ErrNotFoundResult, l.Update(7, 1, 0, 0))
}

func TestHeadNPopN(t *testing.T) {
	l := NewSortedList()
	require.NoError(t, l.Insert(1, 10, 0, 0))
	require.NoError(t, l.Insert(2, 20, 1, 0))
	require.NoError(t, l.Insert(3, 30, 2, 0))

	_, xerr := l.HeadN(4)
	require.True(t, xerrors.Is(xerr, xerrors.ErrIndexOutOfRange))

	keys, xerr := l.HeadN(2)
	require.NoError(t, xerr)
	require.Equal(t, []uint64{3, 2}, keys)
	require.Equal(t, 3, l.Len())

	keys, xerr = l.PopN(2)
	require.NoError(t, xerr)
	require.Equal(t, []uint64{3, 2}, keys)
	require.Equal(t, 1, l.Len())
	require.Equal(t, uint64(1), l.Head())
	require.Equal(t, uint64(1), l.Tail())
}

func TestOrderingProperty(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	l := NewSortedList()

	for pid := uint64(1); pid <= 200; pid++ {
		require.NoError(t, l.Push(pid))
		// random upvote with a fresh exact hint
		value := int64(rnd.Intn(1000))
		lesser, greater := exactHints(l, pid, value)
		require.NoError(t, l.Update(pid, value, lesser, greater))
	}

	keys := l.Keys()
	require.Len(t, keys, 200)
	for i := 1; i < len(keys); i++ {
		prev, _ := l.ValueOf(keys[i-1])
		cur, _ := l.ValueOf(keys[i])
		require.GreaterOrEqual(t, prev, cur)
	}
}

// exactHints walks the list to find the position key would occupy at value,
// skipping key itself.
func exactHints(l *SortedList, key uint64, value int64) (uint64, uint64) {
	var greater uint64
	for cur := l.Head(); cur != 0; {
		if cur == key {
			cur = l.elements[cur].lesser
			continue
		}
		if v, _ := l.ValueOf(cur); v < value {
			return cur, greater
		}
		greater = cur
		cur = l.elements[cur].lesser
	}
	return 0, greater
}

func TestJSONRoundTrip(t *testing.T) {
	l := NewSortedList()
	require.NoError(t, l.Insert(1, 10, 0, 0))
	require.NoError(t, l.Insert(2, 30, 1, 0))
	require.NoError(t, l.Insert(3, 20, 1, 2))

	bz, err := json.Marshal(l)
	require.NoError(t, err)

	l2 := NewSortedList()
	require.NoError(t, json.Unmarshal(bz, l2))
	require.Equal(t, l.Keys(), l2.Keys())
	for _, key := range l.Keys() {
		v1, _ := l.ValueOf(key)
		v2, _ := l2.ValueOf(key)
		require.Equal(t, v1, v2)
	}
}
