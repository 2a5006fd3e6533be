package ledger

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/halochain/halo-gov/types/xerrors"
)

const LEDGERKEYSIZE = 32

type LedgerKey = [32]byte

func ToLedgerKey(s []byte) LedgerKey {
	var ret LedgerKey
	n := len(s)
	if n > LEDGERKEYSIZE {
		n = LEDGERKEYSIZE
	}
	copy(ret[:], s[:n])
	return ret
}

// ToLedgerKeyUint64 encodes an identifier counter as a big-endian ledger key.
func ToLedgerKeyUint64(v uint64) LedgerKey {
	var ret LedgerKey
	binary.BigEndian.PutUint64(ret[LEDGERKEYSIZE-8:], v)
	return ret
}

type LedgerKeyList []LedgerKey

func (a LedgerKeyList) Len() int {
	return len(a)
}
func (a LedgerKeyList) Less(i, j int) bool {
	return bytes.Compare(a[i][:], a[j][:]) > 0
}
func (a LedgerKeyList) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}

var _ sort.Interface = LedgerKeyList(nil)

type ILedgerItem interface {
	Key() LedgerKey
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

type ILedger[T ILedgerItem] interface {
	Set(T) xerrors.XError
	CancelSet(LedgerKey) xerrors.XError
	Get(LedgerKey) (T, xerrors.XError)
	Del(LedgerKey) (T, xerrors.XError)
	CancelDel(LedgerKey) xerrors.XError
	Read(LedgerKey) (T, xerrors.XError)
	IterateAllItems(func(T) xerrors.XError) xerrors.XError
	IterateGotItems(func(T) xerrors.XError) xerrors.XError
	IterateUpdatedItems(func(T) xerrors.XError) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Close() xerrors.XError
}
