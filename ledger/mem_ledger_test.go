package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halochain/halo-gov/types/xerrors"
)

type testItem struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func (i *testItem) Key() LedgerKey {
	return ToLedgerKey([]byte(i.Name))
}

func (i *testItem) Encode() ([]byte, xerrors.XError) {
	bz, err := json.Marshal(i)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (i *testItem) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, i); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ILedgerItem = (*testItem)(nil)

func newTestLedger() *MemLedger[*testItem] {
	l, _ := NewMemLedger[*testItem](func() *testItem { return &testItem{} })
	return l
}

func TestMemLedgerSetGet(t *testing.T) {
	l := newTestLedger()
	item := &testItem{Name: "a", Count: 1}

	_, xerr := l.Get(item.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	require.NoError(t, l.Set(item))

	// pending writes are visible to Get but not to Read
	got, xerr := l.Get(item.Key())
	require.NoError(t, xerr)
	require.Equal(t, item, got)
	_, xerr = l.Read(item.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	_, _, xerr = l.Commit()
	require.NoError(t, xerr)

	got, xerr = l.Read(item.Key())
	require.NoError(t, xerr)
	require.Equal(t, item.Count, got.Count)
}

func TestMemLedgerDel(t *testing.T) {
	l := newTestLedger()
	item := &testItem{Name: "a", Count: 1}
	require.NoError(t, l.Set(item))
	_, _, xerr := l.Commit()
	require.NoError(t, xerr)

	deleted, xerr := l.Del(item.Key())
	require.NoError(t, xerr)
	require.Equal(t, item.Name, deleted.Name)

	// pending removal hides the committed value
	_, xerr = l.Get(item.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	// a new Set cancels the pending removal
	require.NoError(t, l.Set(&testItem{Name: "a", Count: 2}))
	got, xerr := l.Get(item.Key())
	require.NoError(t, xerr)
	require.Equal(t, int64(2), got.Count)

	_, _, xerr = l.Commit()
	require.NoError(t, xerr)
	got, xerr = l.Read(item.Key())
	require.NoError(t, xerr)
	require.Equal(t, int64(2), got.Count)
}

func TestMemLedgerCancelSet(t *testing.T) {
	l := newTestLedger()
	item := &testItem{Name: "a", Count: 1}
	require.NoError(t, l.Set(item))
	require.NoError(t, l.CancelSet(item.Key()))
	_, _, xerr := l.Commit()
	require.NoError(t, xerr)

	_, xerr = l.Read(item.Key())
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)
}

func TestMemLedgerIterate(t *testing.T) {
	l := newTestLedger()
	require.NoError(t, l.Set(&testItem{Name: "a", Count: 1}))
	require.NoError(t, l.Set(&testItem{Name: "b", Count: 2}))

	updated := 0
	require.NoError(t, l.IterateUpdatedItems(func(i *testItem) xerrors.XError {
		updated++
		return nil
	}))
	require.Equal(t, 2, updated)

	_, _, xerr := l.Commit()
	require.NoError(t, xerr)

	all := 0
	require.NoError(t, l.IterateAllItems(func(i *testItem) xerrors.XError {
		all++
		return nil
	}))
	require.Equal(t, 2, all)

	// nothing pending after the commit
	updated = 0
	require.NoError(t, l.IterateUpdatedItems(func(i *testItem) xerrors.XError {
		updated++
		return nil
	}))
	require.Equal(t, 0, updated)
}

func TestLedgerKeyUint64(t *testing.T) {
	k1 := ToLedgerKeyUint64(1)
	k2 := ToLedgerKeyUint64(2)
	require.NotEqual(t, k1, k2)
	require.Equal(t, byte(1), k1[LEDGERKEYSIZE-1])
	require.Equal(t, ToLedgerKeyUint64(1), k1)
}
