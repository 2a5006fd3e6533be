package gov

import (
	"sync/atomic"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	ctrlertypes "github.com/halochain/halo-gov/ctrlers/types"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

func TestReentryGuard(t *testing.T) {
	env := newTestEnv(t, nil)

	// simulate an operation in flight
	require.True(t, atomic.CompareAndSwapInt32(&env.ctrler.inCall, 0, 1))

	_, xerr := env.ctrler.Propose(types.RandAddress(), nil, uint256.NewInt(100), "", 10)
	require.Equal(t, xerrors.ErrReentry, xerr)
	_, xerr = env.ctrler.Vote(types.RandAddress(), 1, 0, 3, 10)
	require.Equal(t, xerrors.ErrReentry, xerr)
	require.Equal(t, xerrors.ErrReentry, env.ctrler.WhitelistHotfix(types.RandAddress(), make([]byte, 32)))

	atomic.StoreInt32(&env.ctrler.inCall, 0)
	_, xerr = env.ctrler.Propose(types.RandAddress(), nil, uint256.NewInt(100), "", 10)
	require.NoError(t, xerr)
}

func TestCommit(t *testing.T) {
	env := newTestEnv(t, nil)

	hash, ver, xerr := env.ctrler.Commit()
	require.NoError(t, xerr)
	require.Len(t, hash, 32)
	require.Equal(t, int64(0), ver)

	pid := env.propose(t, types.RandAddress(), nil, 10)

	// uncommitted writes are pending, not readable
	_, xerr = env.ctrler.propLedger.Read(ledger.ToLedgerKeyUint64(pid))
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	_, _, xerr = env.ctrler.Commit()
	require.NoError(t, xerr)

	prop, xerr := env.ctrler.propLedger.Read(ledger.ToLedgerKeyUint64(pid))
	require.NoError(t, xerr)
	require.Equal(t, pid, prop.ID)
}

func TestOwnerGatedSetters(t *testing.T) {
	env := newTestEnv(t, nil)

	require.Equal(t, xerrors.ErrNoRight, env.ctrler.SetQueueExpiry(types.RandAddress(), 60))
	require.Equal(t, xerrors.ErrInvalidParams, env.ctrler.SetQueueExpiry(env.owner, 0))
	require.NoError(t, env.ctrler.SetQueueExpiry(env.owner, 60))
	require.Equal(t, int64(60), env.ctrler.GetGovParams().QueueExpiry())

	newApprover := types.RandAddress()
	require.NoError(t, env.ctrler.SetApprover(env.owner, newApprover))
	require.False(t, env.ctrler.isApprover(env.approver))
	require.True(t, env.ctrler.isApprover(newApprover))

	over := new(uint256.Int).AddUint64(ctrlertypes.RatioScale, 1)
	require.Equal(t, xerrors.ErrInvalidParams, env.ctrler.SetBaselineQuorumFactor(env.owner, over))
}
