package gov

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	ctrlertypes "github.com/halochain/halo-gov/ctrlers/types"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

type acctHandlerMock struct {
	// signer -> canonical account. missing entries resolve to themselves.
	canon map[string]types.Address
}

func (m *acctHandlerMock) CanonicalAccount(addr types.Address) (types.Address, xerrors.XError) {
	if m.canon != nil {
		if acct, ok := m.canon[addr.String()]; ok {
			return acct, nil
		}
	}
	return addr, nil
}

var _ ctrlertypes.IAccountHandler = (*acctHandlerMock)(nil)

type stakeHandlerMock struct {
	powers map[string]int64
	total  int64
}

func (m *stakeHandlerMock) PowerOf(addr types.Address) int64 {
	return m.powers[addr.String()]
}

func (m *stakeHandlerMock) TotalPower() int64 {
	return m.total
}

func (m *stakeHandlerMock) setPower(addr types.Address, power int64) {
	if m.powers == nil {
		m.powers = make(map[string]int64)
	}
	m.powers[addr.String()] = power
}

var _ ctrlertypes.IStakeHandler = (*stakeHandlerMock)(nil)

type valsetHandlerMock struct {
	vals  []*abcitypes.Validator
	epoch int64
}

func (m *valsetHandlerMock) Validators() ([]*abcitypes.Validator, int64) {
	return m.vals, int64(len(m.vals))
}

func (m *valsetHandlerMock) CurrentEpoch() int64 {
	return m.epoch
}

var _ ctrlertypes.IValidatorSetHandler = (*valsetHandlerMock)(nil)

type dispatcherMock struct {
	dispatched []*proposal.Transaction
	reject     bool
}

func (m *dispatcherMock) Dispatch(tx *proposal.Transaction) xerrors.XError {
	if m.reject {
		return xerrors.New("dispatch is rejected")
	}
	m.dispatched = append(m.dispatched, tx)
	return nil
}

var _ ctrlertypes.IDispatchHandler = (*dispatcherMock)(nil)

type testEnv struct {
	ctrler     *GovCtrler
	owner      types.Address
	approver   types.Address
	acctMock   *acctHandlerMock
	stakeMock  *stakeHandlerMock
	valsetMock *valsetHandlerMock
	dispMock   *dispatcherMock
}

func newTestEnv(t *testing.T, params *ctrlertypes.GovParams) *testEnv {
	env := &testEnv{
		owner:      types.RandAddress(),
		approver:   types.RandAddress(),
		acctMock:   &acctHandlerMock{},
		stakeMock:  &stakeHandlerMock{},
		valsetMock: &valsetHandlerMock{epoch: 1},
		dispMock:   &dispatcherMock{},
	}
	if params == nil {
		params = ctrlertypes.Test1GovParams()
	}
	params.SetApprover(env.approver)

	ctrler, xerr := NewMemGovCtrler(env.owner, params, Handlers{
		Account:      env.acctMock,
		Stake:        env.stakeMock,
		ValidatorSet: env.valsetMock,
		Dispatch:     env.dispMock,
	}, log.NewNopLogger())
	require.NoError(t, xerr)

	env.ctrler = ctrler
	return env
}

// propose submits an empty-bundle proposal at the minimum deposit.
func (env *testEnv) propose(t *testing.T, from types.Address, txs []*proposal.Transaction, now int64) uint64 {
	pid, xerr := env.ctrler.Propose(from, txs, env.ctrler.GetGovParams().MinDeposit(), "https://example.net/prop", now)
	require.NoError(t, xerr)
	return pid
}

func testTx(payload []byte) *proposal.Transaction {
	return &proposal.Transaction{
		Destination: types.RandAddress(),
		Value:       uint256.NewInt(0),
		Payload:     payload,
	}
}
