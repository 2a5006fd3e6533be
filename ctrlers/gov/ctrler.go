package gov

import (
	"bytes"
	"sync"
	"sync/atomic"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	ctrlertypes "github.com/halochain/halo-gov/ctrlers/types"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// GovCtrler is the proposal lifecycle engine. Externally submitted operations
// run one at a time to completion; the atomic inCall flag rejects re-entrant
// invocation of any guarded entry point for the duration of the outer call.
type GovCtrler struct {
	params *ctrlertypes.GovParams
	owner  types.Address

	paramsLedger ledger.ILedger[*ctrlertypes.GovParams]
	stateLedger  ledger.ILedger[*govState]
	propLedger   ledger.ILedger[*proposal.Proposal]
	voterLedger  ledger.ILedger[*Voter]
	refundLedger ledger.ILedger[*Refund]
	constLedger  ledger.ILedger[*Constitution]
	hotfixLedger ledger.ILedger[*Hotfix]

	state *govState

	acctHandler   ctrlertypes.IAccountHandler
	stakeHandler  ctrlertypes.IStakeHandler
	valsetHandler ctrlertypes.IValidatorSetHandler
	dispatcher    ctrlertypes.IDispatchHandler

	logger log.Logger
	inCall int32
	mtx    sync.RWMutex
}

// Handlers bundles the external collaborators the engine consumes.
type Handlers struct {
	Account      ctrlertypes.IAccountHandler
	Stake        ctrlertypes.IStakeHandler
	ValidatorSet ctrlertypes.IValidatorSetHandler
	Dispatch     ctrlertypes.IDispatchHandler
}

// NewGovCtrler opens the engine over durable ledgers under dbDir. genParams
// is used only when no parameters were persisted before; pass nil for the
// defaults.
func NewGovCtrler(dbDir string, owner types.Address, genParams *ctrlertypes.GovParams, handlers Handlers, logger log.Logger) (*GovCtrler, xerrors.XError) {
	paramsLedger, xerr := ledger.NewSimpleLedger[*ctrlertypes.GovParams]("gov_params", dbDir, 1, func() *ctrlertypes.GovParams { return &ctrlertypes.GovParams{} })
	if xerr != nil {
		return nil, xerr
	}
	stateLedger, xerr := ledger.NewSimpleLedger[*govState]("gov_state", dbDir, 1, func() *govState { return &govState{} })
	if xerr != nil {
		return nil, xerr
	}
	propLedger, xerr := ledger.NewSimpleLedger[*proposal.Proposal]("proposal", dbDir, 128, func() *proposal.Proposal { return &proposal.Proposal{} })
	if xerr != nil {
		return nil, xerr
	}
	voterLedger, xerr := ledger.NewSimpleLedger[*Voter]("voter", dbDir, 1024, func() *Voter { return &Voter{} })
	if xerr != nil {
		return nil, xerr
	}
	refundLedger, xerr := ledger.NewSimpleLedger[*Refund]("refund", dbDir, 128, func() *Refund { return &Refund{} })
	if xerr != nil {
		return nil, xerr
	}
	constLedger, xerr := ledger.NewSimpleLedger[*Constitution]("constitution", dbDir, 128, func() *Constitution { return &Constitution{} })
	if xerr != nil {
		return nil, xerr
	}
	hotfixLedger, xerr := ledger.NewSimpleLedger[*Hotfix]("hotfix", dbDir, 128, func() *Hotfix { return &Hotfix{} })
	if xerr != nil {
		return nil, xerr
	}

	return newGovCtrler(owner, genParams, handlers, logger,
		paramsLedger, stateLedger, propLedger, voterLedger, refundLedger, constLedger, hotfixLedger)
}

// NewMemGovCtrler backs the engine with in-memory ledgers.
func NewMemGovCtrler(owner types.Address, genParams *ctrlertypes.GovParams, handlers Handlers, logger log.Logger) (*GovCtrler, xerrors.XError) {
	paramsLedger, _ := ledger.NewMemLedger[*ctrlertypes.GovParams](func() *ctrlertypes.GovParams { return &ctrlertypes.GovParams{} })
	stateLedger, _ := ledger.NewMemLedger[*govState](func() *govState { return &govState{} })
	propLedger, _ := ledger.NewMemLedger[*proposal.Proposal](func() *proposal.Proposal { return &proposal.Proposal{} })
	voterLedger, _ := ledger.NewMemLedger[*Voter](func() *Voter { return &Voter{} })
	refundLedger, _ := ledger.NewMemLedger[*Refund](func() *Refund { return &Refund{} })
	constLedger, _ := ledger.NewMemLedger[*Constitution](func() *Constitution { return &Constitution{} })
	hotfixLedger, _ := ledger.NewMemLedger[*Hotfix](func() *Hotfix { return &Hotfix{} })

	return newGovCtrler(owner, genParams, handlers, logger,
		paramsLedger, stateLedger, propLedger, voterLedger, refundLedger, constLedger, hotfixLedger)
}

func newGovCtrler(
	owner types.Address,
	genParams *ctrlertypes.GovParams,
	handlers Handlers,
	logger log.Logger,
	paramsLedger ledger.ILedger[*ctrlertypes.GovParams],
	stateLedger ledger.ILedger[*govState],
	propLedger ledger.ILedger[*proposal.Proposal],
	voterLedger ledger.ILedger[*Voter],
	refundLedger ledger.ILedger[*Refund],
	constLedger ledger.ILedger[*Constitution],
	hotfixLedger ledger.ILedger[*Hotfix],
) (*GovCtrler, xerrors.XError) {

	params, xerr := paramsLedger.Get((&ctrlertypes.GovParams{}).Key())
	if xerr != nil && xerr != xerrors.ErrNotFoundResult {
		return nil, xerr
	} else if params == nil {
		params = genParams
		if params == nil {
			params = ctrlertypes.DefaultGovParams()
		}
		if xerr := paramsLedger.Set(params); xerr != nil {
			return nil, xerr
		}
	}

	state, xerr := stateLedger.Get(govStateKey)
	if xerr != nil && xerr != xerrors.ErrNotFoundResult {
		return nil, xerr
	} else if state == nil {
		state = newGovState()
		if xerr := stateLedger.Set(state); xerr != nil {
			return nil, xerr
		}
	}

	return &GovCtrler{
		params:        params,
		owner:         owner,
		paramsLedger:  paramsLedger,
		stateLedger:   stateLedger,
		propLedger:    propLedger,
		voterLedger:   voterLedger,
		refundLedger:  refundLedger,
		constLedger:   constLedger,
		hotfixLedger:  hotfixLedger,
		state:         state,
		acctHandler:   handlers.Account,
		stakeHandler:  handlers.Stake,
		valsetHandler: handlers.ValidatorSet,
		dispatcher:    handlers.Dispatch,
		logger:        logger.With("module", "halo_GovCtrler"),
	}, nil
}

// begin acquires the operation guard. The reentry flag is checked before the
// mutex so that a nested call from within a dispatched transaction fails
// instead of deadlocking.
func (ctrler *GovCtrler) begin() xerrors.XError {
	if !atomic.CompareAndSwapInt32(&ctrler.inCall, 0, 1) {
		return xerrors.ErrReentry
	}
	ctrler.mtx.Lock()
	return nil
}

func (ctrler *GovCtrler) end() {
	ctrler.mtx.Unlock()
	atomic.StoreInt32(&ctrler.inCall, 0)
}

func (ctrler *GovCtrler) isOwner(addr types.Address) bool {
	return bytes.Equal(addr, ctrler.owner)
}

func (ctrler *GovCtrler) isApprover(addr types.Address) bool {
	approver := ctrler.params.Approver()
	return len(approver) > 0 && bytes.Equal(addr, approver)
}

func (ctrler *GovCtrler) Owner() types.Address {
	return ctrler.owner
}

func (ctrler *GovCtrler) GetGovParams() *ctrlertypes.GovParams {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.params
}

func (ctrler *GovCtrler) getOrNewVoter(addr types.Address) (*Voter, xerrors.XError) {
	voter, xerr := ctrler.voterLedger.Get(ledger.ToLedgerKey(addr))
	if xerr != nil {
		if xerr != xerrors.ErrNotFoundResult {
			return nil, xerr
		}
		voter = NewVoter(addr)
	}
	return voter, nil
}

func (ctrler *GovCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h0, v0, xerr := ctrler.paramsLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := ctrler.stateLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h2, v2, xerr := ctrler.propLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h3, v3, xerr := ctrler.voterLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h4, v4, xerr := ctrler.refundLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h5, v5, xerr := ctrler.constLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h6, v6, xerr := ctrler.hotfixLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}

	if v0 != v1 || v1 != v2 || v2 != v3 || v3 != v4 || v4 != v5 || v5 != v6 {
		return nil, -1, xerrors.ErrCommit.Wrapf("wrong versions - v0:%v, v1:%v, v2:%v, v3:%v, v4:%v, v5:%v, v6:%v",
			v0, v1, v2, v3, v4, v5, v6)
	}

	return ethcrypto.Keccak256(h0, h1, h2, h3, h4, h5, h6), v0, nil
}

func (ctrler *GovCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	for _, closer := range []func() xerrors.XError{
		ctrler.paramsLedger.Close,
		ctrler.stateLedger.Close,
		ctrler.propLedger.Close,
		ctrler.voterLedger.Close,
		ctrler.refundLedger.Close,
		ctrler.constLedger.Close,
		ctrler.hotfixLedger.Close,
	} {
		if xerr := closer(); xerr != nil {
			ctrler.logger.Error("ledger close", "error", xerr.Error())
		}
	}
	return nil
}

var _ ctrlertypes.ILedgerHandler = (*GovCtrler)(nil)
