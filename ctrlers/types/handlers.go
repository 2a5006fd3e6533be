package types

import (
	abcitypes "github.com/tendermint/tendermint/abci/types"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

type ILedgerHandler interface {
	Commit() ([]byte, int64, xerrors.XError)
	Query(abcitypes.RequestQuery) ([]byte, xerrors.XError)
	Close() xerrors.XError
}

// IAccountHandler resolves a caller address to its canonical account. Voting
// records and hotfix whitelists are keyed by the canonical account so that a
// signer rotation does not double count.
type IAccountHandler interface {
	CanonicalAccount(types.Address) (types.Address, xerrors.XError)
}

// IStakeHandler supplies locked-stake voting weight.
type IStakeHandler interface {
	PowerOf(types.Address) int64
	TotalPower() int64
}

// IValidatorSetHandler exposes the current validator set for the hotfix
// quorum arithmetic.
type IValidatorSetHandler interface {
	Validators() ([]*abcitypes.Validator, int64)
	CurrentEpoch() int64
}

// IDispatchHandler invokes one bundled transaction against the rest of the
// system. The engine aborts the whole execution on the first failure.
type IDispatchHandler interface {
	Dispatch(*proposal.Transaction) xerrors.XError
}
