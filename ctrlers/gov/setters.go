package gov

import (
	"github.com/holiman/uint256"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	ctrlertypes "github.com/halochain/halo-gov/ctrlers/types"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// Parameter setters are owner-only administrative operations. In a deployed
// network the owner is expected to be the engine itself, reached through an
// executed proposal's transaction bundle.

func (ctrler *GovCtrler) setParam(from types.Address, apply func() xerrors.XError) xerrors.XError {
	if xerr := ctrler.begin(); xerr != nil {
		return xerr
	}
	defer ctrler.end()

	if !ctrler.isOwner(from) {
		return xerrors.ErrNoRight
	}
	if xerr := apply(); xerr != nil {
		return xerr
	}
	return ctrler.paramsLedger.Set(ctrler.params)
}

func (ctrler *GovCtrler) SetApprover(from, approver types.Address) xerrors.XError {
	return ctrler.setParam(from, func() xerrors.XError {
		ctrler.params.SetApprover(approver)
		ctrler.logger.Info("Approver is changed", "approver", approver)
		return nil
	})
}

func (ctrler *GovCtrler) SetMinDeposit(from types.Address, v *uint256.Int) xerrors.XError {
	return ctrler.setParam(from, func() xerrors.XError {
		if v == nil {
			return xerrors.ErrInvalidParams
		}
		ctrler.params.SetMinDeposit(v)
		return nil
	})
}

func (ctrler *GovCtrler) SetQueueExpiry(from types.Address, v int64) xerrors.XError {
	return ctrler.setParam(from, func() xerrors.XError {
		if v <= 0 {
			return xerrors.ErrInvalidParams
		}
		ctrler.params.SetQueueExpiry(v)
		return nil
	})
}

func (ctrler *GovCtrler) SetDequeueFrequency(from types.Address, v int64) xerrors.XError {
	return ctrler.setParam(from, func() xerrors.XError {
		if v <= 0 {
			return xerrors.ErrInvalidParams
		}
		ctrler.params.SetDequeueFrequency(v)
		return nil
	})
}

func (ctrler *GovCtrler) SetConcurrentProposals(from types.Address, v int64) xerrors.XError {
	return ctrler.setParam(from, func() xerrors.XError {
		if v <= 0 {
			return xerrors.ErrInvalidParams
		}
		ctrler.params.SetConcurrentProposals(v)
		return nil
	})
}

func (ctrler *GovCtrler) SetStageDurations(from types.Address, d proposal.StageDurations) xerrors.XError {
	return ctrler.setParam(from, func() xerrors.XError {
		if d.Approval <= 0 || d.Referendum <= 0 || d.Execution <= 0 {
			return xerrors.ErrInvalidParams
		}
		ctrler.params.SetStageDurations(d)
		return nil
	})
}

func (ctrler *GovCtrler) SetParticipationBaseline(from types.Address, v *uint256.Int) xerrors.XError {
	return ctrler.setParam(from, func() xerrors.XError {
		if v == nil || v.IsZero() || v.Cmp(ctrlertypes.RatioScale) > 0 {
			return xerrors.ErrInvalidParams
		}
		ctrler.params.SetParticipationBaseline(v)
		return nil
	})
}

func (ctrler *GovCtrler) SetParticipationFloor(from types.Address, v *uint256.Int) xerrors.XError {
	return ctrler.setParam(from, func() xerrors.XError {
		if v == nil || v.Cmp(ctrlertypes.RatioScale) > 0 {
			return xerrors.ErrInvalidParams
		}
		ctrler.params.SetParticipationFloor(v)
		return nil
	})
}

func (ctrler *GovCtrler) SetBaselineUpdateFactor(from types.Address, v *uint256.Int) xerrors.XError {
	return ctrler.setParam(from, func() xerrors.XError {
		if v == nil || v.IsZero() || v.Cmp(ctrlertypes.RatioScale) > 0 {
			return xerrors.ErrInvalidParams
		}
		ctrler.params.SetBaselineUpdateFactor(v)
		return nil
	})
}

func (ctrler *GovCtrler) SetBaselineQuorumFactor(from types.Address, v *uint256.Int) xerrors.XError {
	return ctrler.setParam(from, func() xerrors.XError {
		if v == nil || v.IsZero() || v.Cmp(ctrlertypes.RatioScale) > 0 {
			return xerrors.ErrInvalidParams
		}
		ctrler.params.SetBaselineQuorumFactor(v)
		return nil
	})
}
