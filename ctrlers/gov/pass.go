package gov

import (
	"github.com/holiman/uint256"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	ctrlertypes "github.com/halochain/halo-gov/ctrlers/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// IsProposalPassing reports whether the dequeued proposal at the slot would
// pass under the current tally, baseline and constitution.
func (ctrler *GovCtrler) IsProposalPassing(pid uint64, slot int64) (bool, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.dequeuedProposalAt(pid, slot)
	if xerr != nil {
		return false, xerr
	}
	return ctrler.isProposalPassing(prop), nil
}

// isProposalPassing applies the quorum-adjusted support check from the
// referendum tally. The required participation is derived from the adaptive
// baseline; any shortfall is counted as additional "no" weight so that a
// low-turnout referendum cannot pass on a handful of "yes" votes.
// Every transaction in the bundle must clear its constitutional threshold.
func (ctrler *GovCtrler) isProposalPassing(prop *proposal.Proposal) bool {
	if len(prop.Transactions) == 0 {
		return true
	}
	if prop.Tally.Yes == 0 {
		return false
	}

	quorum := ctrlertypes.MulRatio(ctrler.params.ParticipationBaseline(), ctrler.params.BaselineQuorumFactor())
	required := ctrlertypes.ApplyRatio(quorum, prop.NetworkWeight)

	paddedNo := prop.Tally.No
	if short := required - prop.Tally.Total(); short > 0 {
		paddedNo += short
	}

	yes := uint256.NewInt(uint64(prop.Tally.Yes))
	total := uint256.NewInt(uint64(prop.Tally.Yes + paddedNo))
	support := new(uint256.Int).Mul(yes, ctrlertypes.RatioScale)

	for _, tx := range prop.Transactions {
		threshold := ctrler.constitutionThreshold(tx.Destination, tx.Selector())
		if support.Cmp(new(uint256.Int).Mul(threshold, total)) <= 0 {
			return false
		}
	}
	return true
}

// updateParticipationBaseline folds a finished referendum's turnout into the
// adaptive baseline as an exponential moving average, clamped at the
// configured floor. Proposals that never reached a referendum leave the
// baseline untouched.
func (ctrler *GovCtrler) updateParticipationBaseline(prop *proposal.Proposal) {
	if !prop.Approved || prop.NetworkWeight <= 0 {
		return
	}

	participation := ctrlertypes.RatioOf(prop.Tally.Total(), prop.NetworkWeight)
	factor := ctrler.params.BaselineUpdateFactor()
	keep := new(uint256.Int).Sub(ctrlertypes.RatioScale, factor)

	baseline := new(uint256.Int).Add(
		ctrlertypes.MulRatio(participation, factor),
		ctrlertypes.MulRatio(ctrler.params.ParticipationBaseline(), keep),
	)
	if floor := ctrler.params.ParticipationFloor(); baseline.Cmp(floor) < 0 {
		baseline = floor
	}

	ctrler.params.SetParticipationBaseline(baseline)
	_ = ctrler.paramsLedger.Set(ctrler.params)
	ctrler.logger.Debug("Participation baseline is updated",
		"proposal", prop.ID, "participation", participation.Dec(), "baseline", baseline.Dec())
}
