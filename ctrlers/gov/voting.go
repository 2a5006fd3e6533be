package gov

import (
	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// Approve marks a dequeued proposal as approved and freezes the first
// network-weight snapshot. Only the configured approver may call it, and
// only while the proposal is in the Approval stage. An expired subject is
// cleaned up and reported as a no-op rather than a failure.
func (ctrler *GovCtrler) Approve(from types.Address, pid uint64, slot int64, now int64) (bool, xerrors.XError) {
	if xerr := ctrler.begin(); xerr != nil {
		return false, xerr
	}
	defer ctrler.end()

	ctrler.dequeueIfReady(now)

	if !ctrler.isApprover(from) {
		return false, xerrors.ErrNoRight
	}

	prop, xerr := ctrler.dequeuedProposalAt(pid, slot)
	if xerr != nil {
		return false, xerr
	}
	if ctrler.isDequeuedExpired(prop, now) {
		ctrler.cleanupDequeued(slot, prop)
		return false, nil
	}
	if prop.Approved {
		return false, xerrors.ErrAlreadyApproved
	}
	if prop.StageAt(now, ctrler.params.StageDurations()) != proposal.StageApproval {
		return false, xerrors.ErrStage
	}

	prop.Approved = true
	prop.NetworkWeight = ctrler.stakeHandler.TotalPower()
	_ = ctrler.propLedger.Set(prop)

	ctrler.logger.Info("Proposal is approved", "proposal", pid, "slot", slot, "networkWeight", prop.NetworkWeight)
	return true, nil
}

// Vote casts or changes the caller's referendum vote at a dequeue slot. A
// prior record at the same slot for the same proposal is reversed before the
// new weight lands; a record left by the slot's previous occupant is treated
// as absent. The network-weight snapshot is refreshed on every vote.
func (ctrler *GovCtrler) Vote(from types.Address, pid uint64, slot int64, value proposal.VoteValue, now int64) (bool, xerrors.XError) {
	if xerr := ctrler.begin(); xerr != nil {
		return false, xerr
	}
	defer ctrler.end()

	ctrler.dequeueIfReady(now)

	acct, xerr := ctrler.acctHandler.CanonicalAccount(from)
	if xerr != nil {
		return false, xerr
	}
	weight := ctrler.stakeHandler.PowerOf(acct)
	if weight <= 0 {
		return false, xerrors.ErrNoVotingPower
	}

	prop, xerr := ctrler.dequeuedProposalAt(pid, slot)
	if xerr != nil {
		return false, xerr
	}
	if ctrler.isDequeuedExpired(prop, now) {
		ctrler.cleanupDequeued(slot, prop)
		return false, nil
	}
	if !prop.Approved {
		return false, xerrors.ErrNotApproved
	}
	if prop.StageAt(now, ctrler.params.StageDurations()) != proposal.StageReferendum {
		return false, xerrors.ErrStage
	}
	if !value.IsValid() {
		return false, xerrors.ErrInvalidVote
	}

	voter, xerr := ctrler.getOrNewVoter(acct)
	if xerr != nil {
		return false, xerr
	}
	if prior := voter.Votes[slot]; prior != nil && prior.ProposalID == pid {
		prop.Tally.Revert(prior.Value, prior.Weight)
	}
	prop.Tally.Apply(value, weight)
	prop.NetworkWeight = ctrler.stakeHandler.TotalPower()

	voter.Votes[slot] = &VoteRecord{Value: value, ProposalID: pid, Weight: weight}
	voter.MostRecentReferendum = pid

	_ = ctrler.propLedger.Set(prop)
	_ = ctrler.voterLedger.Set(voter)

	ctrler.logger.Debug("Vote is cast",
		"proposal", pid, "slot", slot, "account", acct, "value", value.String(), "weight", weight)
	return true, nil
}

// RevokeVotes reverses the caller's tally contributions for every slot still
// holding the voted proposal in Referendum, and unconditionally clears all
// records. Stale records, whose slot rotated to another proposal, are swept
// without any tally reversal. Calling it again is a no-op.
func (ctrler *GovCtrler) RevokeVotes(from types.Address, now int64) (bool, xerrors.XError) {
	if xerr := ctrler.begin(); xerr != nil {
		return false, xerr
	}
	defer ctrler.end()

	ctrler.dequeueIfReady(now)

	acct, xerr := ctrler.acctHandler.CanonicalAccount(from)
	if xerr != nil {
		return false, xerr
	}
	voter, xerr := ctrler.getOrNewVoter(acct)
	if xerr != nil {
		return false, xerr
	}

	for slot, rec := range voter.Votes {
		if slot >= 0 && slot < int64(len(ctrler.state.Slots)) && ctrler.state.Slots[slot] == rec.ProposalID {
			prop, xerr := ctrler.dequeuedProposalAt(rec.ProposalID, slot)
			if xerr == nil {
				if ctrler.isDequeuedExpired(prop, now) {
					ctrler.cleanupDequeued(slot, prop)
				} else if prop.Approved && prop.StageAt(now, ctrler.params.StageDurations()) == proposal.StageReferendum {
					prop.Tally.Revert(rec.Value, rec.Weight)
					_ = ctrler.propLedger.Set(prop)
				}
			}
		}
		delete(voter.Votes, slot)
	}
	voter.MostRecentReferendum = 0
	_ = ctrler.voterLedger.Set(voter)

	ctrler.logger.Debug("Votes are revoked", "account", acct)
	return true, nil
}

// IsVoting reports whether the account's most recently touched referendum
// proposal is still live.
func (ctrler *GovCtrler) IsVoting(addr types.Address, now int64) bool {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	acct, xerr := ctrler.acctHandler.CanonicalAccount(addr)
	if xerr != nil {
		return false
	}
	voter, xerr := ctrler.getOrNewVoter(acct)
	if xerr != nil || voter.MostRecentReferendum == 0 {
		return false
	}
	for slot, pid := range ctrler.state.Slots {
		if pid != voter.MostRecentReferendum {
			continue
		}
		prop, xerr := ctrler.dequeuedProposalAt(pid, int64(slot))
		if xerr != nil {
			return false
		}
		return !ctrler.isDequeuedExpired(prop, now)
	}
	return false
}
