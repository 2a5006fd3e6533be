package gov

import (
	"github.com/holiman/uint256"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// dequeueIfReady pops the top-weight queue entries into free dequeued slots.
// It runs at most once per dequeueFrequency, as a side effect of nearly every
// entry point. A popped proposal that already exceeded the queue expiry is
// dropped with its deposit forfeited; all others get their deposit queued for
// refund and their timestamp restamped to now, which anchors every later
// stage computation.
func (ctrler *GovCtrler) dequeueIfReady(now int64) {
	if now < ctrler.state.LastDequeue+ctrler.params.DequeueFrequency() {
		return
	}

	// the interval is consumed even over an empty queue
	ctrler.state.LastDequeue = now
	defer func() { _ = ctrler.stateLedger.Set(ctrler.state) }()

	if ctrler.state.Queue.Len() == 0 {
		return
	}

	n := int(ctrler.params.ConcurrentProposals())
	if qlen := ctrler.state.Queue.Len(); qlen < n {
		n = qlen
	}
	ids, xerr := ctrler.state.Queue.PopN(n)
	if xerr != nil {
		ctrler.logger.Error("dequeue", "error", xerr.Error())
		return
	}

	for _, pid := range ids {
		prop, xerr := ctrler.propLedger.Get(ledger.ToLedgerKeyUint64(pid))
		if xerr != nil {
			ctrler.logger.Error("dequeue", "error", xerr.Error(), "proposal", pid)
			continue
		}
		if prop.IsQueueExpired(now, ctrler.params.QueueExpiry()) {
			_, _ = ctrler.propLedger.Del(prop.Key())
			ctrler.logger.Info("Queued proposal is expired", "proposal", pid, "forfeited", prop.Deposit.Dec())
			continue
		}

		ctrler.creditRefund(prop.Proposer, prop.Deposit)
		prop.DequeuedAt = now
		_ = ctrler.propLedger.Set(prop)

		slot := ctrler.state.fillSlot(pid)
		ctrler.logger.Debug("Proposal is dequeued", "proposal", pid, "slot", slot)
	}
}

func (ctrler *GovCtrler) creditRefund(addr types.Address, amount *uint256.Int) {
	r, xerr := ctrler.refundLedger.Get(ledger.ToLedgerKey(addr))
	if xerr != nil {
		r = NewRefund(addr)
	}
	r.Amount = new(uint256.Int).Add(r.Amount, amount)
	_ = ctrler.refundLedger.Set(r)
}

// dequeuedProposalAt fetches the proposal occupying a slot, insisting that it
// is the one the caller named.
func (ctrler *GovCtrler) dequeuedProposalAt(pid uint64, slot int64) (*proposal.Proposal, xerrors.XError) {
	if slot < 0 || slot >= int64(len(ctrler.state.Slots)) {
		return nil, xerrors.ErrIndexOutOfRange.Wrapf("slot %d, %d slots", slot, len(ctrler.state.Slots))
	}
	if ctrler.state.Slots[slot] != pid {
		return nil, xerrors.ErrNotDequeued
	}
	prop, xerr := ctrler.propLedger.Get(ledger.ToLedgerKeyUint64(pid))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return nil, xerrors.ErrNotFoundProposal
		}
		return nil, xerr
	}
	return prop, nil
}

// isDequeuedExpired evaluates the lazy expiry of a dequeued proposal: absorbed
// by time, past Approval unapproved, or at Execution while not passing.
func (ctrler *GovCtrler) isDequeuedExpired(prop *proposal.Proposal, now int64) bool {
	switch prop.StageAt(now, ctrler.params.StageDurations()) {
	case proposal.StageExpiration:
		return true
	case proposal.StageExecution:
		return !prop.Approved || !ctrler.isProposalPassing(prop)
	case proposal.StageReferendum:
		return !prop.Approved
	default:
		return false
	}
}

// cleanupDequeued deletes a finished dequeued proposal: the participation
// baseline absorbs its turnout, the slot becomes a hole, and the storage
// record is removed for good (proposal ids are never reused).
func (ctrler *GovCtrler) cleanupDequeued(slot int64, prop *proposal.Proposal) {
	ctrler.updateParticipationBaseline(prop)
	ctrler.state.clearSlot(slot)
	_, _ = ctrler.propLedger.Del(prop.Key())
	_ = ctrler.stateLedger.Set(ctrler.state)
	ctrler.logger.Debug("Dequeued proposal is cleaned up", "proposal", prop.ID, "slot", slot)
}
