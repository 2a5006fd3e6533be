package gov

import (
	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// Execute runs a passed proposal's transaction bundle through the dispatcher
// and deletes the proposal on success. Any failing transaction aborts the
// whole operation with no engine-state change; a proposal that reached
// Execution without passing is cleaned up as expired and reported as a no-op.
func (ctrler *GovCtrler) Execute(from types.Address, pid uint64, slot int64, now int64) (bool, xerrors.XError) {
	if xerr := ctrler.begin(); xerr != nil {
		return false, xerr
	}
	defer ctrler.end()

	ctrler.dequeueIfReady(now)

	prop, xerr := ctrler.dequeuedProposalAt(pid, slot)
	if xerr != nil {
		return false, xerr
	}
	if ctrler.isDequeuedExpired(prop, now) {
		ctrler.cleanupDequeued(slot, prop)
		return false, nil
	}
	if prop.StageAt(now, ctrler.params.StageDurations()) != proposal.StageExecution {
		return false, xerrors.ErrStage
	}

	for _, tx := range prop.Transactions {
		if xerr := ctrler.dispatcher.Dispatch(tx); xerr != nil {
			return false, xerrors.ErrExecution.Wrap(xerr)
		}
	}

	ctrler.cleanupDequeued(slot, prop)
	ctrler.logger.Info("Proposal is executed", "proposal", pid, "slot", slot, "caller", from)
	return true, nil
}

// Withdraw clears the caller's accumulated deposit refunds. The engine only
// keeps the bookkeeping; the actual payout is the host system's concern.
func (ctrler *GovCtrler) Withdraw(from types.Address) (bool, xerrors.XError) {
	if xerr := ctrler.begin(); xerr != nil {
		return false, xerr
	}
	defer ctrler.end()

	acct, xerr := ctrler.acctHandler.CanonicalAccount(from)
	if xerr != nil {
		return false, xerr
	}
	r, xerr := ctrler.refundLedger.Get(ledger.ToLedgerKey(acct))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return false, nil
		}
		return false, xerr
	}
	if r.Amount.IsZero() {
		_, _ = ctrler.refundLedger.Del(r.Key())
		return false, nil
	}

	_, _ = ctrler.refundLedger.Del(r.Key())
	ctrler.logger.Info("Deposit refund is withdrawn", "account", acct, "amount", r.Amount.Dec())
	return true, nil
}
