package gov

import (
	"github.com/holiman/uint256"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	"github.com/halochain/halo-gov/ledger"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// Propose submits a bundle of transactions with a deposit and enters it at
// the bottom of the queue. The returned proposal id is never reused.
func (ctrler *GovCtrler) Propose(from types.Address, txs []*proposal.Transaction, deposit *uint256.Int, descriptionURL string, now int64) (uint64, xerrors.XError) {
	if xerr := ctrler.begin(); xerr != nil {
		return 0, xerr
	}
	defer ctrler.end()

	ctrler.dequeueIfReady(now)

	if deposit == nil || deposit.Lt(ctrler.params.MinDeposit()) {
		return 0, xerrors.ErrMinDeposit
	}

	pid := ctrler.state.NextProposalID
	prop := proposal.NewProposal(pid, from, deposit, now, txs, descriptionURL)

	if xerr := ctrler.state.Queue.Push(pid); xerr != nil {
		return 0, xerr
	}
	ctrler.state.NextProposalID++

	_ = ctrler.propLedger.Set(prop)
	_ = ctrler.stateLedger.Set(ctrler.state)

	ctrler.logger.Info("Proposal is submitted",
		"proposal", pid, "proposer", from, "deposit", deposit.Dec(), "txs", len(txs))
	return pid, nil
}

// Upvote adds the caller's full voting weight to a queued proposal. An
// account carries at most one live upvote; a record whose proposal already
// left the queue does not block the call and is replaced when the new
// upvote is recorded.
func (ctrler *GovCtrler) Upvote(from types.Address, pid uint64, lesser, greater uint64, now int64) (bool, xerrors.XError) {
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

	voter, xerr := ctrler.getOrNewVoter(acct)
	if xerr != nil {
		return false, xerr
	}
	if voter.Upvote != nil {
		prev := voter.Upvote.ProposalID
		if ctrler.state.Queue.Contains(prev) {
			prevProp, xerr := ctrler.propLedger.Get(ledger.ToLedgerKeyUint64(prev))
			if xerr == nil && !prevProp.IsQueueExpired(now, ctrler.params.QueueExpiry()) {
				return false, xerrors.ErrAlreadyUpvoting
			}
			// expired while queued: sweep it out
			_ = ctrler.state.Queue.Remove(prev)
			_, _ = ctrler.propLedger.Del(ledger.ToLedgerKeyUint64(prev))
			_ = ctrler.stateLedger.Set(ctrler.state)
			if xerr == nil {
				ctrler.logger.Info("Queued proposal is expired", "proposal", prev, "forfeited", prevProp.Deposit.Dec())
			}
		}
	}

	prop, xerr := ctrler.propLedger.Get(ledger.ToLedgerKeyUint64(pid))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return false, xerrors.ErrNotFoundProposal
		}
		return false, xerr
	}
	if !ctrler.state.Queue.Contains(pid) {
		return false, xerrors.ErrNotQueued
	}
	if prop.IsQueueExpired(now, ctrler.params.QueueExpiry()) {
		_ = ctrler.state.Queue.Remove(pid)
		_, _ = ctrler.propLedger.Del(prop.Key())
		_ = ctrler.stateLedger.Set(ctrler.state)
		ctrler.logger.Info("Queued proposal is expired", "proposal", pid, "forfeited", prop.Deposit.Dec())
		return false, nil
	}

	cur, _ := ctrler.state.Queue.ValueOf(pid)
	newVal := cur + weight
	if newVal < cur {
		return false, xerrors.ErrOverflow
	}
	if xerr := ctrler.state.Queue.Update(pid, newVal, lesser, greater); xerr != nil {
		return false, xerr
	}

	voter.Upvote = &UpvoteRecord{ProposalID: pid, Weight: weight}
	_ = ctrler.voterLedger.Set(voter)
	_ = ctrler.stateLedger.Set(ctrler.state)

	ctrler.logger.Debug("Proposal is upvoted", "proposal", pid, "account", acct, "weight", weight)
	return true, nil
}

// RevokeUpvote withdraws the caller's live upvote. If the proposal already
// left the queue the record is still cleared; the queue itself is untouched.
func (ctrler *GovCtrler) RevokeUpvote(from types.Address, lesser, greater uint64, now int64) (bool, xerrors.XError) {
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
	if voter.Upvote == nil {
		return false, xerrors.ErrNotUpvoting
	}

	pid := voter.Upvote.ProposalID
	if ctrler.state.Queue.Contains(pid) {
		prop, xerr := ctrler.propLedger.Get(ledger.ToLedgerKeyUint64(pid))
		if xerr != nil || prop.IsQueueExpired(now, ctrler.params.QueueExpiry()) {
			_ = ctrler.state.Queue.Remove(pid)
			if xerr == nil {
				_, _ = ctrler.propLedger.Del(prop.Key())
				ctrler.logger.Info("Queued proposal is expired", "proposal", pid, "forfeited", prop.Deposit.Dec())
			}
		} else {
			cur, _ := ctrler.state.Queue.ValueOf(pid)
			if xerr := ctrler.state.Queue.Update(pid, cur-voter.Upvote.Weight, lesser, greater); xerr != nil {
				return false, xerr
			}
		}
		_ = ctrler.stateLedger.Set(ctrler.state)
	}

	voter.Upvote = nil
	_ = ctrler.voterLedger.Set(voter)

	ctrler.logger.Debug("Upvote is revoked", "proposal", pid, "account", acct)
	return true, nil
}
