package gov

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	ctrlertypes "github.com/halochain/halo-gov/ctrlers/types"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

// The walkthrough: a proposal is submitted with the minimum deposit, gathers
// upvotes, reaches slot 0 at the next dequeue, gets approved, collects a
// 40-of-200 referendum, and dies at Execution because the quorum padding
// counts the missing turnout as "no". Its turnout still lowers the
// participation baseline.
func TestLifecycleQuorumShortfall(t *testing.T) {
	env := newTestEnv(t, nil)
	env.stakeMock.total = 200
	proposer := types.RandAddress()
	voterA := types.RandAddress()
	voterB := types.RandAddress()
	voterC := types.RandAddress()
	env.stakeMock.setPower(voterA, 30)
	env.stakeMock.setPower(voterB, 50)
	env.stakeMock.setPower(voterC, 40)

	pid := env.propose(t, proposer, []*proposal.Transaction{testTx([]byte{1, 2, 3, 4})}, 10)

	_, xerr := env.ctrler.Upvote(voterA, pid, 0, 0, 20)
	require.NoError(t, xerr)
	_, xerr = env.ctrler.Upvote(voterB, pid, 0, 0, 21)
	require.NoError(t, xerr)
	v, _ := env.ctrler.state.Queue.ValueOf(pid)
	require.Equal(t, int64(80), v)

	// a rejected approval still triggers the scheduled dequeue
	_, xerr = env.ctrler.Approve(types.RandAddress(), pid, 0, 70)
	require.Equal(t, xerrors.ErrNoRight, xerr)
	require.Equal(t, []uint64{pid}, env.ctrler.state.Slots)

	_, xerr = env.ctrler.Vote(voterC, pid, 0, proposal.VoteYes, 71)
	require.Equal(t, xerrors.ErrNotApproved, xerr)

	ok, xerr := env.ctrler.Approve(env.approver, pid, 0, 72)
	require.NoError(t, xerr)
	require.True(t, ok)

	_, xerr = env.ctrler.Approve(env.approver, pid, 0, 73)
	require.Equal(t, xerrors.ErrAlreadyApproved, xerr)

	// still in the Approval stage
	_, xerr = env.ctrler.Vote(voterC, pid, 0, proposal.VoteYes, 74)
	require.Equal(t, xerrors.ErrStage, xerr)

	// Referendum stage starts 600s past the dequeue at t=70
	_, xerr = env.ctrler.Vote(voterC, pid, 0, proposal.VoteNone, 700)
	require.Equal(t, xerrors.ErrInvalidVote, xerr)

	ok, xerr = env.ctrler.Vote(voterC, pid, 0, proposal.VoteYes, 700)
	require.NoError(t, xerr)
	require.True(t, ok)

	prop, xerr := env.ctrler.dequeuedProposalAt(pid, 0)
	require.NoError(t, xerr)
	require.Equal(t, int64(40), prop.Tally.Yes)
	require.Equal(t, int64(200), prop.NetworkWeight)

	// changing the vote reverses the prior weight first
	ok, xerr = env.ctrler.Vote(voterC, pid, 0, proposal.VoteNo, 701)
	require.NoError(t, xerr)
	require.True(t, ok)
	prop, _ = env.ctrler.dequeuedProposalAt(pid, 0)
	require.Equal(t, int64(0), prop.Tally.Yes)
	require.Equal(t, int64(40), prop.Tally.No)

	ok, xerr = env.ctrler.Vote(voterC, pid, 0, proposal.VoteYes, 702)
	require.NoError(t, xerr)
	require.True(t, ok)

	// 40 yes of 200: required participation is 100, the 60 missing count as no
	prop, _ = env.ctrler.dequeuedProposalAt(pid, 0)
	require.False(t, env.ctrler.isProposalPassing(prop))

	// Execution stage: not passing means expired, cleaned up as a no-op
	ok, xerr = env.ctrler.Execute(proposer, pid, 0, 1300)
	require.NoError(t, xerr)
	require.False(t, ok)
	require.Empty(t, env.dispMock.dispatched)
	require.Equal(t, uint64(0), env.ctrler.state.Slots[0])
	require.Equal(t, []int64{0}, env.ctrler.state.Holes)

	// baseline: 20% of the 0.2 turnout folded into the 50% prior
	require.Equal(t, ctrlertypes.RatioFromPercent(44), env.ctrler.params.ParticipationBaseline())
}

func TestLifecycleExecution(t *testing.T) {
	env := newTestEnv(t, nil)
	env.stakeMock.total = 200
	proposer := types.RandAddress()
	voter := types.RandAddress()
	env.stakeMock.setPower(voter, 150)

	pid := env.propose(t, proposer, []*proposal.Transaction{testTx([]byte{9, 9, 9, 9})}, 10)
	_, xerr := env.ctrler.Upvote(voter, pid, 0, 0, 20)
	require.NoError(t, xerr)

	ok, xerr := env.ctrler.Approve(env.approver, pid, 0, 70)
	require.NoError(t, xerr)
	require.True(t, ok)

	ok, xerr = env.ctrler.Vote(voter, pid, 0, proposal.VoteYes, 700)
	require.NoError(t, xerr)
	require.True(t, ok)

	prop, _ := env.ctrler.dequeuedProposalAt(pid, 0)
	require.True(t, env.ctrler.isProposalPassing(prop))

	// before the Execution stage
	_, xerr = env.ctrler.Execute(proposer, pid, 0, 900)
	require.Equal(t, xerrors.ErrStage, xerr)

	// a dispatch failure aborts with the proposal left in place
	env.dispMock.reject = true
	_, xerr = env.ctrler.Execute(proposer, pid, 0, 1300)
	require.True(t, xerrors.Is(xerr, xerrors.ErrExecution))
	require.Equal(t, []uint64{pid}, env.ctrler.state.Slots)

	env.dispMock.reject = false
	ok, xerr = env.ctrler.Execute(proposer, pid, 0, 1301)
	require.NoError(t, xerr)
	require.True(t, ok)
	require.Len(t, env.dispMock.dispatched, 1)
	require.Equal(t, uint64(0), env.ctrler.state.Slots[0])

	// the slot and the proposal are gone
	_, xerr = env.ctrler.Execute(proposer, pid, 0, 1302)
	require.Equal(t, xerrors.ErrNotDequeued, xerr)

	// baseline: 0.75 turnout folded into the 50% prior
	require.Equal(t, ctrlertypes.RatioFromPercent(55), env.ctrler.params.ParticipationBaseline())
}

func TestRevokeVotes(t *testing.T) {
	env := newTestEnv(t, nil)
	env.stakeMock.total = 200
	voter := types.RandAddress()
	env.stakeMock.setPower(voter, 40)

	pid := env.propose(t, types.RandAddress(), nil, 10)
	_, xerr := env.ctrler.Upvote(voter, pid, 0, 0, 20)
	require.NoError(t, xerr)

	ok, xerr := env.ctrler.Approve(env.approver, pid, 0, 70)
	require.NoError(t, xerr)
	require.True(t, ok)

	ok, xerr = env.ctrler.Vote(voter, pid, 0, proposal.VoteYes, 700)
	require.NoError(t, xerr)
	require.True(t, ok)
	require.True(t, env.ctrler.IsVoting(voter, 701))

	ok, xerr = env.ctrler.RevokeVotes(voter, 702)
	require.NoError(t, xerr)
	require.True(t, ok)
	prop, _ := env.ctrler.dequeuedProposalAt(pid, 0)
	require.Equal(t, int64(0), prop.Tally.Yes)
	require.False(t, env.ctrler.IsVoting(voter, 703))

	// revoking again is a no-op, the tally is untouched
	ok, xerr = env.ctrler.RevokeVotes(voter, 704)
	require.NoError(t, xerr)
	require.True(t, ok)
	prop, _ = env.ctrler.dequeuedProposalAt(pid, 0)
	require.Equal(t, int64(0), prop.Tally.Yes)
}
