package gov

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halochain/halo-gov/ctrlers/gov/proposal"
	ctrlertypes "github.com/halochain/halo-gov/ctrlers/types"
	"github.com/halochain/halo-gov/types"
	"github.com/halochain/halo-gov/types/xerrors"
)

func TestSetConstitution(t *testing.T) {
	env := newTestEnv(t, nil)
	dest := types.RandAddress()
	selector := []byte{0xaa, 0xbb, 0xcc, 0xdd}

	require.Equal(t, xerrors.ErrNoRight,
		env.ctrler.SetConstitution(types.RandAddress(), dest, nil, ctrlertypes.RatioFromPercent(60)))

	// thresholds outside [1/2, 1]
	xerr := env.ctrler.SetConstitution(env.owner, dest, nil, ctrlertypes.RatioFromPercent(40))
	require.True(t, xerrors.Is(xerr, xerrors.ErrInvalidParams))
	xerr = env.ctrler.SetConstitution(env.owner, dest, nil, ctrlertypes.RatioFromPercent(101))
	require.True(t, xerrors.Is(xerr, xerrors.ErrInvalidParams))

	// unknown destination falls back to a simple majority
	require.Equal(t, ctrlertypes.HalfRatio(), env.ctrler.constitutionThreshold(dest, selector))

	require.NoError(t, env.ctrler.SetConstitution(env.owner, dest, nil, ctrlertypes.RatioFromPercent(60)))
	require.NoError(t, env.ctrler.SetConstitution(env.owner, dest, selector, ctrlertypes.RatioFromPercent(90)))

	require.Equal(t, ctrlertypes.RatioFromPercent(90), env.ctrler.constitutionThreshold(dest, selector))
	require.Equal(t, ctrlertypes.RatioFromPercent(60), env.ctrler.constitutionThreshold(dest, []byte{1, 2, 3, 4}))
	require.Equal(t, ctrlertypes.HalfRatio(), env.ctrler.constitutionThreshold(types.RandAddress(), selector))
}

// A 60% yes share passes a simple majority but not a 90% selector override.
func TestConstitutionGatesPassing(t *testing.T) {
	env := newTestEnv(t, nil)
	env.stakeMock.total = 100
	dest := types.RandAddress()
	selector := []byte{0xaa, 0xbb, 0xcc, 0xdd}

	prop := proposal.NewProposal(1, types.RandAddress(), nil, 10,
		[]*proposal.Transaction{{Destination: dest, Payload: selector}}, "")
	prop.Approved = true
	prop.NetworkWeight = 100
	prop.Tally.Apply(proposal.VoteYes, 60)
	prop.Tally.Apply(proposal.VoteNo, 40)

	require.True(t, env.ctrler.isProposalPassing(prop))

	require.NoError(t, env.ctrler.SetConstitution(env.owner, dest, selector, ctrlertypes.RatioFromPercent(90)))
	require.False(t, env.ctrler.isProposalPassing(prop))
}
