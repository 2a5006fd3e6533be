package genesis

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halochain/halo-gov/types"
)

func TestGenesisValidate(t *testing.T) {
	g := Default("mainnet", types.RandAddress(), types.RandAddress())
	require.NoError(t, g.Validate())

	g.ChainID = ""
	require.Error(t, g.Validate())

	g = Default("mainnet", types.RandAddress()[:10], types.RandAddress())
	require.Error(t, g.Validate())

	g = Devnet(types.RandAddress(), types.RandAddress())
	require.NoError(t, g.Validate())
	require.Equal(t, "devnet", g.ChainID)
}

func TestGenesisSaveLoad(t *testing.T) {
	owner := types.RandAddress()
	approver := types.RandAddress()
	g0 := Devnet(owner, approver)
	g0.Thresholds = []*GenesisThreshold{
		{
			Destination: types.RandAddress(),
			Selector:    "aabbccdd",
			Threshold:   "600000000000000000",
		},
	}

	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, g0.SaveAs(path))

	g1, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, g0.ChainID, g1.ChainID)
	require.Equal(t, owner, g1.Owner)
	require.Equal(t, approver, g1.Params.Approver())
	require.Equal(t, g0.Params.MinDeposit(), g1.Params.MinDeposit())
	require.Len(t, g1.Thresholds, 1)
	require.Equal(t, "aabbccdd", g1.Thresholds[0].Selector)

	h0, err := g0.Hash()
	require.NoError(t, err)
	h1, err := g1.Hash()
	require.NoError(t, err)
	require.Equal(t, h0, h1)
	require.Len(t, h0, 32)
}

func TestGenesisLoadRejectsInvalid(t *testing.T) {
	g := Default("mainnet", types.RandAddress(), types.RandAddress())
	g.ChainID = ""
	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, g.SaveAs(path))

	_, err := Load(path)
	require.Error(t, err)
}
