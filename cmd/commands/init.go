package commands

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/halochain/halo-gov/ctrlers/gov"
	"github.com/halochain/halo-gov/genesis"
	"github.com/halochain/halo-gov/types"
)

var (
	chainID      string
	ownerHex     string
	approverHex  string
	devnetParams bool
)

// NewInitCmd writes a genesis document and opens the engine database once so
// the genesis parameters and constitution thresholds are persisted.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a governance database from a genesis document",
		RunE:  initFiles,
	}
	cmd.Flags().StringVar(&chainID, "chain_id", "mainnet", "the id of the chain this engine belongs to")
	cmd.Flags().StringVar(&ownerHex, "owner", "", "hex address allowed to change parameters")
	cmd.Flags().StringVar(&approverHex, "approver", "", "hex address allowed to approve proposals and hotfixes")
	cmd.Flags().BoolVar(&devnetParams, "devnet", false, "use the short-stage devnet parameter set")
	return cmd
}

func initFiles(cmd *cobra.Command, args []string) error {
	owner, xerr := types.HexToAddress(ownerHex)
	if xerr != nil {
		return xerr
	}
	approver, xerr := types.HexToAddress(approverHex)
	if xerr != nil {
		return xerr
	}

	var gen *genesis.GovGenesis
	if devnetParams {
		gen = genesis.Devnet(owner, approver)
	} else {
		gen = genesis.Default(chainID, owner, approver)
	}
	if xerr := gen.Validate(); xerr != nil {
		return xerr
	}

	genPath := filepath.Join(govDBDir, "genesis.json")
	if err := gen.SaveAs(genPath); err != nil {
		return err
	}

	ctrler, xerr := gov.NewGovCtrler(govDBDir, gen.Owner, gen.Params, gov.Handlers{}, logger)
	if xerr != nil {
		return xerr
	}
	defer func() { _ = ctrler.Close() }()

	for _, th := range gen.Thresholds {
		selector, err := hex.DecodeString(th.Selector)
		if err != nil {
			return err
		}
		threshold, err := uint256.FromDecimal(th.Threshold)
		if err != nil {
			return err
		}
		if xerr := ctrler.SetConstitution(gen.Owner, th.Destination, selector, threshold); xerr != nil {
			return xerr
		}
	}

	hash, _, xerr := ctrler.Commit()
	if xerr != nil {
		return xerr
	}

	fmt.Printf("genesis written to %s, state hash %x\n", genPath, hash)
	return nil
}
