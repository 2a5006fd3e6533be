package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	abcitypes "github.com/tendermint/tendermint/abci/types"

	"github.com/halochain/halo-gov/ctrlers/gov"
	"github.com/halochain/halo-gov/types"
)

// NewInspectCmd reads an engine database offline and prints one of its query
// views as JSON. The engine must not be running against the same directory.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [proposals|queue|slots|params|hotfixes]",
		Short: "Print a view of the governance state",
		Args:  cobra.ExactArgs(1),
		RunE:  inspect,
	}
	return cmd
}

func inspect(cmd *cobra.Command, args []string) error {
	ctrler, xerr := gov.NewGovCtrler(govDBDir, types.ZeroAddress(), nil, gov.Handlers{}, logger)
	if xerr != nil {
		return xerr
	}
	defer func() { _ = ctrler.Close() }()

	resp, xerr := ctrler.Query(abcitypes.RequestQuery{Path: args[0]})
	if xerr != nil {
		return xerr
	}
	fmt.Println(string(resp))
	return nil
}
