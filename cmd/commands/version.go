package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	xver "github.com/halochain/halo-gov/cmd/version"
)

// VersionCmd ...
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(xver.String())
	},
}
