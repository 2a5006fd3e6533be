package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	logger = log.NewTMLogger(log.NewSyncWriter(os.Stdout))

	govDBDir string
)

var RootCmd = &cobra.Command{
	Use:   "halo-gov",
	Short: "Governance engine state tool",
}

func init() {
	RootCmd.PersistentFlags().StringVar(
		&govDBDir,
		"db",
		defaultDBDir(),
		"directory holding the governance engine's ledgers")
}

func defaultDBDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".halo-gov"
	}
	return home + "/.halo-gov"
}
