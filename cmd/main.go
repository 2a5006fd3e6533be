package main

import (
	"os"

	"github.com/halochain/halo-gov/cmd/commands"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitCmd(),
		commands.NewInspectCmd(),
		commands.VersionCmd,
	)

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
