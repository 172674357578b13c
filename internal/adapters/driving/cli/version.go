package cli

import (
	"github.com/spf13/cobra"
)

// version is the build version, overridden at link time with
// -ldflags "-X .../internal/adapters/driving/cli.version=v1.2.3".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("o365 version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
