package cmd

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X .../internal/cmd.version=..."
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			newFormatter(cmd).Line("ab version %s", version)
		},
	}
}
