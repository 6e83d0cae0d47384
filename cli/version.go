package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of vpn-status",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vpn-status version %s\n", a.build.Version)
			if a.build.BuildTime != "" && a.build.BuildTime != "unknown" {
				fmt.Fprintf(out, "  Build:  %s\n", a.build.BuildTime)
				fmt.Fprintf(out, "  Commit: %s\n", a.build.Commit)
			}
		},
	}
}
