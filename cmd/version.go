package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZelongGuo/dislocation/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of disloc",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.String())
		fmt.Fprintln(out, "Okada (1992) rectangular dislocations in an elastic half-space")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
