package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ZelongGuo/dislocation/internal/logging"
	"github.com/ZelongGuo/dislocation/internal/version"
)

var (
	logLevel  string
	logFormat string

	logger    = zerolog.Nop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "disloc",
	Short: "Elastic half-space dislocation calculator",
	Long: `disloc - rectangular dislocations in an elastic half-space

Computes displacement, displacement gradient and stress at observation
stations from any number of rectangular fault patches, using the Okada
(1992) closed-form solution in a homogeneous isotropic half-space.

Every station/patch pair carries a status code:
     1  station above the free surface (up > 0)
    10  unphysical patch (length <= 0, width <= 0 or depth < 0)
   100  station on a patch edge (singular, contribution zeroed)
Codes add when several conditions hold.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, closer, err := logging.New(logging.Config{Level: logLevel, Format: logFormat, Output: "stderr"})
		if err != nil {
			return err
		}
		logger, logCloser = l, closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintf(out, "  ║   disloc v%-48s║\n", version.Version)
		fmt.Fprintln(out, "  ║   Rectangular dislocations in an elastic half-space       ║")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintln(out, "  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Commands:")
		fmt.Fprintln(out, "    • evaluate  displacement, gradient and stress at stations")
		fmt.Fprintln(out, "    • profile   a field component along a line, with plots")
		fmt.Fprintln(out, "    • serve     the evaluator as an HTTP service")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Use 'disloc --help' to see all options.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ─────────────────────────────────────────────────────────────")
		fmt.Fprintf(out, "  Copyright © %s %s.\n", version.Year, version.Author)
		fmt.Fprintln(out)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console or json)")
}
