package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZelongGuo/dislocation/internal/disloc"
)

var statusCmd = &cobra.Command{
	Use:   "status CODE...",
	Short: "Explain station/patch status codes",
	Long: `Decode the additive status codes found in evaluate output:
  1    station above the free surface
  10   unphysical patch (length or width <= 0, or depth < 0)
  100  station on a patch edge, singular solution

Examples:
  disloc status 111
  disloc status 0 10 101`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	statuses := make([]disloc.Status, len(args))
	for i, arg := range args {
		code, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return fmt.Errorf("status code %q is not an integer", arg)
		}
		s := disloc.StatusFromCode(int32(code))
		if s.Code() != int32(code) {
			return fmt.Errorf("%d is not a valid status code", code)
		}
		statuses[i] = s
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, s := range statuses {
		fmt.Fprintf(w, "  %d\t%s\n", s.Code(), s)
	}
	return w.Flush()
}
