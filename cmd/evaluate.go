package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZelongGuo/dislocation/internal/diagram"
	"github.com/ZelongGuo/dislocation/internal/disloc"
	"github.com/ZelongGuo/dislocation/internal/material"
	"github.com/ZelongGuo/dislocation/internal/scenario"
)

var (
	evaluateInput   batchFlags
	evaluateFormat  string
	evaluateWorkers int
	evaluateStrain  bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compute displacement, gradient and stress at stations",
	Long: `Evaluate every station against every fault patch and report the
superposed displacement, displacement gradient and stress, together
with the status code of each station/patch pair.

Input is either a scenario file or a pair of plain-text arrays:
  patches   [east north depth length width strike dip strike-slip dip-slip opening]
  stations  [east north up]

Examples:
  disloc evaluate -f scenario.yaml
  disloc evaluate -f scenario.json --format csv > out.csv
  disloc evaluate --patches faults.txt --stations gps.txt --mu 3.3e10
  disloc evaluate -f scenario.yaml --vp 6000 --vs 3460 --rho 2700`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateInput.register(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evaluateFormat, "format", "table", "Output format: table, json or csv")
	evaluateCmd.Flags().IntVar(&evaluateWorkers, "workers", 0, "Parallel workers (0 = all CPUs)")
	evaluateCmd.Flags().BoolVar(&evaluateStrain, "strain", false, "Include the strain tensor in the table report")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	sc, err := evaluateInput.load(cmd)
	if err != nil {
		return err
	}
	obs := sc.Observations()

	ev := disloc.NewEvaluator(disloc.WithWorkers(evaluateWorkers), disloc.WithLogger(logger))
	rs, err := ev.Evaluate(context.Background(), sc.Patches, obs, sc.Elastic())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch evaluateFormat {
	case "table":
		printEvaluateReport(out, sc, obs, rs)
		return nil
	case "json":
		return writeJSON(out, obs, rs)
	case "csv":
		return writeCSV(out, obs, rs)
	default:
		return fmt.Errorf("unknown format %q (use table, json or csv)", evaluateFormat)
	}
}

func printEvaluateReport(out io.Writer, sc *scenario.Scenario, obs []disloc.ObservationPoint, rs *disloc.ResultSet) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "     RECTANGULAR DISLOCATIONS - OKADA (1992) HALF-SPACE")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)
	if sc.Name != "" {
		fmt.Fprintf(out, "  Scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Fprintf(out, "  Description: %s\n", sc.Description)
	}

	ec := sc.Elastic()
	fmt.Fprintln(out, "HALF-SPACE:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if sc.Material != "" {
		fmt.Fprintf(w, "  Material:\t%s\n", sc.Material)
	}
	fmt.Fprintf(w, "  Shear modulus (μ):\t%.4g Pa\n", ec.Mu)
	fmt.Fprintf(w, "  Poisson's ratio (ν):\t%.4g\n", ec.Nu)
	fmt.Fprintf(w, "  Lamé λ:\t%.4g Pa\n", ec.Lambda())
	fmt.Fprintf(w, "  Young's modulus (E):\t%.4g Pa\n", material.Young(ec))
	fmt.Fprintf(w, "  Bulk modulus (K):\t%.4g Pa\n", material.Bulk(ec))
	fmt.Fprintf(w, "  Medium constant (α):\t%.6f\n", ec.Alpha())
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "FAULT PATCHES:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tEast\tNorth\tDepth\tLength\tWidth\tStrike\tDip\tSlip (ss/ds/op)\n")
	fmt.Fprintf(w, "  ─\t────\t─────\t─────\t──────\t─────\t──────\t───\t───────────────\n")
	for i, p := range sc.Patches {
		fmt.Fprintf(w, "  %d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.3g / %.3g / %.3g\n",
			i+1, p.East, p.North, p.Depth, p.Length, p.Width, p.Strike, p.Dip, p.StrikeSlip, p.DipSlip, p.Opening)
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "DISPLACEMENT:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tEast\tNorth\tUp\tuE\tuN\tuZ\tFlags\n")
	fmt.Fprintf(w, "  ─\t────\t─────\t──\t──\t──\t──\t─────\n")
	for i, r := range rs.Results {
		o := obs[i]
		fmt.Fprintf(w, "  %d\t%.1f\t%.1f\t%.1f\t%.6e\t%.6e\t%.6e\t%s\n",
			i+1, o.East, o.North, o.Up, r.U[0], r.U[1], r.U[2], flagString(rs.Flags[i]))
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "STRESS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	printTensors(out, rs.Results, func(r disloc.Result) [9]float64 { return r.S })

	if evaluateStrain {
		fmt.Fprintln(out, "STRAIN:")
		fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
		printTensors(out, rs.Results, disloc.Result.Strain)
	}

	sum := rs.Summary()
	fmt.Fprint(out, diagram.DrawSummaryBox("STATION/PATCH PAIRS", []string{
		fmt.Sprintf("Evaluated:      %d", sum.Pairs),
		fmt.Sprintf("Flagged:        %d", sum.Flagged),
		fmt.Sprintf("Above surface:  %d", sum.AboveSurface),
		fmt.Sprintf("Unphysical:     %d", sum.Unphysical),
		fmt.Sprintf("Singular:       %d", sum.Singular),
	}))
	fmt.Fprintln(out)
}

func printTensors(out io.Writer, results []disloc.Result, tensor func(disloc.Result) [9]float64) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\txx\tyy\tzz\txy\txz\tyz\n")
	fmt.Fprintf(w, "  ─\t──\t──\t──\t──\t──\t──\n")
	for i, r := range results {
		t := tensor(r)
		fmt.Fprintf(w, "  %d\t%.4e\t%.4e\t%.4e\t%.4e\t%.4e\t%.4e\n", i+1, t[0], t[4], t[8], t[1], t[2], t[5])
	}
	w.Flush()
	fmt.Fprintln(out)
}

// flagString lists the nonzero codes as patch:code, or "-" when all are normal
func flagString(row []disloc.Status) string {
	var parts []string
	for j, s := range row {
		if s != 0 {
			parts = append(parts, fmt.Sprintf("%d:%d", j+1, s.Code()))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// stationOutput writes non-finite values as null so a flagged pair never
// breaks the report
type stationOutput struct {
	East  disloc.Number `json:"east"`
	North disloc.Number `json:"north"`
	Up    disloc.Number `json:"up"`
	disloc.ResultJSON
	Flags []int32 `json:"flags"`
}

func writeJSON(out io.Writer, obs []disloc.ObservationPoint, rs *disloc.ResultSet) error {
	codes := rs.Codes()
	stations := make([]stationOutput, len(obs))
	for i, o := range obs {
		stations[i] = stationOutput{
			East:       disloc.Number(o.East),
			North:      disloc.Number(o.North),
			Up:         disloc.Number(o.Up),
			ResultJSON: rs.Results[i].JSON(),
			Flags:      codes[i],
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Stations []stationOutput    `json:"stations"`
		Summary  disloc.FlagSummary `json:"summary"`
	}{stations, rs.Summary()})
}

var tensorColumns = []string{"xx", "xy", "xz", "yx", "yy", "yz", "zx", "zy", "zz"}

func writeCSV(out io.Writer, obs []disloc.ObservationPoint, rs *disloc.ResultSet) error {
	header := []string{"east", "north", "up", "ue", "un", "uz"}
	for _, c := range tensorColumns {
		header = append(header, "d"+c)
	}
	for _, c := range tensorColumns {
		header = append(header, "s"+c)
	}
	header = append(header, "flags")

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	codes := rs.Codes()
	for i, r := range rs.Results {
		row := make([]string, 0, len(header))
		o := obs[i]
		for _, v := range []float64{o.East, o.North, o.Up} {
			row = append(row, formatFloat(v))
		}
		for _, v := range r.U {
			row = append(row, formatFloat(v))
		}
		for _, v := range r.D {
			row = append(row, formatFloat(v))
		}
		for _, v := range r.S {
			row = append(row, formatFloat(v))
		}
		flags := make([]string, len(codes[i]))
		for j, c := range codes[i] {
			flags[j] = strconv.Itoa(int(c))
		}
		row = append(row, strings.Join(flags, ";"))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
