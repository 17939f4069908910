package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZelongGuo/dislocation/internal/diagram"
	"github.com/ZelongGuo/dislocation/internal/disloc"
)

var (
	profileInput       batchFlags
	profileComponent   string
	profileShowDiagram bool
	profileExportFile  string
	profileMapFile     string
	profileWidth       int
	profileHeight      int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Plot displacement along a profile line",
	Long: `Evaluate the stations of the scenario's profile line and report one
or all displacement components against distance along the line.

The profile is given in the scenario file:
  profile:
    from: [-20000, 0]
    to:   [20000, 0]
    n:    81

Examples:
  disloc profile -f scenario.yaml --component uz --diagram
  disloc profile -f scenario.yaml -o uz.png
  disloc profile -f scenario.yaml --map surface.svg`,
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVarP(&profileInput.file, "file", "f", "", "Path to scenario file with a profile [required]")
	profileCmd.MarkFlagRequired("file")
	profileInput.elastic.register(profileCmd)

	profileCmd.Flags().StringVar(&profileComponent, "component", "uz", "Component: ue, un, uz or all")
	profileCmd.Flags().BoolVar(&profileShowDiagram, "diagram", false, "Show ASCII profile graph")
	profileCmd.Flags().IntVar(&profileWidth, "width", 70, "ASCII graph width")
	profileCmd.Flags().IntVar(&profileHeight, "height", 15, "ASCII graph height")
	profileCmd.Flags().StringVarP(&profileExportFile, "output", "o", "", "Export profile plot to file (png, svg, pdf)")
	profileCmd.Flags().StringVar(&profileMapFile, "map", "", "Export a surface map of all scenario stations (png, svg, pdf)")
}

var componentIndex = map[string]int{"ue": 0, "un": 1, "uz": 2}

func runProfile(cmd *cobra.Command, args []string) error {
	components := []string{profileComponent}
	if profileComponent == "all" {
		components = []string{"ue", "un", "uz"}
	}
	for _, c := range components {
		if _, ok := componentIndex[c]; !ok {
			return fmt.Errorf("unknown component %q (use ue, un, uz or all)", profileComponent)
		}
	}

	sc, err := profileInput.load(cmd)
	if err != nil {
		return err
	}
	if sc.Profile == nil {
		return errors.New("scenario has no profile")
	}

	ev := disloc.NewEvaluator(disloc.WithLogger(logger))
	line := sc.Profile.Points()
	rs, err := ev.Evaluate(context.Background(), sc.Patches, line, sc.Elastic())
	if err != nil {
		return err
	}
	dist := sc.Profile.Distances()

	profiles := make([]diagram.Profile, len(components))
	for k, c := range components {
		values := make([]float64, len(rs.Results))
		for i, r := range rs.Results {
			values[i] = r.U[componentIndex[c]]
		}
		profiles[k] = diagram.Profile{
			Title:    profileTitle(sc.Name, c),
			Label:    c,
			Distance: dist,
			Values:   values,
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "     DISPLACEMENT PROFILE (%.1f, %.1f) → (%.1f, %.1f)\n",
		sc.Profile.From[0], sc.Profile.From[1], sc.Profile.To[0], sc.Profile.To[1])
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Distance\t%s\tFlags\n", strings.Join(components, "\t"))
	fmt.Fprintf(w, "  ────────\t%s\t─────\n", strings.TrimSuffix(strings.Repeat("──\t", len(components)), "\t"))
	for i := range dist {
		fmt.Fprintf(w, "  %.1f", dist[i])
		for _, p := range profiles {
			fmt.Fprintf(w, "\t%.6e", p.Values[i])
		}
		fmt.Fprintf(w, "\t%s\n", flagString(rs.Flags[i]))
	}
	w.Flush()
	fmt.Fprintln(out)

	if profileShowDiagram {
		for _, p := range profiles {
			graph, err := diagram.DrawProfile(p, profileWidth, profileHeight)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.ToUpper(p.Label)+" ALONG PROFILE:")
			fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
			fmt.Fprintln(out, graph)
		}
	}

	if profileExportFile != "" {
		for _, p := range profiles {
			file := profileExportFile
			if len(profiles) > 1 {
				file = suffixed(profileExportFile, p.Label)
			}
			if err := diagram.ExportProfile(p, file); err != nil {
				return fmt.Errorf("export profile: %w", err)
			}
			fmt.Fprintf(out, "  Profile exported to: %s\n", file)
		}
	}

	if profileMapFile != "" {
		obs := sc.Observations()
		all, err := ev.Evaluate(context.Background(), sc.Patches, obs, sc.Elastic())
		if err != nil {
			return err
		}
		err = diagram.ExportMap(diagram.MapData{
			Title:    profileTitle(sc.Name, "horizontal displacement"),
			Patches:  sc.Patches,
			Stations: obs,
			Results:  all.Results,
		}, profileMapFile)
		if err != nil {
			return fmt.Errorf("export map: %w", err)
		}
		fmt.Fprintf(out, "  Map exported to: %s\n", profileMapFile)
	}
	return nil
}

func profileTitle(name, what string) string {
	if name == "" {
		return what
	}
	return name + ": " + what
}

// suffixed inserts _label before the extension of path
func suffixed(path, label string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + label + ext
}
