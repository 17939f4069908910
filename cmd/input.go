package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZelongGuo/dislocation/internal/disloc"
	"github.com/ZelongGuo/dislocation/internal/material"
	"github.com/ZelongGuo/dislocation/internal/scenario"
)

// Density used with --vp/--vs when --rho is not given
const defaultDensity = 2700.0 // kg/m³

// batchFlags selects the input of a batch: a scenario file, or array
// files with elastic constants given on the command line
type batchFlags struct {
	file     string
	patches  string
	stations string
	elastic  elasticFlags
}

// elasticFlags overrides the half-space of the scenario. A preset, Young's
// modulus or seismic velocities are alternatives to μ and ν.
type elasticFlags struct {
	mu       float64
	nu       float64
	material string
	young    float64
	vp       float64
	vs       float64
	rho      float64
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Path to scenario file (json or yaml)")
	cmd.Flags().StringVar(&f.patches, "patches", "", "Patch array file, 10 values per row")
	cmd.Flags().StringVar(&f.stations, "stations", "", "Station array file, 3 values per row (east north up)")
	cmd.MarkFlagsMutuallyExclusive("file", "patches")
	cmd.MarkFlagsMutuallyExclusive("file", "stations")
	cmd.MarkFlagsRequiredTogether("patches", "stations")
	f.elastic.register(cmd)
}

func (f *elasticFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.mu, "mu", material.DefaultMu, "Shear modulus (Pa), overrides the scenario")
	cmd.Flags().Float64Var(&f.nu, "nu", material.DefaultNu, "Poisson's ratio, overrides the scenario")
	cmd.Flags().StringVar(&f.material, "material", "", "Material preset, overrides mu and nu")
	cmd.Flags().Float64Var(&f.young, "young", 0, "Young's modulus (Pa), used with nu instead of mu")
	cmd.Flags().Float64Var(&f.vp, "vp", 0, "P-wave velocity (m/s), used with vs and rho instead of mu and nu")
	cmd.Flags().Float64Var(&f.vs, "vs", 0, "S-wave velocity (m/s)")
	cmd.Flags().Float64Var(&f.rho, "rho", defaultDensity, "Density (kg/m³) for vp and vs")
	cmd.MarkFlagsRequiredTogether("vp", "vs")
	cmd.MarkFlagsMutuallyExclusive("mu", "young", "vp")
	cmd.MarkFlagsMutuallyExclusive("nu", "vp")
	cmd.MarkFlagsMutuallyExclusive("material", "mu")
	cmd.MarkFlagsMutuallyExclusive("material", "nu")
	cmd.MarkFlagsMutuallyExclusive("material", "young")
	cmd.MarkFlagsMutuallyExclusive("material", "vp")
}

// apply replaces the elastic constants of sc with those set on the
// command line. Unset flags keep the scenario's values.
func (f *elasticFlags) apply(cmd *cobra.Command, sc *scenario.Scenario) error {
	flags := cmd.Flags()
	var ec disloc.ElasticConstants
	switch {
	case f.material != "":
		p, err := material.Lookup(f.material)
		if err != nil {
			return err
		}
		ec = p.Constants()
		sc.Material, sc.Mu, sc.Nu = p.Name, ec.Mu, ec.Nu
		return nil
	case flags.Changed("young"):
		nu := sc.Nu
		if flags.Changed("nu") {
			nu = f.nu
		}
		c, err := material.FromYoung(f.young, nu)
		if err != nil {
			return fmt.Errorf("--young: %w", err)
		}
		ec = c
	case flags.Changed("vp"):
		c, err := material.FromVelocities(f.vp, f.vs, f.rho)
		if err != nil {
			return fmt.Errorf("--vp/--vs: %w", err)
		}
		ec = c
	case flags.Changed("mu") || flags.Changed("nu"):
		ec = disloc.ElasticConstants{Mu: sc.Mu, Nu: sc.Nu}
		if flags.Changed("mu") {
			ec.Mu = f.mu
		}
		if flags.Changed("nu") {
			ec.Nu = f.nu
		}
	default:
		return nil
	}
	sc.Material, sc.Mu, sc.Nu = "", ec.Mu, ec.Nu
	return nil
}

// load returns the scenario described by the flags. Array inputs are
// wrapped in a scenario without generators.
func (f *batchFlags) load(cmd *cobra.Command) (*scenario.Scenario, error) {
	var sc *scenario.Scenario
	switch {
	case f.file != "":
		s, err := scenario.LoadFromFile(f.file)
		if err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		sc = s
	case f.patches != "":
		patches, err := scenario.ReadPatches(f.patches)
		if err != nil {
			return nil, fmt.Errorf("read patches: %w", err)
		}
		stations, err := scenario.ReadObservations(f.stations)
		if err != nil {
			return nil, fmt.Errorf("read stations: %w", err)
		}
		sc = &scenario.Scenario{Patches: patches, Stations: stations, Mu: material.DefaultMu, Nu: material.DefaultNu}
	default:
		return nil, errors.New("either --file or --patches and --stations is required")
	}

	if err := f.elastic.apply(cmd, sc); err != nil {
		return nil, err
	}
	return sc, nil
}
