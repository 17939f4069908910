package material

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ZelongGuo/dislocation/internal/disloc"
)

// Half-space constants in SI units

const (
	// Default shear modulus and Poisson's ratio of the upper crust
	DefaultMu = 3.0e10 // Pa
	DefaultNu = 0.25

	// PoissonSolid has λ = μ
	PoissonSolid = 0.25
)

// Preset is a named elastic half-space
type Preset struct {
	Name        string
	Description string
	Mu          float64 // Pa
	Nu          float64
}

// Constants returns the preset as elastic constants
func (p Preset) Constants() disloc.ElasticConstants {
	return disloc.ElasticConstants{Mu: p.Mu, Nu: p.Nu}
}

var presets = map[string]Preset{
	"crust": {
		Name: "crust", Description: "average upper crust, Poisson solid",
		Mu: DefaultMu, Nu: DefaultNu,
	},
	"granite": {
		Name: "granite", Description: "crystalline basement",
		Mu: 3.2e10, Nu: 0.25,
	},
	"basalt": {
		Name: "basalt", Description: "oceanic crust and volcanic edifices",
		Mu: 3.6e10, Nu: 0.28,
	},
	"sandstone": {
		Name: "sandstone", Description: "consolidated sedimentary cover",
		Mu: 1.2e10, Nu: 0.22,
	},
	"sediment": {
		Name: "sediment", Description: "poorly consolidated basin fill",
		Mu: 4.0e9, Nu: 0.33,
	},
	"unit": {
		Name: "unit", Description: "dimensionless, μ = 1",
		Mu: 1, Nu: PoissonSolid,
	},
}

// Lookup returns the preset with the given name, ignoring case
func Lookup(name string) (Preset, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("unknown material %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names lists the preset names in alphabetical order
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromYoung converts Young's modulus and Poisson's ratio
// μ = E / 2(1+ν)
func FromYoung(e, nu float64) (disloc.ElasticConstants, error) {
	ec := disloc.ElasticConstants{Mu: e / (2 * (1 + nu)), Nu: nu}
	return ec, ec.Validate()
}

// FromLame converts Lamé's parameters
// ν = λ / 2(λ+μ)
func FromLame(lambda, mu float64) (disloc.ElasticConstants, error) {
	ec := disloc.ElasticConstants{Mu: mu, Nu: lambda / (2 * (lambda + mu))}
	return ec, ec.Validate()
}

// FromVelocities converts seismic velocities (m/s) and density (kg/m³)
// μ = ρVs², λ = ρVp² - 2μ
func FromVelocities(vp, vs, rho float64) (disloc.ElasticConstants, error) {
	if vs <= 0 || vp <= vs*math.Sqrt2 {
		return disloc.ElasticConstants{}, fmt.Errorf("%w: need Vp > √2·Vs > 0, got Vp=%v Vs=%v", disloc.ErrElastic, vp, vs)
	}
	mu := rho * vs * vs
	lambda := rho*vp*vp - 2*mu
	return FromLame(lambda, mu)
}

// Young returns Young's modulus, E = 2μ(1+ν)
func Young(ec disloc.ElasticConstants) float64 {
	return 2 * ec.Mu * (1 + ec.Nu)
}

// Bulk returns the bulk modulus, K = λ + 2μ/3
func Bulk(ec disloc.ElasticConstants) float64 {
	return ec.Lambda() + 2*ec.Mu/3
}
