// Package disloc evaluates the static elastic response of rectangular
// dislocation patches in a homogeneous half-space at a set of stations.
//
// Coordinates are global Cartesian: east, north and up, with the free
// surface at up = 0. Each patch is rotated into its own strike-aligned
// frame, solved there, rotated back and superposed per station. Stress is
// derived from the summed displacement gradient by isotropic elasticity.
package disloc

import (
	"fmt"
	"math"
)

// FaultPatch is one rectangular dislocation source.
// The reference point is the center of the patch's upper edge.
type FaultPatch struct {
	East   float64 `json:"east" yaml:"east"`     // reference point easting
	North  float64 `json:"north" yaml:"north"`   // reference point northing
	Depth  float64 `json:"depth" yaml:"depth"`   // depth of the reference point (>= 0)
	Length float64 `json:"length" yaml:"length"` // along-strike length (> 0)
	Width  float64 `json:"width" yaml:"width"`   // down-dip width (> 0)
	Strike float64 `json:"strike" yaml:"strike"` // degrees clockwise from north
	Dip    float64 `json:"dip" yaml:"dip"`       // degrees from horizontal

	StrikeSlip float64 `json:"strike_slip" yaml:"strike_slip"`
	DipSlip    float64 `json:"dip_slip" yaml:"dip_slip"`
	Opening    float64 `json:"opening" yaml:"opening"`
}

// PatchFromRow builds a patch from the 10-column layout
// [east, north, depth, length, width, strike, dip, strike-slip, dip-slip, opening]
func PatchFromRow(row [PatchColumns]float64) FaultPatch {
	return FaultPatch{
		East: row[0], North: row[1], Depth: row[2],
		Length: row[3], Width: row[4],
		Strike: row[5], Dip: row[6],
		StrikeSlip: row[7], DipSlip: row[8], Opening: row[9],
	}
}

// Row returns the patch in the 10-column layout
func (p FaultPatch) Row() [PatchColumns]float64 {
	return [PatchColumns]float64{
		p.East, p.North, p.Depth,
		p.Length, p.Width,
		p.Strike, p.Dip,
		p.StrikeSlip, p.DipSlip, p.Opening,
	}
}

// Unphysical reports a non-positive length or width, or a negative depth.
// Such patches are still evaluated; the condition is only flagged.
func (p FaultPatch) Unphysical() bool {
	return p.Length <= 0 || p.Width <= 0 || p.Depth < 0
}

// ObservationPoint is a station where the field is evaluated
type ObservationPoint struct {
	East  float64 `json:"east" yaml:"east"`
	North float64 `json:"north" yaml:"north"`
	Up    float64 `json:"up" yaml:"up"` // elevation, <= 0 inside the half-space
}

// ElasticConstants describes the isotropic half-space
type ElasticConstants struct {
	Mu float64 `json:"mu" yaml:"mu"` // shear modulus
	Nu float64 `json:"nu" yaml:"nu"` // Poisson's ratio
}

// Lambda returns Lamé's first parameter, 2μν/(1-2ν)
func (ec ElasticConstants) Lambda() float64 {
	return 2 * ec.Mu * ec.Nu / (1 - 2*ec.Nu)
}

// Alpha returns the medium constant (λ+μ)/(λ+2μ) used by the closed-form solver
func (ec ElasticConstants) Alpha() float64 {
	lambda := ec.Lambda()
	return (lambda + ec.Mu) / (lambda + 2*ec.Mu)
}

// Validate rejects constants for which λ or α is undefined
func (ec ElasticConstants) Validate() error {
	if !(ec.Mu > 0) || math.IsInf(ec.Mu, 0) {
		return fmt.Errorf("%w: shear modulus must be positive and finite, got %v", ErrElastic, ec.Mu)
	}
	if !(ec.Nu > -1 && ec.Nu < 0.5) {
		return fmt.Errorf("%w: Poisson's ratio must lie in (-1, 0.5), got %v", ErrElastic, ec.Nu)
	}
	return nil
}

// Result is the total field at one station.
// D and S are row-major 3x3 tensors, D[3*i+j] = ∂u_i/∂x_j.
type Result struct {
	U [3]float64 `json:"u"` // displacement, same unit as slip
	D [9]float64 `json:"d"` // displacement gradient, dimensionless
	S [9]float64 `json:"s"` // stress, same unit as mu
}

// Dilatation returns the trace of the displacement gradient
func (r Result) Dilatation() float64 {
	return r.D[0] + r.D[4] + r.D[8]
}

// Strain returns the symmetric small-strain tensor of the result
func (r Result) Strain() [9]float64 {
	return Strain(r.D)
}

// ResultSet holds the output of one batch evaluation
type ResultSet struct {
	Results []Result   // one per station
	Flags   [][]Status // [station][patch]
}

// Codes returns the flags in the legacy additive encoding
func (rs *ResultSet) Codes() [][]int32 {
	codes := make([][]int32, len(rs.Flags))
	for i, row := range rs.Flags {
		codes[i] = make([]int32, len(row))
		for j, s := range row {
			codes[i][j] = s.Code()
		}
	}
	return codes
}

// FlagSummary counts flagged station/patch pairs by condition
type FlagSummary struct {
	Pairs        int `json:"pairs"`
	Flagged      int `json:"flagged"`
	AboveSurface int `json:"above_surface"`
	Unphysical   int `json:"unphysical"`
	Singular     int `json:"singular"`
}

// Summary tallies the flags of the result set
func (rs *ResultSet) Summary() FlagSummary {
	var sum FlagSummary
	for _, row := range rs.Flags {
		for _, s := range row {
			sum.Pairs++
			if s == 0 {
				continue
			}
			sum.Flagged++
			if s.Has(AboveSurface) {
				sum.AboveSurface++
			}
			if s.Has(Unphysical) {
				sum.Unphysical++
			}
			if s.Has(Singular) {
				sum.Singular++
			}
		}
	}
	return sum
}
