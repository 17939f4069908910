package scenario

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ZelongGuo/dislocation/internal/disloc"
)

// Range is N evenly spaced values from Min to Max inclusive
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max" validate:"gtefield=Min"`
	N   int     `json:"n" yaml:"n" validate:"gte=1"`
}

// Values returns the samples of the range
func (r Range) Values() []float64 {
	if r.N == 1 {
		return []float64{r.Min}
	}
	return floats.Span(make([]float64, r.N), r.Min, r.Max)
}

// Grid is a regular horizontal grid of stations at one elevation
type Grid struct {
	East  Range   `json:"east" yaml:"east"`
	North Range   `json:"north" yaml:"north"`
	Up    float64 `json:"up" yaml:"up"`
}

// Points returns the grid stations, east varying fastest
func (g Grid) Points() []disloc.ObservationPoint {
	east, north := g.East.Values(), g.North.Values()
	pts := make([]disloc.ObservationPoint, 0, len(east)*len(north))
	for _, n := range north {
		for _, e := range east {
			pts = append(pts, disloc.ObservationPoint{East: e, North: n, Up: g.Up})
		}
	}
	return pts
}

// Profile is a straight line of N stations from From to To, each given
// as (east, north)
type Profile struct {
	From [2]float64 `json:"from" yaml:"from"`
	To   [2]float64 `json:"to" yaml:"to"`
	N    int        `json:"n" yaml:"n" validate:"gte=2"`
	Up   float64    `json:"up" yaml:"up"`
}

// Length returns the horizontal length of the profile
func (p Profile) Length() float64 {
	return math.Hypot(p.To[0]-p.From[0], p.To[1]-p.From[1])
}

// Distances returns the along-profile distance of every station
func (p Profile) Distances() []float64 {
	return floats.Span(make([]float64, p.N), 0, p.Length())
}

// Points returns the profile stations
func (p Profile) Points() []disloc.ObservationPoint {
	east := floats.Span(make([]float64, p.N), p.From[0], p.To[0])
	north := floats.Span(make([]float64, p.N), p.From[1], p.To[1])
	pts := make([]disloc.ObservationPoint, p.N)
	for i := range pts {
		pts[i] = disloc.ObservationPoint{East: east[i], North: north[i], Up: p.Up}
	}
	return pts
}
