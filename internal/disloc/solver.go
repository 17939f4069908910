package disloc

import "github.com/ZelongGuo/dislocation/internal/okada"

// LocalField is the response of one patch in its own frame.
// D is row-major, D[3*i+j] = ∂u_i/∂x_j.
type LocalField struct {
	U [3]float64
	D [9]float64
}

// Solver computes the local field of one patch at a point given in the
// patch frame (x along strike, y across strike, z up, origin below the
// reference point at the surface). Only the Singular condition is
// meaningful in the returned status.
type Solver interface {
	Solve(p FaultPatch, local [3]float64, alpha float64) (LocalField, Status)
}

// OkadaSolver evaluates patches with the Okada (1992) closed-form solution
type OkadaSolver struct{}

// Solve implements Solver
func (OkadaSolver) Solve(p FaultPatch, local [3]float64, alpha float64) (LocalField, Status) {
	src := okada.Source{
		Depth: p.Depth,
		Dip:   p.Dip,
		AL1:   -0.5 * p.Length,
		AL2:   0.5 * p.Length,
		AW1:   -p.Width,
		AW2:   0,
		Disl1: p.StrikeSlip,
		Disl2: p.DipSlip,
		Disl3: p.Opening,
	}

	r, st := okada.DC3D(alpha, local[0], local[1], local[2], src)

	var status Status
	// okada.AboveSurface is dropped: the driver flags positive elevations itself
	if st == okada.Singular {
		status = Singular
	}

	return LocalField{
		U: [3]float64{r.Ux, r.Uy, r.Uz},
		D: [9]float64{
			r.Uxx, r.Uxy, r.Uxz,
			r.Uyx, r.Uyy, r.Uyz,
			r.Uzx, r.Uzy, r.Uzz,
		},
	}, status
}
