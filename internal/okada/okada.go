// Package okada implements the closed-form displacement and strain field of
// a finite rectangular dislocation in an elastic half-space (Okada, 1992,
// "Internal deformation due to shear and tensile faults in a half-space",
// BSSA 82(2), the DC3D routine).
//
// Coordinates are fault-local: x runs along strike, y is horizontal and
// perpendicular to strike, z points up with the free surface at z = 0.
package okada

import "math"

// Status reports the condition of a single DC3D evaluation
type Status int

const (
	// Normal means the field was computed
	Normal Status = iota
	// Singular means the point lies on a fault edge; the outputs are zero
	Singular
	// AboveSurface means z > 0; the outputs are zero
	AboveSurface
)

func (s Status) String() string {
	switch s {
	case Normal:
		return "normal"
	case Singular:
		return "singular"
	case AboveSurface:
		return "above surface"
	}
	return "unknown"
}

// Source describes one rectangular dislocation in DC3D's argument convention
type Source struct {
	Depth float64 // depth of the reference point (positive down)
	Dip   float64 // dip angle (degrees)

	// Fault extent relative to the reference point
	AL1, AL2 float64 // along strike
	AW1, AW2 float64 // along dip (positive up-dip)

	// Dislocation components
	Disl1 float64 // strike-slip
	Disl2 float64 // dip-slip
	Disl3 float64 // tensile
}

// Response holds the displacement and its spatial derivatives.
// Uij is the derivative of ui with respect to j.
type Response struct {
	Ux, Uy, Uz    float64
	Uxx, Uyx, Uzx float64
	Uxy, Uyy, Uzy float64
	Uxz, Uyz, Uzz float64
}

func responseOf(u *[12]float64) Response {
	return Response{
		Ux: u[0], Uy: u[1], Uz: u[2],
		Uxx: u[3], Uyx: u[4], Uzx: u[5],
		Uxy: u[6], Uyy: u[7], Uzy: u[8],
		Uxz: u[9], Uyz: u[10], Uzz: u[11],
	}
}

// DC3D evaluates the field at (x, y, z) for a medium constant
// alpha = (λ+μ)/(λ+2μ). z must be <= 0.
func DC3D(alpha, x, y, z float64, src Source) (Response, Status) {
	if z > 0 {
		return Response{}, AboveSurface
	}

	dc := newDipConstants(alpha, src.Dip)
	sd, cd := dc.sd, dc.cd

	xi := [2]float64{snap(x - src.AL1), snap(x - src.AL2)}

	var u [12]float64

	// real source
	d := src.Depth + z
	et, q := edgeCoordinates(y, d, sd, cd, src.AW1, src.AW2)
	if onEdge(xi, et, q) {
		return Response{}, Singular
	}
	kxi, ket := negativeExtension(xi, et, q)
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			g := newSourceGeometry(xi[j], et[k], q, sd, cd, kxi[k], ket[j])
			dua := g.partA(dc, src.Disl1, src.Disl2, src.Disl3)

			var du [12]float64
			for i := 0; i < 12; i += 3 {
				du[i] = -dua[i]
				du[i+1] = -dua[i+1]*cd + dua[i+2]*sd
				du[i+2] = -dua[i+1]*sd - dua[i+2]*cd
			}
			du[9], du[10], du[11] = -du[9], -du[10], -du[11]
			accumulate(&u, &du, j+k == 1)
		}
	}

	// image source
	d = src.Depth - z
	et, q = edgeCoordinates(y, d, sd, cd, src.AW1, src.AW2)
	if onEdge(xi, et, q) {
		return Response{}, Singular
	}
	kxi, ket = negativeExtension(xi, et, q)
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			g := newSourceGeometry(xi[j], et[k], q, sd, cd, kxi[k], ket[j])
			dua := g.partA(dc, src.Disl1, src.Disl2, src.Disl3)
			dub := g.partB(dc, src.Disl1, src.Disl2, src.Disl3)
			duc := g.partC(dc, z, src.Disl1, src.Disl2, src.Disl3)

			var du [12]float64
			for i := 0; i < 12; i += 3 {
				du[i] = dua[i] + dub[i] + z*duc[i]
				du[i+1] = (dua[i+1]+dub[i+1]+z*duc[i+1])*cd -
					(dua[i+2]+dub[i+2]+z*duc[i+2])*sd
				du[i+2] = (dua[i+1]+dub[i+1]-z*duc[i+1])*sd +
					(dua[i+2]+dub[i+2]-z*duc[i+2])*cd
			}
			du[9] += duc[0]
			du[10] += duc[1]*cd - duc[2]*sd
			du[11] += -duc[1]*sd - duc[2]*cd
			accumulate(&u, &du, j+k == 1)
		}
	}

	return responseOf(&u), Normal
}

func accumulate(u, du *[12]float64, subtract bool) {
	for i := range u {
		if subtract {
			u[i] -= du[i]
		} else {
			u[i] += du[i]
		}
	}
}

// edgeCoordinates returns η at both along-dip bounds and q for a source
// whose reference point sits at depth d.
func edgeCoordinates(y, d, sd, cd, aw1, aw2 float64) ([2]float64, float64) {
	p := y*cd + d*sd
	q := snap(y*sd - d*cd)
	return [2]float64{snap(p - aw1), snap(p - aw2)}, q
}

func onEdge(xi, et [2]float64, q float64) bool {
	if q != 0 {
		return false
	}
	return (xi[0]*xi[1] <= 0 && et[0]*et[1] == 0) ||
		(et[0]*et[1] <= 0 && xi[0]*xi[1] == 0)
}

// negativeExtension flags evaluations on the negative extension of a fault
// edge, where log(R+ξ) or log(R+η) would otherwise lose all precision.
func negativeExtension(xi, et [2]float64, q float64) (kxi, ket [2]bool) {
	q2 := q * q
	r12 := math.Sqrt(xi[0]*xi[0] + et[1]*et[1] + q2)
	r21 := math.Sqrt(xi[1]*xi[1] + et[0]*et[0] + q2)
	r22 := math.Sqrt(xi[1]*xi[1] + et[1]*et[1] + q2)
	kxi[0] = xi[0] < 0 && r21+xi[1] < eps
	kxi[1] = xi[0] < 0 && r22+xi[1] < eps
	ket[0] = et[0] < 0 && r12+et[1] < eps
	ket[1] = et[0] < 0 && r22+et[1] < eps
	return kxi, ket
}
