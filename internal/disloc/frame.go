package disloc

import "math"

// Frame is the rotation between the global east/north frame and a patch's
// local frame, in which x runs along strike. The rotation angle is
// θ = strike - 90°.
type Frame struct {
	cs, ss float64
}

// NewFrame returns the frame of a patch with the given strike in degrees
func NewFrame(strike float64) Frame {
	ss, cs := sincosDeg(strike - 90)
	return Frame{cs: cs, ss: ss}
}

// sincosDeg is exact at multiples of 90 degrees
func sincosDeg(deg float64) (sin, cos float64) {
	if math.Mod(deg, 90) == 0 {
		switch (int(math.Mod(deg/90, 4)) + 4) % 4 {
		case 0:
			return 0, 1
		case 1:
			return 1, 0
		case 2:
			return 0, -1
		case 3:
			return -1, 0
		}
	}
	return math.Sincos(deg * math.Pi / 180)
}

// ToLocal rotates a horizontal offset from the patch reference point into
// the local frame
func (f Frame) ToLocal(dEast, dNorth float64) (x, y float64) {
	x = f.cs*dEast - f.ss*dNorth
	y = f.ss*dEast + f.cs*dNorth
	return x, y
}

// VectorToGlobal rotates a local vector into east/north/up
func (f Frame) VectorToGlobal(v [3]float64) [3]float64 {
	cs, ss := f.cs, f.ss
	return [3]float64{
		cs*v[0] + ss*v[1],
		-ss*v[0] + cs*v[1],
		v[2],
	}
}

// TensorToGlobal rotates a row-major local gradient tensor, t' = R t Rᵀ
func (f Frame) TensorToGlobal(t [9]float64) [9]float64 {
	cs, ss := f.cs, f.ss
	cs2, ss2, csss := cs*cs, ss*ss, cs*ss

	uxx, uxy, uxz := t[0], t[1], t[2]
	uyx, uyy, uyz := t[3], t[4], t[5]
	uzx, uzy, uzz := t[6], t[7], t[8]

	return [9]float64{
		cs2*uxx + csss*(uxy+uyx) + ss2*uyy,
		cs2*uxy - ss2*uyx + csss*(-uxx+uyy),
		cs*uxz + ss*uyz,

		-ss*(cs*uxx+ss*uxy) + cs*(cs*uyx+ss*uyy),
		ss2*uxx - csss*(uxy+uyx) + cs2*uyy,
		-ss*uxz + cs*uyz,

		cs*uzx + ss*uzy,
		-ss*uzx + cs*uzy,
		uzz,
	}
}
