package disloc

// Stress derives the stress tensor from a displacement gradient by
// isotropic linear elasticity. The dilatation is taken from the diagonal
// of the raw gradient; off-diagonal entries are μ(d_ij + d_ji), written to
// both symmetric slots.
func Stress(d [9]float64, ec ElasticConstants) [9]float64 {
	lambda := ec.Lambda()
	mu := ec.Mu

	theta := d[0] + d[4] + d[8]
	sxy := mu * (d[1] + d[3])
	sxz := mu * (d[2] + d[6])
	syz := mu * (d[5] + d[7])

	return [9]float64{
		lambda*theta + 2*mu*d[0], sxy, sxz,
		sxy, lambda*theta + 2*mu*d[4], syz,
		sxz, syz, lambda*theta + 2*mu*d[8],
	}
}

// Strain returns the symmetric part of a displacement gradient
func Strain(d [9]float64) [9]float64 {
	exy := 0.5 * (d[1] + d[3])
	exz := 0.5 * (d[2] + d[6])
	eyz := 0.5 * (d[5] + d[7])

	return [9]float64{
		d[0], exy, exz,
		exy, d[4], eyz,
		exz, eyz, d[8],
	}
}
