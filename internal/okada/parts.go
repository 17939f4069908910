package okada

import "math"

const twoPi = 2 * math.Pi

// addScaled adds disl/2π · du to u when the dislocation component is non-zero
func addScaled(u *[12]float64, disl float64, du [12]float64) {
	if disl == 0 {
		return
	}
	f := disl / twoPi
	for i := range u {
		u[i] += f * du[i]
	}
}

// partA is the full-space term of the field (Okada 1992, part A)
func (g *sourceGeometry) partA(c dipConstants, disl1, disl2, disl3 float64) [12]float64 {
	var u [12]float64
	xi, et, q := g.xi, g.et, g.q
	sd, cd := c.sd, c.cd
	a1, a2 := c.alp1, c.alp2
	r, r3 := g.r, g.r3

	xy := xi * g.y11
	qx := q * g.x11
	qy := q * g.y11

	// strike-slip
	addScaled(&u, disl1, [12]float64{
		g.tt/2 + a2*xi*qy,
		a2 * q / r,
		a1*g.ale - a2*q*qy,
		-a1*qy - a2*g.xi2*q*g.y32,
		-a2 * xi * q / r3,
		a1*xy + a2*xi*g.q2*g.y32,
		a1*xy*sd + a2*xi*g.fy + g.d/2*g.x11,
		a2 * g.ey,
		a1*(cd/r+qy*sd) - a2*q*g.fy,
		a1*xy*cd + a2*xi*g.fz + g.y/2*g.x11,
		a2 * g.ez,
		-a1*(sd/r-qy*cd) - a2*q*g.fz,
	})

	// dip-slip
	addScaled(&u, disl2, [12]float64{
		a2 * q / r,
		g.tt/2 + a2*et*qx,
		a1*g.alx - a2*q*qx,
		-a2 * xi * q / r3,
		-qy/2 - a2*et*q/r3,
		a1/r + a2*g.q2/r3,
		a2 * g.ey,
		a1*g.d*g.x11 + xy/2*sd + a2*et*g.gy,
		a1*g.y*g.x11 - a2*q*g.gy,
		a2 * g.ez,
		a1*g.y*g.x11 + xy/2*cd + a2*et*g.gz,
		-a1*g.d*g.x11 - a2*q*g.gz,
	})

	// tensile
	addScaled(&u, disl3, [12]float64{
		-a1*g.ale - a2*q*qy,
		-a1*g.alx - a2*q*qx,
		g.tt/2 - a2*(et*qx+xi*qy),
		-a1*xy + a2*xi*g.q2*g.y32,
		-a1/r + a2*g.q2/r3,
		-a1*qy - a2*q*g.q2*g.y32,
		-a1*(cd/r+qy*sd) - a2*q*g.fy,
		-a1*g.y*g.x11 - a2*q*g.gy,
		a1*(g.d*g.x11+xy*sd) + a2*q*g.hy,
		a1*(sd/r-qy*cd) - a2*q*g.fz,
		a1*g.d*g.x11 - a2*q*g.gz,
		a1*(g.y*g.x11+xy*cd) + a2*q*g.hz,
	})
	return u
}

// partB is the surface-deformation term (Okada 1992, part B)
func (g *sourceGeometry) partB(c dipConstants, disl1, disl2, disl3 float64) [12]float64 {
	var u [12]float64
	xi, et, q := g.xi, g.et, g.q
	sd, cd := c.sd, c.cd
	sdsd, cdcd, sdcd := c.sdsd, c.cdcd, c.sdcd
	a3 := c.alp3
	r, r3 := g.r, g.r3
	y, d := g.y, g.d

	rd := r + d
	d11 := 1 / (r * rd)
	aj2 := xi * y / rd * d11
	aj5 := -(d + y*y/rd) * d11

	var ai3, ai4, ak1, ak3, aj3, aj6 float64
	if cd != 0 {
		if xi != 0 {
			x := math.Sqrt(g.xi2 + g.q2)
			ai4 = 1 / cdcd * (xi/rd*sdcd +
				2*math.Atan((et*(x+q*cd)+x*(r+x)*sd)/(xi*(r+x)*cd)))
		}
		ai3 = (y*cd/rd - g.ale + sd*math.Log(rd)) / cdcd
		ak1 = xi * (d11 - g.y11*sd) / cd
		ak3 = (q*g.y11 - y*d11) / cd
		aj3 = (ak1 - aj2*sd) / cd
		aj6 = (ak3 - aj5*sd) / cd
	} else {
		rd2 := rd * rd
		ai3 = (et/rd + y*q/rd2 - g.ale) / 2
		ai4 = xi * y / rd2 / 2
		ak1 = xi * q / rd * d11
		ak3 = sd / rd * (g.xi2*d11 - 1)
		aj3 = -xi / rd2 * (g.q2*d11 - 0.5)
		aj6 = -y / rd2 * (g.xi2*d11 - 0.5)
	}

	xy := xi * g.y11
	ai1 := -xi/rd*cd - ai4*sd
	ai2 := math.Log(rd) + ai3*sd
	ak2 := 1/r + ak3*sd
	ak4 := xy*cd - ak1*sd
	aj1 := aj5*cd - aj6*sd
	aj4 := -xy - aj2*cd + aj3*sd

	qx := q * g.x11
	qy := q * g.y11

	// strike-slip
	addScaled(&u, disl1, [12]float64{
		-xi*qy - g.tt - a3*ai1*sd,
		-q/r + a3*y/rd*sd,
		q*qy - a3*ai2*sd,
		g.xi2*q*g.y32 - a3*aj1*sd,
		xi*q/r3 - a3*aj2*sd,
		-xi*g.q2*g.y32 - a3*aj3*sd,
		-xi*g.fy - d*g.x11 + a3*(xy+aj4)*sd,
		-g.ey + a3*(1/r+aj5)*sd,
		q*g.fy - a3*(qy-aj6)*sd,
		-xi*g.fz - y*g.x11 + a3*ak1*sd,
		-g.ez + a3*y*d11*sd,
		q*g.fz + a3*ak2*sd,
	})

	// dip-slip
	addScaled(&u, disl2, [12]float64{
		-q/r + a3*ai3*sdcd,
		-et*qx - g.tt - a3*xi/rd*sdcd,
		q*qx + a3*ai4*sdcd,
		xi*q/r3 + a3*aj4*sdcd,
		et*q/r3 + qy + a3*aj5*sdcd,
		-g.q2/r3 + a3*aj6*sdcd,
		-g.ey + a3*aj1*sdcd,
		-et*g.gy - xy*sd + a3*aj2*sdcd,
		q*g.gy + a3*aj3*sdcd,
		-g.ez - a3*ak3*sdcd,
		-et*g.gz - xy*cd - a3*xi*d11*sdcd,
		q*g.gz - a3*ak4*sdcd,
	})

	// tensile
	addScaled(&u, disl3, [12]float64{
		q*qy - a3*ai3*sdsd,
		q*qx + a3*xi/rd*sdsd,
		et*qx + xi*qy - g.tt - a3*ai4*sdsd,
		-xi*g.q2*g.y32 - a3*aj4*sdsd,
		-g.q2/r3 - a3*aj5*sdsd,
		q*g.q2*g.y32 - a3*aj6*sdsd,
		q*g.fy - a3*aj1*sdsd,
		q*g.gy - a3*aj2*sdsd,
		-q*g.hy - a3*aj3*sdsd,
		q*g.fz + a3*ak3*sdsd,
		q*g.gz + a3*xi*d11*sdsd,
		-q*g.hz + a3*ak4*sdsd,
	})
	return u
}

// partC is the depth-dependent term (Okada 1992, part C)
func (g *sourceGeometry) partC(c dipConstants, z, disl1, disl2, disl3 float64) [12]float64 {
	var u [12]float64
	xi, et, q := g.xi, g.et, g.q
	sd, cd := c.sd, c.cd
	sdsd, cdcd, sdcd := c.sdsd, c.cdcd, c.sdcd
	a4, a5 := c.alp4, c.alp5
	r, r2, r3, r5 := g.r, g.r2, g.r3, g.r5
	y, d := g.y, g.d
	x11, y11, x32, y32 := g.x11, g.y11, g.x32, g.y32
	xi2, et2, q2 := g.xi2, g.et2, g.q2

	cc := d + z
	x53 := (8*r2 + 9*r*xi + 3*xi2) * x11 * x11 * x11 / r2
	y53 := (8*r2 + 9*r*et + 3*et2) * y11 * y11 * y11 / r2
	h := q*cd - z
	z32 := sd/r3 - h*y32
	z53 := 3*sd/r5 - h*y53
	y0 := y11 - xi2*y32
	z0 := z32 - xi2*z53
	ppy := cd/r3 + q*y32*sd
	ppz := sd/r3 - q*y32*cd
	qq := z*y32 + z32 + z0
	qqy := 3*cc*d/r5 - qq*sd
	qqz := 3*cc*y/r5 - qq*cd + q*y32
	xy := xi * y11
	qy := q * y11
	qr := 3 * q / r5
	cdr := (cc + d) / r3
	yy0 := y/r3 - y0*cd

	// strike-slip
	addScaled(&u, disl1, [12]float64{
		a4*xy*cd - a5*xi*q*z32,
		a4*(cd/r+2*qy*sd) - a5*cc*q/r3,
		a4*qy*cd - a5*(cc*et/r3-z*y11+xi2*z32),
		a4*y0*cd - a5*q*z0,
		-a4*xi*(cd/r3+2*q*y32*sd) + a5*cc*xi*qr,
		-a4*xi*q*y32*cd + a5*xi*(3*cc*et/r5-qq),
		-a4*xi*ppy*cd - a5*xi*qqy,
		a4*2*(d/r3-y0*sd)*sd - y/r3*cd - a5*(cdr*sd-et/r3-cc*y*qr),
		-a4*q/r3 + yy0*sd + a5*(cdr*cd+cc*d*qr-(y0*cd+q*z0)*sd),
		a4*xi*ppz*cd - a5*xi*qqz,
		a4*2*(y/r3-y0*cd)*sd + d/r3*cd - a5*(cdr*cd+cc*d*qr),
		yy0*cd - a5*(cdr*sd-cc*y*qr-y0*sdsd+q*z0*cd),
	})

	// dip-slip
	addScaled(&u, disl2, [12]float64{
		a4*cd/r - qy*sd - a5*cc*q/r3,
		a4*y*x11 - a5*cc*et*q*x32,
		-d*x11 - xy*sd - a5*cc*(x11-q2*x32),
		-a4*xi/r3*cd + a5*cc*xi*qr + xi*q*y32*sd,
		-a4*y/r3 + a5*cc*et*qr,
		d/r3 - y0*sd + a5*cc/r3*(1-3*q2/r2),
		-a4*et/r3 + y0*sdsd - a5*(cdr*sd-cc*y*qr),
		a4*(x11-y*y*x32) - a5*cc*((d+2*q*cd)*x32-y*et*q*x53),
		xi*ppy*sd + y*d*x32 + a5*cc*((y+2*q*sd)*x32-y*q2*x53),
		-q/r3 + y0*sdcd - a5*(cdr*cd+cc*d*qr),
		a4*y*d*x32 - a5*cc*((y-2*q*sd)*x32+d*et*q*x53),
		-xi*ppz*sd + x11 - d*d*x32 - a5*cc*((d-2*q*cd)*x32-d*q2*x53),
	})

	// tensile
	addScaled(&u, disl3, [12]float64{
		-a4*(sd/r+qy*cd) - a5*(z*y11-q2*z32),
		a4*2*xy*sd + d*x11 - a5*cc*(x11-q2*x32),
		a4*(y*x11+xy*cd) + a5*q*(cc*et*x32+xi*z32),
		a4*xi/r3*sd + xi*q*y32*cd + a5*xi*(3*cc*et/r5-2*z32-z0),
		a4*2*y0*sd - d/r3 + a5*cc/r3*(1-3*q2/r2),
		-a4*yy0 - a5*(cc*et*qr-q*z0),
		a4*(q/r3+y0*sdcd) + a5*(z/r3*cd+cc*d*qr-q*z0*sd),
		-a4*2*xi*ppy*sd - y*d*x32 + a5*cc*((y+2*q*sd)*x32-y*q2*x53),
		-a4*(xi*ppy*cd-x11+y*y*x32) + a5*(cc*((d+2*q*cd)*x32-y*et*q*x53)+xi*qqy),
		-et/r3 + y0*cdcd - a5*(z/r3*sd-cc*y*qr-y0*sdsd+q*z0*cd),
		a4*2*xi*ppz*sd - x11 + d*d*x32 - a5*cc*((d-2*q*cd)*x32-d*q2*x53),
		a4*(xi*ppz*cd+y*d*x32) + a5*(cc*((y-2*q*sd)*x32+d*et*q*x53)+xi*qqz),
	})
	return u
}
