package okada

import "math"

const eps = 1e-6

// snap clears values that are zero to within eps so edge tests are exact
func snap(v float64) float64 {
	if math.Abs(v) < eps {
		return 0
	}
	return v
}

// dipConstants holds the medium and dip dependent constants
type dipConstants struct {
	alp1, alp2, alp3, alp4, alp5 float64

	sd, cd           float64
	sdsd, cdcd, sdcd float64
}

func newDipConstants(alpha, dip float64) dipConstants {
	c := dipConstants{
		alp1: (1 - alpha) / 2,
		alp2: alpha / 2,
		alp3: (1 - alpha) / alpha,
		alp4: 1 - alpha,
		alp5: alpha,
	}

	rad := dip * math.Pi / 180
	c.sd = math.Sin(rad)
	c.cd = math.Cos(rad)
	if math.Abs(c.cd) < eps {
		c.cd = 0
		switch {
		case c.sd > 0:
			c.sd = 1
		case c.sd < 0:
			c.sd = -1
		}
	}
	c.sdsd = c.sd * c.sd
	c.cdcd = c.cd * c.cd
	c.sdcd = c.sd * c.cd
	return c
}

// sourceGeometry holds the quantities shared by parts A, B and C for one
// corner (ξ, η) of the fault.
type sourceGeometry struct {
	xi, et, q     float64
	xi2, et2, q2  float64
	r, r2, r3, r5 float64
	y, d, tt      float64
	alx, ale      float64
	x11, y11      float64
	x32, y32      float64
	ey, ez        float64
	fy, fz        float64
	gy, gz        float64
	hy, hz        float64
}

func newSourceGeometry(xi, et, q, sd, cd float64, kxi, ket bool) sourceGeometry {
	g := sourceGeometry{xi: snap(xi), et: snap(et), q: snap(q)}
	xi, et, q = g.xi, g.et, g.q

	g.xi2 = xi * xi
	g.et2 = et * et
	g.q2 = q * q
	g.r2 = g.xi2 + g.et2 + g.q2
	g.r = math.Sqrt(g.r2)
	if g.r == 0 {
		return g
	}
	r := g.r
	g.r3 = r * g.r2
	g.r5 = g.r3 * g.r2
	g.y = et*cd + q*sd
	g.d = et*sd - q*cd

	if q != 0 {
		g.tt = math.Atan(xi * et / (q * r))
	}

	if kxi {
		g.alx = -math.Log(r - xi)
	} else {
		rxi := r + xi
		g.alx = math.Log(rxi)
		g.x11 = 1 / (r * rxi)
		g.x32 = (r + rxi) * g.x11 * g.x11 / r
	}

	if ket {
		g.ale = -math.Log(r - et)
	} else {
		ret := r + et
		g.ale = math.Log(ret)
		g.y11 = 1 / (r * ret)
		g.y32 = (r + ret) * g.y11 * g.y11 / r
	}

	g.ey = sd/r - g.y*q/g.r3
	g.ez = cd/r + g.d*q/g.r3
	g.fy = g.d/g.r3 + g.xi2*g.y32*sd
	g.fz = g.y/g.r3 + g.xi2*g.y32*cd
	g.gy = 2*g.x11*sd - g.y*q*g.x32
	g.gz = 2*g.x11*cd + g.d*q*g.x32
	g.hy = g.d*q*g.x32 + xi*q*g.y32*sd
	g.hz = g.y*q*g.x32 + xi*q*g.y32*cd
	return g
}
