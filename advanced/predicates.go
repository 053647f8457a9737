package advanced

import (
	"math"
	"math/big"

	"github.com/golang/geo/r2"
)

// Robust geometric predicates. Each one evaluates its determinant in floating
// point first, and only when the result is smaller than a forward error bound
// does it recompute exactly with big.Float. The bounds are Shewchuk's.

const epsilon = 1.0 / (1 << 53)

var (
	ccwErrBoundA = (3.0 + 16.0*epsilon) * epsilon
	iccErrBoundA = (10.0 + 96.0*epsilon) * epsilon
)

// newBigFloat constructs a new big.Float with maximum precision, so that sums
// and products of float64 values are exact.
func newBigFloat() *big.Float { return new(big.Float).SetPrec(big.MaxPrec) }

func bigSub(a, b float64) *big.Float {
	return newBigFloat().Sub(newBigFloat().SetFloat64(a), newBigFloat().SetFloat64(b))
}

func bigMul(a, b *big.Float) *big.Float {
	return newBigFloat().Mul(a, b)
}

// Convert an exact determinant back to float64 without losing its sign to
// underflow.
func bigToFloat(det *big.Float) float64 {
	f, _ := det.Float64()
	if f == 0 && det.Sign() != 0 {
		return float64(det.Sign()) * math.SmallestNonzeroFloat64
	}
	return f
}

// CounterClockwise returns a positive value if a, b and c occur in
// counterclockwise order, a negative value if clockwise, and zero if they are
// collinear. The magnitude is roughly twice the signed triangle area.
func CounterClockwise(a, b, c r2.Point) float64 {
	return counterClockwise(a, b, c, false)
}

func counterClockwise(pa, pb, pc r2.Point, noExact bool) float64 {
	detleft := (pa.X - pc.X) * (pb.Y - pc.Y)
	detright := (pa.Y - pc.Y) * (pb.X - pc.X)
	det := detleft - detright
	if noExact {
		return det
	}

	var detsum float64
	if detleft > 0 {
		if detright <= 0 {
			return det
		}
		detsum = detleft + detright
	} else if detleft < 0 {
		if detright >= 0 {
			return det
		}
		detsum = -detleft - detright
	} else {
		return det
	}

	errbound := ccwErrBoundA * detsum
	if det >= errbound || -det >= errbound {
		return det
	}
	return exactCounterClockwise(pa, pb, pc)
}

func exactCounterClockwise(pa, pb, pc r2.Point) float64 {
	acx, acy := bigSub(pa.X, pc.X), bigSub(pa.Y, pc.Y)
	bcx, bcy := bigSub(pb.X, pc.X), bigSub(pb.Y, pc.Y)
	det := newBigFloat().Sub(bigMul(acx, bcy), bigMul(acy, bcx))
	return bigToFloat(det)
}

// InCircle returns a positive value if d lies inside the circle through a, b
// and c, a negative value if outside, and zero if the four are cocircular.
// a, b and c must be in counterclockwise order.
func InCircle(a, b, c, d r2.Point) float64 {
	return inCircle(a, b, c, d, false)
}

func inCircle(pa, pb, pc, pd r2.Point, noExact bool) float64 {
	adx, ady := pa.X-pd.X, pa.Y-pd.Y
	bdx, bdy := pb.X-pd.X, pb.Y-pd.Y
	cdx, cdy := pc.X-pd.X, pc.Y-pd.Y

	bdxcdy, cdxbdy := bdx*cdy, cdx*bdy
	alift := adx*adx + ady*ady

	cdxady, adxcdy := cdx*ady, adx*cdy
	blift := bdx*bdx + bdy*bdy

	adxbdy, bdxady := adx*bdy, bdx*ady
	clift := cdx*cdx + cdy*cdy

	det := alift*(bdxcdy-cdxbdy) + blift*(cdxady-adxcdy) + clift*(adxbdy-bdxady)
	if noExact {
		return det
	}

	permanent := (math.Abs(bdxcdy)+math.Abs(cdxbdy))*alift +
		(math.Abs(cdxady)+math.Abs(adxcdy))*blift +
		(math.Abs(adxbdy)+math.Abs(bdxady))*clift
	errbound := iccErrBoundA * permanent
	if det > errbound || -det > errbound {
		return det
	}
	return exactInCircle(pa, pb, pc, pd)
}

func exactInCircle(pa, pb, pc, pd r2.Point) float64 {
	adx, ady := bigSub(pa.X, pd.X), bigSub(pa.Y, pd.Y)
	bdx, bdy := bigSub(pb.X, pd.X), bigSub(pb.Y, pd.Y)
	cdx, cdy := bigSub(pc.X, pd.X), bigSub(pc.Y, pd.Y)

	lift := func(x, y *big.Float) *big.Float {
		return newBigFloat().Add(bigMul(x, x), bigMul(y, y))
	}
	cross := func(x1, y1, x2, y2 *big.Float) *big.Float {
		return newBigFloat().Sub(bigMul(x1, y2), bigMul(x2, y1))
	}

	det := bigMul(lift(adx, ady), cross(bdx, bdy, cdx, cdy))
	det.Add(det, bigMul(lift(bdx, bdy), cross(cdx, cdy, adx, ady)))
	det.Add(det, bigMul(lift(cdx, cdy), cross(adx, ady, bdx, bdy)))
	return bigToFloat(det)
}

// NonRegular is the Delaunay test used by flips. Without vertex weights it is
// the same as InCircle.
func NonRegular(a, b, c, d r2.Point) float64 {
	return inCircle(a, b, c, d, false)
}

// FindCircumcenter returns the circumcenter of org, dest and apex. When
// offConstant is positive and the circumcenter is farther from the shortest
// edge than the off-center point on that edge's bisector, the off-center is
// returned instead. xi and eta are the barycentric-style coordinates of the
// result relative to the edges org-dest and org-apex; splitTriangle uses them
// to pick which edge to start point location from.
func FindCircumcenter(org, dest, apex r2.Point, offConstant float64) (center r2.Point, xi, eta float64) {
	return findCircumcenter(org, dest, apex, offConstant, false)
}

func findCircumcenter(org, dest, apex r2.Point, offConstant float64, noExact bool) (r2.Point, float64, float64) {
	xdo, ydo := dest.X-org.X, dest.Y-org.Y
	xao, yao := apex.X-org.X, apex.Y-org.Y
	dodist := xdo*xdo + ydo*ydo
	aodist := xao*xao + yao*yao
	dadist := (dest.X-apex.X)*(dest.X-apex.X) + (dest.Y-apex.Y)*(dest.Y-apex.Y)

	var denominator float64
	if noExact {
		denominator = 0.5 / (xdo*yao - xao*ydo)
	} else {
		// Use the robust orientation so that nearly flat triangles still get a
		// circumcenter on the right side.
		denominator = 0.5 / counterClockwise(dest, apex, org, false)
	}

	dx := (yao*dodist - ydo*aodist) * denominator
	dy := (xdo*aodist - xao*dodist) * denominator

	if dodist < aodist && dodist < dadist {
		if offConstant > 0 {
			dxoff := 0.5*xdo - offConstant*ydo
			dyoff := 0.5*ydo + offConstant*xdo
			if dxoff*dxoff+dyoff*dyoff < dx*dx+dy*dy {
				dx, dy = dxoff, dyoff
			}
		}
	} else if aodist < dadist {
		if offConstant > 0 {
			dxoff := 0.5*xao + offConstant*yao
			dyoff := 0.5*yao - offConstant*xao
			if dxoff*dxoff+dyoff*dyoff < dx*dx+dy*dy {
				dx, dy = dxoff, dyoff
			}
		}
	} else {
		if offConstant > 0 {
			dxoff := 0.5*(apex.X-dest.X) - offConstant*(apex.Y-dest.Y)
			dyoff := 0.5*(apex.Y-dest.Y) + offConstant*(apex.X-dest.X)
			if dxoff*dxoff+dyoff*dyoff < (dx-xdo)*(dx-xdo)+(dy-ydo)*(dy-ydo) {
				dx, dy = xdo+dxoff, ydo+dyoff
			}
		}
	}

	xi := (yao*dx - xao*dy) * (2.0 * denominator)
	eta := (xdo*dy - ydo*dx) * (2.0 * denominator)
	return r2.Point{X: org.X + dx, Y: org.Y + dy}, xi, eta
}
