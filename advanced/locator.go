package advanced

import (
	"math/rand"

	"github.com/golang/geo/r2"
)

type LocateResult int

const (
	InTriangle LocateResult = iota
	OnEdge
	OnVertex
	Outside
)

func (r LocateResult) String() string {
	switch r {
	case InTriangle:
		return "in triangle"
	case OnEdge:
		return "on edge"
	case OnVertex:
		return "on vertex"
	case Outside:
		return "outside"
	}
	return "unknown"
}

const (
	defaultSamplerSeed = 110503
	// Samples are grown until sampleFactor*samples^3 covers the triangle count,
	// which keeps expected point location cost around O(n^(1/3)).
	sampleFactor = 11
)

// locator finds the triangle containing a point. It starts from the closest of
// a caller hint, the most recently touched triangle and a handful of random
// samples, then walks.
type locator struct {
	m      *Mesh
	recent OTri
	rng    *rand.Rand

	samples       int
	triangleCount int
}

func newLocator(m *Mesh, seed int64) *locator {
	return &locator{
		m:       m,
		rng:     rand.New(rand.NewSource(seed)),
		samples: 1,
	}
}

func (l *locator) update(o OTri) {
	l.recent = o
}

func (l *locator) reset() {
	l.recent = OTri{}
	l.samples = 1
	l.triangleCount = 0
}

func (l *locator) updateSamples() {
	count := len(l.m.triangles.live)
	if l.triangleCount != count {
		l.triangleCount = count
		for sampleFactor*l.samples*l.samples*l.samples < count {
			l.samples++
		}
	}
}

// preciseLocate walks from searchTri towards p. On return searchTri is the
// triangle containing p; for OnEdge its origin-destination edge holds p, and
// for OnVertex its origin is p. The walk requires p to lie to the left of (or
// on) searchTri's edge. With stopAtSubsegment, the walk refuses to cross
// subsegments and reports Outside with searchTri facing the blocking edge.
func (l *locator) preciseLocate(p r2.Point, searchTri *OTri, stopAtSubsegment bool) LocateResult {
	noExact := l.m.behavior.noExact
	forg := searchTri.Org()
	fdest := searchTri.Dest()
	fapex := searchTri.Apex()
	// A walk through a valid triangulation never revisits a triangle.
	limit := len(l.m.triangles.live) + 2
	for steps := 0; ; steps++ {
		if steps > limit {
			fatalf("point location for (%g, %g) did not terminate after %d steps", p.X, p.Y, steps)
		}
		if fapex.sameAs(p) {
			*searchTri = searchTri.Lprev()
			return OnVertex
		}
		destorient := counterClockwise(forg.Point, fapex.Point, p, noExact)
		orgorient := counterClockwise(fapex.Point, fdest.Point, p, noExact)

		var moveleft bool
		if destorient > 0 {
			if orgorient > 0 {
				// Both edges face p; take the one whose direction is closer.
				moveleft = (fapex.X-p.X)*(fdest.X-forg.X)+(fapex.Y-p.Y)*(fdest.Y-forg.Y) > 0
			} else {
				moveleft = true
			}
		} else if orgorient > 0 {
			moveleft = false
		} else {
			if destorient == 0 {
				*searchTri = searchTri.Lprev()
				return OnEdge
			}
			if orgorient == 0 {
				*searchTri = searchTri.Lnext()
				return OnEdge
			}
			return InTriangle
		}

		var backtrack OTri
		if moveleft {
			backtrack = searchTri.Lprev()
			fdest = fapex
		} else {
			backtrack = searchTri.Lnext()
			forg = fapex
		}
		*searchTri = backtrack.Sym()

		if l.m.checksegments && stopAtSubsegment && !backtrack.Pivot().IsDummy() {
			*searchTri = backtrack
			return Outside
		}
		if searchTri.IsDummy() {
			*searchTri = backtrack
			return Outside
		}
		fapex = searchTri.Apex()
	}
}

// locate finds p starting from whichever of searchTri, the recent triangle
// and the random samples has the closest origin.
func (l *locator) locate(p r2.Point, searchTri *OTri) LocateResult {
	torg := searchTri.Org()
	searchdist := squaredDistance(p, torg.Point)

	if !l.recent.IsNil() && !l.recent.tri.IsDead() && !l.recent.IsDummy() {
		torg = l.recent.Org()
		if torg.sameAs(p) {
			*searchTri = l.recent
			return OnVertex
		}
		if dist := squaredDistance(p, torg.Point); dist < searchdist {
			*searchTri = l.recent
			searchdist = dist
		}
	}

	l.updateSamples()
	l.m.triangles.sample(l.samples, l.rng, func(t *Triangle) {
		sample := OTri{t, 0}
		if dist := squaredDistance(p, sample.Org().Point); dist < searchdist {
			*searchTri = sample
			searchdist = dist
		}
	})

	torg = searchTri.Org()
	tdest := searchTri.Dest()
	if torg.sameAs(p) {
		return OnVertex
	}
	if tdest.sameAs(p) {
		*searchTri = searchTri.Lnext()
		return OnVertex
	}

	ahead := counterClockwise(torg.Point, tdest.Point, p, l.m.behavior.noExact)
	if ahead < 0 {
		// p is behind the edge; look from the other side.
		sym := searchTri.Sym()
		if sym.IsDummy() {
			return Outside
		}
		*searchTri = sym
	} else if ahead == 0 {
		if (torg.X < p.X) == (p.X < tdest.X) && (torg.Y < p.Y) == (p.Y < tdest.Y) {
			return OnEdge
		}
	}
	return l.preciseLocate(p, searchTri, false)
}

func squaredDistance(a, b r2.Point) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
