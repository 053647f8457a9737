package advanced

import (
	"fmt"

	"github.com/pkg/errors"
)

// CheckConsistency walks every live triangle and verifies that it is
// counterclockwise, that neighbor bonds are symmetric and agree on the shared
// edge, and that every subsegment a triangle refers to refers back to it.
// Subsegments are walked too: each side is the dummy or a live triangle that
// holds the subsegment on the edge between its endpoints. The exact
// predicates are always used.
func (m *Mesh) CheckConsistency() error {
	var horrors []string
	report := func(format string, args ...interface{}) {
		horrors = append(horrors, fmt.Sprintf(format, args...))
	}

	m.triangles.each(func(t *Triangle) {
		for orient := 0; orient < 3; orient++ {
			tri := OTri{t, orient}
			org, dest := tri.Org(), tri.Dest()
			if org == nil || dest == nil {
				report("triangle %d has a missing corner", t.id)
				continue
			}
			if orient == 0 {
				apex := tri.Apex()
				if apex == nil || counterClockwise(org.Point, dest.Point, apex.Point, false) <= 0 {
					report("triangle %d is flat or inverted", t.id)
				}
			}

			oppotri := tri.Sym()
			if oppotri.tri == nil {
				report("triangle %d has a nil neighbor %d", t.id, orient)
				continue
			}
			if !oppotri.IsDummy() {
				if oppotri.tri.IsDead() {
					report("triangle %d is bonded to dead triangle %d", t.id, oppotri.tri.id)
					continue
				}
				if back := oppotri.Sym(); back != tri {
					if back.tri == t {
						report("asymmetric bond between %d and %d (right triangle, wrong orientation)", t.id, oppotri.tri.id)
					} else {
						report("asymmetric bond between %d and %d", t.id, oppotri.tri.id)
					}
				}
				if org != oppotri.Dest() || dest != oppotri.Org() {
					report("mismatched edge coordinates between %d and %d", t.id, oppotri.tri.id)
				}
			}

			if sub := tri.Pivot(); !sub.IsDummy() {
				if sub.seg.IsDead() {
					report("triangle %d refers to dead subsegment %d", t.id, sub.seg.hash)
				} else if sub.PivotTri() != tri {
					report("subsegment %d does not refer back to triangle %d", sub.seg.hash, t.id)
				}
			}
		}
	})

	m.subsegs.each(func(s *SubSegment) {
		for side := 0; side < 2; side++ {
			tri := s.triangles[side]
			switch {
			case tri.tri == nil:
				report("subsegment %d has a nil triangle on side %d", s.hash, side)
			case tri.IsDummy():
			case tri.tri.IsDead():
				report("subsegment %d is bonded to dead triangle %d", s.hash, tri.tri.id)
			case tri.Pivot() != (OSub{s, side}):
				report("triangle %d does not refer back to subsegment %d", tri.tri.id, s.hash)
			case !bondedTo(tri, s.vertices[0], s.vertices[1]):
				report("subsegment %d is bonded to triangle %d across the wrong edge", s.hash, tri.tri.id)
			}
		}
	})

	if len(horrors) == 0 {
		return nil
	}
	for _, h := range horrors {
		Logger().Debug("mesh inconsistency", "detail", h)
	}
	return errors.Errorf("mesh is inconsistent: %d problems, first: %s", len(horrors), horrors[0])
}

// CheckDelaunay verifies that every edge is locally Delaunay. With
// constrained, edges that are subsegments are exempt. Edges touching the
// bounding triangle are never checked.
func (m *Mesh) CheckDelaunay(constrained bool) error {
	horrors := 0
	var first string
	m.triangles.each(func(t *Triangle) {
		for orient := 0; orient < 3; orient++ {
			loop := OTri{t, orient}
			org, dest, apex := loop.Org(), loop.Dest(), loop.Apex()
			oppotri := loop.Sym()
			if oppotri.IsDummy() || oppotri.tri.IsDead() || t.id > oppotri.tri.id {
				continue
			}
			oppoapex := oppotri.Apex()
			if m.isInfinite(org) || m.isInfinite(dest) || m.isInfinite(apex) || m.isInfinite(oppoapex) {
				continue
			}
			if constrained && m.checksegments && !loop.Pivot().IsDummy() {
				continue
			}
			if NonRegular(org.Point, dest.Point, apex.Point, oppoapex.Point) > 0 {
				horrors++
				if first == "" {
					first = fmt.Sprintf("triangles %d/%d", t.id, oppotri.tri.id)
				}
				Logger().Debug("non-regular pair of triangles", "a", t.id, "b", oppotri.tri.id)
			}
		}
	})
	if horrors == 0 {
		return nil
	}
	return errors.Errorf("mesh is not Delaunay: %d non-regular pairs, first: %s", horrors, first)
}
