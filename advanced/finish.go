package advanced

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// A Region seeds a flood fill that assigns a label (and optionally a maximum
// triangle area) to every triangle reachable from Point without crossing a
// subsegment.
type Region struct {
	Point r2.Point
	Label int
	Area  float64
}

type FinishOptions struct {
	// Points inside holes. Everything reachable from them without crossing a
	// subsegment is removed.
	Holes   []r2.Point
	Regions []Region
	// Keep the whole convex hull instead of eating away the triangles outside
	// the outermost segments. The hull edges become subsegments.
	EncloseConvexHull bool
}

// Finish removes the bounding triangle and carves the mesh down to the
// domain described by its segments and holes. After Finish, vertices can
// still be inserted inside the domain, but not outside it.
func (m *Mesh) Finish(opts FinishOptions) error {
	if m.finished {
		return ErrFinished
	}
	live := 0
	for _, v := range m.vertices {
		if v.Alive() {
			live++
		}
	}
	if live < 3 {
		return errors.Wrapf(ErrTooFewVertices, "got %d", live)
	}

	isPSLG := m.insegments > 0
	m.hullsize = m.removeBox(!isPSLG)
	m.infvertex = [3]*Vertex{}
	m.locator.reset()
	if m.triangles.count() == 0 {
		return errors.Wrap(ErrTooFewVertices, "all vertices are collinear")
	}

	if opts.EncloseConvexHull || !isPSLG {
		m.markHull()
	}
	m.carve(opts, isPSLG && !opts.EncloseConvexHull)

	m.finished = true
	m.Prune()
	Logger().Debug("mesh finished",
		"vertices", live-m.undeads,
		"triangles", m.triangles.count(),
		"subsegments", m.subsegs.count(),
		"hull", m.hullsize)
	return nil
}

// removeBox deletes the triangles touching the bounding triangle's corners
// and returns the number of edges on the convex hull that is left.
func (m *Mesh) removeBox(markHullVertices bool) int {
	nextedge := m.hullStart()
	finaledge := nextedge.Lprev()
	nextedge = nextedge.Lnext().Sym()

	// Find a real triangle on the hull to leave in the dummy's slot.
	searchedge := nextedge.Lprev().Sym()
	if nextedge.Lnext().Sym().IsDummy() {
		searchedge = searchedge.Lprev().Sym()
	}
	m.dummytri.neighbors[0] = searchedge

	hullsize := -2
	for nextedge != finaledge {
		hullsize++
		dissolveedge := nextedge.Lprev().Sym()
		if markHullVertices && !dissolveedge.IsDummy() {
			if org := dissolveedge.Org(); org.Label == 0 {
				org.Label = 1
			}
		}
		dissolveedge.Dissolve(m.dummytri)
		deadtriangle := nextedge.Lnext()
		nextedge = deadtriangle.Sym()
		m.triangleDealloc(deadtriangle.tri)
		if nextedge.IsDummy() {
			nextedge = dissolveedge
		}
	}
	m.triangleDealloc(finaledge.tri)
	return hullsize
}

// carve removes the triangles outside the segments (when eatHull is set) and
// inside holes, then floods region attributes.
func (m *Mesh) carve(opts FinishOptions, eatHull bool) {
	var viri []*Triangle
	if eatHull {
		viri = m.infectHull(viri)
	}

	if m.insegments > 0 {
		for _, hole := range opts.Holes {
			if tri, ok := m.seedTriangle(hole); ok && !tri.Infected() {
				tri.Infect()
				viri = append(viri, tri.tri)
			}
		}
	}

	regionTris := make([]*Triangle, len(opts.Regions))
	for i, region := range opts.Regions {
		if tri, ok := m.seedTriangle(region.Point); ok && !tri.Infected() {
			regionTris[i] = tri.tri
			tri.tri.Label = region.Label
			tri.tri.Area = region.Area
		}
	}

	if len(viri) > 0 {
		m.plague(viri)
	}

	var iterator RegionIterator
	for _, t := range regionTris {
		if t != nil && !t.IsDead() {
			iterator.Process(t, nil, 0)
		}
	}
}

// Find the triangle containing a hole or region seed point, if it is inside
// the triangulation.
func (m *Mesh) seedTriangle(p r2.Point) (OTri, bool) {
	if !m.bounds.ContainsPoint(p) {
		return OTri{}, false
	}
	searchtri := m.hullStart()
	if searchtri.IsDummy() {
		return OTri{}, false
	}
	searchtri, loc := m.locatePoint(p, searchtri)
	if loc == Outside {
		return OTri{}, false
	}
	return searchtri, true
}

// infectHull marks every hull triangle not protected by a subsegment.
// Protected hull edges get boundary label 1 if unlabeled.
func (m *Mesh) infectHull(viri []*Triangle) []*Triangle {
	hulltri := m.hullStart()
	starttri := hulltri
	for {
		if !hulltri.Infected() {
			hullsubseg := hulltri.Pivot()
			if hullsubseg.IsDummy() {
				hulltri.Infect()
				viri = append(viri, hulltri.tri)
			} else if hullsubseg.seg.Label == 0 {
				hullsubseg.seg.Label = 1
				if org := hulltri.Org(); org.Label == 0 {
					org.Label = 1
				}
				if dest := hulltri.Dest(); dest.Label == 0 {
					dest.Label = 1
				}
			}
		}
		hulltri = hulltri.Lnext()
		for nexttri := hulltri.Oprev(); !nexttri.IsDummy(); nexttri = hulltri.Oprev() {
			hulltri = nexttri
		}
		if hulltri == starttri {
			break
		}
	}
	return viri
}

// plague spreads the infection from viri to every triangle reachable
// without crossing a subsegment, then deletes all infected triangles.
// Subsegments between two infected triangles (or an infected triangle and
// the exterior) go too. Vertices left with no triangle become undead.
func (m *Mesh) plague(viri []*Triangle) {
	for i := 0; i < len(viri); i++ {
		testtri := OTri{viri[i], 0}
		// Temporarily uninfect so that the neighbor loop can tell it apart.
		testtri.Uninfect()
		for ; testtri.orient < 3; testtri.orient++ {
			neighbor := testtri.Sym()
			neighborsubseg := testtri.Pivot()
			if neighbor.IsDummy() || neighbor.Infected() {
				if !neighborsubseg.IsDummy() {
					// Both sides are going away, so the subsegment does too.
					m.subsegDealloc(neighborsubseg.seg)
					if !neighbor.IsDummy() {
						neighbor.Uninfect()
						neighbor.SegDissolve(m.dummysub)
						neighbor.Infect()
					}
				}
			} else if neighborsubseg.IsDummy() {
				neighbor.Infect()
				viri = append(viri, neighbor.tri)
			} else {
				// The neighbor survives and the subsegment becomes part of the
				// boundary.
				neighborsubseg.TriDissolve(m.dummytri)
				if neighborsubseg.seg.Label == 0 {
					neighborsubseg.seg.Label = 1
				}
				if org := neighbor.Org(); org.Label == 0 {
					org.Label = 1
				}
				if dest := neighbor.Dest(); dest.Label == 0 {
					dest.Label = 1
				}
			}
		}
		viri[i].infected = true
	}

	for _, virus := range viri {
		testtri := OTri{virus, 0}
		for ; testtri.orient < 3; testtri.orient++ {
			testvertex := testtri.Org()
			if testvertex == nil {
				continue
			}
			// Walk around the vertex; it dies only if every triangle around it
			// is infected. Corners already visited are cleared so each vertex
			// is only checked once.
			killorg := true
			testtri.SetOrg(nil)
			neighbor := testtri.Onext()
			for !neighbor.IsDummy() && neighbor != testtri {
				if neighbor.Infected() {
					neighbor.SetOrg(nil)
				} else {
					killorg = false
				}
				neighbor = neighbor.Onext()
			}
			if neighbor.IsDummy() {
				for neighbor = testtri.Oprev(); !neighbor.IsDummy(); neighbor = neighbor.Oprev() {
					if neighbor.Infected() {
						neighbor.SetOrg(nil)
					} else {
						killorg = false
					}
				}
			}
			if killorg {
				testvertex.Kind = UndeadVertex
				m.undeads++
			}
		}

		for testtri.orient = 0; testtri.orient < 3; testtri.orient++ {
			neighbor := testtri.Sym()
			if neighbor.IsDummy() {
				m.hullsize--
			} else {
				neighbor.Dissolve(m.dummytri)
				m.hullsize++
			}
		}
		m.triangleDealloc(virus)
	}
}
