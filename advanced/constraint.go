package advanced

import "github.com/pkg/errors"

type findDirectionResult int

const (
	within findDirectionResult = iota
	leftCollinear
	rightCollinear
)

// InsertSegment constrains the mesh to contain the straight segment from v1
// to v2, splitting it wherever it crosses an existing subsegment. Every edge
// along the segment becomes a subsegment with the given label.
func (m *Mesh) InsertSegment(v1, v2 *Vertex, label int) error {
	if err := m.checkLiveVertex(v1); err != nil {
		return err
	}
	if err := m.checkLiveVertex(v2); err != nil {
		return err
	}
	if v1 == v2 || v1.Point == v2.Point {
		return errors.Wrapf(ErrDegenerateSegment, "segment %d-%d", v1.ID, v2.ID)
	}

	m.checksegments = true
	m.insegments++
	m.insertSegment(v1, v2, label)
	return nil
}

func (m *Mesh) checkLiveVertex(v *Vertex) error {
	if v == nil || v.ID < 0 || v.ID >= len(m.vertices) || m.vertices[v.ID] != v || !v.Alive() {
		return ErrUnknownVertex
	}
	return nil
}

// Find a handle whose origin is v, using its home triangle if that is still
// current and point location otherwise.
func (m *Mesh) vertexHandle(v *Vertex) OTri {
	home := v.tri
	if !home.IsNil() && !home.tri.IsDead() && !home.IsDummy() && home.Org() == v {
		return home
	}
	searchtri, loc := m.locatePoint(v.Point, OTri{})
	if loc != OnVertex || searchtri.Org() != v {
		fatalf("unable to locate vertex %d in the triangulation", v.ID)
	}
	return searchtri
}

func (m *Mesh) insertSegment(endpoint1, endpoint2 *Vertex, label int) {
	searchtri1 := m.vertexHandle(endpoint1)
	m.locator.update(searchtri1)
	// Walk from endpoint1 along existing edges as far as possible.
	if m.scoutSegment(&searchtri1, endpoint2, label) {
		return
	}
	// The walk stopped at some vertex short of endpoint2. Try from the other
	// end.
	endpoint1 = searchtri1.Org()

	searchtri2 := m.vertexHandle(endpoint2)
	m.locator.update(searchtri2)
	if m.scoutSegment(&searchtri2, endpoint1, label) {
		return
	}
	endpoint2 = searchtri2.Org()

	// What is left crosses triangles; force it in by flipping.
	m.constrainedEdge(searchtri1, endpoint2, label)
}

// findDirection rotates searchtri about its origin until the ray towards
// searchpoint lies inside it (or along one of its edges).
func (m *Mesh) findDirection(searchtri *OTri, searchpoint *Vertex) findDirectionResult {
	noExact := m.behavior.noExact
	startvertex := searchtri.Org()
	rightvertex := searchtri.Dest()
	leftvertex := searchtri.Apex()

	leftccw := counterClockwise(searchpoint.Point, startvertex.Point, leftvertex.Point, noExact)
	leftflag := leftccw > 0
	rightccw := counterClockwise(startvertex.Point, searchpoint.Point, rightvertex.Point, noExact)
	rightflag := rightccw > 0
	if leftflag && rightflag {
		// The search point is behind us; turn whichever way doesn't hit the
		// boundary.
		if searchtri.Onext().IsDummy() {
			leftflag = false
		} else {
			rightflag = false
		}
	}

	for leftflag {
		*searchtri = searchtri.Onext()
		if searchtri.IsDummy() {
			fatalf("unable to find a triangle on the path from vertex %d to vertex %d", startvertex.ID, searchpoint.ID)
		}
		leftvertex = searchtri.Apex()
		rightccw = leftccw
		leftccw = counterClockwise(searchpoint.Point, startvertex.Point, leftvertex.Point, noExact)
		leftflag = leftccw > 0
	}
	for rightflag {
		*searchtri = searchtri.Oprev()
		if searchtri.IsDummy() {
			fatalf("unable to find a triangle on the path from vertex %d to vertex %d", startvertex.ID, searchpoint.ID)
		}
		rightvertex = searchtri.Dest()
		leftccw = rightccw
		rightccw = counterClockwise(startvertex.Point, searchpoint.Point, rightvertex.Point, noExact)
		rightflag = rightccw > 0
	}

	if leftccw == 0 {
		return leftCollinear
	} else if rightccw == 0 {
		return rightCollinear
	}
	return within
}

// segmentIntersection inserts a vertex where the segment from the apex of
// splittri to endpoint2 crosses the subsegment splitsubseg, which lies on
// splittri's origin-destination edge. On return splittri has the new vertex
// as origin and the apex endpoint as destination.
func (m *Mesh) segmentIntersection(splittri *OTri, splitsubseg OSub, endpoint2 *Vertex) {
	endpoint1 := splittri.Apex()
	torg := splittri.Org()
	tdest := splittri.Dest()

	tx, ty := tdest.X-torg.X, tdest.Y-torg.Y
	ex, ey := endpoint2.X-endpoint1.X, endpoint2.Y-endpoint1.Y
	etx, ety := torg.X-endpoint2.X, torg.Y-endpoint2.Y
	denom := ty*ex - tx*ey
	if denom == 0 {
		fatalf("attempt to find the intersection of parallel segments at vertices %d and %d", torg.ID, tdest.ID)
	}
	split := (ey*etx - ex*ety) / denom

	p := torg.Point.Add(tdest.Point.Sub(torg.Point).Mul(split))
	newvertex := m.newVertex(p, SegmentVertex, splitsubseg.seg.Label)
	m.registerVertex(newvertex)

	if m.insertVertex(newvertex, splittri, &splitsubseg, false, false) != Successful {
		fatalf("failure to split a segment at (%g, %g)", p.X, p.Y)
	}
	newvertex.tri = *splittri
	if m.mesher != nil && m.mesher.steinerLeft > 0 {
		m.mesher.steinerLeft--
	}

	// Both halves of the split segment now end at the new vertex.
	splitsubseg = splitsubseg.Sym()
	opposubseg := splitsubseg.Pivot()
	splitsubseg.Dissolve(m.dummysub)
	opposubseg.Dissolve(m.dummysub)
	for !splitsubseg.IsDummy() {
		splitsubseg.SetSegOrg(newvertex)
		splitsubseg = splitsubseg.Next()
	}
	for !opposubseg.IsDummy() {
		opposubseg.SetSegOrg(newvertex)
		opposubseg = opposubseg.Next()
	}

	// Point splittri back towards the first endpoint.
	m.findDirection(splittri, endpoint1)
	rightvertex := splittri.Dest()
	leftvertex := splittri.Apex()
	if leftvertex.Point == endpoint1.Point {
		*splittri = splittri.Onext()
	} else if rightvertex.Point != endpoint1.Point {
		fatalf("topological inconsistency after splitting a segment at (%g, %g)", p.X, p.Y)
	}
}

// scoutSegment follows existing edges from the origin of searchtri towards
// endpoint2, marking them as subsegments. It reports whether it reached
// endpoint2; if not, searchtri is left at the vertex where it got stuck.
func (m *Mesh) scoutSegment(searchtri *OTri, endpoint2 *Vertex, label int) bool {
	for {
		collinear := m.findDirection(searchtri, endpoint2)
		rightvertex := searchtri.Dest()
		leftvertex := searchtri.Apex()

		switch {
		case leftvertex.Point == endpoint2.Point || rightvertex.Point == endpoint2.Point:
			if leftvertex.Point == endpoint2.Point {
				*searchtri = searchtri.Lprev()
			}
			m.insertSubseg(*searchtri, label)
			return true

		case collinear == leftCollinear:
			// An existing vertex lies on the segment; constrain up to it and
			// carry on from there.
			*searchtri = searchtri.Lprev()
			m.insertSubseg(*searchtri, label)

		case collinear == rightCollinear:
			m.insertSubseg(*searchtri, label)
			*searchtri = searchtri.Lnext()

		default:
			crosstri := searchtri.Lnext()
			crosssubseg := crosstri.Pivot()
			if crosssubseg.IsDummy() {
				return false
			}
			// The segment crosses a subsegment; split both at the crossing.
			m.segmentIntersection(&crosstri, crosssubseg, endpoint2)
			*searchtri = crosstri
			m.insertSubseg(*searchtri, label)
		}
	}
}

// delaunayFixup restores the Delaunay property on one side of a segment
// being forced into the mesh, flipping the edge opposite fixuptri's apex
// when it is reflex or not locally Delaunay.
func (m *Mesh) delaunayFixup(fixuptri *OTri, leftside bool) {
	noExact := m.behavior.noExact
	neartri := fixuptri.Lnext()
	fartri := neartri.Sym()
	if fartri.IsDummy() {
		return
	}
	if !neartri.Pivot().IsDummy() {
		return
	}

	nearvertex := neartri.Apex()
	leftvertex := neartri.Org()
	rightvertex := neartri.Dest()
	farvertex := fartri.Apex()
	if leftside {
		if counterClockwise(nearvertex.Point, leftvertex.Point, farvertex.Point, noExact) <= 0 {
			return
		}
	} else if counterClockwise(farvertex.Point, rightvertex.Point, nearvertex.Point, noExact) <= 0 {
		return
	}
	if counterClockwise(rightvertex.Point, leftvertex.Point, farvertex.Point, noExact) > 0 {
		if inCircle(leftvertex.Point, farvertex.Point, rightvertex.Point, nearvertex.Point, noExact) <= 0 {
			return
		}
	}

	m.Flip(neartri)
	*fixuptri = fixuptri.Lprev()
	m.delaunayFixup(fixuptri, leftside)
	m.delaunayFixup(&fartri, leftside)
}

// constrainedEdge forces the edge from the origin of starttri to endpoint2
// into the mesh by repeatedly flipping the edges it crosses, then repairs the
// Delaunay property on both sides.
func (m *Mesh) constrainedEdge(starttri OTri, endpoint2 *Vertex, label int) {
	noExact := m.behavior.noExact
	endpoint1 := starttri.Org()
	fixuptri := starttri.Lnext()
	m.Flip(fixuptri)

	collision := false
	for done := false; !done; {
		farvertex := fixuptri.Org()
		if farvertex.Point == endpoint2.Point {
			fixuptri2 := fixuptri.Oprev()
			m.delaunayFixup(&fixuptri, false)
			m.delaunayFixup(&fixuptri2, true)
			done = true
			continue
		}

		area := counterClockwise(endpoint1.Point, endpoint2.Point, farvertex.Point, noExact)
		if area == 0 {
			// The segment runs into a vertex.
			collision = true
			fixuptri2 := fixuptri.Oprev()
			m.delaunayFixup(&fixuptri, false)
			m.delaunayFixup(&fixuptri2, true)
			done = true
			continue
		}

		if area > 0 {
			fixuptri2 := fixuptri.Oprev()
			m.delaunayFixup(&fixuptri2, true)
			fixuptri = fixuptri.Lprev()
		} else {
			m.delaunayFixup(&fixuptri, false)
			fixuptri = fixuptri.Oprev()
		}

		if crosssubseg := fixuptri.Pivot(); crosssubseg.IsDummy() {
			m.Flip(fixuptri)
		} else {
			// The segment crosses another subsegment.
			collision = true
			m.segmentIntersection(&fixuptri, crosssubseg, endpoint2)
			done = true
		}
	}

	m.insertSubseg(fixuptri, label)
	if collision {
		// Insert the rest of the segment from the collision point.
		if !m.scoutSegment(&fixuptri, endpoint2, label) {
			m.constrainedEdge(fixuptri, endpoint2, label)
		}
	}
}

// markHull turns every edge of the convex hull into a subsegment with label 1.
func (m *Mesh) markHull() {
	hulltri := m.hullStart()
	if hulltri.IsDummy() {
		return
	}
	m.checksegments = true
	starttri := hulltri
	for {
		m.insertSubseg(hulltri, 1)
		hulltri = hulltri.Lnext()
		for nexttri := hulltri.Oprev(); !nexttri.IsDummy(); nexttri = hulltri.Oprev() {
			hulltri = nexttri
		}
		if hulltri == starttri {
			break
		}
	}
}
