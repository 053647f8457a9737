package advanced

// ID used by the sentinel triangle and subsegment.
const Dummy = -1

// Orientation arithmetic without the modulo.
var plus1Mod3 = [3]int{1, 2, 0}
var minus1Mod3 = [3]int{2, 0, 1}

// A Triangle is a node in the mesh. Corner i sits opposite neighbor i and
// subsegment i. Neighbors and subsegments that don't exist point at the
// mesh's dummy sentinels rather than being nil, so that the handle algebra
// never has to branch.
type Triangle struct {
	neighbors [3]OTri
	vertices  [3]*Vertex
	subsegs   [3]OSub

	infected bool
	id       int
	slot     int

	Label int
	// Maximum area constraint for refinement. Zero or less is unconstrained.
	Area float64
}

func (t *Triangle) ID() int { return t.id }

func (t *Triangle) Vertex(i int) *Vertex { return t.vertices[i] }

// Neighbor returns the triangle across from corner i, or nil on the boundary.
func (t *Triangle) Neighbor(i int) *Triangle {
	n := t.neighbors[i].tri
	if n == nil || n.id == Dummy {
		return nil
	}
	return n
}

// Segment returns the subsegment across from corner i, or nil if the edge is
// unconstrained.
func (t *Triangle) Segment(i int) *SubSegment {
	s := t.subsegs[i].seg
	if s == nil || s.hash == Dummy {
		return nil
	}
	return s
}

func (t *Triangle) IsDead() bool   { return t.neighbors[0].tri == nil }
func (t *Triangle) IsDummy() bool  { return t.id == Dummy }
func (t *Triangle) Infected() bool { return t.infected }

func (t *Triangle) kill() {
	t.neighbors[0].tri = nil
	t.neighbors[2].tri = nil
}

func (t *Triangle) getSlot() int     { return t.slot }
func (t *Triangle) setSlot(slot int) { t.slot = slot }
func (t *Triangle) reset(id int)     { *t = Triangle{id: id} }

// OTri is an oriented triangle: a triangle plus one of its three edges. The
// edge runs from Org to Dest, with Apex opposite. Handles are plain values;
// every navigation returns a new handle.
type OTri struct {
	tri    *Triangle
	orient int
}

func (o OTri) Triangle() *Triangle { return o.tri }
func (o OTri) Orient() int         { return o.orient }

// IsNil reports whether the handle was never assigned.
func (o OTri) IsNil() bool   { return o.tri == nil }
func (o OTri) IsDummy() bool { return o.tri.id == Dummy }

// The triangle on the other side of this edge, oriented to the same edge.
func (o OTri) Sym() OTri { return o.tri.neighbors[o.orient] }

// Next edge counterclockwise around the triangle.
func (o OTri) Lnext() OTri { return OTri{o.tri, plus1Mod3[o.orient]} }

// Next edge clockwise around the triangle.
func (o OTri) Lprev() OTri { return OTri{o.tri, minus1Mod3[o.orient]} }

// Next edge counterclockwise around the origin.
func (o OTri) Onext() OTri { return o.Lprev().Sym() }

// Next edge clockwise around the origin.
func (o OTri) Oprev() OTri { return o.Sym().Lnext() }

// Next edge counterclockwise around the destination.
func (o OTri) Dnext() OTri { return o.Sym().Lprev() }

// Next edge clockwise around the destination.
func (o OTri) Dprev() OTri { return o.Lnext().Sym() }

// Next edge counterclockwise around the adjacent triangle.
func (o OTri) Rnext() OTri { return o.Sym().Lnext().Sym() }

// Next edge clockwise around the adjacent triangle.
func (o OTri) Rprev() OTri { return o.Sym().Lprev().Sym() }

func (o OTri) Org() *Vertex  { return o.tri.vertices[plus1Mod3[o.orient]] }
func (o OTri) Dest() *Vertex { return o.tri.vertices[minus1Mod3[o.orient]] }
func (o OTri) Apex() *Vertex { return o.tri.vertices[o.orient] }

func (o OTri) SetOrg(v *Vertex)  { o.tri.vertices[plus1Mod3[o.orient]] = v }
func (o OTri) SetDest(v *Vertex) { o.tri.vertices[minus1Mod3[o.orient]] = v }
func (o OTri) SetApex(v *Vertex) { o.tri.vertices[o.orient] = v }

// Glue two triangles together along this edge.
func (o OTri) Bond(p OTri) {
	o.tri.neighbors[o.orient] = p
	p.tri.neighbors[p.orient] = o
}

// Detach this edge from its neighbor. The neighbor is left pointing here, so
// this is only safe when the neighbor is about to be rebonded or discarded.
func (o OTri) Dissolve(dummy *Triangle) {
	o.tri.neighbors[o.orient] = OTri{dummy, 0}
}

// The subsegment bonded to this edge (the dummy subsegment if none).
func (o OTri) Pivot() OSub { return o.tri.subsegs[o.orient] }

func (o OTri) SegBond(s OSub) {
	o.tri.subsegs[o.orient] = s
	s.seg.triangles[s.orient] = o
}

func (o OTri) SegDissolve(dummy *SubSegment) {
	o.tri.subsegs[o.orient] = OSub{dummy, 0}
}

func (o OTri) Infected() bool { return o.tri.infected }
func (o OTri) Infect()        { o.tri.infected = true }
func (o OTri) Uninfect()      { o.tri.infected = false }
