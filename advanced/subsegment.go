package advanced

// A SubSegment is a piece of a constrained segment: the edge between two
// consecutive vertices along an input segment. Slots 0 and 1 hold the
// endpoints of this piece, slots 2 and 3 hold the endpoints of the whole
// segment it was split from.
type SubSegment struct {
	subsegs   [2]OSub
	vertices  [4]*Vertex
	triangles [2]OTri

	hash int
	slot int

	Label int
}

func (s *SubSegment) Hash() int { return s.hash }

// Vertex returns endpoint 0 or 1 of the subsegment.
func (s *SubSegment) Vertex(i int) *Vertex { return s.vertices[i] }

// Triangle returns the triangle on side 0 or 1, or nil on the boundary.
func (s *SubSegment) Triangle(i int) *Triangle {
	t := s.triangles[i].tri
	if t == nil || t.id == Dummy {
		return nil
	}
	return t
}

func (s *SubSegment) IsDead() bool  { return s.subsegs[0].seg == nil }
func (s *SubSegment) IsDummy() bool { return s.hash == Dummy }

func (s *SubSegment) kill() {
	s.subsegs[0].seg = nil
	s.subsegs[1].seg = nil
}

func (s *SubSegment) getSlot() int     { return s.slot }
func (s *SubSegment) setSlot(slot int) { s.slot = slot }
func (s *SubSegment) reset(id int)     { *s = SubSegment{hash: id} }

// OSub is an oriented subsegment.
type OSub struct {
	seg    *SubSegment
	orient int
}

func (o OSub) Segment() *SubSegment { return o.seg }
func (o OSub) Orient() int          { return o.orient }
func (o OSub) IsNil() bool          { return o.seg == nil }
func (o OSub) IsDummy() bool        { return o.seg.hash == Dummy }

// Reverse the orientation.
func (o OSub) Sym() OSub { return OSub{o.seg, 1 - o.orient} }

// The adjoining subsegment at this orientation's end of the chain.
func (o OSub) Pivot() OSub { return o.seg.subsegs[o.orient] }

// The next subsegment in the chain, walking forward.
func (o OSub) Next() OSub { return o.seg.subsegs[1-o.orient] }

// The triangle bonded to this side.
func (o OSub) PivotTri() OTri { return o.seg.triangles[o.orient] }

func (o OSub) Org() *Vertex     { return o.seg.vertices[o.orient] }
func (o OSub) Dest() *Vertex    { return o.seg.vertices[1-o.orient] }
func (o OSub) SegOrg() *Vertex  { return o.seg.vertices[2+o.orient] }
func (o OSub) SegDest() *Vertex { return o.seg.vertices[3-o.orient] }

func (o OSub) SetOrg(v *Vertex)     { o.seg.vertices[o.orient] = v }
func (o OSub) SetDest(v *Vertex)    { o.seg.vertices[1-o.orient] = v }
func (o OSub) SetSegOrg(v *Vertex)  { o.seg.vertices[2+o.orient] = v }
func (o OSub) SetSegDest(v *Vertex) { o.seg.vertices[3-o.orient] = v }

func (o OSub) Bond(p OSub) {
	o.seg.subsegs[o.orient] = p
	p.seg.subsegs[p.orient] = o
}

func (o OSub) Dissolve(dummy *SubSegment) {
	o.seg.subsegs[o.orient] = OSub{dummy, 0}
}

func (o OSub) TriDissolve(dummy *Triangle) {
	o.seg.triangles[o.orient] = OTri{dummy, 0}
}
