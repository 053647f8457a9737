package advanced

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

type InsertResult int

const (
	// The vertex was inserted and the mesh is Delaunay around it again.
	Successful InsertResult = iota
	// Inserted, but the new vertex encroaches on a subsegment.
	Encroaching
	// Not inserted: the vertex lies on or beyond a subsegment the walk may
	// not cross.
	Violating
	// Not inserted: a vertex already exists at that position.
	Duplicate
	// Inserted on a constrained subsegment, which was split in two.
	SplitSegment
)

func (r InsertResult) String() string {
	switch r {
	case Successful:
		return "successful"
	case Encroaching:
		return "encroaching"
	case Violating:
		return "violating"
	case Duplicate:
		return "duplicate"
	case SplitSegment:
		return "split segment"
	}
	return "unknown"
}

type BoundarySplitMode int

const (
	// Encroached boundary segments may be split.
	Split BoundarySplitMode = iota
	// Only segments with triangles on both sides may be split.
	SplitInternalOnly
	// Segments are never split.
	NoSplit
)

// Switches that change how the mesh is built and refined. The quality
// mesher fills in the refinement ones.
type behavior struct {
	noExact       bool
	conforming    bool
	boundarySplit BoundarySplitMode
	// Copy per-triangle area constraints through splits and flips.
	varArea bool
}

type Option func(*meshConfig)

type meshConfig struct {
	noExact bool
	seed    int64
}

// Disable the exact arithmetic fallback of the geometric predicates.
func WithNoExact() Option {
	return func(c *meshConfig) { c.noExact = true }
}

// Seed for the random triangle sampling used by point location.
func WithSeed(seed int64) Option {
	return func(c *meshConfig) { c.seed = seed }
}

// Mesh is a triangulation under construction. It starts as one huge
// triangle around the working bounds; vertices and segments are inserted
// into it, and Finish strips the bounding triangle and carves holes. A Mesh
// is not safe for concurrent use.
type Mesh struct {
	triangles *pool[*Triangle]
	subsegs   *pool[*SubSegment]
	vertices  []*Vertex

	dummytri *Triangle
	dummysub *SubSegment

	// Corners of the bounding triangle, nil once it has been removed.
	infvertex [3]*Vertex
	bounds    r2.Rect

	hullsize   int
	insegments int
	undeads    int

	// Whether subsegments exist and must be respected.
	checksegments bool
	// Whether flips should be recorded so an insertion can be undone.
	checkquality bool
	flipstack    []OTri
	// Where the last insertion left off, for chaining point location.
	lastInsert OTri

	locator  *locator
	behavior behavior
	mesher   *QualityMesher
	finished bool
}

// NewMesh creates an empty mesh that accepts vertices inside bounds.
func NewMesh(bounds r2.Rect, opts ...Option) *Mesh {
	config := meshConfig{seed: defaultSamplerSeed}
	for _, opt := range opts {
		opt(&config)
	}

	m := &Mesh{bounds: bounds}
	m.behavior.noExact = config.noExact
	m.triangles = newPool(func() *Triangle { return new(Triangle) })
	m.subsegs = newPool(func() *SubSegment { return new(SubSegment) })
	m.locator = newLocator(m, config.seed)

	m.dummytri = &Triangle{id: Dummy}
	m.dummysub = &SubSegment{hash: Dummy}
	for i := range m.dummytri.neighbors {
		m.dummytri.neighbors[i] = OTri{m.dummytri, 0}
		m.dummytri.subsegs[i] = OSub{m.dummysub, 0}
	}
	for i := range m.dummysub.subsegs {
		m.dummysub.subsegs[i] = OSub{m.dummysub, 0}
		m.dummysub.triangles[i] = OTri{m.dummytri, 0}
	}

	m.makeBoundingTriangle()
	return m
}

// The bounding triangle is large enough that its corners never influence the
// Delaunay structure near the real vertices.
func (m *Mesh) makeBoundingTriangle() {
	lo, hi := m.bounds.Lo(), m.bounds.Hi()
	width := math.Max(hi.X-lo.X, hi.Y-lo.Y)
	if width == 0 {
		width = 1
	}
	m.infvertex[0] = &Vertex{Point: r2.Point{X: lo.X - 50*width, Y: lo.Y - 40*width}, ID: Dummy}
	m.infvertex[1] = &Vertex{Point: r2.Point{X: hi.X + 50*width, Y: lo.Y - 40*width}, ID: Dummy}
	m.infvertex[2] = &Vertex{Point: r2.Point{X: 0.5 * (lo.X + hi.X), Y: hi.Y + 60*width}, ID: Dummy}

	inftri := m.makeTriangle()
	inftri.SetOrg(m.infvertex[0])
	inftri.SetDest(m.infvertex[1])
	inftri.SetApex(m.infvertex[2])
	m.dummytri.neighbors[0] = inftri
}

func (m *Mesh) isInfinite(v *Vertex) bool {
	return v != nil && (v == m.infvertex[0] || v == m.infvertex[1] || v == m.infvertex[2])
}

func (m *Mesh) makeTriangle() OTri {
	t := m.triangles.get()
	for i := range t.neighbors {
		t.neighbors[i] = OTri{m.dummytri, 0}
		t.subsegs[i] = OSub{m.dummysub, 0}
	}
	return OTri{t, 0}
}

func (m *Mesh) makeSegment() OSub {
	s := m.subsegs.get()
	for i := range s.subsegs {
		s.subsegs[i] = OSub{m.dummysub, 0}
		s.triangles[i] = OTri{m.dummytri, 0}
	}
	return OSub{s, 0}
}

// triangleDealloc frees t. Subsegments still bonded to it are pointed at the
// dummy triangle, since t's slot is handed out again after a prune.
func (m *Mesh) triangleDealloc(t *Triangle) {
	for _, sub := range t.subsegs {
		if sub.seg == nil || sub.IsDummy() {
			continue
		}
		for side := range sub.seg.triangles {
			if sub.seg.triangles[side].tri == t {
				sub.seg.triangles[side] = OTri{m.dummytri, 0}
			}
		}
	}
	m.triangles.release(t)
}

func (m *Mesh) subsegDealloc(s *SubSegment) {
	m.subsegs.release(s)
}

func (m *Mesh) vertexDealloc(v *Vertex) {
	v.Kind = DeadVertex
}

func (m *Mesh) newVertex(p r2.Point, kind VertexKind, label int) *Vertex {
	return &Vertex{Point: p, ID: Dummy, Kind: kind, Label: label}
}

// Give a vertex its ID once it is actually part of the mesh.
func (m *Mesh) registerVertex(v *Vertex) {
	v.ID = len(m.vertices)
	m.vertices = append(m.vertices, v)
}

// hullStart returns a handle on a live triangle whose edge faces the
// exterior. The dummy's first neighbor slot is the usual shortcut; it is
// refreshed by scanning if it went stale.
func (m *Mesh) hullStart() OTri {
	h := m.dummytri.neighbors[0]
	if h.tri != nil && !h.tri.IsDead() && !h.IsDummy() && h.Sym().tri == m.dummytri {
		return h
	}
	for _, t := range m.triangles.live {
		if t.IsDead() {
			continue
		}
		for orient := 0; orient < 3; orient++ {
			if t.neighbors[orient].tri == m.dummytri {
				h = OTri{t, orient}
				m.dummytri.neighbors[0] = h
				return h
			}
		}
	}
	return OTri{m.dummytri, 0}
}

func (m *Mesh) Bounds() r2.Rect { return m.bounds }

// Dummy returns the sentinel triangle that stands in for "no neighbor".
func (m *Mesh) Dummy() *Triangle { return m.dummytri }

func (m *Mesh) HullSize() int { return m.hullsize }

func (m *Mesh) Finished() bool { return m.finished }

// Vertices returns the live vertices in ID order.
func (m *Mesh) Vertices() []*Vertex {
	result := make([]*Vertex, 0, len(m.vertices))
	for _, v := range m.vertices {
		if v.Alive() {
			result = append(result, v)
		}
	}
	return result
}

// Vertex returns the vertex with the given ID, dead or alive.
func (m *Mesh) Vertex(id int) *Vertex {
	if id < 0 || id >= len(m.vertices) {
		return nil
	}
	return m.vertices[id]
}

// Triangles returns the live triangles. Before Finish, triangles with a
// corner on the bounding triangle are left out.
func (m *Mesh) Triangles() []*Triangle {
	result := make([]*Triangle, 0, m.triangles.count())
	m.triangles.each(func(t *Triangle) {
		if !m.touchesBox(t) {
			result = append(result, t)
		}
	})
	return result
}

// Whether t has a corner on the bounding triangle. Always false after Finish.
func (m *Mesh) touchesBox(t *Triangle) bool {
	return m.isInfinite(t.vertices[0]) || m.isInfinite(t.vertices[1]) || m.isInfinite(t.vertices[2])
}

func (m *Mesh) Segments() []*SubSegment {
	result := make([]*SubSegment, 0, m.subsegs.count())
	m.subsegs.each(func(s *SubSegment) {
		result = append(result, s)
	})
	return result
}

func (m *Mesh) NumberOfTriangles() int {
	if m.finished {
		return m.triangles.count()
	}
	return len(m.Triangles())
}

func (m *Mesh) NumberOfSegments() int { return m.subsegs.count() }

// Every triangle has three edges, every interior edge is shared by two.
// Before Finish the hull is not tracked, so the edges are counted.
func (m *Mesh) NumberOfEdges() int {
	if !m.finished {
		n := 0
		for range m.Edges() {
			n++
		}
		return n
	}
	return (3*m.triangles.count() + m.hullsize) / 2
}

// MakeVertexMap points every vertex at some triangle that has it as origin.
func (m *Mesh) MakeVertexMap() {
	m.triangles.each(func(t *Triangle) {
		for orient := 0; orient < 3; orient++ {
			o := OTri{t, orient}
			if org := o.Org(); org != nil {
				org.tri = o
			}
		}
	})
}

// Prune removes dead triangles and subsegments from the pools so they can be
// reused. Handles obtained before pruning must not be used afterwards.
func (m *Mesh) Prune() {
	tris := m.triangles.prune()
	segs := m.subsegs.prune()
	m.flipstack = m.flipstack[:0]
	if tris+segs > 0 {
		Logger().Debug("pruned mesh", "triangles", tris, "subsegments", segs)
	}
}

// InsertVertex adds a vertex at p. hint may be a nil handle; otherwise point
// location starts there. If a vertex already exists at p, it is returned with
// Duplicate and the mesh is left untouched. A vertex landing on a constrained
// subsegment splits it.
func (m *Mesh) InsertVertex(p r2.Point, hint OTri) (*Vertex, InsertResult, error) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || !m.bounds.ContainsPoint(p) {
		return nil, 0, errors.Wrapf(ErrOutsideBounds, "vertex (%g, %g)", p.X, p.Y)
	}

	searchtri, loc := m.locatePoint(p, hint)
	switch loc {
	case OnVertex:
		return searchtri.Org(), Duplicate, nil
	case Outside:
		if m.infvertex[0] == nil {
			return nil, 0, errors.Wrapf(ErrOutside, "vertex (%g, %g)", p.X, p.Y)
		}
		fatalf("vertex (%g, %g) escaped the bounding triangle", p.X, p.Y)
	}

	v := m.newVertex(p, InputVertex, 0)
	result := Successful
	var splitseg *OSub
	if loc == OnEdge && m.checksegments && !searchtri.Pivot().IsDummy() {
		seg := searchtri.Pivot()
		splitseg = &seg
		v.Kind = SegmentVertex
		result = SplitSegment
	} else if m.finished {
		v.Kind = FreeVertex
	}

	switch m.insertVertexAt(v, searchtri, loc, splitseg, false, false) {
	case Successful, Encroaching:
	default:
		fatalf("could not insert located vertex (%g, %g)", p.X, p.Y)
	}
	m.registerVertex(v)
	return v, result, nil
}

// locatePoint finds p from a hint, falling back to a scan of all triangles
// when the walk leaves a non-convex domain.
func (m *Mesh) locatePoint(p r2.Point, hint OTri) (OTri, LocateResult) {
	searchtri := hint
	if searchtri.IsNil() || searchtri.IsDummy() || searchtri.tri.IsDead() {
		searchtri = m.hullStart()
	}
	if searchtri.IsDummy() {
		return searchtri, Outside
	}
	loc := m.locator.locate(p, &searchtri)
	if loc == Outside && m.infvertex[0] == nil {
		if found, scanLoc, ok := m.scanLocate(p); ok {
			return found, scanLoc
		}
	}
	return searchtri, loc
}

func (m *Mesh) scanLocate(p r2.Point) (OTri, LocateResult, bool) {
	noExact := m.behavior.noExact
	for _, t := range m.triangles.live {
		if t.IsDead() {
			continue
		}
		var orients [3]float64
		inside := true
		for i := 0; i < 3; i++ {
			o := OTri{t, i}
			orients[i] = counterClockwise(o.Org().Point, o.Dest().Point, p, noExact)
			if orients[i] < 0 {
				inside = false
			}
		}
		if !inside {
			continue
		}
		for i := 0; i < 3; i++ {
			if o := (OTri{t, i}); o.Org().sameAs(p) {
				return o, OnVertex, true
			}
		}
		for i := 0; i < 3; i++ {
			if orients[i] == 0 {
				return OTri{t, i}, OnEdge, true
			}
		}
		return OTri{t, 0}, InTriangle, true
	}
	return OTri{}, Outside, false
}
