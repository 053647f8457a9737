package advanced

import "iter"

// VertexCirculator enumerates the triangles or neighboring vertices around a
// vertex in counterclockwise order. For boundary vertices the fan is open,
// and the enumeration runs from one boundary edge to the other.
type VertexCirculator struct {
	m     *Mesh
	cache []OTri
}

// NewVertexCirculator rebuilds the mesh's vertex map, so that every vertex
// knows a triangle to start from. If the mesh changes afterwards, the map is
// rebuilt again the first time a vertex's entry turns out to be stale.
func NewVertexCirculator(m *Mesh) *VertexCirculator {
	m.MakeVertexMap()
	return &VertexCirculator{m: m}
}

func (c *VertexCirculator) EnumerateVertices(v *Vertex) iter.Seq[*Vertex] {
	c.buildCache(v, true)
	cache := append([]OTri(nil), c.cache...)
	return func(yield func(*Vertex) bool) {
		for _, o := range cache {
			if !yield(o.Dest()) {
				return
			}
		}
	}
}

func (c *VertexCirculator) EnumerateTriangles(v *Vertex) iter.Seq[*Triangle] {
	c.buildCache(v, false)
	cache := append([]OTri(nil), c.cache...)
	return func(yield func(*Triangle) bool) {
		for _, o := range cache {
			if !yield(o.tri) {
				return
			}
		}
	}
}

// buildCache collects handles with origin v. The forward walk uses Onext;
// if it falls off the boundary, the rest of the fan is collected backwards
// with Oprev and prepended. In vertex mode one extra handle is appended so
// that the last neighbor on an open fan is reported too.
func (c *VertexCirculator) buildCache(v *Vertex, vertices bool) {
	c.cache = c.cache[:0]
	if !v.Alive() {
		return
	}
	init := v.tri
	if !isHome(init, v) {
		c.m.MakeVertexMap()
		init = v.tri
		if !isHome(init, v) {
			fatalf("vertex %d at (%g, %g) is not in the mesh", v.ID, v.X, v.Y)
		}
	}

	next := init
	var prev OTri
	for !next.IsDummy() {
		c.cache = append(c.cache, next)
		prev = next
		next = next.Onext()
		if next == init {
			break
		}
	}

	if next.IsDummy() {
		if vertices {
			c.cache = append(c.cache, prev.Lnext())
		}
		var before []OTri
		for next = init.Oprev(); !next.IsDummy() && next != init; next = next.Oprev() {
			before = append(before, next)
		}
		for i, j := 0, len(before)-1; i < j; i, j = i+1, j-1 {
			before[i], before[j] = before[j], before[i]
		}
		c.cache = append(before, c.cache...)
	}
}

func isHome(o OTri, v *Vertex) bool {
	return !o.IsNil() && !o.IsDummy() && !o.tri.IsDead() && o.Org() == v
}
