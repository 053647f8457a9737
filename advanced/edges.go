package advanced

import "iter"

// An Edge of the finished mesh, by vertex ID. Label is the label of the
// subsegment on the edge, or 0 for unconstrained edges.
type Edge struct {
	P0, P1 int
	Label  int
}

// EdgeIterator visits every edge of a mesh exactly once: each triangle
// reports the edges it shares with a higher-ID neighbor, plus its boundary
// edges. Before Finish, triangles on the bounding triangle are treated as
// outside. The mesh must not change while iterating.
type EdgeIterator struct {
	m      *Mesh
	i      int
	orient int
}

func NewEdgeIterator(m *Mesh) *EdgeIterator {
	return &EdgeIterator{m: m}
}

func (it *EdgeIterator) Next() (Edge, bool) {
	live := it.m.triangles.live
	for it.i < len(live) {
		t := live[it.i]
		if t.IsDead() || it.m.touchesBox(t) {
			it.i++
			it.orient = 0
			continue
		}
		for it.orient < 3 {
			tri := OTri{t, it.orient}
			it.orient++
			neighbor := tri.Sym()
			if neighbor.IsDummy() || it.m.touchesBox(neighbor.tri) || t.id < neighbor.tri.id {
				return Edge{
					P0:    tri.Org().ID,
					P1:    tri.Dest().ID,
					Label: tri.Pivot().seg.Label,
				}, true
			}
		}
		it.i++
		it.orient = 0
	}
	return Edge{}, false
}

// Edges returns a single-use sequence over the mesh's edges.
func (m *Mesh) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		it := NewEdgeIterator(m)
		for {
			e, ok := it.Next()
			if !ok || !yield(e) {
				return
			}
		}
	}
}
