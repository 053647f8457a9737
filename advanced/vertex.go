package advanced

import "github.com/golang/geo/r2"

type VertexKind int

const (
	// Vertices given by the caller.
	InputVertex VertexKind = iota
	// Vertices created by splitting a segment.
	SegmentVertex
	// Steiner points inserted in the interior during refinement.
	FreeVertex
	// Deleted during refinement. Dead vertices keep their ID but are skipped by
	// every iterator.
	DeadVertex
	// Orphaned when the triangles around them were carved away, or duplicates
	// of an existing vertex.
	UndeadVertex
)

func (k VertexKind) String() string {
	switch k {
	case InputVertex:
		return "input"
	case SegmentVertex:
		return "segment"
	case FreeVertex:
		return "free"
	case DeadVertex:
		return "dead"
	case UndeadVertex:
		return "undead"
	}
	return "unknown"
}

type Vertex struct {
	r2.Point
	ID    int
	Label int
	Kind  VertexKind

	// Some triangle that has this vertex as its origin. Only meaningful after
	// MakeVertexMap.
	tri OTri
}

func (v *Vertex) Alive() bool {
	return v.Kind != DeadVertex && v.Kind != UndeadVertex
}

// Home returns a handle whose origin is v, as recorded by the last
// MakeVertexMap.
func (v *Vertex) Home() OTri {
	return v.tri
}

func (v *Vertex) sameAs(p r2.Point) bool {
	return v.X == p.X && v.Y == p.Y
}
