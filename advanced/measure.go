package advanced

import "math"

// Quality summarizes the shape of the triangles in a mesh. Angles are in
// degrees.
type Quality struct {
	Triangles int
	Vertices  int
	Edges     int
	Segments  int

	MinAngle float64
	MaxAngle float64

	MinArea   float64
	MaxArea   float64
	TotalArea float64
	// Triangles with no area at all.
	ZeroArea int

	MinEdge float64
	MaxEdge float64

	// Worst ratio of longest edge to shortest altitude.
	MaxAspectRatio float64
}

// MeasureQuality computes statistics over the live triangles of m.
func MeasureQuality(m *Mesh) Quality {
	q := Quality{
		Vertices: len(m.Vertices()),
		Edges:    m.NumberOfEdges(),
		Segments: m.NumberOfSegments(),
		MinAngle: math.Inf(1),
		MinArea:  math.Inf(1),
		MinEdge:  math.Inf(1),
	}
	for _, t := range m.Triangles() {
		shape := MeasureTriangle(t)
		q.Triangles++
		q.TotalArea += shape.Area
		q.MinArea = math.Min(q.MinArea, shape.Area)
		q.MaxArea = math.Max(q.MaxArea, shape.Area)
		if shape.Area == 0 {
			q.ZeroArea++
		}
		q.MinEdge = math.Min(q.MinEdge, shape.MinEdge)
		q.MaxEdge = math.Max(q.MaxEdge, shape.MaxEdge)
		q.MaxAspectRatio = math.Max(q.MaxAspectRatio, shape.AspectRatio)
		q.MinAngle = math.Min(q.MinAngle, shape.MinAngle)
		q.MaxAngle = math.Max(q.MaxAngle, shape.MaxAngle)
	}
	if q.Triangles == 0 {
		q.MinAngle, q.MinArea, q.MinEdge = 0, 0, 0
	}
	return q
}

// TriangleShape describes a single triangle. Angles are in degrees.
type TriangleShape struct {
	Area     float64
	MinAngle float64
	MaxAngle float64
	MinEdge  float64
	MaxEdge  float64
	// Longest edge over shortest altitude; infinite for flat triangles.
	AspectRatio float64
}

func MeasureTriangle(t *Triangle) TriangleShape {
	a, b, c := t.vertices[0].Point, t.vertices[1].Point, t.vertices[2].Point
	ab, bc, ca := a.Sub(b).Norm(), b.Sub(c).Norm(), c.Sub(a).Norm()

	s := TriangleShape{
		Area:     0.5 * math.Abs(b.Sub(a).Cross(c.Sub(a))),
		MinAngle: math.Inf(1),
		MinEdge:  math.Min(ab, math.Min(bc, ca)),
		MaxEdge:  math.Max(ab, math.Max(bc, ca)),
	}
	if s.Area > 0 {
		// The shortest altitude stands on the longest edge.
		s.AspectRatio = s.MaxEdge * s.MaxEdge / (2 * s.Area)
	} else {
		s.AspectRatio = math.Inf(1)
	}
	// Each angle from the law of cosines, opposite edges bc, ca, ab.
	for _, e := range [3][3]float64{{bc, ca, ab}, {ca, ab, bc}, {ab, bc, ca}} {
		angle := lawOfCosines(e[0], e[1], e[2])
		s.MinAngle = math.Min(s.MinAngle, angle)
		s.MaxAngle = math.Max(s.MaxAngle, angle)
	}
	return s
}

// Angle in degrees opposite the side of length opposite.
func lawOfCosines(opposite, s1, s2 float64) float64 {
	if s1 == 0 || s2 == 0 {
		return 0
	}
	c := (s1*s1 + s2*s2 - opposite*opposite) / (2 * s1 * s2)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}
