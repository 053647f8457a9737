package advanced

import (
	"math"

	"github.com/golang/geo/r2"
)

// A Segment joins two points of a Polygon, by index.
type Segment struct {
	P0, P1 int
	Label  int
}

// Polygon is a planar straight line graph: points, the segments that must
// appear as edges of the triangulation, and seed points for holes and
// regions.
type Polygon struct {
	Points []r2.Point
	// Boundary labels for Points. May be shorter than Points; missing labels
	// are 0.
	PointLabels []int
	Segments    []Segment
	Holes       []r2.Point
	Regions     []Region
}

// AddPoint appends a labelled point and returns its index.
func (poly *Polygon) AddPoint(p r2.Point, label int) int {
	for len(poly.PointLabels) < len(poly.Points) {
		poly.PointLabels = append(poly.PointLabels, 0)
	}
	poly.Points = append(poly.Points, p)
	poly.PointLabels = append(poly.PointLabels, label)
	return len(poly.Points) - 1
}

// AddSegment appends a segment between two points, adding the points too.
func (poly *Polygon) AddSegment(p0, p1 r2.Point, label int) {
	i := poly.AddPoint(p0, label)
	j := poly.AddPoint(p1, label)
	poly.Segments = append(poly.Segments, Segment{i, j, label})
}

// AddContour appends a closed ring of points joined by segments with the
// given label. Winding does not matter.
func (poly *Polygon) AddContour(points []r2.Point, label int) {
	if len(points) < 2 {
		for _, p := range points {
			poly.AddPoint(p, label)
		}
		return
	}
	first := len(poly.Points)
	for _, p := range points {
		poly.AddPoint(p, label)
	}
	for i := range points {
		next := first + (i+1)%len(points)
		poly.Segments = append(poly.Segments, Segment{first + i, next, label})
	}
}

// AddHole appends a contour and marks its inside as a hole.
func (poly *Polygon) AddHole(points []r2.Point, label int) {
	poly.AddContour(points, label)
	if p, ok := InteriorPoint(points); ok {
		poly.Holes = append(poly.Holes, p)
	}
}

func (poly *Polygon) Label(i int) int {
	if i < len(poly.PointLabels) {
		return poly.PointLabels[i]
	}
	return 0
}

// Bounds is the bounding rectangle of the points.
func (poly *Polygon) Bounds() r2.Rect {
	rect := r2.EmptyRect()
	for _, p := range poly.Points {
		rect = rect.AddPoint(p)
	}
	return rect
}

// Winding rule point-in-polygon for a single closed ring.
func ContainsPointByEvenOdd(ring []r2.Point, p r2.Point) bool {
	return crossingCount(ring, p)%2 == 1
}

// Number of ring edges crossed by a ray from p towards +x.
func crossingCount(ring []r2.Point, p r2.Point) int {
	count := 0
	for i, vertex := range ring {
		next := ring[(i+1)%len(ring)]
		if (vertex.Y > p.Y) == (next.Y > p.Y) {
			continue
		}
		x := vertex.X + (p.Y-vertex.Y)*(next.X-vertex.X)/(next.Y-vertex.Y)
		if x > p.X {
			count++
		}
	}
	return count
}

// InteriorPoint finds a point strictly inside a closed ring, by stepping in
// from the middle of its edges. It fails for rings with no area.
func InteriorPoint(ring []r2.Point) (r2.Point, bool) {
	if len(ring) < 3 {
		return r2.Point{}, false
	}
	rect := r2.RectFromPoints(ring...)
	size := rect.Size()
	scale := math.Max(size.X, size.Y)
	if scale == 0 {
		return r2.Point{}, false
	}
	for step := 1e-3; step > 1e-9; step *= 0.1 {
		for i, vertex := range ring {
			next := ring[(i+1)%len(ring)]
			edge := next.Sub(vertex)
			if edge.Norm() == 0 {
				continue
			}
			mid := vertex.Add(next).Mul(0.5)
			normal := edge.Ortho().Normalize().Mul(step * scale)
			for _, candidate := range []r2.Point{mid.Add(normal), mid.Sub(normal)} {
				if ContainsPointByEvenOdd(ring, candidate) {
					return candidate, true
				}
			}
		}
	}
	return r2.Point{}, false
}

// Whether a ring winds clockwise.
func IsCW(ring []r2.Point) bool {
	area := 0.0
	for i, p := range ring {
		area += p.Cross(ring[(i+1)%len(ring)])
	}
	return area < 0
}

// ConstraintOptions control how the input is triangulated before refinement.
type ConstraintOptions struct {
	// Split segments until the triangulation is truly Delaunay.
	ConformingDelaunay bool
	// Protect the convex hull with segments, so that nothing outside the
	// input segments is carved away.
	EncloseConvexHull bool
	// Which segments refinement is allowed to split.
	BoundarySplit BoundarySplitMode
}
