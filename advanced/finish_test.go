package advanced

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPolygon(t *testing.T, poly *Polygon) *Mesh {
	t.Helper()
	m := NewMesh(poly.Bounds().ExpandedByMargin(0.5))
	vertices := insertAll(t, m, poly.Points)
	for _, s := range poly.Segments {
		require.NoError(t, m.InsertSegment(vertices[s.P0], vertices[s.P1], s.Label))
	}
	return m
}

func squareWithHole() *Polygon {
	poly := &Polygon{}
	poly.AddContour([]r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, 1)
	poly.AddHole([]r2.Point{{X: 4, Y: 4}, {X: 4, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 4}}, 2)
	return poly
}

func totalArea(m *Mesh) float64 {
	return MeasureQuality(m).TotalArea
}

func TestFinishCarvesHoles(t *testing.T) {
	poly := squareWithHole()
	m := buildPolygon(t, poly)
	require.NoError(t, m.Finish(FinishOptions{Holes: poly.Holes}))
	requireConsistent(t, m)

	assert.True(t, m.Finished())
	assert.InDelta(t, 96, totalArea(m), 1e-9)
	for _, tri := range m.Triangles() {
		c := tri.Vertex(0).Add(tri.Vertex(1).Point).Add(tri.Vertex(2).Point).Mul(1.0 / 3)
		assert.False(t, c.X > 4 && c.X < 6 && c.Y > 4 && c.Y < 6, "triangle in the hole at %v", c)
	}
	assert.Equal(t, 8, m.HullSize())
}

func TestFinishEatsOutsideOfSegments(t *testing.T) {
	// An L shape: its notch is inside the convex hull but outside the
	// segments.
	poly := &Polygon{}
	poly.AddContour([]r2.Point{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2},
	}, 3)

	m := buildPolygon(t, poly)
	require.NoError(t, m.Finish(FinishOptions{}))
	assert.InDelta(t, 3, totalArea(m), 1e-9)

	hull := buildPolygon(t, poly)
	require.NoError(t, hull.Finish(FinishOptions{EncloseConvexHull: true}))
	assert.InDelta(t, 3.5, totalArea(hull), 1e-9)
	requireConsistent(t, hull)
}

func TestFinishRegions(t *testing.T) {
	poly := &Polygon{}
	poly.AddContour([]r2.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 4}, {X: 0, Y: 4}}, 1)
	poly.AddSegment(r2.Point{X: 4, Y: 0}, r2.Point{X: 4, Y: 4}, 2)
	m := buildPolygon(t, poly)
	require.NoError(t, m.Finish(FinishOptions{Regions: []Region{
		{Point: r2.Point{X: 2, Y: 2}, Label: 10, Area: 0.5},
		{Point: r2.Point{X: 6, Y: 2}, Label: 20},
	}}))

	for _, tri := range m.Triangles() {
		cx := (tri.Vertex(0).X + tri.Vertex(1).X + tri.Vertex(2).X) / 3
		if cx < 4 {
			assert.Equal(t, 10, tri.Label)
			assert.Equal(t, 0.5, tri.Area)
		} else {
			assert.Equal(t, 20, tri.Label)
		}
	}
}

func TestFinishErrors(t *testing.T) {
	m := NewMesh(unitBounds)
	insertAll(t, m, unitSquare()[:2])
	assert.True(t, errors.Is(m.Finish(FinishOptions{}), ErrTooFewVertices))

	collinear := NewMesh(unitBounds)
	insertAll(t, collinear, []r2.Point{{X: 0, Y: 0}, {X: 0.5, Y: 0.5}, {X: 1, Y: 1}})
	assert.True(t, errors.Is(collinear.Finish(FinishOptions{}), ErrTooFewVertices))

	done := NewMesh(unitBounds)
	insertAll(t, done, unitSquare())
	require.NoError(t, done.Finish(FinishOptions{}))
	assert.True(t, errors.Is(done.Finish(FinishOptions{}), ErrFinished))
}
