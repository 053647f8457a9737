package advanced

import (
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/require"
)

var unitBounds = r2.RectFromPoints(r2.Point{X: -0.1, Y: -0.1}, r2.Point{X: 1.1, Y: 1.1})

func randomPoints(n int, seed int64) []r2.Point {
	rng := rand.New(rand.NewSource(seed))
	points := make([]r2.Point, n)
	for i := range points {
		points[i] = r2.Point{X: rng.Float64(), Y: rng.Float64()}
	}
	return points
}

func insertAll(t *testing.T, m *Mesh, points []r2.Point) []*Vertex {
	t.Helper()
	vertices := make([]*Vertex, len(points))
	for i, p := range points {
		v, _, err := m.InsertVertex(p, OTri{})
		require.NoError(t, err, "point %d %v", i, p)
		vertices[i] = v
	}
	return vertices
}

func unitSquare() []r2.Point {
	return []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
}

func squarePolygon() *Polygon {
	poly := &Polygon{}
	poly.AddContour(unitSquare(), 1)
	return poly
}

func requireConsistent(t *testing.T, m *Mesh) {
	t.Helper()
	if err := m.CheckConsistency(); err != nil {
		require.NoError(t, err, "%s", spew.Sdump(MeasureQuality(m)))
	}
}

func countEdges(m *Mesh) int {
	n := 0
	for range m.Edges() {
		n++
	}
	return n
}
