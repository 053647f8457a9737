package advanced_test

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/osuushi/terrainmesh/advanced"
	"github.com/osuushi/terrainmesh/internal/fixtures"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shoelace(ring []r2.Point) float64 {
	area := 0.0
	for i, p := range ring {
		area += p.Cross(ring[(i+1)%len(ring)])
	}
	return math.Abs(area) / 2
}

func triangulate(t *testing.T, name string, quality *advanced.QualityOptions) *advanced.Mesh {
	t.Helper()
	m, err := advanced.Triangulate(context.Background(), fixtures.MustLoad(name), nil, quality)
	require.NoError(t, err)
	require.NoError(t, m.CheckConsistency())
	return m
}

func TestTriangulateFixtures(t *testing.T) {
	for _, name := range fixtures.Names() {
		t.Run(name, func(t *testing.T) {
			m := triangulate(t, name, nil)
			require.NoError(t, m.CheckDelaunay(true))
			assert.Greater(t, m.NumberOfTriangles(), 0)
		})
	}
}

func TestTriangulateHole(t *testing.T) {
	m := triangulate(t, "square_hole", &advanced.QualityOptions{MinAngle: 25})
	q := advanced.MeasureQuality(m)
	assert.InDelta(t, 96, q.TotalArea, 1e-9)
	assert.GreaterOrEqual(t, q.MinAngle, 25-1e-9)
}

func TestTriangulateLake(t *testing.T) {
	poly := fixtures.MustLoad("lake")
	want := shoelace(poly.Points[:8]) - shoelace(poly.Points[8:14])

	m, err := advanced.Triangulate(context.Background(), poly, nil, &advanced.QualityOptions{MinAngle: 20, MaxArea: 50})
	require.NoError(t, err)
	q := advanced.MeasureQuality(m)
	assert.InDelta(t, want, q.TotalArea, 1e-6)
	assert.LessOrEqual(t, q.MaxArea, 50.0)

	// The river polyline survives as labeled subsegments.
	labels := map[int]int{}
	for _, s := range m.Segments() {
		labels[s.Label]++
	}
	assert.Greater(t, labels[5], 1)
	assert.Greater(t, labels[4], 5)
}

func TestTriangulateRegions(t *testing.T) {
	m := triangulate(t, "regions", &advanced.QualityOptions{ConstrainArea: true})
	labels := map[int]int{}
	for _, tri := range m.Triangles() {
		labels[tri.Label]++
		if tri.Label == 10 {
			assert.LessOrEqual(t, advanced.MeasureTriangle(tri).Area, 0.5)
		}
	}
	assert.GreaterOrEqual(t, labels[10], 32)
	assert.Greater(t, labels[20], 0)
	assert.Len(t, labels, 2)
}

func TestTriangulateAcute(t *testing.T) {
	m, err := advanced.Triangulate(context.Background(), fixtures.MustLoad("acute"), nil,
		&advanced.QualityOptions{MinAngle: 20, MaxIterations: 500})
	if err != nil {
		assert.True(t, errors.Is(err, advanced.ErrNonConvergence) || errors.Is(err, advanced.ErrPrecision), "%v", err)
	}
	require.NotNil(t, m)
	require.NoError(t, m.CheckConsistency())
	require.NoError(t, m.CheckDelaunay(true))
	assert.InDelta(t, 100, advanced.MeasureQuality(m).TotalArea, 1e-6)
}

func TestTriangulateConvexHull(t *testing.T) {
	poly := &advanced.Polygon{}
	poly.AddSegment(r2.Point{X: 0, Y: 0}, r2.Point{X: 4, Y: 0}, 1)
	poly.AddPoint(r2.Point{X: 2, Y: 3}, 0)

	// Without a closed boundary everything is carved away.
	m, err := advanced.Triangulate(context.Background(), poly, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NumberOfTriangles())

	m, err = advanced.Triangulate(context.Background(), poly, &advanced.ConstraintOptions{EncloseConvexHull: true}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 6, advanced.MeasureQuality(m).TotalArea, 1e-9)
}

func TestTriangulateDuplicatesAndDegenerateSegments(t *testing.T) {
	poly := &advanced.Polygon{}
	poly.AddContour([]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, 1)
	a := poly.AddPoint(r2.Point{X: 1, Y: 1}, 0)
	b := poly.AddPoint(r2.Point{X: 1, Y: 1}, 0)
	poly.Segments = append(poly.Segments, advanced.Segment{P0: a, P1: b})

	m, err := advanced.Triangulate(context.Background(), poly, nil, nil)
	require.NoError(t, err)
	assert.Len(t, m.Vertices(), 4)
	assert.Equal(t, 4, m.NumberOfSegments())

	poly.Segments = append(poly.Segments, advanced.Segment{P0: 0, P1: 99})
	_, err = advanced.Triangulate(context.Background(), poly, nil, nil)
	assert.Error(t, err)
}

func TestTriangulateNilPolygon(t *testing.T) {
	m, err := advanced.Triangulate(context.Background(), nil, nil, nil)
	assert.Nil(t, m)
	assert.True(t, errors.Is(err, advanced.ErrTooFewVertices))
}
