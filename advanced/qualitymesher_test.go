package advanced

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The unit square with random points inside, which make plenty of skinny
// triangles.
func finishedSquare(t *testing.T, interior int) *Mesh {
	t.Helper()
	m := NewMesh(unitBounds)
	vertices := insertAll(t, m, unitSquare())
	for i := range vertices {
		require.NoError(t, m.InsertSegment(vertices[i], vertices[(i+1)%4], 1))
	}
	for _, p := range randomPoints(interior, 7) {
		_, _, err := m.InsertVertex(p.Mul(0.98).Add(r2.Point{X: 0.01, Y: 0.01}), OTri{})
		require.NoError(t, err)
	}
	require.NoError(t, m.Finish(FinishOptions{}))
	return m
}

func refine(t *testing.T, m *Mesh, opts QualityOptions) *QualityMesher {
	t.Helper()
	q, err := NewQualityMesher(m, opts)
	require.NoError(t, err)
	state, err := q.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, Done, state)
	requireConsistent(t, m)
	return q
}

func TestQualityMesherMinAngle(t *testing.T) {
	m := finishedSquare(t, 30)
	before := m.NumberOfTriangles()
	q := refine(t, m, QualityOptions{MinAngle: 20})

	quality := MeasureQuality(m)
	assert.GreaterOrEqual(t, quality.MinAngle, 20-1e-9)
	assert.InDelta(t, 1, quality.TotalArea, 1e-9)
	assert.Greater(t, m.NumberOfTriangles(), before)
	assert.Greater(t, q.Iterations(), 0)
	for _, s := range m.Segments() {
		assert.False(t, q.IsEncroached(s), "%v", s)
	}
	require.NoError(t, m.CheckDelaunay(true))

	for _, v := range m.Vertices() {
		if v.Kind == SegmentVertex {
			onBoundary := v.X == 0 || v.X == 1 || v.Y == 0 || v.Y == 1
			assert.True(t, onBoundary, "%v", v)
		}
	}
}

func TestQualityMesherMaxArea(t *testing.T) {
	m := finishedSquare(t, 0)
	refine(t, m, QualityOptions{MaxArea: 0.01})

	quality := MeasureQuality(m)
	assert.LessOrEqual(t, quality.MaxArea, 0.01)
	assert.InDelta(t, 1, quality.TotalArea, 1e-9)
	assert.GreaterOrEqual(t, quality.Triangles, 100)
}

func TestQualityMesherMaxAngle(t *testing.T) {
	m := finishedSquare(t, 30)
	refine(t, m, QualityOptions{MinAngle: 20, MaxAngle: 130})
	quality := MeasureQuality(m)
	assert.LessOrEqual(t, quality.MaxAngle, 130+1e-9)
	assert.GreaterOrEqual(t, quality.MinAngle, 20-1e-9)
}

func TestQualityMesherUserTest(t *testing.T) {
	m := finishedSquare(t, 0)
	small := func(tri *Triangle, area float64) bool {
		return centroid(tri).X < 0.5 && area > 0.005
	}
	refine(t, m, QualityOptions{UserTest: small})

	left, right := 0, 0
	for _, tri := range m.Triangles() {
		if centroid(tri).X < 0.5 {
			left++
		} else {
			right++
		}
		assert.False(t, small(tri, MeasureTriangle(tri).Area))
	}
	assert.Greater(t, left, right)
}

func TestQualityMesherRegionAreas(t *testing.T) {
	poly := &Polygon{}
	poly.AddContour([]r2.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 4}, {X: 0, Y: 4}}, 1)
	poly.AddSegment(r2.Point{X: 4, Y: 0}, r2.Point{X: 4, Y: 4}, 2)
	m := buildPolygon(t, poly)
	require.NoError(t, m.Finish(FinishOptions{Regions: []Region{
		{Point: r2.Point{X: 2, Y: 2}, Label: 10, Area: 0.5},
		{Point: r2.Point{X: 6, Y: 2}, Label: 20},
	}}))
	refine(t, m, QualityOptions{ConstrainArea: true})

	for _, tri := range m.Triangles() {
		if tri.Label == 10 {
			assert.LessOrEqual(t, MeasureTriangle(tri).Area, 0.5)
			assert.Less(t, centroid(tri).X, 4.0)
		} else {
			assert.Equal(t, 20, tri.Label)
		}
	}
}

func TestQualityMesherConformingDelaunay(t *testing.T) {
	m := NewMesh(unitBounds)
	vertices := insertAll(t, m, append(unitSquare(), randomPoints(40, 9)...))
	for i := 0; i < 4; i++ {
		require.NoError(t, m.InsertSegment(vertices[i], vertices[(i+1)%4], 1))
	}
	require.NoError(t, m.InsertSegment(vertices[0], vertices[2], 2))
	require.NoError(t, m.Finish(FinishOptions{}))

	refine(t, m, QualityOptions{ConformingDelaunay: true})
	require.NoError(t, m.CheckDelaunay(false))
}

func TestQualityMesherNoBoundarySplit(t *testing.T) {
	m := finishedSquare(t, 30)
	refine(t, m, QualityOptions{MinAngle: 20, BoundarySplit: NoSplit})
	assert.Equal(t, 4, m.NumberOfSegments())
	for _, v := range m.Vertices() {
		assert.NotEqual(t, SegmentVertex, v.Kind)
	}
}

// Two segments meeting at about 4.45 degrees, inside their convex hull.
func acuteMesh(t *testing.T) (*Mesh, []*Vertex) {
	t.Helper()
	m := NewMesh(r2.RectFromPoints(r2.Point{X: 0, Y: 0}, r2.Point{X: 11, Y: 2}))
	vertices := insertAll(t, m, []r2.Point{{X: 1, Y: 1}, {X: 10, Y: 0.8}, {X: 10, Y: 1.5}})
	require.NoError(t, m.InsertSegment(vertices[0], vertices[1], 1))
	require.NoError(t, m.InsertSegment(vertices[0], vertices[2], 1))
	require.NoError(t, m.Finish(FinishOptions{EncloseConvexHull: true}))
	return m, vertices
}

func TestQualityMesherAcuteInput(t *testing.T) {
	for _, limit := range []int{50, 200, 1000} {
		t.Run(fmt.Sprint(limit), func(t *testing.T) {
			m, vertices := acuteMesh(t)
			q, err := NewQualityMesher(m, QualityOptions{MinAngle: 20, MaxIterations: limit})
			require.NoError(t, err)

			type outcome struct {
				state State
				err   error
			}
			done := make(chan outcome, 1)
			go func() {
				state, err := q.Run(context.Background())
				done <- outcome{state, err}
			}()
			var result outcome
			select {
			case result = <-done:
			case <-time.After(30 * time.Second):
				t.Fatalf("refinement still running after %d iterations", q.Iterations())
			}

			requireConsistent(t, m)
			require.NoError(t, m.CheckDelaunay(true))
			assert.LessOrEqual(t, q.Iterations(), limit)
			if result.state == Failed {
				assert.True(t, errors.Is(result.err, ErrNonConvergence) || errors.Is(result.err, ErrPrecision), "%v", result.err)
				return
			}
			require.NoError(t, result.err)

			// Only triangles at the acute corner may stay below the bound.
			for _, tri := range m.Triangles() {
				if MeasureTriangle(tri).MinAngle < 20-1e-9 {
					touchesCorner := false
					for i := 0; i < 3; i++ {
						touchesCorner = touchesCorner || tri.Vertex(i) == vertices[0]
					}
					assert.True(t, touchesCorner, "%v", tri)
				}
			}
		})
	}
}

func TestSubsegmentsLeaveFreedTriangles(t *testing.T) {
	m := finishedSquare(t, 0)
	requireConsistent(t, m)
	for _, s := range m.Segments() {
		for side := 0; side < 2; side++ {
			if tri := s.Triangle(side); tri != nil {
				assert.False(t, tri.IsDead(), "%v", s)
			}
		}
		// Each hull subsegment has exactly one triangle inside the square.
		assert.True(t, (s.Triangle(0) == nil) != (s.Triangle(1) == nil), "%v", s)
	}

	// Refining reuses the freed slots; the hull must not follow them.
	refine(t, m, QualityOptions{MinAngle: 25, MaxArea: 0.01})
	for _, s := range m.Segments() {
		for side := 0; side < 2; side++ {
			if tri := s.Triangle(side); tri != nil {
				assert.False(t, tri.IsDead(), "%v", s)
			}
		}
	}
}

func TestQualityMesherSkipsStaleTrianglesWithoutBudget(t *testing.T) {
	m := finishedSquare(t, 0)
	q, err := NewQualityMesher(m, QualityOptions{MinAngle: 20, SteinerPoints: 1})
	require.NoError(t, err)
	q.steinerLeft = 0

	// An entry whose corners no longer match its triangle.
	tri := OTri{m.Triangles()[0], 0}
	q.queue.Enqueue(tri, 1, tri.Dest(), tri.Org(), tri.Apex())

	state, err := q.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Done, state)
	assert.Equal(t, 0, q.Iterations())
}

func TestQualityMesherErrors(t *testing.T) {
	invalid := []QualityOptions{
		{MinAngle: -1},
		{MinAngle: 61},
		{MinAngle: math.NaN()},
		{MaxAngle: 30},
		{MaxAngle: 181},
		{MaxArea: -1},
		{SteinerPoints: -1},
		{MaxIterations: -1},
		{BoundarySplit: BoundarySplitMode(9)},
	}
	for _, opts := range invalid {
		_, err := NewQualityMesher(finishedSquare(t, 0), opts)
		assert.True(t, errors.Is(err, ErrInvalidQuality), "%+v", opts)
	}

	unfinished := NewMesh(unitBounds)
	insertAll(t, unfinished, unitSquare())
	_, err := NewQualityMesher(unfinished, QualityOptions{})
	assert.True(t, errors.Is(err, ErrNotFinished))
}

func TestQualityMesherCancelled(t *testing.T) {
	m := finishedSquare(t, 0)
	q, err := NewQualityMesher(m, QualityOptions{MaxArea: 0.001})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state, err := q.Run(ctx)
	assert.Equal(t, Failed, state)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, Failed, q.State())
	requireConsistent(t, m)
}

func TestQualityMesherSteinerBudget(t *testing.T) {
	m := finishedSquare(t, 0)
	q, err := NewQualityMesher(m, QualityOptions{MaxArea: 0.001, SteinerPoints: 3})
	require.NoError(t, err)

	state, err := q.Run(context.Background())
	assert.Equal(t, Failed, state)
	assert.True(t, errors.Is(err, ErrNonConvergence))
	assert.LessOrEqual(t, len(m.Vertices()), 4+3)
	requireConsistent(t, m)

	// Stopped meshers report the same outcome again.
	again, againErr := q.Run(context.Background())
	assert.Equal(t, state, again)
	assert.Equal(t, err, againErr)
}

func TestQualityMesherIterationLimit(t *testing.T) {
	m := finishedSquare(t, 0)
	q, err := NewQualityMesher(m, QualityOptions{MaxArea: 0.0001, MaxIterations: 10})
	require.NoError(t, err)
	_, err = q.Run(context.Background())
	assert.True(t, errors.Is(err, ErrNonConvergence))
	assert.Equal(t, 10, q.Iterations())
}

func TestNewAngleBounds(t *testing.T) {
	b := newAngleBounds(0, 0)
	assert.Equal(t, 1.0, b.goodAngle)
	assert.Equal(t, 0.0, b.offConstant)

	b = newAngleBounds(30, 150)
	assert.InDelta(t, 0.75, b.goodAngle, 1e-12)
	assert.InDelta(t, -math.Sqrt(3)/2, b.maxGoodAngle, 1e-12)
	assert.Greater(t, b.offConstant, 0.0)
}
