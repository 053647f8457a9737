package advanced

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureTriangle(t *testing.T) {
	m := NewMesh(unitBounds)
	insertAll(t, m, []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}})
	require.NoError(t, m.Finish(FinishOptions{}))
	require.Len(t, m.Triangles(), 1)

	s := MeasureTriangle(m.Triangles()[0])
	assert.InDelta(t, 0.5, s.Area, 1e-12)
	assert.InDelta(t, 45, s.MinAngle, 1e-9)
	assert.InDelta(t, 90, s.MaxAngle, 1e-9)
	assert.InDelta(t, 1, s.MinEdge, 1e-12)
	assert.InDelta(t, math.Sqrt2, s.MaxEdge, 1e-12)
	assert.InDelta(t, 2, s.AspectRatio, 1e-12)
}

func TestMeasureQuality(t *testing.T) {
	m := NewMesh(unitBounds)
	insertAll(t, m, unitSquare())
	require.NoError(t, m.Finish(FinishOptions{}))

	q := MeasureQuality(m)
	assert.Equal(t, 2, q.Triangles)
	assert.Equal(t, 4, q.Vertices)
	assert.Equal(t, 5, q.Edges)
	assert.Equal(t, 4, q.Segments)
	assert.InDelta(t, 45, q.MinAngle, 1e-9)
	assert.InDelta(t, 90, q.MaxAngle, 1e-9)
	assert.InDelta(t, 1, q.TotalArea, 1e-12)
	assert.Equal(t, 0, q.ZeroArea)

	empty := MeasureQuality(NewMesh(unitBounds))
	assert.Equal(t, 0, empty.Triangles)
	assert.Equal(t, 0.0, empty.MinAngle)
	assert.Equal(t, 0.0, empty.MinArea)
}

func TestMeasureQualityBeforeFinish(t *testing.T) {
	m := NewMesh(unitBounds)
	insertAll(t, m, []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}})

	q := MeasureQuality(m)
	assert.Equal(t, 1, q.Triangles)
	assert.Equal(t, 3, q.Edges)
	assert.InDelta(t, 0.5, q.TotalArea, 1e-12)
	assert.InDelta(t, 45, q.MinAngle, 1e-9)
	assert.Equal(t, 1, m.NumberOfTriangles())
}

func TestLawOfCosines(t *testing.T) {
	assert.InDelta(t, 60, lawOfCosines(1, 1, 1), 1e-9)
	assert.InDelta(t, 180, lawOfCosines(2, 1, 1), 1e-9)
	assert.Equal(t, 0.0, lawOfCosines(1, 0, 1))
}
