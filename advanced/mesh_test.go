package advanced

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertVertexKeepsMeshConsistent(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		m := NewMesh(unitBounds, WithSeed(seed))
		vertices := insertAll(t, m, randomPoints(300, seed))
		for _, v := range vertices {
			assert.Equal(t, InputVertex, v.Kind)
		}
		requireConsistent(t, m)
		require.NoError(t, m.CheckDelaunay(false))
	}
}

func TestInsertVertexResults(t *testing.T) {
	m := NewMesh(unitBounds)
	insertAll(t, m, unitSquare())

	v, result, err := m.InsertVertex(r2.Point{X: 0.5, Y: 0.5}, OTri{})
	require.NoError(t, err)
	assert.Equal(t, Successful, result)
	assert.Equal(t, 4, v.ID)

	t.Run("duplicate", func(t *testing.T) {
		before := m.NumberOfTriangles()
		dup, result, err := m.InsertVertex(r2.Point{X: 0.5, Y: 0.5}, OTri{})
		require.NoError(t, err)
		assert.Equal(t, Duplicate, result)
		assert.Same(t, v, dup)
		assert.Equal(t, before, m.NumberOfTriangles())
		assert.Len(t, m.Vertices(), 5)
	})

	t.Run("outside bounds", func(t *testing.T) {
		_, _, err := m.InsertVertex(r2.Point{X: 5, Y: 0}, OTri{})
		assert.True(t, errors.Is(err, ErrOutsideBounds))
		_, _, err = m.InsertVertex(r2.Point{X: math.NaN(), Y: 0}, OTri{})
		assert.True(t, errors.Is(err, ErrOutsideBounds))
	})

	t.Run("with hint", func(t *testing.T) {
		m.MakeVertexMap()
		hint := v.Home()
		require.Equal(t, v, hint.Org())
		w, result, err := m.InsertVertex(r2.Point{X: 0.25, Y: 0.7}, hint)
		require.NoError(t, err)
		assert.Equal(t, Successful, result)
		assert.Same(t, w, m.Vertex(w.ID))
	})

	requireConsistent(t, m)
}

func TestEdgeCount(t *testing.T) {
	m := NewMesh(unitBounds)
	insertAll(t, m, randomPoints(100, 7))
	require.NoError(t, m.Finish(FinishOptions{}))

	triangles := m.NumberOfTriangles()
	assert.Equal(t, (3*triangles+m.HullSize())/2, m.NumberOfEdges())
	assert.Equal(t, m.NumberOfEdges(), countEdges(m))
	// Euler: V - E + F = 1 for a triangulated disk.
	assert.Equal(t, 1, len(m.Vertices())-m.NumberOfEdges()+triangles)
	assert.Equal(t, m.HullSize(), m.NumberOfSegments(), "the hull is marked")
}

func TestEdgeIteratorVisitsEachEdgeOnce(t *testing.T) {
	m := NewMesh(unitBounds)
	insertAll(t, m, randomPoints(60, 11))
	require.NoError(t, m.Finish(FinishOptions{}))

	seen := map[[2]int]bool{}
	it := NewEdgeIterator(m)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		key := [2]int{e.P0, e.P1}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		assert.False(t, seen[key], "edge %v twice", key)
		seen[key] = true
	}
	assert.Len(t, seen, m.NumberOfEdges())
}

func TestFlipAndPrune(t *testing.T) {
	m := NewMesh(unitBounds)
	insertAll(t, m, unitSquare())
	require.NoError(t, m.Finish(FinishOptions{}))
	require.Equal(t, 2, m.NumberOfTriangles())

	// Find the diagonal and flip it.
	var diagonal OTri
	for _, tri := range m.Triangles() {
		for i := 0; i < 3; i++ {
			if o := (OTri{tri, i}); !o.Sym().IsDummy() {
				diagonal = o
			}
		}
	}
	require.False(t, diagonal.IsNil())
	before := [2]*Vertex{diagonal.Org(), diagonal.Dest()}
	m.Flip(diagonal)
	after := [2]*Vertex{diagonal.Org(), diagonal.Dest()}
	assert.NotContains(t, before[:], after[0])
	assert.NotContains(t, before[:], after[1])
	requireConsistent(t, m)

	// The square is cocircular, so both diagonals are Delaunay.
	assert.NoError(t, m.CheckDelaunay(false))
	m.Prune()
	assert.Equal(t, 2, m.NumberOfTriangles())
}

func TestMakeVertexMapIsIdempotent(t *testing.T) {
	m := NewMesh(unitBounds)
	vertices := insertAll(t, m, randomPoints(40, 5))
	require.NoError(t, m.Finish(FinishOptions{}))

	m.MakeVertexMap()
	first := make([]OTri, len(vertices))
	for i, v := range vertices {
		first[i] = v.Home()
		assert.Same(t, v, v.Home().Org())
	}
	m.MakeVertexMap()
	for i, v := range vertices {
		assert.Equal(t, first[i], v.Home())
	}
}

func TestInsertAfterFinish(t *testing.T) {
	m := NewMesh(unitBounds)
	insertAll(t, m, unitSquare())
	require.NoError(t, m.Finish(FinishOptions{}))

	v, result, err := m.InsertVertex(r2.Point{X: 0.3, Y: 0.4}, OTri{})
	require.NoError(t, err)
	assert.Equal(t, Successful, result)
	assert.Equal(t, FreeVertex, v.Kind)

	_, _, err = m.InsertVertex(r2.Point{X: 1.05, Y: 0.5}, OTri{})
	assert.True(t, errors.Is(err, ErrOutside), "got %v", err)

	v, result, err = m.InsertVertex(r2.Point{X: 0.5, Y: 0}, OTri{})
	require.NoError(t, err)
	assert.Equal(t, SplitSegment, result)
	assert.Equal(t, SegmentVertex, v.Kind)
	assert.Equal(t, 5, m.NumberOfSegments())
	requireConsistent(t, m)
}
