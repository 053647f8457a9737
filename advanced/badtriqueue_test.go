package advanced

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketFor(t *testing.T) {
	assert.Equal(t, 0, bucketFor(0))
	assert.Equal(t, 0, bucketFor(-1))
	assert.Equal(t, 0, bucketFor(math.NaN()))
	assert.Equal(t, badTriBuckets-1, bucketFor(math.Inf(1)))
	assert.Equal(t, 2048, bucketFor(1))
	assert.Equal(t, 2047, bucketFor(0.9))
	assert.Equal(t, 2044, bucketFor(0.25))
	assert.Equal(t, 2051, bucketFor(4))

	last := bucketFor(1e-12)
	for key := 1e-12; key < 1e12; key *= 1.1 {
		bucket := bucketFor(key)
		assert.GreaterOrEqual(t, bucket, last, "key %g", key)
		last = bucket
	}
}

func TestBadTriQueueOrder(t *testing.T) {
	q := NewBadTriQueue()
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 500; i++ {
		key := math.Pow(10, rng.Float64()*10-5)
		q.EnqueueBad(&BadTriangle{Key: key})
	}
	require.Equal(t, 500, q.Len())

	last := -1
	for q.Len() > 0 {
		bad, ok := q.Dequeue()
		require.True(t, ok)
		bucket := bucketFor(bad.Key)
		assert.GreaterOrEqual(t, bucket, last)
		last = bucket
	}
	_, ok := q.Dequeue()
	assert.False(t, ok)
}

func TestBadTriQueueFIFOWithinBucket(t *testing.T) {
	q := NewBadTriQueue()
	first := &BadTriangle{Key: 1}
	second := &BadTriangle{Key: 1.1}
	small := &BadTriangle{Key: 0.01}
	q.EnqueueBad(first)
	q.EnqueueBad(second)
	q.EnqueueBad(small)

	for _, want := range []*BadTriangle{small, first, second} {
		got, ok := q.Dequeue()
		require.True(t, ok)
		assert.Same(t, want, got)
	}

	// Emptied buckets can be refilled.
	q.EnqueueBad(second)
	got, _ := q.Dequeue()
	assert.Same(t, second, got)
	assert.Equal(t, 0, q.Len())
}

func TestBadTriangleStale(t *testing.T) {
	m := NewMesh(unitBounds)
	insertAll(t, m, unitSquare())
	require.NoError(t, m.Finish(FinishOptions{}))

	tri := OTri{m.Triangles()[0], 0}
	q := NewBadTriQueue()
	q.Enqueue(tri, 1, tri.Org(), tri.Dest(), tri.Apex())
	bad, _ := q.Dequeue()
	assert.False(t, bad.Stale())

	_, _, err := m.InsertVertex(centroid(tri.tri), OTri{})
	require.NoError(t, err)
	assert.True(t, bad.Stale())
}
