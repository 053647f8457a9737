package advanced

import "math"

const badTriBuckets = 4096

// A BadTriangle is a triangle waiting to be split, with its corners as they
// were when it was found to be bad.
type BadTriangle struct {
	Tri  OTri
	Key  float64
	Org  *Vertex
	Dest *Vertex
	Apex *Vertex

	id   int
	next *BadTriangle
}

// Stale reports whether the triangle has died or changed shape since it was
// queued.
func (b *BadTriangle) Stale() bool {
	t := b.Tri.tri
	return t.IsDead() || t.id != b.id ||
		b.Tri.Org() != b.Org || b.Tri.Dest() != b.Dest || b.Tri.Apex() != b.Apex
}

// BadTriQueue orders bad triangles by key, which is the squared length of
// their shortest edge. Keys are bucketed by (half) binary exponent into a
// fixed table, lowest bucket first; smaller keys land in lower buckets and
// are split first. Within a bucket triangles come out in FIFO order.
type BadTriQueue struct {
	front        [badTriBuckets]*BadTriangle
	tail         [badTriBuckets]*BadTriangle
	nextNonEmpty [badTriBuckets]int

	firstNonEmpty int
	size          int
}

func NewBadTriQueue() *BadTriQueue {
	return &BadTriQueue{firstNonEmpty: -1}
}

func (q *BadTriQueue) Len() int { return q.size }

// bucketFor maps a key to its bucket. Each factor of sqrt(2) in the key is
// one bucket, centered on key 1 between buckets 2047 and 2048.
func bucketFor(key float64) int {
	if !(key > 0) {
		return 0
	}
	if math.IsInf(key, 1) {
		return badTriBuckets - 1
	}

	length := key
	positive := key >= 1
	if !positive {
		length = 1 / key
	}
	exponent := 0
	for length > 2 {
		// Take the biggest power-of-two-squared step that still fits.
		increment := 1
		multiplier := 0.5
		for length*multiplier*multiplier > 1 {
			increment *= 2
			multiplier *= multiplier
		}
		exponent += increment
		length *= multiplier
	}
	exponent *= 2
	if length > math.Sqrt2 {
		exponent++
	}

	var bucket int
	if positive {
		bucket = 2048 + exponent
	} else {
		bucket = 2047 - exponent
	}
	if bucket < 0 {
		return 0
	}
	if bucket >= badTriBuckets {
		return badTriBuckets - 1
	}
	return bucket
}

func (q *BadTriQueue) EnqueueBad(bad *BadTriangle) {
	q.size++
	bucket := bucketFor(bad.Key)
	if q.front[bucket] == nil {
		if q.firstNonEmpty < 0 || bucket < q.firstNonEmpty {
			q.nextNonEmpty[bucket] = q.firstNonEmpty
			q.firstNonEmpty = bucket
		} else {
			// Find the nearest non-empty bucket below and link in after it.
			i := bucket - 1
			for q.front[i] == nil {
				i--
			}
			q.nextNonEmpty[bucket] = q.nextNonEmpty[i]
			q.nextNonEmpty[i] = bucket
		}
		q.front[bucket] = bad
	} else {
		q.tail[bucket].next = bad
	}
	q.tail[bucket] = bad
	bad.next = nil
}

func (q *BadTriQueue) Enqueue(tri OTri, key float64, org, dest, apex *Vertex) {
	q.EnqueueBad(&BadTriangle{
		Tri:  tri,
		Key:  key,
		Org:  org,
		Dest: dest,
		Apex: apex,
		id:   tri.tri.id,
	})
}

// Dequeue removes the head of the lowest non-empty bucket.
func (q *BadTriQueue) Dequeue() (*BadTriangle, bool) {
	if q.firstNonEmpty < 0 {
		return nil, false
	}
	q.size--
	bucket := q.firstNonEmpty
	result := q.front[bucket]
	q.front[bucket] = result.next
	if result == q.tail[bucket] {
		q.tail[bucket] = nil
		q.firstNonEmpty = q.nextNonEmpty[bucket]
	}
	result.next = nil
	return result, true
}
