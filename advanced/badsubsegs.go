package advanced

// A BadSubsegment is an encroached subsegment, with its endpoints as they
// were when the encroachment was found.
type BadSubsegment struct {
	Seg  OSub
	Org  *Vertex
	Dest *Vertex
}

// Stale reports whether the subsegment has died or been split since.
func (b *BadSubsegment) Stale() bool {
	return b.Seg.seg.IsDead() || b.Seg.Org() != b.Org || b.Seg.Dest() != b.Dest
}

// badSubsegSet is a FIFO of encroached subsegments holding each subsegment
// at most once. Re-adding a queued subsegment refreshes its entry in place.
type badSubsegSet struct {
	queue   []*BadSubsegment
	head    int
	members map[int]*BadSubsegment
}

func newBadSubsegSet() *badSubsegSet {
	return &badSubsegSet{members: make(map[int]*BadSubsegment)}
}

func (s *badSubsegSet) Len() int { return len(s.queue) - s.head }

// Add queues a subsegment and reports whether it was not queued already.
func (s *badSubsegSet) Add(seg OSub, org, dest *Vertex) bool {
	if existing, ok := s.members[seg.seg.hash]; ok {
		existing.Seg, existing.Org, existing.Dest = seg, org, dest
		return false
	}
	bad := &BadSubsegment{Seg: seg, Org: org, Dest: dest}
	s.members[seg.seg.hash] = bad
	s.queue = append(s.queue, bad)
	return true
}

func (s *badSubsegSet) Pop() (*BadSubsegment, bool) {
	if s.head >= len(s.queue) {
		return nil, false
	}
	bad := s.queue[s.head]
	s.queue[s.head] = nil
	s.head++
	if s.head == len(s.queue) {
		s.queue = s.queue[:0]
		s.head = 0
	}
	delete(s.members, bad.Seg.seg.hash)
	return bad, true
}
