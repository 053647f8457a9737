package advanced

// RegionIterator floods across the dual graph of a mesh from a seed
// triangle. It borrows the triangles' infection flags, so only one flood can
// run on a mesh at a time; all flags are cleared again before it returns.
type RegionIterator struct {
	region []*Triangle
}

// Process applies action to every triangle reachable from seed. With
// boundary 0 the flood stops at every subsegment; otherwise it stops only at
// subsegments labeled boundary. A nil action copies the seed's label and
// area constraint to everything reached.
func (it *RegionIterator) Process(seed *Triangle, action func(*Triangle), boundary int) {
	if action == nil {
		label, area := seed.Label, seed.Area
		action = func(t *Triangle) {
			t.Label = label
			t.Area = area
		}
	}
	if boundary == 0 {
		it.ProcessFunc(seed, action, func(s *SubSegment) bool { return s.IsDummy() })
	} else {
		it.ProcessFunc(seed, action, func(s *SubSegment) bool { return s.Label != boundary })
	}
}

// ProcessFunc is Process with a caller-supplied protector: the flood crosses
// an edge only if crossable returns true for its subsegment (the dummy
// subsegment for unconstrained edges).
func (it *RegionIterator) ProcessFunc(seed *Triangle, action func(*Triangle), crossable func(*SubSegment) bool) {
	if seed == nil || seed.IsDummy() || seed.IsDead() {
		return
	}
	it.region = append(it.region[:0], seed)
	seed.infected = true
	for i := 0; i < len(it.region); i++ {
		testtri := OTri{it.region[i], 0}
		action(testtri.tri)
		for ; testtri.orient < 3; testtri.orient++ {
			neighbor := testtri.Sym()
			if !neighbor.IsDummy() && !neighbor.Infected() && crossable(testtri.Pivot().seg) {
				neighbor.Infect()
				it.region = append(it.region, neighbor.tri)
			}
		}
	}
	for _, virus := range it.region {
		virus.infected = false
	}
	it.region = it.region[:0]
}

// Collect returns the triangles Process would reach, in flood order.
func (it *RegionIterator) Collect(seed *Triangle, boundary int) []*Triangle {
	var result []*Triangle
	it.Process(seed, func(t *Triangle) { result = append(result, t) }, boundary)
	return result
}

// RelabelSmallRegions finds the components of the mesh separated by
// subsegments and gives every triangle of a component smaller than
// minTriangles the given label. This is how small islands left over from
// carving are flagged for discarding. It returns the number of components
// relabeled.
func (m *Mesh) RelabelSmallRegions(minTriangles int, label int) int {
	var it RegionIterator
	visited := make(map[*Triangle]bool, m.triangles.count())
	relabeled := 0
	m.triangles.each(func(t *Triangle) {
		if visited[t] {
			return
		}
		component := it.Collect(t, 0)
		for _, c := range component {
			visited[c] = true
		}
		if len(component) < minTriangles {
			for _, c := range component {
				c.Label = label
			}
			relabeled++
		}
	})
	if relabeled > 0 {
		Logger().Debug("relabeled small regions", "count", relabeled, "label", label)
	}
	return relabeled
}
