package advanced

// insertVertex locates newvertex starting from searchtri and inserts it. With
// a non-nil splitseg, searchtri must already be the triangle whose
// origin-destination edge is that subsegment, and the vertex splits it. On
// return searchtri is a triangle whose origin is the new vertex (or the
// blocking/duplicate triangle on failure).
//
// segmentflaws makes the legalisation check every subsegment it reaches for
// encroachment; triflaws tests every final triangle around the new vertex
// for quality.
func (m *Mesh) insertVertex(newvertex *Vertex, searchtri *OTri, splitseg *OSub, segmentflaws, triflaws bool) InsertResult {
	horiz := *searchtri
	var intersect LocateResult
	if splitseg != nil {
		intersect = OnEdge
	} else if horiz.IsNil() || horiz.IsDummy() || horiz.tri.IsDead() {
		horiz = m.hullStart()
		intersect = m.locator.locate(newvertex.Point, &horiz)
	} else {
		intersect = m.locator.preciseLocate(newvertex.Point, &horiz, true)
	}
	result := m.insertVertexAt(newvertex, horiz, intersect, splitseg, segmentflaws, triflaws)
	*searchtri = m.lastInsert
	return result
}

// insertVertexAt does the work of insertVertex once the vertex has been
// located in horiz.
func (m *Mesh) insertVertexAt(newvertex *Vertex, horiz OTri, intersect LocateResult, splitseg *OSub, segmentflaws, triflaws bool) InsertResult {
	if intersect == OnVertex {
		m.lastInsert = horiz
		m.locator.update(horiz)
		return Duplicate
	}

	if intersect == OnEdge || intersect == Outside {
		if m.checksegments && splitseg == nil {
			brokensubseg := horiz.Pivot()
			if !brokensubseg.IsDummy() {
				// The vertex falls on or beyond a subsegment. Refuse it, and
				// queue the subsegment so that it gets split instead.
				if segmentflaws {
					enq := m.behavior.boundarySplit != NoSplit
					if enq && m.behavior.boundarySplit == SplitInternalOnly {
						enq = !horiz.Sym().IsDummy()
					}
					if enq {
						m.mesher.addBadSubseg(brokensubseg, brokensubseg.Org(), brokensubseg.Dest())
					}
				}
				m.lastInsert = horiz
				m.locator.update(horiz)
				return Violating
			}
		}

		// Split the edge horiz (and its mirror triangle, if any) into two.
		botright := horiz.Lprev()
		botrcasing := botright.Sym()
		topright := horiz.Sym()
		mirrorflag := !topright.IsDummy()
		var toprcasing, newtopright OTri
		if mirrorflag {
			topright = topright.Lnext()
			toprcasing = topright.Sym()
			newtopright = m.makeTriangle()
		} else {
			m.hullsize++
		}
		newbotright := m.makeTriangle()

		rightvertex := horiz.Org()
		botvertex := horiz.Apex()
		newbotright.SetOrg(botvertex)
		newbotright.SetDest(rightvertex)
		newbotright.SetApex(newvertex)
		horiz.SetOrg(newvertex)
		newbotright.tri.Label = botright.tri.Label
		if m.behavior.varArea {
			newbotright.tri.Area = botright.tri.Area
		}
		if mirrorflag {
			topvertex := topright.Dest()
			newtopright.SetOrg(rightvertex)
			newtopright.SetDest(topvertex)
			newtopright.SetApex(newvertex)
			topright.SetOrg(newvertex)
			newtopright.tri.Label = topright.tri.Label
			if m.behavior.varArea {
				newtopright.tri.Area = topright.tri.Area
			}
		}

		if m.checksegments {
			if botrsubseg := botright.Pivot(); !botrsubseg.IsDummy() {
				botright.SegDissolve(m.dummysub)
				newbotright.SegBond(botrsubseg)
			}
			if mirrorflag {
				if toprsubseg := topright.Pivot(); !toprsubseg.IsDummy() {
					topright.SegDissolve(m.dummysub)
					newtopright.SegBond(toprsubseg)
				}
			}
		}

		newbotright.Bond(botrcasing)
		newbotright = newbotright.Lprev()
		newbotright.Bond(botright)
		newbotright = newbotright.Lprev()
		if mirrorflag {
			newtopright.Bond(toprcasing)
			newtopright = newtopright.Lnext()
			newtopright.Bond(topright)
			newtopright = newtopright.Lnext()
			newtopright.Bond(newbotright)
		}

		if splitseg != nil {
			// Shorten the old subsegment and chain a new one after it.
			seg := *splitseg
			seg.SetDest(newvertex)
			segmentorg := seg.SegOrg()
			segmentdest := seg.SegDest()
			seg = seg.Sym()
			rightsubseg := seg.Pivot()
			m.insertSubseg(newbotright, seg.seg.Label)
			newsubseg := newbotright.Pivot()
			newsubseg.SetSegOrg(segmentorg)
			newsubseg.SetSegDest(segmentdest)
			seg.Bond(newsubseg)
			newsubseg = newsubseg.Sym()
			newsubseg.Bond(rightsubseg)
			if newvertex.Label == 0 {
				newvertex.Label = seg.seg.Label
			}
		}

		if m.checkquality {
			// A nil marker under the first entry tells undoVertex that this was
			// an edge split rather than a triangle split.
			m.flipstack = append(m.flipstack[:0], OTri{}, horiz)
		}
		horiz = horiz.Lnext()
	} else {
		// Split the triangle horiz into three.
		botleft := horiz.Lnext()
		botright := horiz.Lprev()
		botlcasing := botleft.Sym()
		botrcasing := botright.Sym()
		newbotleft := m.makeTriangle()
		newbotright := m.makeTriangle()

		rightvertex := horiz.Org()
		leftvertex := horiz.Dest()
		botvertex := horiz.Apex()
		newbotleft.SetOrg(leftvertex)
		newbotleft.SetDest(botvertex)
		newbotleft.SetApex(newvertex)
		newbotright.SetOrg(botvertex)
		newbotright.SetDest(rightvertex)
		newbotright.SetApex(newvertex)
		horiz.SetApex(newvertex)

		newbotleft.tri.Label = horiz.tri.Label
		newbotright.tri.Label = horiz.tri.Label
		if m.behavior.varArea {
			newbotleft.tri.Area = horiz.tri.Area
			newbotright.tri.Area = horiz.tri.Area
		}

		if m.checksegments {
			if botlsubseg := botleft.Pivot(); !botlsubseg.IsDummy() {
				botleft.SegDissolve(m.dummysub)
				newbotleft.SegBond(botlsubseg)
			}
			if botrsubseg := botright.Pivot(); !botrsubseg.IsDummy() {
				botright.SegDissolve(m.dummysub)
				newbotright.SegBond(botrsubseg)
			}
		}

		newbotleft.Bond(botlcasing)
		newbotright.Bond(botrcasing)
		newbotleft = newbotleft.Lnext()
		newbotright = newbotright.Lprev()
		newbotleft.Bond(newbotright)
		newbotleft = newbotleft.Lnext()
		botleft.Bond(newbotleft)
		newbotright = newbotright.Lprev()
		botright.Bond(newbotright)

		if m.checkquality {
			m.flipstack = append(m.flipstack[:0], horiz)
		}
	}

	// Legalise: walk the edges opposite the new vertex counterclockwise,
	// flipping any that fail the Delaunay test. The walk ends when it returns
	// to the first edge or reaches the hull.
	success := Successful
	first := horiz.Org()
	rightvertex := first
	leftvertex := horiz.Dest()
	for {
		doflip := true
		if m.checksegments {
			if checksubseg := horiz.Pivot(); !checksubseg.IsDummy() {
				doflip = false
				if segmentflaws && m.mesher.checkSeg4Encroach(checksubseg) > 0 {
					success = Encroaching
				}
			}
		}

		if doflip {
			top := horiz.Sym()
			if top.IsDummy() {
				doflip = false
			} else {
				farvertex := top.Apex()
				noExact := m.behavior.noExact
				// Edges of the bounding triangle are treated as locally
				// Delaunay unless that would leave the hull non-convex.
				switch {
				case m.isInfinite(leftvertex):
					doflip = counterClockwise(newvertex.Point, rightvertex.Point, farvertex.Point, noExact) > 0
				case m.isInfinite(rightvertex):
					doflip = counterClockwise(farvertex.Point, leftvertex.Point, newvertex.Point, noExact) > 0
				case m.isInfinite(farvertex):
					doflip = false
				default:
					doflip = inCircle(leftvertex.Point, newvertex.Point, rightvertex.Point, farvertex.Point, noExact) > 0
				}

				if doflip {
					topleft := top.Lprev()
					toplcasing := topleft.Sym()
					topright := top.Lnext()
					toprcasing := topright.Sym()
					botleft := horiz.Lnext()
					botlcasing := botleft.Sym()
					botright := horiz.Lprev()
					botrcasing := botright.Sym()
					topleft.Bond(botlcasing)
					botleft.Bond(botrcasing)
					botright.Bond(toprcasing)
					topright.Bond(toplcasing)
					if m.checksegments {
						m.rotateSubsegs(topleft, botleft, botright, topright)
					}

					horiz.SetOrg(farvertex)
					horiz.SetDest(newvertex)
					horiz.SetApex(rightvertex)
					top.SetOrg(newvertex)
					top.SetDest(farvertex)
					top.SetApex(leftvertex)
					m.mergeAttributes(top.tri, horiz.tri)

					if m.checkquality {
						m.flipstack = append(m.flipstack, horiz)
					}
					horiz = horiz.Lprev()
					leftvertex = farvertex
				}
			}
		}

		if !doflip {
			if triflaws {
				m.mesher.testTriangle(horiz)
			}
			horiz = horiz.Lnext()
			testtri := horiz.Sym()
			if leftvertex == first || testtri.IsDummy() {
				m.lastInsert = horiz.Lnext()
				m.locator.update(m.lastInsert)
				return success
			}
			horiz = testtri.Lnext()
			rightvertex = leftvertex
			leftvertex = horiz.Dest()
		}
	}
}

// After a flip the two triangles share region attributes: the smaller label
// wins, and area constraints are averaged (unconstrained if either was).
func (m *Mesh) mergeAttributes(a, b *Triangle) {
	label := a.Label
	if b.Label < label {
		label = b.Label
	}
	a.Label, b.Label = label, label
	if m.behavior.varArea {
		area := -1.0
		if a.Area > 0 && b.Area > 0 {
			area = 0.5 * (a.Area + b.Area)
		}
		a.Area, b.Area = area, area
	}
}

// Move the subsegments of the four outer edges of a flipped quadrilateral to
// the handles that now own those edges.
func (m *Mesh) rotateSubsegs(topleft, botleft, botright, topright OTri) {
	toplsubseg := topleft.Pivot()
	botlsubseg := botleft.Pivot()
	botrsubseg := botright.Pivot()
	toprsubseg := topright.Pivot()
	m.segBondOrDissolve(topright, toplsubseg)
	m.segBondOrDissolve(topleft, botlsubseg)
	m.segBondOrDissolve(botleft, botrsubseg)
	m.segBondOrDissolve(botright, toprsubseg)
}

func (m *Mesh) segBondOrDissolve(tri OTri, s OSub) {
	if s.IsDummy() {
		tri.SegDissolve(m.dummysub)
	} else {
		tri.SegBond(s)
	}
}

// Flip the edge flipedge, which must not be a subsegment. The handle ends up
// on the new edge.
func (m *Mesh) Flip(flipedge OTri) {
	rightvertex := flipedge.Org()
	leftvertex := flipedge.Dest()
	botvertex := flipedge.Apex()
	top := flipedge.Sym()
	farvertex := top.Apex()

	topleft := top.Lprev()
	toplcasing := topleft.Sym()
	topright := top.Lnext()
	toprcasing := topright.Sym()
	botleft := flipedge.Lnext()
	botlcasing := botleft.Sym()
	botright := flipedge.Lprev()
	botrcasing := botright.Sym()

	topleft.Bond(botlcasing)
	botleft.Bond(botrcasing)
	botright.Bond(toprcasing)
	topright.Bond(toplcasing)
	if m.checksegments {
		m.rotateSubsegs(topleft, botleft, botright, topright)
	}

	flipedge.SetOrg(farvertex)
	flipedge.SetDest(botvertex)
	flipedge.SetApex(rightvertex)
	top.SetOrg(botvertex)
	top.SetDest(farvertex)
	top.SetApex(leftvertex)
}

// The inverse of Flip, used when undoing an insertion.
func (m *Mesh) unflip(flipedge OTri) {
	rightvertex := flipedge.Org()
	leftvertex := flipedge.Dest()
	botvertex := flipedge.Apex()
	top := flipedge.Sym()
	farvertex := top.Apex()

	topleft := top.Lprev()
	toplcasing := topleft.Sym()
	topright := top.Lnext()
	toprcasing := topright.Sym()
	botleft := flipedge.Lnext()
	botlcasing := botleft.Sym()
	botright := flipedge.Lprev()
	botrcasing := botright.Sym()

	topleft.Bond(toprcasing)
	botleft.Bond(toplcasing)
	botright.Bond(botlcasing)
	topright.Bond(botrcasing)
	if m.checksegments {
		toplsubseg := topleft.Pivot()
		botlsubseg := botleft.Pivot()
		botrsubseg := botright.Pivot()
		toprsubseg := topright.Pivot()
		m.segBondOrDissolve(botleft, toplsubseg)
		m.segBondOrDissolve(botright, botlsubseg)
		m.segBondOrDissolve(topright, botrsubseg)
		m.segBondOrDissolve(topleft, toprsubseg)
	}

	flipedge.SetOrg(botvertex)
	flipedge.SetDest(farvertex)
	flipedge.SetApex(leftvertex)
	top.SetOrg(farvertex)
	top.SetDest(botvertex)
	top.SetApex(rightvertex)
}

// undoVertex reverses the most recent insertion, replaying the flip stack
// backwards and then merging the split triangles. Only valid while
// checkquality is set.
func (m *Mesh) undoVertex() {
	for len(m.flipstack) > 0 {
		fliptri := m.flipstack[len(m.flipstack)-1]
		m.flipstack = m.flipstack[:len(m.flipstack)-1]

		switch {
		case len(m.flipstack) == 0:
			// Merge the three triangles of a triangle split.
			botleft := fliptri.Dprev().Lnext()
			botright := fliptri.Onext().Lprev()
			botlcasing := botleft.Sym()
			botrcasing := botright.Sym()
			botvertex := botleft.Dest()
			fliptri.SetApex(botvertex)
			fliptri = fliptri.Lnext()
			fliptri.Bond(botlcasing)
			fliptri.SegBond(botleft.Pivot())
			fliptri = fliptri.Lnext()
			fliptri.Bond(botrcasing)
			fliptri.SegBond(botright.Pivot())
			m.triangleDealloc(botleft.tri)
			m.triangleDealloc(botright.tri)

		case m.flipstack[len(m.flipstack)-1].IsNil():
			// Merge the two (or four) triangles of an edge split.
			gluetri := fliptri.Lprev()
			botright := gluetri.Sym().Lnext()
			botrcasing := botright.Sym()
			rightvertex := botright.Dest()
			fliptri.SetOrg(rightvertex)
			gluetri.Bond(botrcasing)
			gluetri.SegBond(botright.Pivot())
			m.triangleDealloc(botright.tri)

			gluetri = fliptri.Sym()
			if !gluetri.IsDummy() {
				gluetri = gluetri.Lnext()
				topright := gluetri.Dnext()
				toprcasing := topright.Sym()
				gluetri.SetOrg(rightvertex)
				gluetri.Bond(toprcasing)
				gluetri.SegBond(topright.Pivot())
				m.triangleDealloc(topright.tri)
			} else {
				m.hullsize--
			}
			m.flipstack = m.flipstack[:0]

		default:
			m.unflip(fliptri)
		}
	}
}

// deleteVertex removes the origin of deltri, an interior free vertex, and
// re-triangulates the cavity.
func (m *Mesh) deleteVertex(deltri OTri) {
	delvertex := deltri.Org()
	m.vertexDealloc(delvertex)

	edgecount := 1
	for countingtri := deltri.Onext(); countingtri != deltri; countingtri = countingtri.Onext() {
		edgecount++
	}
	if edgecount > 3 {
		// Triangulate the polygon around the vertex, leaving three edges.
		m.triangulatePolygon(deltri.Onext(), deltri.Oprev(), edgecount, false, m.behavior.boundarySplit == Split)
	}

	// Merge the remaining three triangles into one.
	deltriright := deltri.Lprev()
	lefttri := deltri.Dnext()
	leftcasing := lefttri.Sym()
	righttri := deltriright.Oprev()
	rightcasing := righttri.Sym()
	deltri.Bond(leftcasing)
	deltriright.Bond(rightcasing)
	if leftsubseg := lefttri.Pivot(); !leftsubseg.IsDummy() {
		deltri.SegBond(leftsubseg)
	}
	if rightsubseg := righttri.Pivot(); !rightsubseg.IsDummy() {
		deltriright.SegBond(rightsubseg)
	}
	deltri.SetOrg(lefttri.Org())
	if m.behavior.boundarySplit == Split && m.mesher != nil {
		m.mesher.testTriangle(deltri)
	}
	m.triangleDealloc(lefttri.tri)
	m.triangleDealloc(righttri.tri)
}

// triangulatePolygon fills the polygon fanned around the origin of firstedge
// with Delaunay triangles by recursively choosing the vertex whose circle
// with the base edge is empty. The fan edges are flipped away; the edges
// around the polygon stay.
func (m *Mesh) triangulatePolygon(firstedge, lastedge OTri, edgecount int, doflip, triflaws bool) {
	leftbasevertex := lastedge.Apex()
	rightbasevertex := firstedge.Dest()
	besttri := firstedge.Onext()
	bestvertex := besttri.Dest()
	testtri := besttri
	bestnumber := 1
	for i := 2; i <= edgecount-2; i++ {
		testtri = testtri.Onext()
		testvertex := testtri.Dest()
		if inCircle(leftbasevertex.Point, rightbasevertex.Point, bestvertex.Point, testvertex.Point, m.behavior.noExact) > 0 {
			besttri = testtri
			bestvertex = testvertex
			bestnumber = i
		}
	}
	if bestnumber > 1 {
		m.triangulatePolygon(firstedge, besttri.Oprev(), bestnumber+1, true, triflaws)
	}
	if bestnumber < edgecount-2 {
		tempedge := besttri.Sym()
		m.triangulatePolygon(besttri, lastedge, edgecount-bestnumber, true, triflaws)
		besttri = tempedge.Sym()
	}
	if doflip {
		m.Flip(besttri)
		if triflaws && m.mesher != nil {
			m.mesher.testTriangle(besttri.Sym())
		}
	}
}

// insertSubseg marks the edge of tri as constrained with the given label.
// An existing subsegment only has its label filled in if it had none.
func (m *Mesh) insertSubseg(tri OTri, label int) {
	triorg := tri.Org()
	tridest := tri.Dest()
	if triorg.Label == 0 {
		triorg.Label = label
	}
	if tridest.Label == 0 {
		tridest.Label = label
	}

	newsubseg := tri.Pivot()
	if newsubseg.IsDummy() {
		newsubseg = m.makeSegment()
		newsubseg.SetOrg(tridest)
		newsubseg.SetDest(triorg)
		newsubseg.SetSegOrg(tridest)
		newsubseg.SetSegDest(triorg)
		tri.SegBond(newsubseg)
		tri.Sym().SegBond(newsubseg.Sym())
		newsubseg.seg.Label = label
	} else if newsubseg.seg.Label == 0 {
		newsubseg.seg.Label = label
	}
}
