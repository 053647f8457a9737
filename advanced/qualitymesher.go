package advanced

import (
	"context"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

type State int

const (
	// Not started yet.
	Idle State = iota
	// Splitting encroached subsegments. This always takes priority over
	// triangles.
	SplittingSegments
	// Splitting bad triangles.
	SplittingTriangles
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SplittingSegments:
		return "splitting segments"
	case SplittingTriangles:
		return "splitting triangles"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// QualityMesher refines a finished mesh with Ruppert's algorithm: encroached
// subsegments are split at their midpoints (or on concentric shells around
// acute input corners), and bad triangles get a vertex at their circumcenter
// or off-centre. A new vertex that would encroach a subsegment is taken back
// out, and the subsegment is split instead.
type QualityMesher struct {
	m    *Mesh
	opts QualityOptions
	angleBounds

	badsubsegs *badSubsegSet
	queue      *BadTriQueue

	// Remaining Steiner points; negative means unlimited.
	steinerLeft   int
	maxIterations int
	iterations    int

	state State
	err   error
}

// NewQualityMesher attaches a refinement driver to a finished mesh.
func NewQualityMesher(m *Mesh, opts QualityOptions) (*QualityMesher, error) {
	if err := opts.validate(); err != nil {
		Logger().Warn("rejected quality options", "err", err)
		return nil, err
	}
	if !m.finished {
		return nil, ErrNotFinished
	}
	if opts.MinAngle > 34 {
		Logger().Warn("minimum angle above 34 degrees may not converge", "minAngle", opts.MinAngle)
	}

	q := &QualityMesher{
		m:             m,
		opts:          opts,
		angleBounds:   newAngleBounds(opts.MinAngle, opts.MaxAngle),
		badsubsegs:    newBadSubsegSet(),
		queue:         NewBadTriQueue(),
		steinerLeft:   -1,
		maxIterations: defaultMaxIterations,
	}
	if opts.SteinerPoints > 0 {
		q.steinerLeft = opts.SteinerPoints
	}
	if opts.MaxIterations > 0 {
		q.maxIterations = opts.MaxIterations
	}
	// Per-triangle area constraints only exist where regions were carved
	// out by segments.
	if m.insegments == 0 {
		q.opts.ConstrainArea = false
	}

	m.mesher = q
	m.behavior.conforming = opts.ConformingDelaunay
	m.behavior.boundarySplit = opts.BoundarySplit
	m.behavior.varArea = q.opts.ConstrainArea
	m.checksegments = true
	return q, nil
}

func (q *QualityMesher) State() State { return q.state }

// Err is the error that made refinement fail, if it did.
func (q *QualityMesher) Err() error { return q.err }

// Iterations is the number of insertion attempts made so far.
func (q *QualityMesher) Iterations() int { return q.iterations }

func (q *QualityMesher) setState(s State) {
	if q.state != s {
		Logger().Debug("refinement state", "from", q.state, "to", s,
			"iterations", q.iterations, "vertices", len(q.m.vertices))
		q.state = s
	}
}

// Whether there is anything beyond encroachment to enforce.
func (q *QualityMesher) hasTriangleConstraints() bool {
	o := q.opts
	return o.MinAngle > 0 || o.MaxAngle > 0 || o.MaxArea > 0 || o.ConstrainArea || o.UserTest != nil
}

// Run refines the mesh until every constraint holds. It returns Done, or
// Failed along with the reason: ErrNonConvergence when a safety limit runs
// out, ErrPrecision when splits get too small for float64, or the context's
// error when ctx is cancelled. The context and the limits are checked
// between insertions, so stopping for them leaves a consistent mesh. Running
// a mesher that has already stopped returns the same outcome again.
func (q *QualityMesher) Run(ctx context.Context) (state State, err error) {
	if q.state == Done || q.state == Failed {
		return q.state, q.err
	}
	defer func() {
		if r := recover(); r != nil {
			err = HandleTriangulatePanicRecover(r)
			state = q.fail(err)
		}
	}()

	m := q.m
	q.setState(SplittingSegments)
	q.tallyEncs()
	Logger().Debug("tallied encroached subsegments", "count", q.badsubsegs.Len())
	if err := q.splitEncSegs(ctx, false); err != nil {
		return q.fail(err), err
	}

	if q.hasTriangleConstraints() {
		q.tallyFaces()
		Logger().Debug("tallied bad triangles", "count", q.queue.Len())
		m.checkquality = true
		for q.queue.Len() > 0 {
			q.setState(SplittingTriangles)
			badtri, _ := q.queue.Dequeue()
			if badtri.Stale() {
				continue
			}
			if err := q.tick(ctx); err != nil {
				q.queue.EnqueueBad(badtri)
				return q.fail(err), err
			}
			q.splitTriangle(badtri)
			if q.badsubsegs.Len() > 0 {
				// Put the triangle back; splitting the subsegments may or may
				// not fix it.
				q.queue.EnqueueBad(badtri)
				q.setState(SplittingSegments)
				if err := q.splitEncSegs(ctx, true); err != nil {
					return q.fail(err), err
				}
			}
		}
		m.checkquality = false
	}

	m.Prune()
	q.setState(Done)
	return Done, nil
}

func (q *QualityMesher) fail(err error) State {
	q.m.checkquality = false
	q.m.flipstack = q.m.flipstack[:0]
	q.err = err
	q.setState(Failed)
	Logger().Warn("refinement failed", "err", err, "iterations", q.iterations)
	return Failed
}

// tick accounts for one insertion attempt and checks every reason to stop.
func (q *QualityMesher) tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "refinement interrupted after %d iterations", q.iterations)
	}
	if q.steinerLeft == 0 {
		return errors.Wrapf(ErrNonConvergence, "steiner point budget of %d exhausted", q.opts.SteinerPoints)
	}
	if q.iterations >= q.maxIterations {
		return errors.Wrapf(ErrNonConvergence, "gave up after %d iterations", q.iterations)
	}
	q.iterations++
	return nil
}

func (q *QualityMesher) spendSteinerPoint() {
	if q.steinerLeft > 0 {
		q.steinerLeft--
	}
}

func (q *QualityMesher) addBadSubseg(seg OSub, org, dest *Vertex) {
	q.badsubsegs.Add(seg, org, dest)
}

// encroachment tests both sides of a subsegment. Bit 1 of the result is set
// when the apex on its own side encroaches, bit 2 for the apex on the far
// side. sides counts the sides that have a triangle at all.
func (q *QualityMesher) encroachment(testsubseg OSub) (encroached, sides int) {
	eorg := testsubseg.Org()
	edest := testsubseg.Dest()
	// Outside the diametral circle the angle at the apex is acute. For the
	// lens test the apex must also see the subsegment at an angle wider
	// than 180 - 2*MinAngle.
	lens := 2*q.goodAngle - 1
	lens *= lens
	test := func(apex *Vertex) bool {
		ox, oy := eorg.X-apex.X, eorg.Y-apex.Y
		dx, dy := edest.X-apex.X, edest.Y-apex.Y
		dot := ox*dx + oy*dy
		if dot >= 0 {
			return false
		}
		return q.m.behavior.conforming || dot*dot >= lens*(ox*ox+oy*oy)*(dx*dx+dy*dy)
	}

	if neighbortri := testsubseg.PivotTri(); bondedTo(neighbortri, eorg, edest) {
		sides++
		if test(neighbortri.Apex()) {
			encroached |= 1
		}
	}
	if neighbortri := testsubseg.Sym().PivotTri(); bondedTo(neighbortri, eorg, edest) {
		sides++
		if test(neighbortri.Apex()) {
			encroached |= 2
		}
	}
	return encroached, sides
}

// checkSeg4Encroach queues testsubseg if a vertex encroaches on it and the
// boundary split mode allows splitting it. The queued handle faces an
// encroaching apex.
func (q *QualityMesher) checkSeg4Encroach(testsubseg OSub) int {
	encroached, sides := q.encroachment(testsubseg)
	if encroached == 0 {
		return 0
	}
	mode := q.m.behavior.boundarySplit
	if mode == Split || mode == SplitInternalOnly && sides == 2 {
		if encroached == 1 {
			q.addBadSubseg(testsubseg, testsubseg.Org(), testsubseg.Dest())
		} else {
			q.addBadSubseg(testsubseg.Sym(), testsubseg.Dest(), testsubseg.Org())
		}
	}
	return encroached
}

// IsEncroached reports whether some vertex of the mesh encroaches on s under
// the mesher's encroachment rule.
func (q *QualityMesher) IsEncroached(s *SubSegment) bool {
	encroached, _ := q.encroachment(OSub{s, 0})
	return encroached != 0
}

// testTriangle queues testtri if it violates an area or angle constraint.
// The key is the squared length of its shortest edge.
func (q *QualityMesher) testTriangle(testtri OTri) {
	torg := testtri.Org()
	tdest := testtri.Dest()
	tapex := testtri.Apex()
	dxod, dyod := torg.X-tdest.X, torg.Y-tdest.Y
	dxda, dyda := tdest.X-tapex.X, tdest.Y-tapex.Y
	dxao, dyao := tapex.X-torg.X, tapex.Y-torg.Y
	apexlen := dxod*dxod + dyod*dyod
	orglen := dxda*dxda + dyda*dyda
	destlen := dxao*dxao + dyao*dyao

	// Find the shortest edge and the squared cosine of the angle opposite.
	var minedge, angle float64
	var base1, base2 *Vertex
	var tri1 OTri
	switch {
	case apexlen < orglen && apexlen < destlen:
		minedge = apexlen
		angle = dxda*dxao + dyda*dyao
		angle = angle * angle / (orglen * destlen)
		base1, base2 = torg, tdest
		tri1 = testtri
	case orglen < destlen:
		minedge = orglen
		angle = dxod*dxao + dyod*dyao
		angle = angle * angle / (apexlen * destlen)
		base1, base2 = tdest, tapex
		tri1 = testtri.Lnext()
	default:
		minedge = destlen
		angle = dxod*dxda + dyod*dyda
		angle = angle * angle / (apexlen * orglen)
		base1, base2 = tapex, torg
		tri1 = testtri.Lprev()
	}

	enqueue := func() { q.queue.Enqueue(testtri, minedge, torg, tdest, tapex) }

	o := q.opts
	if o.MaxArea > 0 || o.ConstrainArea || o.UserTest != nil {
		area := 0.5 * (dxod*dyda - dyod*dxda)
		if o.MaxArea > 0 && area > o.MaxArea {
			enqueue()
			return
		}
		if o.ConstrainArea && testtri.tri.Area > 0 && area > testtri.tri.Area {
			enqueue()
			return
		}
		if o.UserTest != nil && o.UserTest(testtri.tri, area) {
			enqueue()
			return
		}
	}

	// Cosine of the largest angle, which is opposite the longest edge.
	var maxangle float64
	switch {
	case apexlen > orglen && apexlen > destlen:
		maxangle = (orglen + destlen - apexlen) / (2 * math.Sqrt(orglen*destlen))
	case orglen > destlen:
		maxangle = (apexlen + destlen - orglen) / (2 * math.Sqrt(apexlen*destlen))
	default:
		maxangle = (apexlen + orglen - destlen) / (2 * math.Sqrt(apexlen*orglen))
	}

	if angle <= q.goodAngle && (o.MaxAngle == 0 || maxangle >= q.maxGoodAngle) {
		return
	}
	if base1.Kind == SegmentVertex && base2.Kind == SegmentVertex && q.betweenConcentricShells(tri1, base1, base2) {
		// Splitting this one would chase a small input angle forever.
		return
	}
	enqueue()
}

// betweenConcentricShells reports whether the shortest edge tri1, joining
// two segment vertices, spans two segments that meet at a vertex equally far
// from both ends of the edge at an angle under 60 degrees. Such a triangle
// sits inside a small input angle and cannot be improved.
func (q *QualityMesher) betweenConcentricShells(tri1 OTri, base1, base2 *Vertex) bool {
	if !tri1.Pivot().IsDummy() {
		return false
	}
	tri2 := tri1

	// Walk to the subsegment on each side of the edge.
	limit := q.m.triangles.count() + 1
	var testsub OSub
	for i := 0; ; i++ {
		tri1 = tri1.Oprev()
		if tri1.IsDummy() || i > limit {
			return false
		}
		if testsub = tri1.Pivot(); !testsub.IsDummy() {
			break
		}
	}
	org1, dest1 := testsub.SegOrg(), testsub.SegDest()
	for i := 0; ; i++ {
		tri2 = tri2.Dnext()
		if tri2.IsDummy() || i > limit {
			return false
		}
		if testsub = tri2.Pivot(); !testsub.IsDummy() {
			break
		}
	}
	org2, dest2 := testsub.SegOrg(), testsub.SegDest()

	var joinvertex *Vertex
	switch {
	case dest1.sameAs(org2.Point):
		joinvertex = dest1
	case org1.sameAs(dest2.Point):
		joinvertex = org1
	default:
		return false
	}
	d1 := base1.Sub(joinvertex.Point)
	d2 := base2.Sub(joinvertex.Point)
	dist1, dist2 := d1.Dot(d1), d2.Dot(d2)
	if !(dist1 < 1.001*dist2 && dist1 > 0.999*dist2) {
		return false
	}
	// Input angles of 60 degrees or more don't need protecting.
	dot := d1.Dot(d2)
	return dot > 0 && dot*dot > 0.25*dist1*dist2
}

func (q *QualityMesher) tallyEncs() {
	for _, s := range q.m.subsegs.live {
		if !s.IsDead() {
			q.checkSeg4Encroach(OSub{s, 0})
		}
	}
}

func (q *QualityMesher) tallyFaces() {
	for _, t := range q.m.triangles.live {
		if !t.IsDead() {
			q.testTriangle(OTri{t, 0})
		}
	}
}

// splitEncSegs splits every queued subsegment that is still encroached,
// checking the two halves again as it goes. With triflaws the triangles
// created are tested for quality.
func (q *QualityMesher) splitEncSegs(ctx context.Context, triflaws bool) error {
	m := q.m
	for q.badsubsegs.Len() > 0 {
		seg, _ := q.badsubsegs.Pop()
		if seg.Stale() {
			continue
		}
		if err := q.tick(ctx); err != nil {
			// Keep the subsegment queued for a later look.
			q.badsubsegs.Add(seg.Seg, seg.Org, seg.Dest)
			return err
		}

		currentenc := seg.Seg
		eorg, edest := seg.Org, seg.Dest
		enctri := currentenc.PivotTri()
		if enctri.IsDummy() {
			currentenc = currentenc.Sym()
			eorg, edest = edest, eorg
			enctri = currentenc.PivotTri()
		}
		if !bondedTo(enctri, eorg, edest) {
			fatalf("subsegment (%g, %g)-(%g, %g) is not bonded to a live triangle", eorg.X, eorg.Y, edest.X, edest.Y)
		}

		// A neighboring subsegment at either end means an input angle
		// there, which may be acute.
		testtri := enctri.Lnext()
		acuteorg := !testtri.Pivot().IsDummy()
		testtri = testtri.Lnext()
		acutedest := !testtri.Pivot().IsDummy()

		// Free vertices inside the diametral circle go first, as long as
		// no input angle is nearby.
		if !m.behavior.conforming && !acuteorg && !acutedest {
			eapex := enctri.Apex()
			for eapex.Kind == FreeVertex && insideDiametralCircle(eorg, edest, eapex) {
				m.deleteVertex(testtri)
				enctri = currentenc.PivotTri()
				eapex = enctri.Apex()
				testtri = enctri.Lprev()
			}
		}

		testtri = enctri.Sym()
		if !testtri.IsDummy() {
			testtri = testtri.Lnext()
			acutedest2 := !testtri.Pivot().IsDummy()
			acutedest = acutedest || acutedest2
			testtri = testtri.Lnext()
			acuteorg2 := !testtri.Pivot().IsDummy()
			acuteorg = acuteorg || acuteorg2

			if !m.behavior.conforming && !acuteorg2 && !acutedest2 {
				eapex := testtri.Org()
				for eapex.Kind == FreeVertex && insideDiametralCircle(eorg, edest, eapex) {
					m.deleteVertex(testtri)
					testtri = enctri.Sym()
					eapex = testtri.Apex()
					testtri = testtri.Lprev()
				}
			}
		}

		split := 0.5
		if acuteorg || acutedest {
			// Split on a power of two from the shared end, so that
			// segments around an acute angle get split on concentric
			// shells and never encroach each other.
			segmentlength := edest.Sub(eorg.Point).Norm()
			nearestpoweroftwo := 1.0
			for segmentlength > 3*nearestpoweroftwo {
				nearestpoweroftwo *= 2
			}
			for segmentlength < 1.5*nearestpoweroftwo {
				nearestpoweroftwo *= 0.5
			}
			split = nearestpoweroftwo / segmentlength
			if acutedest {
				split = 1 - split
			}
		}

		p := r2.Point{
			X: eorg.X + split*(edest.X-eorg.X),
			Y: eorg.Y + split*(edest.Y-eorg.Y),
		}
		if !m.behavior.noExact {
			// Nudge the new vertex back onto the line through the segment.
			multiplier := counterClockwise(eorg.Point, edest.Point, p, false)
			span := edest.Sub(eorg.Point)
			divisor := span.Dot(span)
			if multiplier != 0 && divisor != 0 {
				multiplier /= divisor
				if !math.IsNaN(multiplier) {
					p.X += multiplier * (edest.Y - eorg.Y)
					p.Y += multiplier * (eorg.X - edest.X)
				}
			}
		}
		if eorg.sameAs(p) || edest.sameAs(p) {
			throw(ErrPrecision, "splitting segment (%g, %g)-(%g, %g)", eorg.X, eorg.Y, edest.X, edest.Y)
		}

		newvertex := m.newVertex(p, SegmentVertex, currentenc.seg.Label)
		m.registerVertex(newvertex)
		switch m.insertVertex(newvertex, &enctri, &currentenc, true, triflaws) {
		case Successful, Encroaching:
		default:
			fatalf("failed to split segment (%g, %g)-(%g, %g)", eorg.X, eorg.Y, edest.X, edest.Y)
		}
		q.spendSteinerPoint()

		// The two halves may still be encroached.
		q.checkSeg4Encroach(currentenc)
		q.checkSeg4Encroach(currentenc.Next())
	}
	return nil
}

// Whether tri is a live triangle whose edge joins a and b.
func bondedTo(tri OTri, a, b *Vertex) bool {
	if tri.IsDummy() || tri.tri.IsDead() {
		return false
	}
	org, dest := tri.Org(), tri.Dest()
	return org == a && dest == b || org == b && dest == a
}

// Whether apex sees the segment org-dest at an obtuse angle.
func insideDiametralCircle(org, dest, apex *Vertex) bool {
	return (org.X-apex.X)*(dest.X-apex.X)+(org.Y-apex.Y)*(dest.Y-apex.Y) < 0
}

// splitTriangle inserts a vertex at the circumcenter (or off-centre) of a
// bad triangle, unless it went stale in the meantime. If the new vertex
// encroaches a subsegment it is removed again; the subsegment is queued and
// the caller splits it instead.
func (q *QualityMesher) splitTriangle(badtri *BadTriangle) {
	if badtri.Stale() {
		return
	}
	m := q.m
	badotri := badtri.Tri
	borg, bdest, bapex := badtri.Org, badtri.Dest, badtri.Apex

	newloc, xi, eta := findCircumcenter(borg.Point, bdest.Point, bapex.Point, q.offConstant, m.behavior.noExact)
	if borg.sameAs(newloc) || bdest.sameAs(newloc) || bapex.sameAs(newloc) {
		throw(ErrPrecision, "circumcenter of triangle (%g, %g) (%g, %g) (%g, %g) falls on a corner",
			borg.X, borg.Y, bdest.X, bdest.Y, bapex.X, bapex.Y)
	}

	newvertex := m.newVertex(newloc, FreeVertex, 0)
	// Start point location from the edge closest to the new vertex.
	if eta < xi {
		badotri = badotri.Lprev()
	}
	switch m.insertVertex(newvertex, &badotri, nil, true, true) {
	case Successful:
		m.registerVertex(newvertex)
		q.spendSteinerPoint()
	case Encroaching:
		m.undoVertex()
	case Violating:
		// The subsegment in the way has been queued.
	default:
		Logger().Warn("circumcenter falls on an existing vertex", "x", newloc.X, "y", newloc.Y)
	}
}
