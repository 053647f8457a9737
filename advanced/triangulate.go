package advanced

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// Triangulate builds the constrained Delaunay triangulation of poly and
// refines it to the given quality. constraint and quality may be nil.
//
// Points that coincide with an earlier point are merged into it, and
// segments that collapse to a point are skipped. When refinement fails, the
// partial mesh is returned along with the error, after passing
// CheckConsistency; a mesh that fails the check is not returned.
//
// Internal failures panic with a *TriangulateError; use
// HandleTriangulatePanicRecover to convert them.
func Triangulate(ctx context.Context, poly *Polygon, constraint *ConstraintOptions, quality *QualityOptions, opts ...Option) (*Mesh, error) {
	if poly == nil {
		return nil, errors.Wrap(ErrTooFewVertices, "no polygon")
	}
	if constraint == nil {
		constraint = &ConstraintOptions{}
	}
	if len(poly.Points) < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "polygon has %d points", len(poly.Points))
	}

	bounds := poly.Bounds()
	size := bounds.Size()
	margin := math.Max(math.Max(size.X, size.Y)*0.01, 1e-9)
	m := NewMesh(bounds.ExpandedByMargin(margin), opts...)

	vertices := make([]*Vertex, len(poly.Points))
	for i, p := range poly.Points {
		v, result, err := m.InsertVertex(p, OTri{})
		if err != nil {
			return nil, errors.Wrapf(err, "point %d", i)
		}
		if result == Duplicate {
			Logger().Debug("merged duplicate point", "index", i, "vertex", v.ID, "x", p.X, "y", p.Y)
		} else if label := poly.Label(i); label != 0 {
			v.Label = label
		}
		vertices[i] = v
	}

	for i, s := range poly.Segments {
		if s.P0 < 0 || s.P0 >= len(vertices) || s.P1 < 0 || s.P1 >= len(vertices) {
			return nil, errors.Errorf("segment %d refers to missing point (%d, %d)", i, s.P0, s.P1)
		}
		v1, v2 := vertices[s.P0], vertices[s.P1]
		if v1 == v2 {
			Logger().Debug("skipped degenerate segment", "index", i, "vertex", v1.ID)
			continue
		}
		if err := m.InsertSegment(v1, v2, s.Label); err != nil {
			return nil, errors.Wrapf(err, "segment %d", i)
		}
	}

	err := m.Finish(FinishOptions{
		Holes:             poly.Holes,
		Regions:           poly.Regions,
		EncloseConvexHull: constraint.EncloseConvexHull,
	})
	if err != nil {
		return nil, err
	}

	if quality == nil && !constraint.ConformingDelaunay {
		return m, nil
	}
	var q QualityOptions
	if quality != nil {
		q = *quality
	}
	q.ConformingDelaunay = q.ConformingDelaunay || constraint.ConformingDelaunay
	if constraint.BoundarySplit != Split {
		q.BoundarySplit = constraint.BoundarySplit
	}
	mesher, err := NewQualityMesher(m, q)
	if err != nil {
		return nil, err
	}
	if _, err := mesher.Run(ctx); err != nil {
		if cerr := m.CheckConsistency(); cerr != nil {
			return nil, errors.Wrapf(cerr, "after %v", err)
		}
		return m, err
	}
	return m, nil
}
