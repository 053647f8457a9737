// Constrained Delaunay triangulation and quality mesh refinement for Go.
//
// This package converts a planar straight line graph (points, segments that
// must appear as edges, holes, and labelled regions) into a triangle mesh,
// then refines it with Ruppert's algorithm until no triangle has an angle
// smaller than asked for or an area larger than allowed.
//
// The types here are aliases into the advanced package, which exposes the
// mesh itself for incremental use.
package terrainmesh

import (
	"context"

	"github.com/osuushi/terrainmesh/advanced"
)

type Mesh = advanced.Mesh
type Vertex = advanced.Vertex
type Triangle = advanced.Triangle
type Polygon = advanced.Polygon
type Segment = advanced.Segment
type Region = advanced.Region
type Edge = advanced.Edge
type ConstraintOptions = advanced.ConstraintOptions
type QualityOptions = advanced.QualityOptions
type Quality = advanced.Quality

var (
	ErrNonConvergence = advanced.ErrNonConvergence
	ErrPrecision      = advanced.ErrPrecision
	ErrTooFewVertices = advanced.ErrTooFewVertices
)

// Triangulate a polygon, optionally refining it to the given quality.
// constraint and quality may be nil.
//
// If refinement gives up, the partial mesh is returned along with an error
// matching ErrNonConvergence or ErrPrecision. The mesh has passed
// CheckConsistency; if it would not, no mesh is returned.
func Triangulate(poly *Polygon, constraint *ConstraintOptions, quality *QualityOptions) (*Mesh, error) {
	return TriangulateContext(context.Background(), poly, constraint, quality)
}

// TriangulateContext is Triangulate with cancellation. The context is
// checked between refinement steps.
func TriangulateContext(ctx context.Context, poly *Polygon, constraint *ConstraintOptions, quality *QualityOptions) (mesh *Mesh, err error) {
	defer func() {
		recoveredErr := advanced.HandleTriangulatePanicRecover(recover())
		if recoveredErr != nil {
			mesh = nil
			err = recoveredErr
		}
	}()
	return advanced.Triangulate(ctx, poly, constraint, quality)
}

// MeasureQuality summarizes the triangles of a mesh.
func MeasureQuality(m *Mesh) Quality {
	return advanced.MeasureQuality(m)
}
