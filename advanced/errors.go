package advanced

import "github.com/pkg/errors"

var (
	// The point lies in the unbounded exterior of a finished mesh.
	ErrOutside = errors.New("point lies outside the triangulated domain")
	// The point lies outside the working bounding region given to NewMesh.
	ErrOutsideBounds     = errors.New("point lies outside the mesh bounds")
	ErrDegenerateSegment = errors.New("segment endpoints coincide")
	ErrUnknownVertex     = errors.New("vertex is not a live vertex of this mesh")
	ErrTooFewVertices    = errors.New("at least three distinct vertices are required")
	ErrFinished          = errors.New("mesh has already been finished")
	ErrNotFinished       = errors.New("mesh must be finished before refinement")
	ErrInvalidQuality    = errors.New("invalid quality options")
	// Refinement hit its iteration or Steiner point budget with work left.
	ErrNonConvergence = errors.New("refinement did not converge")
	// A split point rounded onto an existing vertex.
	ErrPrecision = errors.New("ran out of floating point precision")
)
