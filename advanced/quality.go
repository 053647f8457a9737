package advanced

import (
	"math"

	"github.com/pkg/errors"
)

const defaultMaxIterations = 1 << 20

// QualityOptions are the constraints refinement enforces. The zero value
// asks for nothing beyond splitting already encroached subsegments.
type QualityOptions struct {
	// Minimum angle in degrees, 0 to 60. Above about 34 degrees refinement
	// may not terminate.
	MinAngle float64
	// Maximum angle in degrees. 0 disables it, otherwise 60 to 180.
	MaxAngle float64
	// Global maximum triangle area. 0 disables it.
	MaxArea float64
	// Respect per-triangle area constraints set through regions.
	ConstrainArea bool
	// UserTest reports whether a triangle with the given area must be split.
	UserTest func(t *Triangle, area float64) bool

	// Maximum number of Steiner points to add. 0 means unlimited.
	SteinerPoints int
	// Safety limit on insertion attempts. 0 picks a large default.
	MaxIterations int

	// Treat any vertex in the diametral circle of a subsegment as
	// encroaching, so that the result is truly Delaunay.
	ConformingDelaunay bool
	BoundarySplit      BoundarySplitMode
}

func (o QualityOptions) validate() error {
	if math.IsNaN(o.MinAngle) || o.MinAngle < 0 || o.MinAngle > 60 {
		return errors.Wrapf(ErrInvalidQuality, "minimum angle %g outside [0, 60]", o.MinAngle)
	}
	if math.IsNaN(o.MaxAngle) || o.MaxAngle != 0 && (o.MaxAngle < 60 || o.MaxAngle > 180) {
		return errors.Wrapf(ErrInvalidQuality, "maximum angle %g outside [60, 180]", o.MaxAngle)
	}
	if math.IsNaN(o.MaxArea) || o.MaxArea < 0 {
		return errors.Wrapf(ErrInvalidQuality, "maximum area %g is negative", o.MaxArea)
	}
	if o.SteinerPoints < 0 {
		return errors.Wrapf(ErrInvalidQuality, "steiner point budget %d is negative", o.SteinerPoints)
	}
	if o.MaxIterations < 0 {
		return errors.Wrapf(ErrInvalidQuality, "iteration limit %d is negative", o.MaxIterations)
	}
	switch o.BoundarySplit {
	case Split, SplitInternalOnly, NoSplit:
	default:
		return errors.Wrapf(ErrInvalidQuality, "unknown boundary split mode %d", o.BoundarySplit)
	}
	return nil
}

// Angle thresholds in the squared cosine form the tests use.
type angleBounds struct {
	// cos²(MinAngle). A triangle whose smallest angle has a larger squared
	// cosine is bad.
	goodAngle float64
	// cos(MaxAngle).
	maxGoodAngle float64
	// Distance of off-centres along the bisector of the shortest edge,
	// relative to its length. 0 places new vertices at circumcenters.
	offConstant float64
}

func newAngleBounds(minAngle, maxAngle float64) angleBounds {
	var b angleBounds
	cosMin := math.Cos(minAngle * math.Pi / 180)
	b.maxGoodAngle = math.Cos(maxAngle * math.Pi / 180)
	if cosMin < 1 {
		b.offConstant = 0.475 * math.Sqrt((1+cosMin)/(1-cosMin))
	}
	b.goodAngle = cosMin * cosMin
	return b
}
