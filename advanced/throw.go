package advanced

import "github.com/pkg/errors"

// Threading errors up and down the recursive mesh surgery (flips, segment
// recovery, polygon re-triangulation) would add a ton of complexity to the
// code. Instead, we panic with a TriangulateError, and the public API recovers
// to convert it back into an error.

type TriangulateError struct {
	err error
}

func (e *TriangulateError) Error() string { return e.err.Error() }
func (e *TriangulateError) Cause() error  { return e.err }
func (e *TriangulateError) Unwrap() error { return e.err }

// Panic with a TriangulateError built from a format string.
func fatalf(format string, args ...interface{}) {
	panic(&TriangulateError{errors.Errorf(format, args...)})
}

// Panic with a TriangulateError wrapping err, so that callers can still match
// the sentinel with errors.Is after recovery.
func throw(err error, format string, args ...interface{}) {
	panic(&TriangulateError{errors.Wrapf(err, format, args...)})
}

func HandleTriangulatePanicRecover(r interface{}) error {
	if r != nil {
		if triangulateError, ok := r.(*TriangulateError); ok {
			return triangulateError
		}
		panic(r)
	}
	return nil
}
