package dynamo

import "errors"

// Domain errors shared by the animation core.
var (
	// ErrNoSurface indicates a renderer was constructed without a drawing surface.
	ErrNoSurface = errors.New("dynamo: drawing surface unavailable")

	// ErrInvalidBounds indicates a non-positive or non-finite viewport size.
	ErrInvalidBounds = errors.New("dynamo: invalid viewport bounds")

	// ErrDisposed indicates an operation on a scene that was already torn down.
	ErrDisposed = errors.New("dynamo: scene disposed")
)

// LayerError wraps an error with the name of the render layer it concerns.
type LayerError struct {
	Layer   string
	Wrapped error
}

func (e *LayerError) Error() string {
	return e.Layer + ": " + e.Wrapped.Error()
}

func (e *LayerError) Unwrap() error {
	return e.Wrapped
}
