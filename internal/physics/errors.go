package physics

import "errors"

// ErrParameterBounds indicates a parameter value outside its valid range.
var ErrParameterBounds = errors.New("physics: parameter out of valid bounds")
