package gate

import "errors"

// ErrUnauthorized is returned by Gate.Authorize for denied or anonymous subjects.
var ErrUnauthorized = errors.New("unauthorized")
