package user

import "errors"

// ErrNotFound is returned when no user matches the given identity. Lookups
// that fail with it are never cached.
var ErrNotFound = errors.New("user not found")
