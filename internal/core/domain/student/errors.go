package student

import "errors"

var ErrProfileNotFound = errors.New("student profile not found")
