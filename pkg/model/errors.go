package model

import "errors"

// ErrNotFound is returned when a strict update targets an id that does
// not exist in the dataset. Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")
