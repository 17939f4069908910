package disloc

import "errors"

var (
	// ErrEmpty is returned when there are no patches or no stations
	ErrEmpty = errors.New("empty input")
	// ErrShape is returned when an array does not have the expected row width
	ErrShape = errors.New("wrong input shape")
	// ErrElastic is returned for unusable elastic constants
	ErrElastic = errors.New("invalid elastic constants")
)
