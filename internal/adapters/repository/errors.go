package repository

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrNotFound     = errors.New("mentor not found")
	ErrInvalidLimit = errors.New("invalid roster limit")
)
