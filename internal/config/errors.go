package config

import "errors"

// Errors reported by Load. ErrLoadConfig covers file and environment parsing
// failures; ErrInvalidConfig covers values that parsed but cannot run the
// service. Callers branch on them with errors.Is.
var (
	ErrInvalidConfig = errors.New("config validation failed")
	ErrLoadConfig    = errors.New("config load failed")
)
