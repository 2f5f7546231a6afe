package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotReady    = errors.New("dataset not loaded")
	ErrInvalidPage = errors.New("invalid page")
)
