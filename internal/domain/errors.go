package domain

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("resource conflict")
	ErrDuplicateRequest = errors.New("duplicate client request")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid engine configuration")

	// ErrInsufficientHistory means the user has fewer recorded nights than
	// the engine needs to produce a forecast.
	ErrInsufficientHistory = errors.New("insufficient sleep history")
)
