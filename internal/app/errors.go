package service

import "errors"

// Sentinel errors returned by the Service.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoStore      = errors.New("no record store configured")
	ErrStopped      = errors.New("service stopped")
)
