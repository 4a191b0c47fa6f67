package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrPayloadShape          = errors.New("unexpected provider payload shape")
	ErrDataQuality           = errors.New("provider data quality violation")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
)
