package model

import "errors"

// Error kinds shared by every layer. Callers match them with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDataUnavailable = errors.New("data unavailable")
	ErrNotFound        = errors.New("not found")
)
