package run

import "errors"

var (
	ErrEmptyID          = errors.New("run id cannot be empty")
	ErrInvalidTimestamp = errors.New("run timestamps must be set and ordered")
	ErrNotFound         = errors.New("run not found")
)
