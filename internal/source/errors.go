package source

import "errors"

var (
	ErrEmptyName  = errors.New("candidate name cannot be empty")
	ErrInvalidURL = errors.New("candidate url must have a scheme and a host")
)
