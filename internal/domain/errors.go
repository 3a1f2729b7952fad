package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories and services. Controllers map them to HTTP status codes.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

// ErrInvalidID is returned by repositories when an id cannot be parsed by the store.
var ErrInvalidID = fmt.Errorf("%w: malformed id", ErrInvalidInput)
