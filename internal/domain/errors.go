package domain

import "errors"

var (
	ErrValidation        = errors.New("invalid input")
	ErrUnauthorized      = errors.New("not authorized")
	ErrNotFound          = errors.New("not found")
	ErrCapacityExceeded  = errors.New("package weight exceeds available capacity")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrDuplicate         = errors.New("already exists")
	ErrProvider          = errors.New("payment provider error")
)
