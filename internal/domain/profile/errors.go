package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrWeakPassword    = errors.New("password must be at least 6 characters")
)
