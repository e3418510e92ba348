package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when registering an email that is already taken.
	ErrEmailAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	// Callers cannot tell the two cases apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
