package sensor

import "errors"

var (
	// ErrUserNotFound is returned when a user id or username resolves to nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrSensorNotFound is returned when a sensor id resolves to nothing.
	ErrSensorNotFound = errors.New("sensor not found")
	// ErrNotOwned is returned when a sensor exists but belongs to another user.
	// Existence is always checked first so this never leaks unknown ids.
	ErrNotOwned = errors.New("sensor not owned by the user")
	// ErrBadCredentials is returned when a presented credential pair does not
	// resolve to a principal.
	ErrBadCredentials = errors.New("incorrect username or password")
	// ErrInvalidLimit is returned when a records limit is not a positive integer.
	ErrInvalidLimit = errors.New("records limit must be a positive integer")
)
