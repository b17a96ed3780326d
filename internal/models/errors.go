package models

import "errors"

// Sentinel errors shared across the repository, service, and handler layers.
// Handlers map these to HTTP statuses; anything unrecognized becomes a 500
// with a generic body.
var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown email, missing password hash,
	// and password mismatch alike, so login failures are uniform.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound covers both absent records and records owned by another
	// account; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateBarcode means the barcode already exists in the caller's wallet.
	ErrDuplicateBarcode = errors.New("barcode already exists")
)
