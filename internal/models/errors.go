package models

import "errors"

// Error kinds shared across the repository, service and handler layers.
// Wrap with fmt.Errorf("%w: ...") to attach detail; match with errors.Is.
var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateUsername is returned when the users unique index rejects an insert.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateSKU is returned when the products sku unique index rejects a write.
	ErrDuplicateSKU = errors.New("sku already exists")

	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so a caller cannot tell which one occurred.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotFound is returned when the referenced entity is absent or archived.
	ErrNotFound = errors.New("not found")
)
