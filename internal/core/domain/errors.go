package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown format or source type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidSource indicates a source identifier could not be parsed.
	ErrInvalidSource = errors.New("invalid source")

	// ErrInvalidSettings indicates a setting is outside its allowed range.
	ErrInvalidSettings = errors.New("invalid settings")

	// Authentication Errors.

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Processing preconditions.
	// Message text is part of the failure document contract.

	// ErrMissingLocalPath indicates a fetch result carries no local path.
	ErrMissingLocalPath = errors.New("Missing local_path") //nolint:staticcheck

	// ErrFileNotExist indicates the local path of a fetch result is absent on disk.
	ErrFileNotExist = errors.New("File does not exist") //nolint:staticcheck
)
