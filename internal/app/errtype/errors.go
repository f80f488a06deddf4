package errtype

import "errors"

var (
	// ErrNotFound represents the error for the cases when some entity is not found.
	ErrNotFound = errors.New("not found")
	// ErrBadInput represents the error for the cases when the user input is invalid.
	ErrBadInput = errors.New("bad input")
	// ErrUnauthorized represents the error for the cases when the authorization is required.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrGuildNotFound represents the error for the cases when a guild has no stored configuration.
	ErrGuildNotFound = errors.New("guild not found")
	// ErrInvalidPath represents the error for the cases when a config path does not resolve to a field.
	ErrInvalidPath = errors.New("invalid config path")
	// ErrRequestRejected represents the error for the cases when the puppet API server rejects a request.
	ErrRequestRejected = errors.New("request rejected")
	// ErrNoReport represents the error for the cases when an image is not recognized as a battle report.
	ErrNoReport = errors.New("battle report not recognized")
)
