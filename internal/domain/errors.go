package domain

import "errors"

// Sentinel errors shared by services and repositories. Services wrap them with
// fmt.Errorf("%w: ...") so controllers can map them with errors.Is.
var (
	// ErrUnauthorized is returned when an operation needs a principal and none is present.
	ErrUnauthorized = errors.New("authorization required")

	// ErrForbidden is returned when the principal does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned for missing required fields, unparseable dates or times,
	// malformed keys and invalid filter combinations.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for registration state violations.
	ErrConflict = errors.New("conflict")

	// ErrTransactionAborted is returned when the store gave up retrying a contended transaction.
	ErrTransactionAborted = errors.New("transaction aborted")
)
