package source

import "errors"

var (
	// ErrDocumentTooLarge is returned when a document exceeds the size cap.
	ErrDocumentTooLarge = errors.New("document exceeds size limit")

	// ErrStatus is returned when an HTTP document read answers anything but 200.
	ErrStatus = errors.New("unexpected http status")

	// ErrMalformed is returned when a document is not the expected JSON shape.
	ErrMalformed = errors.New("malformed document")

	// ErrEmptyLocation is returned for an empty document location.
	ErrEmptyLocation = errors.New("empty document location")
)
