package documents

import "errors"

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput indicates malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType indicates a filename extension outside {txt, img, pdf}.
	ErrUnsupportedType = errors.New("unsupported file type")
)
