package types

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewFiles indicates fewer than two inputs were supplied.
	ErrTooFewFiles = errors.New("at least two files are required for comparison")

	// ErrHeaderNotFound indicates the key header is absent from a grid.
	ErrHeaderNotFound = errors.New("key header not found")

	// ErrNoHeadersFound indicates neither file had a usable header.
	ErrNoHeadersFound = errors.New("no headers found in either file to compare")

	// ErrInvalidAlignmentMode indicates an unsupported alignment mode string.
	ErrInvalidAlignmentMode = errors.New("alignment mode must be 'by_key' or 'by_row'")

	// ErrUnsupportedFileType indicates the input extension is not recognized.
	ErrUnsupportedFileType = errors.New("unsupported file type for comparison")

	// ErrUnknownOption indicates a configuration key that is not part of Options.
	ErrUnknownOption = errors.New("unknown option")

	// ErrAborted indicates the progress callback asked the engine to stop.
	ErrAborted = errors.New("comparison aborted")
)

// HeaderNotFoundError reports which grid lacked the key header.
type HeaderNotFoundError struct {
	Header string
	Source string
}

func (e *HeaderNotFoundError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("key header %q not found in sheet", e.Header)
	}
	return fmt.Sprintf("key header %q not found in %s", e.Header, e.Source)
}

func (e *HeaderNotFoundError) Unwrap() error {
	return ErrHeaderNotFound
}

// InvalidAlignmentMode wraps ErrInvalidAlignmentMode with the offending value.
func InvalidAlignmentMode(mode string) error {
	return fmt.Errorf("%w: got %q", ErrInvalidAlignmentMode, mode)
}

// UnsupportedFileType wraps ErrUnsupportedFileType with the offending extension.
func UnsupportedFileType(ext string) error {
	if ext == "" {
		return fmt.Errorf("%w: file has no extension; provide a file type override", ErrUnsupportedFileType)
	}
	return fmt.Errorf("%w: %s; provide a file type override", ErrUnsupportedFileType, ext)
}
