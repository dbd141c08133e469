// Package extract reads statement PDFs and returns their ruled tables as raw
// rows of cell text.
package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFile is matched by MissingFileError.
	ErrMissingFile = errors.New("file not found")
	// ErrUnreadablePDF is matched by UnreadablePdfError.
	ErrUnreadablePDF = errors.New("unreadable pdf")
)

// MissingFileError reports a named input that does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}

// UnreadablePdfError reports a file the PDF reader could not open or decode.
type UnreadablePdfError struct {
	Path string
	Page int // 0 when the failure happened before any page was read
	Err  error
}

func (e *UnreadablePdfError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("unreadable pdf %s (page %d): %v", e.Path, e.Page, e.Err)
	}
	return fmt.Sprintf("unreadable pdf %s: %v", e.Path, e.Err)
}

func (e *UnreadablePdfError) Unwrap() error {
	return e.Err
}

func (e *UnreadablePdfError) Is(target error) bool {
	return target == ErrUnreadablePDF
}
