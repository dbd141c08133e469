package statement

import (
	"errors"
	"fmt"
	"strings"
)

// Reason classifies why a row produced no record.
type Reason string

const (
	ReasonInsufficientColumns Reason = "insufficient-columns"
	ReasonValueFormat         Reason = "value-format-error"
	ReasonMissingHeader       Reason = "missing-header"
)

// ErrInsufficientColumns is matched by rejections of rows that are too short.
var ErrInsufficientColumns = errors.New("insufficient columns")

// ErrMissingHeader is matched by rejections of tables without a usable header row.
var ErrMissingHeader = errors.New("missing header row")

// Rejection describes a row that was skipped. Column and Text are set for
// value-format rejections; Err carries the underlying parse error.
type Rejection struct {
	Reason Reason
	Column string
	Text   string
	Cells  []string
	Err    error
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonValueFormat:
		return fmt.Sprintf("%s: column %s: %v", r.Reason, r.Column, r.Err)
	case ReasonInsufficientColumns:
		return fmt.Sprintf("%s: got %d, need %d", r.Reason, len(r.Cells), MinColumns)
	default:
		return string(r.Reason)
	}
}

func (r *Rejection) Unwrap() error {
	switch r.Reason {
	case ReasonInsufficientColumns:
		return ErrInsufficientColumns
	case ReasonMissingHeader:
		return ErrMissingHeader
	}
	return r.Err
}

// Content renders the offending row for logs.
func (r *Rejection) Content() string {
	return "[" + strings.Join(r.Cells, " | ") + "]"
}
