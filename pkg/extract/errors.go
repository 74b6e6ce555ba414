package extract

import (
	"errors"
	"fmt"
)

// ErrUnsupportedInput is returned for inputs no channel accepts.
var ErrUnsupportedInput = errors.New("unsupported input")

// FieldError reports a labeled value that failed coercion.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: cannot parse %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// DocumentError aborts extraction of a whole document.
// Sibling documents in the same batch are unaffected.
type DocumentError struct {
	Document string
	Page     int // 1-based; 0 when the failure is not tied to a page
	Err      error
}

func (e *DocumentError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("document %s page %d: %v", e.Document, e.Page, e.Err)
	}
	return fmt.Sprintf("document %s: %v", e.Document, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// RowWarning records a tabular row that was skipped.
type RowWarning struct {
	Source string
	Row    int // 0-based data row index, header excluded
	Err    error
}

func (w RowWarning) String() string {
	return fmt.Sprintf("%s: skipping row %d: %v", w.Source, w.Row, w.Err)
}
