package dataset

import (
	"errors"
	"fmt"
)

// ErrLoad is the kind shared by every LoadError.
var ErrLoad = errors.New("dataset load failed")

// Load operations reported in LoadError.Op.
const (
	OpOpen   = "open"
	OpParse  = "parse"
	OpSchema = "schema"
	OpConcat = "concat"
	OpDecode = "decode"
)

// LoadError describes why a source could not be loaded. It matches both
// ErrLoad and the underlying cause with errors.Is.
type LoadError struct {
	Source string
	Op     string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}

func loadErr(source, op string, err error) *LoadError {
	return &LoadError{Source: source, Op: op, Err: err}
}
