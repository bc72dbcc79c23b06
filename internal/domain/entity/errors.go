package entity

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrEmptyInput signals an input file with no data rows at all (empty,
// blank, or header-only). It is fatal and aborts the run before any
// artifact is written.
var ErrEmptyInput = errors.New("input contains no transaction data")

// ErrNoValidRecords signals that every input line was rejected. Aggregates
// over an all-invalid file would be meaningless, so the run halts.
var ErrNoValidRecords = errors.New("no valid transactions after validation")

// ErrProductNotFound signals that the catalog has no product for a key.
var ErrProductNotFound = errors.New("product not found in catalog")

// ParseError describes a single input line that could not be split into a
// record. It is local to the line and never aborts the run.
type ParseError struct {
	Line   int
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// FilterError reports an invalid predicate combination. It is fatal and
// raised before any record is processed.
type FilterError struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid amount range: minimum %s exceeds maximum %s",
		e.Min.StringFixed(2), e.Max.StringFixed(2))
}

// WriteError reports a failure producing one output artifact. The other
// artifact is still attempted.
type WriteError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s to %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
