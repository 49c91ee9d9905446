package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jlisp/jlisp/internal/ast"
)

// Report is the canonical structured error type for jlisp. Every error
// raised by the reader, parser, or evaluator is built as a *Report and
// wrapped into a Go error via WrapReport so it survives errors.As
// unwrapping while still carrying a JSON-able shape for tooling.
type Report struct {
	Schema  string         `json:"schema"` // always "jlisp.error/v1"
	Code    string         `json:"code"`
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Pos     *ast.Pos       `json:"pos,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

const schemaV1 = "jlisp.error/v1"

// New builds a Report for the given kind and message.
func New(kind Kind, message string) *Report {
	return &Report{
		Schema:  schemaV1,
		Code:    kind.Code(),
		Kind:    kind.String(),
		Message: message,
	}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...any) *Report {
	return New(kind, fmt.Sprintf(format, args...))
}

// At attaches a source position to the report and returns it for chaining.
func (r *Report) At(pos ast.Pos) *Report {
	r.Pos = &pos
	return r
}

// WithData merges structured data into the report and returns it.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// ReportError wraps a Report as a Go error. Wrapping (instead of returning
// Report itself) lets callers distinguish "a Report happened" from "some
// unrelated Go stdlib error happened" via AsReport/errors.As.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	if e.Rep.Pos != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Rep.Kind, e.Rep.Message, e.Rep.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Rep.Kind, e.Rep.Message)
}

// WrapReport turns a *Report into a Go error. Returns nil for a nil report
// so call sites can write `return errors.WrapReport(r)` unconditionally.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// AsReport extracts the *Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// ToJSON renders the report as JSON; compact=false indents for readability.
func (r *Report) ToJSON(compact bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
