// Package apperr classifies failures so the HTTP layer can map them to
// user-facing messages without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	KindUnknown          Kind = ""
	KindValidation       Kind = "validation"
	KindGenerationFailed Kind = "generation_failed"
	KindPersistence      Kind = "persistence"
	KindUpload           Kind = "upload"
	KindNotFound         Kind = "not_found"
	KindUnauthorized     Kind = "unauthorized"
	KindForbidden        Kind = "forbidden"
)

// Error is a classified failure. Fields holds per-field messages for
// validation failures, keyed by question id or schema path.
type Error struct {
	Kind   Kind
	Op     string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	case len(e.Fields) > 0:
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
		}
		b.WriteString(strings.Join(parts, "; "))
	default:
		b.WriteString(string(e.Kind))
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Validation(op string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Op: op, Fields: fields}
}

func NotFound(op string, err error) *Error         { return New(KindNotFound, op, err) }
func Persistence(op string, err error) *Error      { return New(KindPersistence, op, err) }
func Upload(op string, err error) *Error           { return New(KindUpload, op, err) }
func GenerationFailed(op string, err error) *Error { return New(KindGenerationFailed, op, err) }

// Kinded is implemented by errors outside this package that carry a kind.
type Kinded interface {
	ErrorKind() Kind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindUnknown
}

// FieldsOf returns the field messages attached to a validation error.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
