// Package apierr defines the error envelope every endpoint answers with:
//
//	{"code": "validation_error", "message": "...", "fields": {"email": ["..."]}}
//
// Services return *Error values; the echo error handler renders them.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an error and fixes its HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a machine-readable API error. Fields carries per-field messages
// for validation errors.
type Error struct {
	Kind    Kind                `json:"-"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Err     error               `json:"-"`

	// status overrides Kind.Status for framework errors such as 429.
	status int
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " [%s: %s]", k, strings.Join(e.Fields[k], "; "))
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and Code so sentinel *Error values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Code == e.Code
}

// Status returns the HTTP status for the error.
func (e *Error) Status() int {
	if e.status != 0 {
		return e.status
	}
	return e.Kind.Status()
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Field builds a validation error scoped to a single field.
func Field(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "validation_error",
		Message: message,
		Fields:  map[string][]string{field: {message}},
	}
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, "not_authenticated", message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, "permission_denied", message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

// Bind wraps a request decoding failure.
func Bind(cause error) *Error {
	return &Error{Kind: KindValidation, Code: "parse_error", Message: "Malformed request body.", Err: cause}
}

// InvalidID is returned for path parameters that are not UUIDs.
func InvalidID(param string) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Message: "No " + param + " matches the given query."}
}

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: "internal server error", Err: cause}
}

// Validation accumulates field errors. Err returns nil when nothing was added.
type Validation struct {
	fields map[string][]string
	order  []string
}

func (v *Validation) Add(field, message string) {
	if v.fields == nil {
		v.fields = make(map[string][]string)
	}
	if _, ok := v.fields[field]; !ok {
		v.order = append(v.order, field)
	}
	v.fields[field] = append(v.fields[field], message)
}

// AddIf adds the message when cond holds.
func (v *Validation) AddIf(cond bool, field, message string) {
	if cond {
		v.Add(field, message)
	}
}

func (v *Validation) Has(field string) bool {
	_, ok := v.fields[field]
	return ok
}

func (v *Validation) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	first := v.fields[v.order[0]][0]
	return &Error{Kind: KindValidation, Code: "validation_error", Message: first, Fields: v.fields}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for non-API errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
