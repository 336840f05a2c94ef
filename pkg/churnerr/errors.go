// Package churnerr defines the closed set of error kinds surfaced by the
// churn pipeline. Callers match on kinds with errors.Is or KindOf instead
// of inspecting messages.
package churnerr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	Unknown Kind = iota
	NotFound
	MalformedInput
	SchemaMismatch
	KeyNotFound
	ShapeMismatch
	InvalidFeatureValue
)

var kindNames = map[Kind]string{
	Unknown:             "Unknown",
	NotFound:            "NotFound",
	MalformedInput:      "MalformedInput",
	SchemaMismatch:      "SchemaMismatch",
	KeyNotFound:         "KeyNotFound",
	ShapeMismatch:       "ShapeMismatch",
	InvalidFeatureValue: "InvalidFeatureValue",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for errors.Is matching.
var (
	ErrNotFound            = &Error{Kind: NotFound}
	ErrMalformedInput      = &Error{Kind: MalformedInput}
	ErrSchemaMismatch      = &Error{Kind: SchemaMismatch}
	ErrKeyNotFound         = &Error{Kind: KeyNotFound}
	ErrShapeMismatch       = &Error{Kind: ShapeMismatch}
	ErrInvalidFeatureValue = &Error{Kind: InvalidFeatureValue}
)

// Error carries a Kind, the operation that failed and an optional cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind. Sentinels carry
// no Op, so any error of the kind matches them.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an error of kind k for op with a formatted message.
func New(k Kind, op, format string, args ...any) *Error {
	return &Error{Kind: k, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and op to err. A nil err yields nil.
func Wrap(k Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
