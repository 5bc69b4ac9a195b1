// Package errors implements the runtime error taxonomy of spec §7: one
// struct per kind with a stable Kind(), an Error() string, and an
// accumulated stack of call frames appended as the error propagates
// through user-function boundaries (spec §3.5).
package errors

import (
	"fmt"
	"strings"
)

// Kind identifies one of the error variants named in spec §7.
type Kind string

const (
	KindParseError       Kind = "ParseError"
	KindTypeError        Kind = "TypeError"
	KindNameError        Kind = "NameError"
	KindAttributeError   Kind = "AttributeError"
	KindIndexError       Kind = "IndexError"
	KindKeyError         Kind = "KeyError"
	KindValueError       Kind = "ValueError"
	KindArgumentError    Kind = "ArgumentError"
	KindDivisionByZero   Kind = "DivisionByZero"
	KindIoError          Kind = "IoError"
	KindHttpError        Kind = "HttpError"
	KindProcessError     Kind = "ProcessError"
	KindJsonError        Kind = "JsonError"
	KindGlobError        Kind = "GlobError"
	KindAssertionError   Kind = "AssertionError"
	KindUserError        Kind = "UserError"
	KindNotCallable      Kind = "NotCallable"
	KindUnsupported      Kind = "Unsupported"
	KindPermissionDenied Kind = "PermissionDenied"
	KindInternalError    Kind = "InternalError"
)

// Frame is one entry of the call-stack trail appended as an error
// propagates out through a user-function call boundary (spec §3.5).
type Frame struct {
	Function string
	File     string
	Line     int
	Column   int
}

func (f Frame) String() string {
	loc := f.File
	if loc == "" {
		loc = "<script>"
	}
	return fmt.Sprintf("  at %s (%s:%d:%d)", f.Function, loc, f.Line, f.Column)
}

// Position is a source location; zero value means "unknown".
type Position struct {
	Line   int
	Column int
}

// Error is the concrete runtime error value. All eval_* error returns in
// the evaluator are *Error so a recovering native or a `try` construct can
// inspect Kind without a type switch over a dozen Go structs.
type Error struct {
	Kind     Kind
	Message  string
	Pos      Position
	File     string
	Stack    []Frame
	Hint     string // only meaningful for PermissionDenied
	Resource string // operation resource, for PermissionDenied
	Op       string // operation name, for PermissionDenied
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Pos.Line > 0 {
		fmt.Fprintf(&sb, " (line %d, col %d)", e.Pos.Line, e.Pos.Column)
	}
	for _, f := range e.Stack {
		sb.WriteString("\n")
		sb.WriteString(f.String())
	}
	return sb.String()
}

// WithFrame returns a copy of e with frame appended to the stack trail,
// used at each user-call boundary as the error propagates (spec §4.9).
func (e *Error) WithFrame(frame Frame) *Error {
	cp := *e
	cp.Stack = append(append([]Frame{}, e.Stack...), frame)
	return &cp
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewTypeError(expected, actual string) *Error {
	return newf(KindTypeError, "expected %s, got %s", expected, actual)
}

func NewNameError(name string) *Error {
	return newf(KindNameError, "name '%s' is not defined", name)
}

func NewAttributeError(typeName, attr string) *Error {
	return newf(KindAttributeError, "'%s' object has no attribute '%s'", typeName, attr)
}

func NewIndexError(format string, args ...any) *Error {
	return newf(KindIndexError, format, args...)
}

func NewKeyError(key string) *Error {
	return newf(KindKeyError, "%s", key)
}

func NewValueError(format string, args ...any) *Error {
	return newf(KindValueError, format, args...)
}

func NewArgumentError(format string, args ...any) *Error {
	return newf(KindArgumentError, format, args...)
}

func NewDivisionByZero() *Error {
	return newf(KindDivisionByZero, "division by zero")
}

func NewIoError(path, message string) *Error {
	e := newf(KindIoError, "%s: %s", path, message)
	e.Resource = path
	return e
}

func NewHttpError(format string, args ...any) *Error {
	return newf(KindHttpError, format, args...)
}

func NewProcessError(format string, args ...any) *Error {
	return newf(KindProcessError, format, args...)
}

func NewJsonError(format string, args ...any) *Error {
	return newf(KindJsonError, format, args...)
}

func NewGlobError(format string, args ...any) *Error {
	return newf(KindGlobError, format, args...)
}

func NewAssertionError(format string, args ...any) *Error {
	return newf(KindAssertionError, format, args...)
}

func NewUserError(message string) *Error {
	return newf(KindUserError, "%s", message)
}

func NewNotCallable(typeName string) *Error {
	return newf(KindNotCallable, "'%s' object is not callable", typeName)
}

func NewUnsupported(format string, args ...any) *Error {
	return newf(KindUnsupported, format, args...)
}

// NewPermissionDenied constructs the PermissionDenied error carrying the
// operation, resource, and an actionable hint (spec §4.5).
func NewPermissionDenied(op, resource, hint string) *Error {
	return &Error{
		Kind:     KindPermissionDenied,
		Message:  fmt.Sprintf("permission denied: %s", op),
		Op:       op,
		Resource: resource,
		Hint:     hint,
	}
}

func NewInternalError(format string, args ...any) *Error {
	return newf(KindInternalError, format, args...)
}

// Signal is the family of non-error control-flow signals (spec §4.9):
// Return, Break, Continue, Exit. They implement error only so they can
// travel through the same (Value, error) return channel as real errors;
// the evaluator unwraps them at their owning boundary instead of
// propagating them to the user.
type Signal struct {
	Kind string // "return" | "break" | "continue" | "exit"
	// Payload carries Return's value or Exit's status code, as an any to
	// avoid an import cycle with the value package.
	Payload any
}

func (s *Signal) Error() string {
	return fmt.Sprintf("unhandled control signal: %s", s.Kind)
}

func NewReturn(v any) *Signal   { return &Signal{Kind: "return", Payload: v} }
func NewBreak() *Signal         { return &Signal{Kind: "break"} }
func NewContinue() *Signal      { return &Signal{Kind: "continue"} }
func NewExit(code int) *Signal  { return &Signal{Kind: "exit", Payload: code} }

// AsSignal reports whether err is a control-flow Signal of the given kind.
func AsSignal(err error, kind string) (*Signal, bool) {
	sig, ok := err.(*Signal)
	if !ok || sig.Kind != kind {
		return nil, false
	}
	return sig, true
}
