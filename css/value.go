package css

import (
	"errors"
	"fmt"
	"strings"
)

// errVarFunction is the distinguished signal raised by leaf token readers
// when a var() call turns up inside a value grammar. It is never surfaced to
// callers of Parse; it only tells the declaration parser to capture the
// value as deferred text instead.
var errVarFunction = errors.New("var() in value")

// ErrUnsupported marks values this dialect recognizes but intentionally does
// not implement (dashed border styles, non-px/em dimensions and the like),
// as opposed to plain syntax errors.
var ErrUnsupported = errors.New("unsupported value")

type valueError struct {
	msg string
}

func (e *valueError) Error() string { return e.msg }

func errInvalid(msg string) error {
	return &valueError{msg: msg}
}

func invalidToken(t token) error {
	return &valueError{msg: fmt.Sprintf("unexpected token %q", t.s)}
}

func errUnsupported(what string) error {
	return fmt.Errorf("%s: %w", what, ErrUnsupported)
}

// SourceLoc is a line/column position in the stylesheet source.
type SourceLoc struct {
	Line int
	Col  int
}

func (l SourceLoc) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// ValueKind discriminates the four states a property value can be in.
type ValueKind uint8

const (
	// ValueInitial resets the field to its type default.
	ValueInitial ValueKind = iota
	// ValueInherit copies the parent's field.
	ValueInherit
	// ValueExact carries a concrete parsed value.
	ValueExact
	// ValueDeferred carries raw text that still contains var() calls.
	ValueDeferred
)

// Value is a property value: exactly one of the four kinds is active.
// Exact payloads are typed per property and unwrapped during apply.
type Value struct {
	Kind ValueKind
	X    any
	Raw  string
	Loc  SourceLoc
}

func initial() Value { return Value{Kind: ValueInitial} }

func inherit() Value { return Value{Kind: ValueInherit} }

func exact(x any) Value { return Value{Kind: ValueExact, X: x} }

func deferred(raw string, loc SourceLoc) Value {
	return Value{Kind: ValueDeferred, Raw: raw, Loc: loc}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueInitial:
		return "initial"
	case ValueInherit:
		return "inherit"
	case ValueDeferred:
		return v.Raw
	}
	if s, ok := v.X.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v.X)
}

// VarErrorKind classifies custom-property resolution failures.
type VarErrorKind uint8

const (
	// VarUnresolved means a var() had no binding and no fallback.
	VarUnresolved VarErrorKind = iota
	// VarDepthExceeded means substitution was still active after the pass
	// limit, i.e. the custom properties reference each other cyclically.
	VarDepthExceeded
	// VarParseFailed means the substituted text did not parse under the
	// property's grammar, or the raw text was not balanced.
	VarParseFailed
)

func (k VarErrorKind) String() string {
	switch k {
	case VarUnresolved:
		return "unresolved variable with no fallback"
	case VarDepthExceeded:
		return "variable expansion depth exceeded"
	default:
		return "failed to parse value after variable expansion"
	}
}

// VarError reports a failed custom-property resolution. The original raw
// text and source location are retained for diagnostics; the affected style
// field keeps its previous value.
type VarError struct {
	Kind VarErrorKind
	Raw  string
	Loc  SourceLoc
	Err  error
}

func (e *VarError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Raw)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *VarError) Unwrap() error { return e.Err }

// Scratch holds the two text buffers the variable resolver swaps between.
// A Scratch must not be shared by concurrent resolutions.
type Scratch struct {
	one strings.Builder
	two strings.Builder
}
