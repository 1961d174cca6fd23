package slim

import (
	"errors"
	"fmt"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// ArgumentError reports a nil or out-of-range argument by parameter name
type ArgumentError = typeslim.ArgumentError

var (
	ErrArgumentNull       = typeslim.ErrArgumentNull
	ErrArgumentOutOfRange = typeslim.ErrArgumentOutOfRange
	ErrInvalidNodeType    = expr.ErrInvalidNodeType

	// ErrNotSupported is returned by the mutators of read-only views
	ErrNotSupported = errors.New("collection is read-only")

	// ErrNotImplemented is returned by fold reducers that do not handle
	// extension nodes.
	ErrNotImplemented = errors.New("not implemented")
)

// ShapeError reports a node kind outside the set valid for a node shape
type ShapeError struct {
	Shape string // "binary", "unary", "goto", ...
	Kind  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s is not a valid %s expression type", e.Kind, e.Shape)
}

func (e *ShapeError) Unwrap() error { return ErrInvalidNodeType }

// InvariantError reports a malformed combination of otherwise valid
// arguments, such as a try with both finally and fault.
type InvariantError struct {
	Node   string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Node, e.Reason)
}

// UnexpectedResultError is returned by VisitAndConvert when a visit
// returns a node that cannot stand in for the original.
type UnexpectedResultError struct {
	Caller string
	Want   string
	Got    ExpressionSlim
}

func (e *UnexpectedResultError) Error() string {
	got := "nil"
	if e.Got != nil {
		got = fmt.Sprintf("%T", e.Got)
	}
	return fmt.Sprintf("when called from %s, rewriting a node of type %s must return a non-nil value of the same type, got %s", e.Caller, e.Want, got)
}

// Must panics if err is non-nil and returns v otherwise. It is meant for
// building literal trees in tests and initializers.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func null(param string) error { return typeslim.NullArgument(param) }

func shape(s string, kind fmt.Stringer) error {
	return &ShapeError{Shape: s, Kind: kind.String()}
}

func invariant(node, format string, args ...any) error {
	return &InvariantError{Node: node, Reason: fmt.Sprintf(format, args...)}
}
