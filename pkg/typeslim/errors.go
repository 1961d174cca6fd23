package typeslim

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is
var (
	ErrArgumentNull       = errors.New("value cannot be null")
	ErrArgumentOutOfRange = errors.New("index was out of range")
	ErrUnresolved         = errors.New("cannot be resolved")
)

// ArgumentError reports a missing or out-of-range argument and names the
// offending parameter.
type ArgumentError struct {
	Param string
	Err   error // ErrArgumentNull or ErrArgumentOutOfRange
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%v (parameter %q)", e.Err, e.Param)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// NullArgument returns an ArgumentError for a nil required argument
func NullArgument(param string) error {
	return &ArgumentError{Param: param, Err: ErrArgumentNull}
}

// OutOfRange returns an ArgumentError for an index outside the valid range
func OutOfRange(param string) error {
	return &ArgumentError{Param: param, Err: ErrArgumentOutOfRange}
}

// ResolutionError reports a failed lookup between native and portable
// types or members.
type ResolutionError struct {
	What   string // "type", "field", "method", ...
	Name   string
	Reason string
}

func (e *ResolutionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s %s %v", e.What, e.Name, ErrUnresolved)
	}
	return fmt.Sprintf("%s %s %v: %s", e.What, e.Name, ErrUnresolved, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return ErrUnresolved }

func unresolved(what, name, format string, args ...any) error {
	return &ResolutionError{What: what, Name: name, Reason: fmt.Sprintf(format, args...)}
}
