package pattern

import (
	"errors"
	"fmt"
)

var (
	ErrUnresolvedReference = errors.New("pattern: unresolved reference")
	ErrKindMismatch        = errors.New("pattern: reference kind mismatch")
	ErrDuplicateLabel      = errors.New("pattern: duplicate label")
	ErrReferenceCycle      = errors.New("pattern: reference cycle")
	ErrInvalidExpression   = errors.New("pattern: invalid expression")
	ErrUnknownNode         = errors.New("pattern: unknown node")
	ErrInvalidNode         = errors.New("pattern: invalid node")
)

// ResolutionError describes a reference that could not be bound to exactly
// one target node. It matches its sentinel with errors.Is.
type ResolutionError struct {
	Err   error
	Ref   NodeName
	Label string
	Want  NodeName
	// Got is the kind that carried the label on a kind mismatch.
	Got NodeName
}

func (e *ResolutionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrKindMismatch):
		return fmt.Sprintf("%v: %s %q points at a %s, want %s", e.Err, e.Ref, e.Label, e.Got, e.Want)
	case errors.Is(e.Err, ErrDuplicateLabel):
		return fmt.Sprintf("%v: %s %q is defined more than once", e.Err, e.Want, e.Label)
	case errors.Is(e.Err, ErrReferenceCycle):
		return fmt.Sprintf("%v: %s %q expands into itself", e.Err, e.Ref, e.Label)
	default:
		return fmt.Sprintf("%v: %s %q has no matching %s", e.Err, e.Ref, e.Label, e.Want)
	}
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// SyntaxError reports a structural problem found while compiling a raw tree.
type SyntaxError struct {
	Err  error
	Path string
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%v at %s", e.Err, e.Path)
	}
	return fmt.Sprintf("%v at %s: %s", e.Err, e.Path, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
