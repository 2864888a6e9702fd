package cli

import (
	"errors"
	"os"

	"github.com/milk9111/bulletml/pattern"
	"github.com/milk9111/bulletml/prefabs"
)

// loadPattern reads arg as a file when one exists at that path, otherwise as
// the name of an embedded pattern.
func loadPattern(arg string) (*pattern.Tree, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		return prefabs.ParsePattern(arg, data)
	}
	return prefabs.LoadPattern(arg)
}

// errorCode maps a pattern error to its JSON error code.
func errorCode(err error) string {
	var rerr *pattern.ResolutionError
	var serr *pattern.SyntaxError
	switch {
	case errors.As(err, &rerr):
		return ErrCodeResolution
	case errors.As(err, &serr), errors.Is(err, pattern.ErrInvalidExpression), errors.Is(err, pattern.ErrUnknownNode):
		return ErrCodeSyntax
	default:
		return ErrCodeLoad
	}
}

// errorList flattens joined errors into their messages, looking through
// single-error wrappers such as a fmt.Errorf %w prefix.
func errorList(err error) []string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		joined, ok := e.(interface{ Unwrap() []error })
		if !ok {
			continue
		}
		var out []string
		for _, je := range joined.Unwrap() {
			out = append(out, errorList(je)...)
		}
		return out
	}
	return []string{err.Error()}
}
