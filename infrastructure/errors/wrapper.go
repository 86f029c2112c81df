package errors

import (
	stderrors "errors"
	"fmt"
)

// As is errors.As, re-exported so callers importing this package need not
// alias the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// WrapWithContextf wraps an error with formatted context information.
func WrapWithContextf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
