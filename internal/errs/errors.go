// Package errs provides the engine's error-wrapping helper, kept as a thin
// layer over fmt.Errorf so call sites read the same way throughout pga.
package errs

import "fmt"

// Wrap attaches context to err using %w so callers can still errors.Is/As
// against the sentinel. Returns a plain error if err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
