package utils

import (
	"fmt"
)

// Wraps err with a formatted details message. The result matches err through errors.Is()
func MakeError(err error, detailsBody string, args ...any) error {
	return fmt.Errorf("%w: "+detailsBody, append([]any{err}, args...)...)
}

// Same as MakeError() but keeps a second underlying cause reachable through errors.Is()
func WrapError(kind error, cause error, detailsBody string, args ...any) error {
	return fmt.Errorf("%w: "+detailsBody+": %w", append(append([]any{kind}, args...), cause)...)
}

// Prefixes an error with context, keeping it matchable with errors.Is
func WithContext(cause error, detailsBody string, args ...any) error {
	return fmt.Errorf(detailsBody+": %w", append(args, cause)...)
}
