// Package apperr defines the error taxonomy surfaced to callers.
//
// Two kinds are recognised: NotFound (an id does not resolve to a row) and
// InvalidInput (blank text, a pending-child guard, an ownership conflict,
// malformed positional arguments). Anything else is an opaque store error.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is the sentinel every NotFound error unwraps to.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is the sentinel every InvalidInput error unwraps to.
	ErrInvalidInput = errors.New("invalid input")
)

// Error is a typed application error carrying a human-readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	label := "Error"
	switch e.Kind {
	case ErrNotFound:
		label = "Not found"
	case ErrInvalidInput:
		label = "Invalid input"
	}
	if strings.Contains(e.Message, "\n") {
		return label + ":\n" + e.Message
	}
	return label + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound builds a NotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidInput builds an InvalidInput error.
func InvalidInput(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// MissingIDs builds the batch NotFound error, e.g. "step id(s) not found: 1, 2".
func MissingIDs(kind string, ids []int64) error {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return NotFound("%s id(s) not found: %s", kind, strings.Join(parts, ", "))
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err is an InvalidInput error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// RequireText fails with InvalidInput when value is blank after trimming.
func RequireText(label, value string) error {
	if strings.TrimSpace(value) == "" {
		return InvalidInput("%s cannot be empty", label)
	}
	return nil
}
