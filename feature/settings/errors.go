package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks failures reading or writing the settings file.
	ErrIO = errors.New("settings file i/o failed")
	// ErrParse marks settings file content that cannot be loaded.
	ErrParse = errors.New("malformed settings file")
	// ErrValidation marks a value that does not fit its setting.
	ErrValidation = errors.New("invalid setting value")
)

// ParseError reports the offending line of a malformed settings file.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// ValidationError reports why a value was rejected for a setting.
type ValidationError struct {
	Name   string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Name, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
