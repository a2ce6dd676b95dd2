package launcher

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing server directory or jar.
	ErrNotFound = errors.New("not found")
	// ErrSpawn marks a server process that could not be started.
	ErrSpawn = errors.New("failed to start server")
)

// NotFoundError names what is missing.
type NotFoundError struct {
	// Kind is "server directory" or "jar".
	Kind string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// SpawnError wraps the reason the Java process did not start.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() []error { return []error{ErrSpawn, e.Err} }
