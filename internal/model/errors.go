package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the entry id does not exist for the caller.
	ErrNotFound = errors.New("entry not found")
	// ErrUnauthorized indicates a missing or invalid caller identity.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports a rejected candidate entry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a durable storage failure.
type PersistenceError struct {
	Op  string // "load", "save", "erase"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
