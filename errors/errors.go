// Package errors provides error handling for sparq.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Sentinel errors for type-safe checks with errors.Is
//
// Usage:
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrResultsClosed) {
//	    // handle closed binding sequence
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	WithStack = crdb.WithStack
	WithHint  = crdb.WithHint
)

// Error inspection and marking
var (
	Is     = crdb.Is
	As     = crdb.As
	Unwrap = crdb.Unwrap
	Mark   = crdb.Mark
)

// Common sentinel errors for use across sparq.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNoExecution indicates a query execution handle could not be
	// acquired (malformed query, invalid service URL, or engine internal
	// error).
	ErrNoExecution = New("no query execution")

	// ErrResultsClosed indicates a binding sequence was traversed after its
	// owning execution was released.
	ErrResultsClosed = New("result sequence closed")

	// ErrUnsupportedForm indicates a query form the dispatcher cannot route.
	ErrUnsupportedForm = New("unsupported query form")
)
