// Package vaulterr defines the vault engine's error taxonomy.
//
// Every error a public operation returns is a *Error carrying a Kind so
// callers (and the wire envelope in internal/wire) can distinguish
// recoverable conditions from fatal ones without parsing messages.
package vaulterr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for programmatic handling and recovery hints.
type Kind int

const (
	Other Kind = iota
	Config
	NotFound
	InvalidPath
	PathTraversal
	IO
	Parse
	Concurrency
	Validation
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "Config"
	case NotFound:
		return "NotFound"
	case InvalidPath:
		return "InvalidPath"
	case PathTraversal:
		return "PathTraversal"
	case IO:
		return "IO"
	case Parse:
		return "Parse"
	case Concurrency:
		return "Concurrency"
	case Validation:
		return "Validation"
	default:
		return "Other"
	}
}

// Error is the concrete error type returned by every public operation.
type Error struct {
	Kind    Kind
	Message string
	Path    string
	Cause   error
	Hints   []string
}

func (e *Error) Error() string {
	if e.Path != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Message, e.Path, e.Cause)
		}
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func new(kind Kind, path string, cause error, hints []string, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
		Cause:   cause,
		Hints:   hints,
	}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return new(kind, "", nil, nil, format, args...)
}

func ConfigErr(format string, args ...any) *Error {
	return new(Config, "", nil, nil, format, args...)
}

func NotFoundErr(path string, format string, args ...any) *Error {
	return new(NotFound, path, nil, []string{"search", "list_files"}, format, args...)
}

func InvalidPathErr(path string, format string, args ...any) *Error {
	return new(InvalidPath, path, nil, nil, format, args...)
}

func PathTraversalErr(path string) *Error {
	return new(PathTraversal, path, nil,
		[]string{"re-read the vault root", "use a path relative to the vault root"},
		"resolved path escapes the vault root")
}

func IOErr(path string, cause error) *Error {
	return new(IO, path, cause, nil, "filesystem operation failed")
}

func ParseErr(path string, cause error) *Error {
	return new(Parse, path, cause, nil, "parse failed")
}

func ConcurrencyErr(path string) *Error {
	return new(Concurrency, path, nil,
		[]string{"re-read the file and retry with the new hash"},
		"content hash mismatch")
}

func ValidationErr(format string, args ...any) *Error {
	return new(Validation, "", nil, nil, format, args...)
}

// As reports whether err (or any error it wraps) is a *Error and, if so,
// returns its Kind.
func As(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return Other, false
}

// Hints returns the recovery hints carried by err, if it is a *Error.
func Hints(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hints
	}
	return nil
}
