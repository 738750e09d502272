package datalib

import (
	"errors"
	"fmt"
)

// Every error produced by this module wraps exactly one of these two classes.
var (
	// ErrConfiguration marks caller misuse: bad option names, missing
	// required parameters, selectors naming columns that are not there.
	ErrConfiguration = errors.New("configuration error")
	// ErrOperational marks failures caused by the data or the environment
	// (unreadable file, uncastable value). Pipelines recover from these.
	ErrOperational = errors.New("operational error")
)

var (
	ErrUnknownColumn = fmt.Errorf("%w: unknown column", ErrConfiguration)
	ErrColumnKind    = fmt.Errorf("%w: unsupported column kind", ErrConfiguration)
)

// Class names the error class of err.
type Class int

const (
	ClassNone Class = iota
	ClassConfiguration
	ClassOperational
	ClassUnknown
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassConfiguration:
		return "configuration"
	case ClassOperational:
		return "operational"
	default:
		return "unknown"
	}
}

// ClassOf reports which class err belongs to.
func ClassOf(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, ErrConfiguration):
		return ClassConfiguration
	case errors.Is(err, ErrOperational):
		return ClassOperational
	default:
		return ClassUnknown
	}
}

// StepError attaches the failing step and column to an error.
type StepError struct {
	Step   string
	Column string
	Err    error
}

func (e *StepError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s: column %s: %v", e.Step, e.Column, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Errorf builds a StepError whose message is formatted from format and args.
// Use %w in format to keep the class sentinel reachable.
func Errorf(step, column, format string, args ...any) error {
	return &StepError{Step: step, Column: column, Err: fmt.Errorf(format, args...)}
}
