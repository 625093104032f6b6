// Package archprobe structured error types for internal failure routing
package archprobe

import (
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Allocation errors (workload buffer could not be acquired)
	ErrTypeAllocation ErrorType = iota
	// Invalid argument errors
	ErrTypeInvalidArg
	// Numerical errors
	ErrTypeNumerical
	// Registry errors (unknown probe, arity mismatch)
	ErrTypeRegistry
)

// ProbeError represents a structured error with context.
//
// Errors never cross a probe boundary: probes report failure through the
// -1 sentinel or an engine default. ProbeError exists for the buffer
// manager, the registry, and the harness side of the API.
type ProbeError struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("archprobe %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("archprobe %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeAllocation:
		return "Allocation"
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeNumerical:
		return "Numerical"
	case ErrTypeRegistry:
		return "Registry"
	default:
		return "Unknown"
	}
}

// NewAllocationError creates an allocation-related error
func NewAllocationError(op string, message string) error {
	return &ProbeError{
		Type:    ErrTypeAllocation,
		Op:      op,
		Message: message,
	}
}

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &ProbeError{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewRegistryError creates a registry lookup or dispatch error
func NewRegistryError(op string, message string) error {
	return &ProbeError{
		Type:    ErrTypeRegistry,
		Op:      op,
		Message: message,
	}
}
