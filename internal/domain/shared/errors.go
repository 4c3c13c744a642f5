package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Agent-related errors

type AgentError struct {
	*DomainError
}

func NewAgentError(message string) *AgentError {
	return &AgentError{DomainError: &DomainError{Message: message}}
}

type CapacityExceededError struct {
	*AgentError
	Requested uint
	Available uint
}

func NewCapacityExceededError(requested, available uint) *CapacityExceededError {
	return &CapacityExceededError{
		AgentError: NewAgentError(fmt.Sprintf("capacity exceeded: requested %d, room for %d", requested, available)),
		Requested:  requested,
		Available:  available,
	}
}

// Grid errors

type OutOfBoundsError struct {
	*DomainError
	X, Y int
}

func NewOutOfBoundsError(x, y int) *OutOfBoundsError {
	return &OutOfBoundsError{
		DomainError: NewDomainError(fmt.Sprintf("coordinate (%d,%d) is out of bounds", x, y)),
		X:           x,
		Y:           y,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
