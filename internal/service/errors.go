package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidQuestion is an ErrInvalidInput raised for question ids missing from the bank.
	ErrInvalidQuestion = fmt.Errorf("%w: unknown question", ErrInvalidInput)
	ErrInvalidState    = errors.New("invalid state")
	// ErrOutOfSequence means the answered question is not the session's next one.
	ErrOutOfSequence = errors.New("out of sequence")
	// ErrConfiguration signals a server-side setup problem, e.g. an empty question bank.
	ErrConfiguration = errors.New("configuration error")
)

// Error codes exposed to API clients.
const (
	CodeNotFound      = "not_found"
	CodeConflict      = "conflict"
	CodeInvalidInput  = "invalid_input"
	CodeInvalidState  = "invalid_state"
	CodeOutOfSequence = "out_of_sequence"
	CodeConfiguration = "configuration"
	CodeInternal      = "internal"
)

// CodeOf classifies err by the sentinel it wraps.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrOutOfSequence):
		return CodeOutOfSequence
	case errors.Is(err, ErrConfiguration):
		return CodeConfiguration
	default:
		return CodeInternal
	}
}
