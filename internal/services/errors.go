package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrInvalidInput = errors.New("invalid input")
)

// ComputationError is returned when score computation fails unexpectedly.
// The failure is already recorded in the ingestion log; retrying is safe.
type ComputationError struct {
	CandidateID uint
	Err         error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("score computation for candidate %d: %v", e.CandidateID, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

func notFound(what string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
}
