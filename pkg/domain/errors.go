package domain

import (
	"errors"
	"fmt"
)

// Classifier-level failures. These are recovered locally during aggregation and
// never abort an analysis on their own.
var (
	ErrClassifierTimeout     = errors.New("classifier timed out")
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	ErrInvalidInput          = errors.New("invalid input")
)

type sessionNotFoundError struct {
	ID string
}

func (e *sessionNotFoundError) Error() string {
	return fmt.Sprintf("session with ID '%s' not found", e.ID)
}

func NewSessionNotFoundError(id string) error {
	return &sessionNotFoundError{ID: id}
}

func IsSessionNotFound(err error) bool {
	if err == nil {
		return false
	}
	var target *sessionNotFoundError
	return errors.As(err, &target)
}

type sessionInactiveError struct {
	ID string
}

func (e *sessionInactiveError) Error() string {
	return fmt.Sprintf("session with ID '%s' is not active", e.ID)
}

func NewSessionInactiveError(id string) error {
	return &sessionInactiveError{ID: id}
}

func IsSessionInactive(err error) bool {
	if err == nil {
		return false
	}
	var target *sessionInactiveError
	return errors.As(err, &target)
}

type invalidConfigurationError struct {
	Reason string
}

func (e *invalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func NewInvalidConfigurationError(reason string) error {
	return &invalidConfigurationError{Reason: reason}
}

func IsInvalidConfiguration(err error) bool {
	if err == nil {
		return false
	}
	var target *invalidConfigurationError
	return errors.As(err, &target)
}
