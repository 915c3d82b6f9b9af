package models

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed caller input. No state change.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field != "" && e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

// NotFoundError reports an unknown PNR, train, station or class.
type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// InvalidStateError reports an operation against a record whose current
// status forbids it, e.g. cancelling an already-cancelled ticket.
type InvalidStateError struct {
	Resource string
	Msg      string
}

func (e InvalidStateError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s is in an invalid state", e.Resource)
	default:
		return "invalid state"
	}
}

// TransactionError wraps a persistence failure inside a multi-step write.
// The whole transaction has been rolled back; the caller may retry.
type TransactionError struct {
	Op  string
	Err error
}

func (e TransactionError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("transaction failed during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("transaction failed: %v", e.Err)
}

func (e TransactionError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func IsTransaction(err error) bool {
	var target TransactionError
	return errors.As(err, &target)
}
