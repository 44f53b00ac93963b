package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped by every lookup that finds no visible, non-deleted row.
var ErrNotFound = errors.New("not found")

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError is returned before any storage mutation is attempted.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

func NewValidationError(message string, fields ...string) error {
	return &ValidationError{Fields: fields, Message: message}
}
