package service

import "fmt"

// InvalidRequestError is returned when caller input cannot be accepted
type InvalidRequestError struct {
	Message string
}

func (e InvalidRequestError) Error() string {
	return e.Message
}

// NotFoundError is returned when the addressed record does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError is returned when a write would break a uniqueness rule
type ConflictError struct {
	Message string
}

func (e ConflictError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) error {
	return InvalidRequestError{Message: fmt.Sprintf(format, args...)}
}
