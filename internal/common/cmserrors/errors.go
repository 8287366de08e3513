// Package cmserrors contains the errors returned when talking to the content backend.
//
// Fatal setup failures (ErrAuthentication, ErrUnavailable) abort a command. Per-item failures
// (ErrEntityCreation, ErrSchemaOperation) are recorded in result types and logged; callers that need
// the whole set should aggregate them with github.com/hashicorp/go-multierror.
package cmserrors

import (
	"fmt"
)

// ErrAuthentication is returned when the admin login is rejected or its response carries no token.
type ErrAuthentication struct {
	Email   string // Account the login was attempted for
	Status  int    // HTTP status of the login response, zero if the request never completed
	Message string // An optional message to include in the error message
}

func (err *ErrAuthentication) Error() (s string) {
	s = fmt.Sprintf("authentication failed for %q", err.Email)
	if err.Status != 0 {
		s = s + fmt.Sprintf(" (http %d)", err.Status)
	}
	if err.Message != "" {
		s = s + fmt.Sprintf("; %s", err.Message)
	}
	return
}

// ErrUnavailable is returned by a readiness probe while the backend is not serving yet.
type ErrUnavailable struct {
	Url     string
	Status  int
	Message string
}

func (err *ErrUnavailable) Error() (s string) {
	if err.Status != 0 {
		s = fmt.Sprintf("%s is unavailable (http %d)", err.Url, err.Status)
	} else {
		s = fmt.Sprintf("%s is unavailable", err.Url)
	}
	if err.Message != "" {
		s = s + fmt.Sprintf("; %s", err.Message)
	}
	return
}

// ErrEntityCreation is returned when the backend rejects a single create call.
type ErrEntityCreation struct {
	Collection string // e.g. "authors"
	Index      int    // Position of the record within its batch
	Status     int
	Message    string
}

func (err *ErrEntityCreation) Error() (s string) {
	s = fmt.Sprintf("failed to create %s record %d", err.Collection, err.Index)
	if err.Status != 0 {
		s = s + fmt.Sprintf(" (http %d)", err.Status)
	}
	if err.Message != "" {
		s = s + fmt.Sprintf("; %s", err.Message)
	}
	return
}

// ErrSchemaOperation is returned when a content-type create or update is rejected.
type ErrSchemaOperation struct {
	Operation   string // "create" or "update"
	ContentType string
	Status      int
	Message     string
}

func (err *ErrSchemaOperation) Error() (s string) {
	s = fmt.Sprintf("failed to %s content type %q", err.Operation, err.ContentType)
	if err.Status != 0 {
		s = s + fmt.Sprintf(" (http %d)", err.Status)
	}
	if err.Message != "" {
		s = s + fmt.Sprintf("; %s", err.Message)
	}
	return
}

// ErrInvalidArgument is a generic error to be returned on invalid argument.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidArgument struct {
	Name    string      // Name of the field referred to, e.g., "stages"
	Value   interface{} // The invalid value that was provided
	Message string      // An optional message to include with the error message, e.g., explaining why the value is invalid
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %v is invalid for field %q", err.Value, err.Name)
	} else {
		return fmt.Sprintf("value %v is invalid for field %q; %s", err.Value, err.Name, err.Message)
	}
}
