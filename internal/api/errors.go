package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the normalized shape of a non-2xx backend response. Field is set
// on validation conflicts so forms can attribute the failure to one input.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Field      string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api: %d %s (field=%s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func statusIs(err error, status int) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.StatusCode == status
}

func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }
func IsNotFound(err error) bool     { return statusIs(err, http.StatusNotFound) }
func IsConflict(err error) bool     { return statusIs(err, http.StatusConflict) }
func IsBadRequest(err error) bool   { return statusIs(err, http.StatusBadRequest) }

// FieldOf extracts the conflicting field name from an error, if any.
func FieldOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Field
	}
	return ""
}
