package gateway

import (
	"errors"
	"fmt"
)

// ErrUnavailable reports a transport-level failure: connection refused, timeout
// or an open circuit breaker. The operation must be treated as not applied.
var ErrUnavailable = errors.New("gateway: upstream unavailable")

// StatusError carries a non-2xx upstream response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway: upstream status %d", e.Code)
	}
	return fmt.Sprintf("gateway: upstream status %d: %s", e.Code, e.Message)
}

// IsStatus reports whether err is an upstream response with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// IsUnauthorized reports an upstream 401.
func IsUnauthorized(err error) bool {
	return IsStatus(err, 401)
}

// IsBusinessRejection reports a 4xx other than 401: the backend refused the
// action, the view keeps its state.
func IsBusinessRejection(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code >= 400 && se.Code < 500 && se.Code != 401
}

// UserMessage extracts the backend-provided message if there is one.
func UserMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return ""
}
