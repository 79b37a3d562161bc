package errors

import (
	"errors"
	"net/http"
)

// Exception is an expected, user facing failure. Message is shown to the
// user as is; StatusCode is what the HTTP API answers with.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsDomain reports whether err is an Exception rather than an I/O fault.
func IsDomain(err error) bool {
	var appErr *Exception
	return errors.As(err, &appErr)
}
