package errors

import "net/http"

var ErrUserNotFound = &Exception{
	Message:    "enter an existing user code",
	StatusCode: http.StatusNotFound,
}
