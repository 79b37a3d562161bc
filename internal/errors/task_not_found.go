package errors

import "net/http"

var ErrTaskNotFound = &Exception{
	Message:    "enter an existing task code",
	StatusCode: http.StatusNotFound,
}
