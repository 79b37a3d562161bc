package errors

import "net/http"

var ErrTaskCodeTaken = &Exception{
	Message:    "the task code is already in use",
	StatusCode: http.StatusConflict,
}
