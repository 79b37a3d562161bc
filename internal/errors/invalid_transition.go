package errors

import "net/http"

var ErrInvalidTransition = &Exception{
	Message:    "the status can only move one step ahead of the current status",
	StatusCode: http.StatusConflict,
}
