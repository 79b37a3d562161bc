package errors

import "net/http"

var ErrTaskNotCompleted = &Exception{
	Message:    "only completed tasks can be deleted",
	StatusCode: http.StatusConflict,
}
