package errors

import "net/http"

var ErrStoreBusy = &Exception{
	Message:    "the task store is being updated by someone else, try again",
	StatusCode: http.StatusLocked,
}
