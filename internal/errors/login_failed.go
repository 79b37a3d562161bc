package errors

import "net/http"

var ErrLoginFailed = &Exception{
	Message:    "the email address or password is incorrect",
	StatusCode: http.StatusUnauthorized,
}
