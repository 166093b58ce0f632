package packagist

import (
	"fmt"

	"github.com/spf13/cast"
)

// DefaultErrorMessage is used when an error response carries no usable message.
const DefaultErrorMessage = "Request not processed."

// HTTPError is returned for every failed request. Code is the HTTP status,
// or 0 when no response was received (Err then holds the transport cause).
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Code == 0 {
		if e.Err != nil {
			return fmt.Sprintf("packagist: %s: %v", e.Message, e.Err)
		}
		return "packagist: " + e.Message
	}
	return fmt.Sprintf("packagist: http %d: %s", e.Code, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// newHTTPError builds an HTTPError from a non-success response, pulling the
// message out of a JSON body like {"status":"error","message":"..."}.
func newHTTPError(code int, body []byte) *HTTPError {
	return &HTTPError{Code: code, Message: errorMessage(body)}
}

func errorMessage(body []byte) string {
	var content struct {
		Message any `json:"message"`
	}
	if err := jsonAPI.Unmarshal(body, &content); err != nil || content.Message == nil {
		return DefaultErrorMessage
	}
	msg, err := cast.ToStringE(content.Message)
	if err != nil {
		return DefaultErrorMessage
	}
	return msg
}
