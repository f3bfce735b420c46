package valueserp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

const noMessage = "No additional information."

// ErrValueSERP is matched by every error returned from this package,
// so callers can catch broadly with errors.Is(err, ErrValueSERP).
var ErrValueSERP = errors.New("valueserp")

var (
	ErrInvalidCredentials = fmt.Errorf("%w: the provided API credentials are invalid", ErrValueSERP)
	ErrClientClosed       = errors.New("client is closed")
	ErrEmptyQuery         = fmt.Errorf("%w: empty query", ErrValueSERP)
	ErrInvalidSearchType  = fmt.Errorf("%w: invalid search type", ErrValueSERP)
	ErrMalformedResponse  = fmt.Errorf("%w: malformed response body", ErrValueSERP)
)

// ResponseError means the API answered with a non-2xx status other than 401.
type ResponseError struct {
	StatusCode      int
	ResponseMessage string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("API responded with status code %d: %s", e.StatusCode, e.ResponseMessage)
}

func (e *ResponseError) Unwrap() error { return ErrValueSERP }

// RequestError means no response was received at all.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	if e.Err == nil {
		return "API request failed - no response received"
	}
	return "API request failed - no response received: " + e.Err.Error()
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValueSERP}
	}
	return []error{ErrValueSERP, e.Err}
}

// IsRetryable reports whether err is worth retrying by the caller:
// transport failures and 429/5xx responses. Auth failures never are.
func IsRetryable(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return !errors.Is(err, ErrClientClosed)
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusTooManyRequests || respErr.StatusCode >= 500
	}
	return false
}

// checkResponse translates a received HTTP response into the error taxonomy.
// 401 is checked before anything else and the body is not looked at.
func checkResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if statusCode == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	return &ResponseError{
		StatusCode:      statusCode,
		ResponseMessage: errorMessage(body),
	}
}

func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return noMessage
	}
	msg := gjson.GetBytes(body, "request_info.message")
	if msg.Type != gjson.String || msg.Str == "" {
		return noMessage
	}
	return msg.Str
}
