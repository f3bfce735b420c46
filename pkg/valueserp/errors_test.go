package valueserp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     error
		wantStatus  int
		wantMessage string
	}{
		{name: "ok", status: http.StatusOK, body: `{}`},
		{name: "no content", status: http.StatusNoContent},
		{
			name:    "unauthorized with error body",
			status:  http.StatusUnauthorized,
			body:    `{"request_info": {"message": "Invalid API key"}}`,
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "unauthorized with garbage body",
			status:  http.StatusUnauthorized,
			body:    `<html>nope</html>`,
			wantErr: ErrInvalidCredentials,
		},
		{
			name:        "rate limited",
			status:      http.StatusTooManyRequests,
			body:        `{"request_info":{"message":"Rate limited"}}`,
			wantStatus:  429,
			wantMessage: "Rate limited",
		},
		{
			name:        "message missing",
			status:      http.StatusBadRequest,
			body:        `{"request_info": {}}`,
			wantStatus:  400,
			wantMessage: "No additional information.",
		},
		{
			name:        "request_info missing",
			status:      http.StatusInternalServerError,
			body:        `{}`,
			wantStatus:  500,
			wantMessage: "No additional information.",
		},
		{
			name:        "body not json",
			status:      http.StatusBadGateway,
			body:        `Bad Gateway`,
			wantStatus:  502,
			wantMessage: "No additional information.",
		},
		{
			name:        "message not a string",
			status:      http.StatusForbidden,
			body:        `{"request_info": {"message": 17}}`,
			wantStatus:  403,
			wantMessage: "No additional information.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkResponse(tt.status, []byte(tt.body))

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("checkResponse() error = %v, want %v", err, tt.wantErr)
				}
				var respErr *ResponseError
				if errors.As(err, &respErr) {
					t.Errorf("checkResponse() returned ResponseError for %d", tt.status)
				}
			case tt.wantStatus != 0:
				var respErr *ResponseError
				if !errors.As(err, &respErr) {
					t.Fatalf("checkResponse() error = %v, want *ResponseError", err)
				}
				if respErr.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", respErr.StatusCode, tt.wantStatus)
				}
				if respErr.ResponseMessage != tt.wantMessage {
					t.Errorf("ResponseMessage = %q, want %q", respErr.ResponseMessage, tt.wantMessage)
				}
			default:
				if err != nil {
					t.Errorf("checkResponse() unexpected error = %v", err)
				}
			}
		})
	}
}

func TestErrorsMatchUmbrella(t *testing.T) {
	errs := []error{
		ErrInvalidCredentials,
		ErrEmptyQuery,
		ErrInvalidSearchType,
		ErrMalformedResponse,
		&ResponseError{StatusCode: 500, ResponseMessage: "boom"},
		&RequestError{Err: context.DeadlineExceeded},
		&RequestError{},
		fmt.Errorf("wrapped: %w", &ResponseError{StatusCode: 404}),
	}

	for _, err := range errs {
		if !errors.Is(err, ErrValueSERP) {
			t.Errorf("errors.Is(%v, ErrValueSERP) = false", err)
		}
	}
}

func TestRequestError_UnwrapsCause(t *testing.T) {
	err := error(&RequestError{Err: context.DeadlineExceeded})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("RequestError should unwrap to its cause")
	}
	if got := err.Error(); got != "API request failed - no response received: context deadline exceeded" {
		t.Errorf("Error() = %q", got)
	}
}

func TestResponseError_Message(t *testing.T) {
	err := &ResponseError{StatusCode: 429, ResponseMessage: "Rate limited"}
	if got := err.Error(); got != "API responded with status code 429: Rate limited" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"request error", &RequestError{Err: errors.New("connection refused")}, true},
		{"closed client", &RequestError{Err: ErrClientClosed}, false},
		{"rate limited", &ResponseError{StatusCode: 429}, true},
		{"server error", &ResponseError{StatusCode: 503}, true},
		{"bad request", &ResponseError{StatusCode: 400}, false},
		{"invalid credentials", ErrInvalidCredentials, false},
		{"other", errors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchType_IsValid(t *testing.T) {
	valid := []SearchType{
		SearchTypeNews, SearchTypeImages, SearchTypeVideos, SearchTypePlaces,
		SearchTypePlaceDetails, SearchTypeShopping, SearchTypeProduct,
	}
	for _, st := range valid {
		if !st.IsValid() {
			t.Errorf("%q should be valid", st)
		}
	}
	for _, st := range []SearchType{"", "web", "NEWS"} {
		if st.IsValid() {
			t.Errorf("%q should be invalid", st)
		}
	}
}
