package valueserp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Credentials holds the API key used for every request.
type Credentials struct {
	apiKey string
}

// NewCredentials performs no I/O; call Validate or use
// NewValidatedCredentials to check the key against the API.
func NewCredentials(apiKey string) Credentials {
	return Credentials{apiKey: apiKey}
}

// NewValidatedCredentials checks the key once via the account endpoint,
// which does not consume search credits.
func NewValidatedCredentials(ctx context.Context, apiKey string, cfg Config) (Credentials, error) {
	creds := NewCredentials(apiKey)
	if _, err := creds.Validate(ctx, cfg); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func (c Credentials) APIKey() string {
	return c.apiKey
}

// String masks the key so credentials can be logged safely.
func (c Credentials) String() string {
	if len(c.apiKey) <= 4 {
		return "Credentials{api_key: ****}"
	}
	return "Credentials{api_key: ****" + c.apiKey[len(c.apiKey)-4:] + "}"
}

// Validate returns true when the API accepts the key. A rejected key yields
// ErrInvalidCredentials; other failures yield *ResponseError or *RequestError.
// It does not retry.
func (c Credentials) Validate(ctx context.Context, cfg Config) (bool, error) {
	cfg = cfg.withDefaults()
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Transport != nil {
		client.Transport = cfg.Transport
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+pathAccount+"?"+q.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("%w: create request: %v", ErrValueSERP, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	body, status, err := doRequest(client, req)
	if err != nil {
		return false, &RequestError{Err: redact(err)}
	}
	if err := checkResponse(status, body); err != nil {
		return false, err
	}
	return true, nil
}

// doRequest sends req and reads the whole body. An error means no usable
// response was received.
func doRequest(client *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
