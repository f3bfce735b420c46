package valueserp

import (
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL      = "https://api.valueserp.com"
	DefaultTimeout      = 120 * time.Second
	DefaultRetries      = 3
	DefaultRetryWaitMin = 500 * time.Millisecond
	DefaultRetryWaitMax = 10 * time.Second
)

const (
	pathSearch    = "/search"
	pathLocations = "/locations"
	pathAccount   = "/account"
)

const userAgent = "valueserp-go/1.0"

// Recorder receives request telemetry. internal/metrics provides the
// prometheus implementation; a nil Recorder disables recording.
type Recorder interface {
	RecordRequest(endpoint, status string, duration time.Duration)
	RecordRetry(reason string)
	IncRequestsInFlight()
	DecRequestsInFlight()
}

// Config is fixed for the lifetime of a Client. Zero values fall back to
// the package defaults; a negative Retries disables retrying.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Transport replaces the client's own connection pool, e.g. for proxies or tests.
	Transport http.RoundTripper
	Recorder  Recorder
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = DefaultRetryWaitMin
	}
	if c.RetryWaitMax <= 0 {
		c.RetryWaitMax = DefaultRetryWaitMax
	}
	if c.RetryWaitMax < c.RetryWaitMin {
		c.RetryWaitMax = c.RetryWaitMin
	}
	if c.Recorder == nil {
		c.Recorder = nopRecorder{}
	}
	return c
}

type nopRecorder struct{}

func (nopRecorder) RecordRequest(string, string, time.Duration) {}
func (nopRecorder) RecordRetry(string)                          {}
func (nopRecorder) IncRequestsInFlight()                        {}
func (nopRecorder) DecRequestsInFlight()                        {}
