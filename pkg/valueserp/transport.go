package valueserp

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// retryTransport retries idempotent requests on transport errors and on
// retryableStatuses. The last response is returned as-is, so a final 429
// still reaches checkResponse.
type retryTransport struct {
	base     http.RoundTripper
	retries  int
	waitMin  time.Duration
	waitMax  time.Duration
	logger   *zap.Logger
	recorder Recorder
}

func newRetryTransport(base http.RoundTripper, cfg Config, logger *zap.Logger) *retryTransport {
	return &retryTransport{
		base:     base,
		retries:  cfg.Retries,
		waitMin:  cfg.RetryWaitMin,
		waitMax:  cfg.RetryWaitMax,
		logger:   logger,
		recorder: cfg.Recorder,
	}
}

type retryableError struct {
	reason string
	err    error
}

func (e *retryableError) Error() string {
	if e.err != nil {
		return e.reason + ": " + e.err.Error()
	}
	return "status " + e.reason
}

func (e *retryableError) Unwrap() error { return e.err }

// waitOverride lets a Retry-After header replace the next computed interval.
type waitOverride struct {
	backoff.BackOff
	next time.Duration
}

func (b *waitOverride) NextBackOff() time.Duration {
	d := b.BackOff.NextBackOff()
	if d == backoff.Stop {
		return d
	}
	if b.next > 0 {
		d, b.next = b.next, 0
	}
	return d
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.retries <= 0 || !idempotent(req.Method) || req.Body != nil && req.GetBody == nil {
		return t.base.RoundTrip(req)
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = t.waitMin
	exp.MaxInterval = t.waitMax
	exp.MaxElapsedTime = 0
	override := &waitOverride{BackOff: exp}
	b := backoff.WithContext(backoff.WithMaxRetries(override, uint64(t.retries)), req.Context())

	attempt := 0
	op := func() (*http.Response, error) {
		attempt++
		r := req
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			r = req.Clone(req.Context())
			r.Body = body
		}

		resp, err := t.base.RoundTrip(r)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, &retryableError{reason: "transport", err: err}
		}
		if attempt > t.retries || !retryableStatuses[resp.StatusCode] {
			return resp, nil
		}

		override.next = retryAfter(resp.Header.Get("Retry-After"), t.waitMax)
		drain(resp)
		return nil, &retryableError{reason: strconv.Itoa(resp.StatusCode)}
	}

	notify := func(err error, wait time.Duration) {
		reason := "transport"
		var re *retryableError
		if errors.As(err, &re) {
			reason = re.reason
		}
		t.recorder.RecordRetry(reason)
		t.logger.Warn("retrying valueserp request",
			zap.String("path", req.URL.Path),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.String("reason", reason),
		)
	}

	resp, err := backoff.RetryNotifyWithData(op, b, notify)
	if err != nil {
		var re *retryableError
		if errors.As(err, &re) && re.err != nil {
			return nil, re.err
		}
		return nil, err
	}
	return resp, nil
}

func (t *retryTransport) CloseIdleConnections() {
	if c, ok := t.base.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// retryAfter parses a delay-seconds Retry-After value. HTTP-date values are ignored.
func retryAfter(v string, max time.Duration) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > max {
		return max
	}
	return d
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
