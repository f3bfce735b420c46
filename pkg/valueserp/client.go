// Package valueserp is a client for the VALUE SERP search results API.
//
// A Client owns one HTTP connection pool bound to a fixed base URL and API
// key. Failures are translated once, at the point of request, into
// ErrInvalidCredentials, *ResponseError or *RequestError; all of them match
// ErrValueSERP.
package valueserp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/valueserp-go/pkg/valueserp/serp"
)

const (
	statusOK                 = "ok"
	statusInvalidCredentials = "invalid_credentials"
	statusResponseError      = "response_error"
	statusRequestError       = "request_error"
)

// Params are query parameters passed through to the API.
type Params map[string]string

// Searcher is the subset of Client that callers usually depend on.
type Searcher interface {
	Search(ctx context.Context, params Params) (map[string]any, error)
	WebSearch(ctx context.Context, req WebSearchRequest) (*serp.WebSERP, error)
}

var _ Searcher = (*Client)(nil)

// WebSearchRequest describes one Google web search. Extra never overrides
// q, location or api_key.
type WebSearchRequest struct {
	Query      string
	Location   string
	Site       string
	SearchType SearchType
	Extra      Params
}

// WebSearchParams builds the query parameters WebSearch sends for r,
// without the api_key. A blank Query is allowed when Site is set and yields
// q="site:<site> ".
func WebSearchParams(r WebSearchRequest) (Params, error) {
	if strings.TrimSpace(r.Query) == "" && strings.TrimSpace(r.Site) == "" {
		return nil, ErrEmptyQuery
	}
	if r.SearchType != "" && !r.SearchType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSearchType, r.SearchType)
	}

	params := make(Params, len(r.Extra)+3)
	for k, v := range r.Extra {
		params[k] = v
	}

	q := r.Query
	if r.Site != "" {
		q = "site:" + r.Site + " " + q
	}
	params["q"] = q

	delete(params, "location")
	if r.Location != "" {
		params["location"] = r.Location
	}
	if r.SearchType != "" {
		params["search_type"] = r.SearchType.String()
	}
	return params, nil
}

type Client struct {
	credentials Credentials
	cfg         Config
	client      *http.Client
	logger      *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient builds a client with its own connection pool unless
// cfg.Transport is set. A nil logger disables logging.
func NewClient(creds Credentials, cfg Config, logger *zap.Logger) *Client {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Client{
		credentials: creds,
		cfg:         cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newRetryTransport(base, cfg, logger),
		},
		logger: logger,
	}
}

// WithClient runs fn with a fresh client and closes it afterwards, also
// when fn fails or panics.
func WithClient(ctx context.Context, creds Credentials, cfg Config, logger *zap.Logger, fn func(ctx context.Context, c *Client) error) error {
	c := NewClient(creds, cfg, logger)
	defer c.Close()
	return fn(ctx, c)
}

func (c *Client) Credentials() Credentials {
	return c.credentials
}

// Close releases idle connections. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.client.CloseIdleConnections()
	return nil
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Search sends params to /search and returns the decoded JSON object.
func (c *Client) Search(ctx context.Context, params Params) (map[string]any, error) {
	body, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

// WebSearch runs a Google web search and wraps the response.
func (c *Client) WebSearch(ctx context.Context, req WebSearchRequest) (*serp.WebSERP, error) {
	params, err := WebSearchParams(req)
	if err != nil {
		return nil, err
	}
	body, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}
	result, err := serp.ParseWebSERP(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return result, nil
}

// Locations looks up location names usable as WebSearchRequest.Location.
// A limit of zero leaves the API default.
func (c *Client) Locations(ctx context.Context, query string, limit int) (map[string]any, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	params := Params{"q": query}
	if limit > 0 {
		params["num"] = strconv.Itoa(limit)
	}
	body, err := c.get(ctx, "locations", pathLocations, params)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

// Account returns the account details; it does not cost search credits.
func (c *Client) Account(ctx context.Context) (map[string]any, error) {
	body, err := c.get(ctx, "account", pathAccount, nil)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

// ValidateCredentials checks the client's key through its own session.
func (c *Client) ValidateCredentials(ctx context.Context) (bool, error) {
	if _, err := c.get(ctx, "account", pathAccount, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) search(ctx context.Context, params Params) ([]byte, error) {
	return c.get(ctx, "search", pathSearch, params)
}

func (c *Client) get(ctx context.Context, endpoint, path string, params Params) ([]byte, error) {
	if c.IsClosed() {
		return nil, &RequestError{Err: ErrClientClosed}
	}

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("api_key", c.credentials.APIKey())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrValueSERP, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	rec := c.cfg.Recorder
	rec.IncRequestsInFlight()
	defer rec.DecRequestsInFlight()
	start := time.Now()

	body, status, err := doRequest(c.client, req)
	elapsed := time.Since(start)
	if err != nil {
		err = redact(err)
		rec.RecordRequest(endpoint, statusRequestError, elapsed)
		c.logger.Error("valueserp request failed",
			zap.String("path", path),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, &RequestError{Err: err}
	}

	if err := checkResponse(status, body); err != nil {
		label := statusResponseError
		if errors.Is(err, ErrInvalidCredentials) {
			label = statusInvalidCredentials
		}
		rec.RecordRequest(endpoint, label, elapsed)
		c.logger.Error("valueserp request rejected",
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	rec.RecordRequest(endpoint, statusOK, elapsed)
	c.logger.Debug("valueserp request completed",
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}

func decodeObject(body []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedResponse)
	}
	return out, nil
}

// redact strips the API key from URLs embedded in transport errors.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	u, perr := url.Parse(uerr.URL)
	if perr != nil {
		uerr.URL = ""
		return err
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	uerr.URL = u.String()
	return err
}
