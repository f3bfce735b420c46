// Package mock provides a recording valueserp.Searcher for tests.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/valueserp-go/pkg/valueserp"
	"github.com/kitbuilder587/valueserp-go/pkg/valueserp/serp"
)

type Client struct {
	Response map[string]any
	Error    error
	Delay    time.Duration

	CallCount      int
	LastParams     valueserp.Params
	LastWebRequest valueserp.WebSearchRequest
	AllParams      []valueserp.Params

	mu sync.Mutex
}

var _ valueserp.Searcher = (*Client)(nil)

func New() *Client {
	return &Client{}
}

func (c *Client) WithResponse(resp map[string]any) *Client {
	c.Response = resp
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Search(ctx context.Context, params valueserp.Params) (map[string]any, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastParams = params
	c.AllParams = append(c.AllParams, params)
	delay := c.Delay
	err := c.Error
	resp := c.Response
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, &valueserp.RequestError{Err: ctx.Err()}
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}
	if resp == nil {
		return map[string]any{}, nil
	}
	return resp, nil
}

// WebSearch records the request and builds the same q/location params the
// real client would send, via valueserp.WebSearchParams.
func (c *Client) WebSearch(ctx context.Context, req valueserp.WebSearchRequest) (*serp.WebSERP, error) {
	params, err := valueserp.WebSearchParams(req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.LastWebRequest = req
	c.mu.Unlock()

	resp, err := c.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return serp.NewWebSERP(resp)
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastParams = nil
	c.LastWebRequest = valueserp.WebSearchRequest{}
	c.AllParams = nil
}
