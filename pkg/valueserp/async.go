package valueserp

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/valueserp-go/pkg/valueserp/serp"
)

// Pending is a web search running in the background.
type Pending struct {
	done   chan struct{}
	result *serp.WebSERP
	err    error
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the search finishes.
func (p *Pending) Wait() (*serp.WebSERP, error) {
	<-p.done
	return p.result, p.err
}

// WebSearchAsync starts req on its own goroutine. Cancel ctx to abandon it.
func (c *Client) WebSearchAsync(ctx context.Context, req WebSearchRequest) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.result, p.err = c.WebSearch(ctx, req)
	}()
	return p
}

// WebSearchAll runs reqs concurrently, at most limit at a time (limit <= 0
// means unbounded). Results are in input order. The first failure cancels
// the remaining searches and is returned.
func (c *Client) WebSearchAll(ctx context.Context, reqs []WebSearchRequest, limit int) ([]*serp.WebSERP, error) {
	results := make([]*serp.WebSERP, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			res, err := c.WebSearch(gctx, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
