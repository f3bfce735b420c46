package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kitbuilder587/valueserp-go/internal/config"
	"github.com/kitbuilder587/valueserp-go/internal/metrics"
	"github.com/kitbuilder587/valueserp-go/pkg/valueserp"
	"github.com/kitbuilder587/valueserp-go/pkg/valueserp/serp"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newApp(stdout, stderr io.Writer) *cli.App {
	a := &app{stdout: stdout, stderr: stderr}

	return &cli.App{
		Name:      "valueserp",
		Usage:     "Query the VALUE SERP search API",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "print request metrics to stderr on exit",
			},
		},
		After: a.teardown,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run a Google web search",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "geographic location, see the locations command"},
					&cli.StringFlag{Name: "site", Usage: "restrict results to one domain"},
					&cli.StringFlag{Name: "type", Usage: "search_type: news, images, videos, places, place_details, shopping, product"},
					&cli.StringSliceFlag{Name: "param", Aliases: []string{"p"}, Usage: "extra API parameter as key=value (repeatable)"},
					&cli.BoolFlag{Name: "raw", Usage: "print the unmodified API response"},
				},
				Action: a.search,
			},
			{
				Name:      "batch",
				Usage:     "Run several web searches concurrently",
				ArgsUsage: "<query>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "geographic location applied to every query"},
					&cli.IntFlag{Name: "concurrency", Aliases: []string{"c"}, Value: 4, Usage: "maximum searches in flight"},
				},
				Action: a.batch,
			},
			{
				Name:      "locations",
				Usage:     "Look up supported locations",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "maximum number of locations"},
				},
				Action: a.locations,
			},
			{
				Name:   "account",
				Usage:  "Show account details and remaining credits",
				Action: a.account,
			},
			{
				Name:   "validate",
				Usage:  "Check that the API key is accepted",
				Action: a.validate,
			},
		},
	}
}

// load reads the environment on first use, so help output never needs an API key.
func (a *app) load() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewWithRegistry(a.registry)
	return nil
}

func (a *app) teardown(c *cli.Context) error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if c.Bool("metrics") && a.registry != nil {
		return metrics.WriteText(a.stderr, a.registry)
	}
	return nil
}

func (a *app) newClient(ctx context.Context) (*valueserp.Client, error) {
	if err := a.load(); err != nil {
		return nil, err
	}
	cfg := a.cfg.ClientConfig(a.metrics)

	creds := valueserp.NewCredentials(a.cfg.ValueSERP.APIKey)
	if a.cfg.ValueSERP.ValidateCredentials {
		var err error
		creds, err = valueserp.NewValidatedCredentials(ctx, a.cfg.ValueSERP.APIKey, cfg)
		if err != nil {
			return nil, err
		}
	}

	a.logger.Debug("valueserp client ready",
		zap.String("base_url", a.cfg.ValueSERP.BaseURL),
		zap.Stringer("credentials", creds),
	)
	return valueserp.NewClient(creds, cfg, a.logger), nil
}

func (a *app) search(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	extra, err := parseParams(c.StringSlice("param"))
	if err != nil {
		return err
	}

	req := valueserp.WebSearchRequest{
		Query:      query,
		Location:   c.String("location"),
		Site:       c.String("site"),
		SearchType: valueserp.SearchType(c.String("type")),
		Extra:      extra,
	}

	client, err := a.newClient(c.Context)
	if err != nil {
		return err
	}
	defer client.Close()

	return runSearch(c.Context, client, req, c.Bool("raw"), a.stdout)
}

// runSearch performs one web search through s and writes it to w.
func runSearch(ctx context.Context, s valueserp.Searcher, req valueserp.WebSearchRequest, raw bool, w io.Writer) error {
	result, err := s.WebSearch(ctx, req)
	if err != nil {
		return err
	}
	if raw {
		return writeJSON(w, result.Raw())
	}
	return writeJSON(w, newWebView(result))
}

func (a *app) batch(c *cli.Context) error {
	queries := c.Args().Slice()
	if len(queries) == 0 {
		return errors.New("at least one query is required")
	}

	reqs := make([]valueserp.WebSearchRequest, len(queries))
	for i, q := range queries {
		reqs[i] = valueserp.WebSearchRequest{Query: q, Location: c.String("location")}
	}

	client, err := a.newClient(c.Context)
	if err != nil {
		return err
	}
	defer client.Close()

	results, err := client.WebSearchAll(c.Context, reqs, c.Int("concurrency"))
	if err != nil {
		return err
	}

	views := make([]webView, len(results))
	for i, r := range results {
		views[i] = newWebView(r)
	}
	return writeJSON(a.stdout, views)
}

func (a *app) locations(c *cli.Context) error {
	client, err := a.newClient(c.Context)
	if err != nil {
		return err
	}
	defer client.Close()

	out, err := client.Locations(c.Context, c.Args().First(), c.Int("limit"))
	if err != nil {
		return err
	}
	return writeJSON(a.stdout, out)
}

func (a *app) account(c *cli.Context) error {
	client, err := a.newClient(c.Context)
	if err != nil {
		return err
	}
	defer client.Close()

	out, err := client.Account(c.Context)
	if err != nil {
		return err
	}
	return writeJSON(a.stdout, out)
}

func (a *app) validate(c *cli.Context) error {
	if err := a.load(); err != nil {
		return err
	}
	creds := valueserp.NewCredentials(a.cfg.ValueSERP.APIKey)
	if _, err := creds.Validate(c.Context, a.cfg.ClientConfig(a.metrics)); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "credentials are valid")
	return nil
}

// webView is the mapped form of a web search printed by default.
type webView struct {
	Info            serp.SERPInfo         `json:"info"`
	Links           []serp.OrganicLink    `json:"links"`
	FeaturedSnippet *serp.FeaturedSnippet `json:"featured_snippet,omitempty"`
	RelatedSearches []string              `json:"related_searches,omitempty"`
	PeopleAlsoAsk   []serp.PAAItem        `json:"people_also_ask,omitempty"`
}

func newWebView(r *serp.WebSERP) webView {
	return webView{
		Info:            r.Info(),
		Links:           r.Links(),
		FeaturedSnippet: r.FeaturedSnippet(),
		RelatedSearches: r.RelatedSearches(),
		PeopleAlsoAsk:   r.PeopleAlsoAsk(),
	}
}

func parseParams(pairs []string) (valueserp.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(valueserp.Params, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid param %q, want key=value", p)
		}
		params[k] = v
	}
	return params, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
