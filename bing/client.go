// Package bing looks words up on Bing Dictionary: it builds the search URL,
// fetches the page through an engine, and parses it with package dict.
package bing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/use-agent/bingdict/cache"
	"github.com/use-agent/bingdict/config"
	"github.com/use-agent/bingdict/dict"
	"github.com/use-agent/bingdict/engine"
	"github.com/use-agent/bingdict/inspect"
	"github.com/use-agent/bingdict/models"
)

// MaxQueryRunes bounds the length of a lookup.
const MaxQueryRunes = 200

// Fetcher retrieves a page. *engine.Dispatcher and every engine.Engine
// satisfy it.
type Fetcher interface {
	Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error)
}

// BuildURL returns the search URL for query on host in the given market.
func BuildURL(host, market, query string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     "/dict/search",
		RawQuery: url.Values{"mkt": {market}, "q": {query}}.Encode(),
	}
	return u.String()
}

// Client performs dictionary lookups. It is safe for concurrent use.
type Client struct {
	fetcher Fetcher
	parser  *dict.Parser
	cache   *cache.Cache
	limiter *rate.Limiter
	cfg     config.DictionaryConfig
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache enables lookup caching.
func WithCache(c *cache.Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithParser overrides the description parser.
func WithParser(p *dict.Parser) Option {
	return func(cl *Client) { cl.parser = p }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.log = l }
}

// NewClient creates a Client fetching through f. The parser marker is taken
// from cfg when MarkerLead is set.
func NewClient(f Fetcher, cfg config.DictionaryConfig, opts ...Option) *Client {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	c := &Client{
		fetcher: f,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, max(cfg.Burst, 1)),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.parser == nil {
		var popts []dict.Option
		if cfg.MarkerLead != "" {
			popts = append(popts, dict.WithMarker(dict.Marker{Lead: cfg.MarkerLead, Tail: cfg.MarkerTail}))
		}
		c.parser = dict.NewParser(append(popts, dict.WithLogger(c.log))...)
	}
	c.log = c.log.With("component", "bing")
	return c
}

// Result is the outcome of a lookup.
type Result struct {
	// Paraphrase is nil when the dictionary has no entry.
	Paraphrase *dict.Paraphrase
	// Cached is true when the result was served from the cache.
	Cached bool
}

// Translate looks up query. A nil Paraphrase with a nil error means the
// dictionary has no entry. useCache=false bypasses the cache read but
// still refreshes it.
func (c *Client) Translate(ctx context.Context, query string, useCache bool) (*Result, error) {
	query = strings.TrimSpace(query)
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	key := cache.Key(c.cfg.Market, query)
	if c.cache != nil && useCache {
		if p, ok := c.cache.Get(key); ok {
			return &Result{Paraphrase: p, Cached: true}, nil
		}
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.fetch(ctx, query)
	switch {
	case errors.Is(err, engine.ErrRejected) && res != nil:
		// Every engine got a page, none of them the dictionary markup.
		c.logLayoutChange(ctx, query, res)
		return nil, models.Classify(fmt.Errorf("%w: %w", dict.ErrPageLayout, err))
	case err != nil:
		return nil, err
	}

	p, err := c.parser.ParsePage(query, res.Body)
	if err != nil {
		if errors.Is(err, dict.ErrPageLayout) {
			c.logLayoutChange(ctx, query, res)
		}
		return nil, models.Classify(err)
	}

	if c.cache != nil {
		c.cache.Set(key, p)
	}
	return &Result{Paraphrase: p}, nil
}

// Inspect fetches the page for query and reports its metadata without
// parsing. Pages the dispatcher rejected are still inspected.
func (c *Client) Inspect(ctx context.Context, query string) (inspect.PageInfo, *engine.FetchResult, error) {
	query = strings.TrimSpace(query)
	if err := validateQuery(query); err != nil {
		return inspect.PageInfo{}, nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.fetch(ctx, query)
	if err != nil && !(errors.Is(err, engine.ErrRejected) && res != nil) {
		return inspect.PageInfo{}, nil, err
	}
	return inspect.Inspect(res.Body), res, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, c.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// fetch waits for the outbound limiter and retrieves the page for query.
// Transport errors come back as coded errors; a rejected page is returned
// alongside its engine.ErrRejected error.
func (c *Client) fetch(ctx context.Context, query string) (*engine.FetchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		// Wait fails when the lookup deadline would pass before a token
		// is available.
		return nil, models.NewDictError(models.ErrCodeUpstreamTimeout, "dictionary request would exceed its timeout", err)
	}

	target := BuildURL(c.cfg.Host, c.cfg.Market, query)
	c.log.DebugContext(ctx, "dictionary request", "query", query, "url", target)

	res, err := c.fetcher.Fetch(ctx, &engine.FetchRequest{URL: target})
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, engine.ErrRejected) && res != nil:
		return res, err
	case errors.Is(err, context.DeadlineExceeded):
		return nil, models.NewDictError(models.ErrCodeUpstreamTimeout, "dictionary request timed out", err)
	default:
		c.log.ErrorContext(ctx, "dictionary request failed", "query", query, "error", err)
		return nil, models.NewDictError(models.ErrCodeUpstream, "dictionary request failed", err)
	}
}

func (c *Client) logLayoutChange(ctx context.Context, query string, res *engine.FetchResult) {
	info := inspect.Inspect(res.Body)
	c.log.WarnContext(ctx, "dictionary page layout not recognised",
		"query", query,
		"engine", res.EngineName,
		"final_url", res.FinalURL,
		"title", info.Title,
		"excerpt", info.Excerpt,
	)
}

func validateQuery(query string) error {
	if query == "" {
		return models.NewDictError(models.ErrCodeInvalidInput, "query must not be empty", nil)
	}
	if n := utf8.RuneCountInString(query); n > MaxQueryRunes {
		return models.NewDictError(models.ErrCodeInvalidInput,
			fmt.Sprintf("query has %d characters, maximum is %d", n, MaxQueryRunes), nil)
	}
	return nil
}
