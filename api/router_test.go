package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/use-agent/bingdict/bing"
	"github.com/use-agent/bingdict/config"
	"github.com/use-agent/bingdict/engine"
)

type emptyFetcher struct{}

func (emptyFetcher) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	return &engine.FetchResult{Body: []byte(`<html><head></head></html>`), StatusCode: http.StatusOK, FinalURL: req.URL}, nil
}

func TestNewRouter_AuthBoundary(t *testing.T) {
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		Auth:      config.AuthConfig{Enabled: true, APIKeys: []string{"secret"}},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
	client := bing.NewClient(emptyFetcher{}, config.DictionaryConfig{Host: "www.bing.com", Market: "zh-cn"})
	r := NewRouter(client, nil, cfg, time.Now())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/translate?q=word", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/translate?q=word", nil)
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	// The page has no description tag: the layout is not recognised.
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestNewRouter_BatchChargedPerQuery(t *testing.T) {
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 3},
	}
	client := bing.NewClient(emptyFetcher{}, config.DictionaryConfig{Host: "www.bing.com", Market: "zh-cn"})

	post := func(r http.Handler, body string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/translate/batch", strings.NewReader(body)))
		return w.Code
	}

	r := NewRouter(client, nil, cfg, time.Now())
	assert.Equal(t, http.StatusTooManyRequests, post(r, `{"queries":["a","b","c","d"]}`))

	r = NewRouter(client, nil, cfg, time.Now())
	assert.Equal(t, http.StatusOK, post(r, `{"queries":["a","b","c"]}`))
	assert.Equal(t, http.StatusTooManyRequests, post(r, `{"queries":["a"]}`))
}
