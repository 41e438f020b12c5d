package bing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/bingdict/cache"
	"github.com/use-agent/bingdict/config"
	"github.com/use-agent/bingdict/dict"
	"github.com/use-agent/bingdict/engine"
	"github.com/use-agent/bingdict/models"
)

const (
	dictionaryPage = `<html><head><title>dictionary - 必应词典</title>` +
		`<meta name="description" content="必应词典为您提供dictionary的释义，美[ˈdɪkʃəˌneri]，英[ˈdɪkʃən(ə)ri]，n. 词典；字典；辞书；专业词典； 网络释义： 辞典；字典类；辞书；" />` +
		`</head><body></body></html>`
	noResultPage  = `<html><head><meta name="description" content="必应词典，为您提供全面的英汉双语词典查询。" /></head></html>`
	challengePage = `<html><head><title>Verify you are human</title></head><body></body></html>`
)

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string // query -> page
	err   error
	block bool
	calls atomic.Int32
	urls  []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.urls = append(f.urls, req.URL)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	for q, page := range f.pages {
		if strings.HasSuffix(req.URL, "q="+q) {
			return &engine.FetchResult{Body: []byte(page), StatusCode: 200, FinalURL: req.URL, EngineName: "fake"}, nil
		}
	}
	return &engine.FetchResult{Body: []byte(noResultPage), StatusCode: 200, FinalURL: req.URL, EngineName: "fake"}, nil
}

func testConfig() config.DictionaryConfig {
	return config.DictionaryConfig{
		Host:    "www.bing.com",
		Market:  "zh-cn",
		Timeout: time.Second,
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t,
		"https://www.bing.com/dict/search?mkt=zh-cn&q=dictionary",
		BuildURL("www.bing.com", "zh-cn", "dictionary"))
	assert.Equal(t,
		"https://cn.bing.com/dict/search?mkt=zh-cn&q=R%26D+lab",
		BuildURL("cn.bing.com", "zh-cn", "R&D lab"))
	assert.Equal(t,
		"https://www.bing.com/dict/search?mkt=zh-cn&q=%E8%AF%8D%E5%85%B8",
		BuildURL("www.bing.com", "zh-cn", "词典"))
}

func TestTranslate_Found(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"dictionary": dictionaryPage}}
	c := NewClient(f, testConfig())

	res, err := c.Translate(context.Background(), "  dictionary ", true)
	require.NoError(t, err)
	require.NotNil(t, res.Paraphrase)
	assert.False(t, res.Cached)
	assert.Equal(t, "dictionary", res.Paraphrase.Query)
	assert.Equal(t, []string{"美[ˈdɪkʃəˌneri]", "英[ˈdɪkʃən(ə)ri]"}, res.Paraphrase.Pronunciations)
	assert.Equal(t, []string{"https://www.bing.com/dict/search?mkt=zh-cn&q=dictionary"}, f.urls)
}

func TestTranslate_NotFound(t *testing.T) {
	c := NewClient(&fakeFetcher{}, testConfig())

	res, err := c.Translate(context.Background(), "yranoitcid", true)
	require.NoError(t, err)
	assert.Nil(t, res.Paraphrase)
}

func TestTranslate_Cache(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"dictionary": dictionaryPage}}
	cc := cache.New(10, time.Hour)
	defer cc.Stop()
	c := NewClient(f, testConfig(), WithCache(cc))

	first, err := c.Translate(context.Background(), "dictionary", true)
	require.NoError(t, err)
	second, err := c.Translate(context.Background(), "dictionary", true)
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Same(t, first.Paraphrase, second.Paraphrase)
	assert.EqualValues(t, 1, f.calls.Load())

	_, err = c.Translate(context.Background(), "dictionary", false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.calls.Load())

	// Negative results are cached too.
	_, err = c.Translate(context.Background(), "yranoitcid", true)
	require.NoError(t, err)
	miss, err := c.Translate(context.Background(), "yranoitcid", true)
	require.NoError(t, err)
	assert.True(t, miss.Cached)
	assert.Nil(t, miss.Paraphrase)
	assert.EqualValues(t, 3, f.calls.Load())
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fetcher  *fakeFetcher
		query    string
		wantCode string
		wantIs   error
	}{
		{
			name:     "empty query",
			fetcher:  &fakeFetcher{},
			query:    "   ",
			wantCode: models.ErrCodeInvalidInput,
		},
		{
			name:     "query too long",
			fetcher:  &fakeFetcher{},
			query:    strings.Repeat("词", MaxQueryRunes+1),
			wantCode: models.ErrCodeInvalidInput,
		},
		{
			name:     "layout changed",
			fetcher:  &fakeFetcher{pages: map[string]string{"word": challengePage}},
			query:    "word",
			wantCode: models.ErrCodePageLayout,
			wantIs:   dict.ErrPageLayout,
		},
		{
			name:     "upstream failure",
			fetcher:  &fakeFetcher{err: errors.New("connection reset")},
			query:    "word",
			wantCode: models.ErrCodeUpstream,
		},
		{
			name:     "upstream timeout",
			fetcher:  &fakeFetcher{err: fmt.Errorf("http_engine: do request: %w", context.DeadlineExceeded)},
			query:    "word",
			wantCode: models.ErrCodeUpstreamTimeout,
			wantIs:   context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.fetcher, testConfig())
			_, err := c.Translate(context.Background(), tt.query, true)
			require.Error(t, err)

			var de *models.DictError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantCode, de.Code)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestTranslate_CustomMarker(t *testing.T) {
	page := `<meta name="description" content="必应词典为您提供test的释义美[test]，n. 测试；" />`
	cfg := testConfig()
	cfg.MarkerLead = "必应词典为您提供"
	cfg.MarkerTail = "的释义"

	c := NewClient(&fakeFetcher{pages: map[string]string{"test": page}}, cfg)
	res, err := c.Translate(context.Background(), "test", true)
	require.NoError(t, err)
	require.NotNil(t, res.Paraphrase)
	assert.Equal(t, []string{"美[test]"}, res.Paraphrase.Pronunciations)
}

func TestTranslateMany(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"dictionary": dictionaryPage,
		"broken":     challengePage,
	}}
	c := NewClient(f, testConfig())

	results := c.TranslateMany(context.Background(), []string{"dictionary", "yranoitcid", "broken"}, 2)
	require.Len(t, results, 3)

	assert.Equal(t, "dictionary", results[0].Query)
	require.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Result.Paraphrase)

	require.NoError(t, results[1].Err)
	assert.Nil(t, results[1].Result.Paraphrase)

	assert.ErrorIs(t, results[2].Err, dict.ErrPageLayout)
}

func TestInspect(t *testing.T) {
	c := NewClient(&fakeFetcher{pages: map[string]string{"word": challengePage}}, testConfig())

	info, res, err := c.Inspect(context.Background(), "word")
	require.NoError(t, err)
	assert.Equal(t, "Verify you are human", info.Title)
	assert.Equal(t, "fake", res.EngineName)
}

// staticEngine serves the same page for every request.
type staticEngine struct {
	name string
	page string
}

func (e staticEngine) Name() string { return e.name }

func (e staticEngine) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	return &engine.FetchResult{Body: []byte(e.page), StatusCode: 200, FinalURL: req.URL, EngineName: e.name}, nil
}

func TestTranslate_DispatcherRejectsChallenge(t *testing.T) {
	d := engine.NewDispatcher(
		[]engine.Engine{staticEngine{name: "http", page: challengePage}},
		nil,
		dict.HasDescription,
	)
	c := NewClient(d, testConfig())

	_, err := c.Translate(context.Background(), "dictionary", true)
	require.Error(t, err)

	var de *models.DictError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, models.ErrCodePageLayout, de.Code)
	assert.ErrorIs(t, err, dict.ErrPageLayout)
	assert.ErrorIs(t, err, engine.ErrRejected)

	info, res, err := c.Inspect(context.Background(), "dictionary")
	require.NoError(t, err)
	assert.Equal(t, "Verify you are human", info.Title)
	assert.Equal(t, "http", res.EngineName)
}

func TestTranslate_DispatcherAcceptsDictionaryPage(t *testing.T) {
	d := engine.NewDispatcher(
		[]engine.Engine{
			staticEngine{name: "http", page: challengePage},
			staticEngine{name: "rod", page: dictionaryPage},
		},
		[]time.Duration{0, time.Hour},
		dict.HasDescription,
	)
	c := NewClient(d, testConfig())

	res, err := c.Translate(context.Background(), "dictionary", true)
	require.NoError(t, err)
	require.NotNil(t, res.Paraphrase)
	assert.Equal(t, []string{"美[ˈdɪkʃəˌneri]", "英[ˈdɪkʃən(ə)ri]"}, res.Paraphrase.Pronunciations)
}

func TestTranslate_LimiterWaitIsTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond
	cfg.RequestsPerSecond = 0.001
	cfg.Burst = 1
	c := NewClient(&fakeFetcher{}, cfg)

	_, err := c.Translate(context.Background(), "first", false)
	require.NoError(t, err)

	_, err = c.Translate(context.Background(), "second", false)
	require.Error(t, err)
	var de *models.DictError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, models.ErrCodeUpstreamTimeout, de.Code)
}

func TestInspect_Timeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	c := NewClient(&fakeFetcher{block: true}, cfg)

	_, _, err := c.Inspect(context.Background(), "word")
	require.Error(t, err)
	var de *models.DictError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, models.ErrCodeUpstreamTimeout, de.Code)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
