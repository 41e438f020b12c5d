package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/bingdict/config"
)

// rodPages is the number of tabs kept in the pool.
const rodPages = 4

// RodEngine renders the page in headless Chromium with stealth evasions.
// It only runs when the HTTP engine was rejected or failed.
type RodEngine struct {
	browser *rod.Browser
	pool    rod.Pool[tab]
}

// tab is a pooled browser page with its health score.
type tab struct {
	page   *rod.Page
	health pageHealth
}

// NewRodEngine launches a browser configured from cfg.
func NewRodEngine(cfg config.EngineConfig) (*RodEngine, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)
	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("rod: launch browser: %w", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("rod: connect browser: %w", err)
	}

	return &RodEngine{
		browser: browser,
		pool:    rod.NewPool[tab](rodPages),
	}, nil
}

func (e *RodEngine) Name() string { return "rod" }

func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	t, err := e.pool.Get(func() (*tab, error) {
		page, err := e.browser.Page(proto.TargetCreateTarget{})
		if err != nil {
			return nil, err
		}
		return &tab{page: page, health: newPageHealth()}, nil
	})
	if err != nil {
		e.pool.Put(nil)
		return nil, fmt.Errorf("rod: acquire page: %w", err)
	}

	res, err := e.fetch(ctx, t.page, req)
	if err != nil {
		t.health.recordFailure()
	} else {
		t.health.recordSuccess()
	}
	e.release(t)
	return res, err
}

// release returns t to the pool, or closes it when it should be retired.
// A nil entry frees the pool slot so the next Get creates a fresh tab.
func (e *RodEngine) release(t *tab) {
	if t.health.shouldRetire(time.Now()) {
		slog.Debug("rod: retiring tab", "uses", t.health.useCount, "errScore", t.health.errScore)
		_ = t.page.Close()
		e.pool.Put(nil)
		return
	}
	if err := t.page.Navigate("about:blank"); err != nil {
		slog.Warn("rod: failed to reset page", "error", err)
	}
	e.pool.Put(t)
}

func (e *RodEngine) fetch(ctx context.Context, page *rod.Page, req *FetchRequest) (*FetchResult, error) {
	// Stealth and headers only apply to navigations started afterwards.
	remove, err := page.EvalOnNewDocument(stealth.JS)
	if err != nil {
		slog.Warn("rod: stealth injection failed, proceeding without stealth", "error", err)
	} else {
		defer func() { _ = remove() }()
	}

	headers := map[string]string{"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8"}
	for k, v := range req.Headers {
		headers[k] = v
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}).Call(page); err != nil {
		slog.Debug("rod: set extra headers failed", "error", err)
	}

	p := page.Context(ctx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, fmt.Errorf("rod: navigate: %w", err)
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("rod: DOM did not settle, using current DOM", "error", err)
	}

	rawHTML, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("rod: read html: %w", err)
	}

	finalURL := req.URL
	if res, err := p.Eval(`() => window.location.href`); err == nil && res.Value.Str() != "" {
		finalURL = res.Value.Str()
	}

	return &FetchResult{
		Body:       []byte(rawHTML),
		StatusCode: 200,
		FinalURL:   finalURL,
		EngineName: e.Name(),
	}, nil
}

// Close drains the page pool and kills the browser process.
func (e *RodEngine) Close() {
	e.pool.Cleanup(func(t *tab) {
		if t != nil {
			_ = t.page.Close()
		}
	})
	if err := e.browser.Close(); err != nil {
		slog.Warn("rod: close browser", "error", err)
	}
}

// toHeadersMap converts a plain string map to proto.NetworkHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
