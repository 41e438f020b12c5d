package models

import "github.com/use-agent/bingdict/dict"

// TranslateResponse is the response for GET /api/v1/translate.
type TranslateResponse struct {
	// Success indicates whether the lookup completed without errors.
	// A lookup with no dictionary entry is still successful.
	Success bool `json:"success"`

	// Query echoes the requested word or phrase.
	Query string `json:"query"`

	// Found is false when the dictionary has no entry for the query.
	Found bool `json:"found"`

	// Paraphrase is the parsed entry; nil when Found is false.
	Paraphrase *dict.Paraphrase `json:"paraphrase,omitempty"`

	// Text is the plain-text rendering of Paraphrase.
	Text string `json:"text,omitempty"`

	// CacheStatus is "hit" or "miss".
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent on a request.
type TimingInfo struct {
	TotalMs int64 `json:"total_ms"`
}

// InspectResponse is the response for GET /api/v1/inspect.
type InspectResponse struct {
	Success        bool         `json:"success"`
	SourceURL      string       `json:"source_url"`
	HasDescription bool         `json:"has_description"`
	Title          string       `json:"title,omitempty"`
	Description    string       `json:"description,omitempty"`
	Canonical      string       `json:"canonical,omitempty"`
	Language       string       `json:"language,omitempty"`
	Excerpt        string       `json:"excerpt,omitempty"`
	Engine         string       `json:"engine,omitempty"`
	Error          *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status     string     `json:"status"`
	Uptime     string     `json:"uptime"`
	CacheStats CacheStats `json:"cache_stats"`
	Version    string     `json:"version"`
}

// CacheStats reports the state of the paraphrase cache.
type CacheStats struct {
	Entries    int    `json:"entries"`
	MaxEntries int    `json:"max_entries"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
}
