package engine

import (
	"context"
	"errors"
)

// ErrRejected marks a fetched body that the dispatcher's Accept func refused,
// typically a challenge page without the dictionary markup.
var ErrRejected = errors.New("engine: page rejected")

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "rod").
	Name() string

	// Fetch retrieves the page body for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Headers map[string]string
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	Body       []byte
	StatusCode int
	FinalURL   string
	EngineName string
}
