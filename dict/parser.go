package dict

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Parser turns Bing Dictionary descriptions into paraphrases.
// It holds no mutable state and is safe for concurrent use.
type Parser struct {
	marker Marker
	log    *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithMarker overrides the boilerplate marker.
func WithMarker(m Marker) Option {
	return func(p *Parser) { p.marker = m }
}

// WithLogger sets the logger used for marker mismatch warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// NewParser creates a Parser using DefaultMarker unless overridden.
func NewParser(opts ...Option) *Parser {
	p := &Parser{marker: DefaultMarker}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) logger() *slog.Logger {
	if p.log != nil {
		return p.log
	}
	return slog.Default()
}

// Marker returns the boilerplate marker in use.
func (p *Parser) Marker() Marker { return p.marker }

// Parse parses an extracted description for query.
// Returns nil, nil when the description is not a genuine result.
func (p *Parser) Parse(query string, description []byte) (*Paraphrase, error) {
	offset := p.marker.Offset(query)

	if len(description) <= offset || !bytes.HasPrefix(description, []byte(p.marker.Lead)) {
		return nil, nil
	}

	if tail := p.marker.Tail; tail != "" && !bytes.Equal(description[offset-len(tail):offset], []byte(tail)) {
		p.logger().Warn("boilerplate tail mismatch",
			"query", query,
			"expected", tail,
			"got", string(description[offset-len(tail):offset]),
		)
	}

	body := description[offset:]
	if !utf8.Valid(body) {
		return nil, fmt.Errorf("dict: parse %q: %w", query, ErrDecode)
	}

	return newParaphrase(query, strings.TrimSpace(string(body))), nil
}

// ParsePage extracts the description from a raw page and parses it.
func (p *Parser) ParsePage(query string, page []byte) (*Paraphrase, error) {
	desc, err := ExtractDescription(page)
	if err != nil {
		return nil, err
	}
	return p.Parse(query, desc)
}

var defaultParser = NewParser()

// Parse parses description with the default parser.
func Parse(query string, description []byte) (*Paraphrase, error) {
	return defaultParser.Parse(query, description)
}

// ParsePage extracts and parses page with the default parser.
func ParsePage(query string, page []byte) (*Paraphrase, error) {
	return defaultParser.ParsePage(query, page)
}
