// Package inspect summarises a fetched page for diagnostics. It is used when
// the dictionary markup is missing, to tell a layout change from a
// challenge or error page.
package inspect

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// maxExcerptRunes bounds PageInfo.Excerpt.
const maxExcerptRunes = 280

// PageInfo holds page-level metadata.
type PageInfo struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
	Language    string `json:"language,omitempty"`

	// Excerpt is the start of the visible body rendered as single-line
	// Markdown, enough to recognise a challenge or error page.
	Excerpt string `json:"excerpt,omitempty"`
}

var (
	titleSel     = cascadia.MustCompile("head > title")
	metaNameSel  = cascadia.MustCompile("meta[name][content]")
	canonicalSel = cascadia.MustCompile(`link[rel="canonical"]`)
	htmlSel      = cascadia.MustCompile("html[lang]")
	bodySel      = cascadia.MustCompile("body")
)

// conv strips script, style and other non-content tags. Converter is
// goroutine-safe.
var conv = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// Inspect parses page and returns its metadata. Unlike dict.ExtractDescription,
// attribute values come back decoded. Unparseable input yields a zero PageInfo.
func Inspect(page []byte) PageInfo {
	var info PageInfo

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return info
	}

	info.Title = strings.TrimSpace(doc.FindMatcher(titleSel).First().Text())
	description := doc.FindMatcher(metaNameSel).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.EqualFold(s.AttrOr("name", ""), "description")
	})
	info.Description = strings.TrimSpace(description.First().AttrOr("content", ""))
	info.Canonical, _ = doc.FindMatcher(canonicalSel).First().Attr("href")
	info.Language, _ = doc.FindMatcher(htmlSel).First().Attr("lang")

	if body, err := doc.FindMatcher(bodySel).First().Html(); err == nil && strings.TrimSpace(body) != "" {
		info.Excerpt = excerpt(body)
	}

	return info
}

// excerpt renders body to Markdown, collapses whitespace and truncates.
func excerpt(body string) string {
	md, err := conv.ConvertString(body)
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(md), " ")
	if utf8.RuneCountInString(text) <= maxExcerptRunes {
		return text
	}
	return string([]rune(text)[:maxExcerptRunes]) + "…"
}
