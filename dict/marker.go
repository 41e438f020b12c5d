package dict

import "strings"

// Marker is the boilerplate Bing wraps around a genuine result:
//
//	<Lead><escaped query><Tail><paraphrase body>
//
// e.g. "必应词典为您提供dictionary的释义，美[ˈdɪkʃəˌneri]，…".
type Marker struct {
	Lead string
	Tail string
}

// DefaultMarker matches the zh-CN page layout.
var DefaultMarker = Marker{
	Lead: "必应词典为您提供",
	Tail: "的释义，",
}

// Len is the number of boilerplate bytes surrounding the escaped query.
func (m Marker) Len() int {
	return len(m.Lead) + len(m.Tail)
}

// Offset returns the byte offset at which the paraphrase body starts for query.
func (m Marker) Offset(query string) int {
	return len(escapeText(query)) + m.Len()
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeText applies text-node escaping, which is how Bing echoes the
// query back into the description. Quotes are left alone.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}
