package dict

import (
	"bytes"

	"golang.org/x/net/html"
)

// ExtractDescription returns the raw content of the page's
// <meta name="description"> tag. The bytes are returned exactly as they
// appear in the page: entities are not decoded, because the parser's
// boilerplate offset is measured against the escaped form.
func ExtractDescription(page []byte) ([]byte, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(page))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return nil, ErrPageLayout
		case html.StartTagToken, html.SelfClosingTagToken:
			// Raw must be copied before TagName/TagAttr, which rewrite
			// the tokenizer buffer in place.
			raw := append([]byte(nil), tokenizer.Raw()...)

			name, hasAttr := tokenizer.TagName()
			if !hasAttr || string(name) != "meta" {
				continue
			}
			if !isDescriptionMeta(tokenizer) {
				continue
			}

			content, ok := rawAttr(raw, "content")
			if !ok {
				return nil, ErrPageLayout
			}
			return content, nil
		}
	}
}

// HasDescription reports whether page carries a description meta tag.
func HasDescription(page []byte) bool {
	_, err := ExtractDescription(page)
	return err == nil
}

func isDescriptionMeta(tokenizer *html.Tokenizer) bool {
	for {
		key, val, more := tokenizer.TagAttr()
		if string(key) == "name" && string(bytes.ToLower(val)) == "description" {
			return true
		}
		if !more {
			return false
		}
	}
}

// rawAttr returns the undecoded value of attribute name in the raw start tag.
// It follows the tokenizer's attribute rules: names are case-insensitive,
// values may be double-quoted, single-quoted or unquoted, and whitespace
// between attributes is optional after a quoted value.
func rawAttr(tag []byte, name string) ([]byte, bool) {
	i := bytes.IndexAny(tag, " \t\n\f\r/>")
	if i < 0 {
		return nil, false
	}
	for i < len(tag) {
		for i < len(tag) && (isTagSpace(tag[i]) || tag[i] == '/') {
			i++
		}
		if i >= len(tag) || tag[i] == '>' {
			return nil, false
		}

		start := i
		for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '=' && tag[i] != '>' && tag[i] != '/' {
			i++
		}
		key := tag[start:i]

		for i < len(tag) && isTagSpace(tag[i]) {
			i++
		}
		var val []byte
		if i < len(tag) && tag[i] == '=' {
			i++
			for i < len(tag) && isTagSpace(tag[i]) {
				i++
			}
			val, i = attrValue(tag, i)
		}

		if len(key) > 0 && bytes.EqualFold(key, []byte(name)) {
			return val, true
		}
	}
	return nil, false
}

// attrValue reads a value starting at tag[i] and returns it with the index
// just past it.
func attrValue(tag []byte, i int) ([]byte, int) {
	if i >= len(tag) {
		return nil, i
	}
	if q := tag[i]; q == '"' || q == '\'' {
		end := bytes.IndexByte(tag[i+1:], q)
		if end < 0 {
			return tag[i+1:], len(tag)
		}
		return tag[i+1 : i+1+end], i + 2 + end
	}
	start := i
	for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '>' {
		i++
	}
	return tag[start:i], i
}

func isTagSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}
