package dict

import "errors"

var (
	// ErrPageLayout means the page has no <meta name="description"> tag,
	// which usually means the upstream layout changed or a challenge page
	// was served instead of the dictionary.
	ErrPageLayout = errors.New(`no <meta name="description" /> found in page`)

	// ErrDecode means the paraphrase body is not valid UTF-8.
	ErrDecode = errors.New("paraphrase body is not valid UTF-8")
)
