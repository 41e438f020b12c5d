package dict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadPage(t *testing.T, name string) []byte {
	t.Helper()
	page, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return page
}

func TestExtractDescription(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "self closing",
			page: `<html><head><meta name="description" content="必应词典为您提供" /></head></html>`,
			want: "必应词典为您提供",
		},
		{
			name: "attributes reversed",
			page: `<html><head><meta content="hello world" name="description"></head></html>`,
			want: "hello world",
		},
		{
			name: "upper case tag",
			page: `<HTML><HEAD><META NAME="description" CONTENT="shout" /></HEAD></HTML>`,
			want: "shout",
		},
		{
			name: "entities are kept raw",
			page: `<meta name="description" content="必应词典为您提供R&amp;D的释义，n. 研发；" />`,
			want: "必应词典为您提供R&amp;D的释义，n. 研发；",
		},
		{
			name: "other meta tags skipped",
			page: `<meta name="keywords" content="no" /><meta charset="utf-8"><meta name="description" content="yes" />`,
			want: "yes",
		},
		{
			name: "single quoted",
			page: `<meta name='description' content='必应词典为您提供"quoted"的释义，n. 引用' />`,
			want: `必应词典为您提供"quoted"的释义，n. 引用`,
		},
		{
			name: "unquoted",
			page: `<meta name=description content=bare>`,
			want: "bare",
		},
		{
			name: "no space between attributes",
			page: `<meta name="description"content="tight"/>`,
			want: "tight",
		},
		{
			name: "spaces around equals",
			page: "<meta name=\"description\"\n\tcontent = \"loose\" >",
			want: "loose",
		},
		{
			name: "attribute ending in content is not content",
			page: `<meta data-content="wrong" name="description" content="right">`,
			want: "right",
		},
		{
			name: "empty content",
			page: `<meta name="description" content="" />`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDescription([]byte(tt.page))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestExtractDescription_Fixture(t *testing.T) {
	got, err := ExtractDescription(loadPage(t, "cidian.html"))
	require.NoError(t, err)
	assert.Equal(t,
		"必应词典为您提供词典的释义，拼音[cí diǎn]，na. dictionary; lexicon； 网络释义： Thesaurus; Dictionaries; Word dictionary；",
		string(got),
	)
}

func TestExtractDescription_Missing(t *testing.T) {
	pages := map[string][]byte{
		"challenge":      loadPage(t, "challenge.html"),
		"empty":          nil,
		"not html":       []byte("{\"error\": \"rate limited\"}"),
		"in script only": []byte(`<script>'<meta name="description" content="x" />'</script>`),
		"no content":     []byte(`<meta name="description" />`),
	}

	for name, page := range pages {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractDescription(page)
			assert.ErrorIs(t, err, ErrPageLayout)
			assert.False(t, HasDescription(page))
		})
	}
}

func TestHasDescription(t *testing.T) {
	assert.True(t, HasDescription(loadPage(t, "dictionary.html")))
	assert.True(t, HasDescription(loadPage(t, "no_result.html")))
}
