package dict

import "strings"

const (
	partSep   = "，"
	senseSep  = "； "
	senseTail = "；"
)

// pronunciationPrefixes mark UK, US and pinyin pronunciation parts.
var pronunciationPrefixes = []string{"英", "美", "拼音"}

// Paraphrase is the parsed dictionary entry for a word or phrase.
type Paraphrase struct {
	Query          string   `json:"query"`
	Pronunciations []string `json:"pronunciations"`
	Genders        []string `json:"genders"`
}

// newParaphrase splits a trimmed paraphrase body into pronunciations and
// sense entries. Order is preserved inside each list.
func newParaphrase(query, body string) *Paraphrase {
	p := &Paraphrase{
		Query:          query,
		Pronunciations: []string{},
		Genders:        []string{},
	}

	for _, part := range strings.Split(body, partSep) {
		if isPronunciation(part) {
			p.Pronunciations = append(p.Pronunciations, part)
			continue
		}
		for _, gender := range strings.Split(part, senseSep) {
			p.Genders = append(p.Genders, strings.TrimRight(gender, senseTail))
		}
	}
	return p
}

func isPronunciation(part string) bool {
	for _, prefix := range pronunciationPrefixes {
		if strings.HasPrefix(part, prefix) {
			return true
		}
	}
	return false
}

// PronunciationsString joins the pronunciations with full-width commas.
func (p *Paraphrase) PronunciationsString() string {
	return strings.Join(p.Pronunciations, partSep)
}

// GendersString joins the sense entries, one per line.
func (p *Paraphrase) GendersString() string {
	return strings.Join(p.Genders, "\n")
}

// String renders the query line, an optional pronunciation line and the
// sense lines.
func (p *Paraphrase) String() string {
	var b strings.Builder
	b.WriteString(p.Query)
	b.WriteByte('\n')
	if len(p.Pronunciations) > 0 {
		b.WriteString(p.PronunciationsString())
		b.WriteByte('\n')
	}
	b.WriteString(p.GendersString())
	return b.String()
}
