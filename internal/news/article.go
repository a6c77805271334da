// Package news holds the canonical article model and the pipeline that
// produces it: normalization of raw provider records, relevance scoring,
// and the cached orchestration the HTTP layer calls into.
package news

import "time"

// Placeholders substituted when the provider omits a field. Kept in
// Portuguese: the upstream queries and the consuming frontend are pt-BR.
const (
	SummaryUnavailable = "Resumo não disponível."
	SourceUnknown      = "Fonte Desconhecida"
)

// Article is the canonical, sanitized record served to consumers.
// Timestamp carries the parsed publication instant for sorting only and is
// never serialized.
type Article struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	SourceURL   string  `json:"sourceUrl"`
	PublishedAt string  `json:"publishedAt"`
	Relevance   int     `json:"relevance"`
	ImageURL    *string `json:"imageUrl"`
	Author      *string `json:"author"`
	OriginalID  string  `json:"originalId,omitempty"`

	Timestamp time.Time `json:"-"`
}

// minTitleRunes is the surfacing cutoff: a record whose cleaned title is
// this short is a fragment (truncated markup, bare publisher name) and gets
// dropped rather than served.
const minTitleRunes = 10

// ValidTitle reports whether the article passes the title-length filter.
// Normalization never rejects a record itself; this predicate is applied by
// the service after normalizing a batch.
func ValidTitle(a Article) bool {
	return len([]rune(a.Title)) > minTitleRunes
}
