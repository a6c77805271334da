package news

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/onlydans/newsapi/internal/feed"
	"github.com/onlydans/newsapi/internal/sanitize"
)

const (
	summaryMaxRunes = 300
	summaryEllipsis = "..."
)

// publishedLayouts are tried in order against provider date strings. GNews
// emits RFC3339; RSS pubDate is usually RFC1123 with or without a numeric
// zone.
var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05",
}

// Normalizer maps raw provider records into canonical Articles. Per-record
// anomalies never fail the record: missing or malformed fields degrade to
// placeholders or to the fetch time.
type Normalizer struct {
	scorer *Scorer
	now    func() time.Time
}

func NewNormalizer(scorer *Scorer) *Normalizer {
	return &Normalizer{
		scorer: scorer,
		now:    time.Now,
	}
}

// Normalize produces the canonical Article for one raw record. index is the
// record's position in the fetch batch and becomes the id when the provider
// did not supply one.
func (n *Normalizer) Normalize(raw feed.RawArticle, index int) Article {
	title := sanitize.Clean(raw.Title)

	summary := sanitize.Clean(raw.Description)
	if r := []rune(summary); len(r) > summaryMaxRunes {
		summary = string(r[:summaryMaxRunes]) + summaryEllipsis
	}
	// Score before the placeholder goes in: placeholder words are display
	// text, not signal, and must not match the lexicon.
	relevance := n.scorer.Score(title, summary)
	if summary == "" {
		summary = SummaryUnavailable
	}

	// Source name resolution: explicit name, then the article hostname,
	// then the placeholder.
	source := raw.Source.Name
	if source == "" {
		source = domainOf(raw.URL)
	}
	if source == "" {
		source = SourceUnknown
	}

	sourceURL := raw.Source.URL
	if sourceURL == "" {
		sourceURL = raw.URL
	}

	published := n.now()
	if raw.PublishedAt != "" {
		if t, ok := parsePublished(raw.PublishedAt); ok {
			published = t
		}
	}

	id := raw.ID
	if id == "" {
		id = strconv.Itoa(index + 1)
	}

	var image *string
	if raw.Image != "" {
		img := raw.Image
		image = &img
	}
	var author *string
	if raw.Author != "" {
		au := raw.Author
		author = &au
	}

	return Article{
		ID:          id,
		Title:       title,
		Summary:     summary,
		URL:         raw.URL,
		Source:      source,
		SourceURL:   sourceURL,
		PublishedAt: published.UTC().Format(time.RFC3339),
		Relevance:   relevance,
		ImageURL:    image,
		Author:      author,
		OriginalID:  raw.ID,
		Timestamp:   published,
	}
}

func parsePublished(value string) (time.Time, bool) {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// domainOf extracts the hostname of an article URL, minus a leading "www.",
// for use as a fallback source name.
func domainOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
