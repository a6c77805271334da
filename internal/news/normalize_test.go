package news

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlydans/newsapi/internal/feed"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(testScorer())
}

func TestNormalizeBasicRecord(t *testing.T) {
	n := testNormalizer()
	raw := feed.RawArticle{
		ID:          "abc-1",
		Title:       "Governo anuncia novo pacote econômico",
		Description: "Medidas valem a partir do próximo mês.",
		URL:         "https://www.exemplo.com.br/noticia/1",
		Source:      feed.Source{Name: "Exemplo", URL: "https://exemplo.com.br"},
		PublishedAt: "2024-01-02T10:30:00Z",
		Image:       "https://img.exemplo.com.br/1.jpg",
		Author:      "Maria Silva",
	}

	a := n.Normalize(raw, 0)

	assert.Equal(t, "abc-1", a.ID)
	assert.Equal(t, "abc-1", a.OriginalID)
	assert.Equal(t, "Governo anuncia novo pacote econômico", a.Title)
	assert.Equal(t, "Medidas valem a partir do próximo mês.", a.Summary)
	assert.Equal(t, "Exemplo", a.Source)
	assert.Equal(t, "https://exemplo.com.br", a.SourceURL)
	assert.Equal(t, "2024-01-02T10:30:00Z", a.PublishedAt)
	require.NotNil(t, a.ImageURL)
	assert.Equal(t, "https://img.exemplo.com.br/1.jpg", *a.ImageURL)
	require.NotNil(t, a.Author)
	assert.Equal(t, "Maria Silva", *a.Author)
	assert.GreaterOrEqual(t, a.Relevance, 1)
	assert.LessOrEqual(t, a.Relevance, 100)
}

func TestNormalizeSummaryTruncation(t *testing.T) {
	n := testNormalizer()

	short := strings.Repeat("a", 299)
	a := n.Normalize(feed.RawArticle{Title: "Título longo o bastante", Description: short}, 0)
	assert.Equal(t, short, a.Summary, "short summary must pass through without a marker")

	exact := strings.Repeat("b", 300)
	a = n.Normalize(feed.RawArticle{Title: "Título longo o bastante", Description: exact}, 0)
	assert.Equal(t, exact, a.Summary)

	long := strings.Repeat("c", 301)
	a = n.Normalize(feed.RawArticle{Title: "Título longo o bastante", Description: long}, 0)
	require.Len(t, []rune(a.Summary), 303)
	assert.Equal(t, strings.Repeat("c", 300)+"...", a.Summary)
}

func TestNormalizeSummaryPlaceholder(t *testing.T) {
	n := testNormalizer()
	a := n.Normalize(feed.RawArticle{Title: "Título longo o bastante"}, 0)
	assert.Equal(t, SummaryUnavailable, a.Summary)
}

func TestNormalizePlaceholderDoesNotScore(t *testing.T) {
	// A lexicon that happens to contain a placeholder word must not match
	// against the substituted placeholder text.
	n := NewNormalizer(NewScorer([]string{"resumo", "disponível"}, nil, nil))
	a := n.Normalize(feed.RawArticle{Title: "Título longo o bastante"}, 0)
	assert.Equal(t, SummaryUnavailable, a.Summary)
	assert.Equal(t, 50, a.Relevance, "an empty summary must score the base only")
}

func TestNormalizeSourceResolution(t *testing.T) {
	n := testNormalizer()

	// Explicit name wins.
	a := n.Normalize(feed.RawArticle{
		Title:  "Título longo o bastante",
		URL:    "https://www.exemplo.com.br/x",
		Source: feed.Source{Name: "Portal Exemplo"},
	}, 0)
	assert.Equal(t, "Portal Exemplo", a.Source)

	// Hostname fallback strips www.
	a = n.Normalize(feed.RawArticle{
		Title: "Título longo o bastante",
		URL:   "https://www.exemplo.com.br/x",
	}, 0)
	assert.Equal(t, "exemplo.com.br", a.Source)

	// Placeholder when nothing is known.
	a = n.Normalize(feed.RawArticle{Title: "Título longo o bastante"}, 0)
	assert.Equal(t, SourceUnknown, a.Source)
}

func TestNormalizeSourceURLFallsBackToArticleURL(t *testing.T) {
	n := testNormalizer()
	a := n.Normalize(feed.RawArticle{
		Title: "Título longo o bastante",
		URL:   "https://exemplo.com.br/x",
	}, 0)
	assert.Equal(t, "https://exemplo.com.br/x", a.SourceURL)
}

func TestNormalizeTimestampFallback(t *testing.T) {
	n := testNormalizer()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	for _, published := range []string{"", "not a date", "32/13/2024"} {
		a := n.Normalize(feed.RawArticle{Title: "Título longo o bastante", PublishedAt: published}, 0)
		assert.Equal(t, fixed, a.Timestamp, "PublishedAt %q should fall back to now", published)
		assert.Equal(t, "2024-05-01T12:00:00Z", a.PublishedAt)
	}
}

func TestNormalizeParsesRSSDates(t *testing.T) {
	n := testNormalizer()
	a := n.Normalize(feed.RawArticle{
		Title:       "Título longo o bastante",
		PublishedAt: "Tue, 02 Jan 2024 10:00:00 -0300",
	}, 0)
	assert.Equal(t, "2024-01-02T13:00:00Z", a.PublishedAt)
}

func TestNormalizeIDFallsBackToIndex(t *testing.T) {
	n := testNormalizer()
	a := n.Normalize(feed.RawArticle{Title: "Título longo o bastante"}, 4)
	assert.Equal(t, "5", a.ID)
	assert.Empty(t, a.OriginalID)
	assert.Nil(t, a.ImageURL)
	assert.Nil(t, a.Author)
}

func TestNormalizeSanitizesFields(t *testing.T) {
	n := testNormalizer()
	a := n.Normalize(feed.RawArticle{
		Title:       "<b>Mercado</b> reage &amp; dispara",
		Description: "<![CDATA[<p>Resumo com <i>markup</i></p>]]>",
	}, 0)
	assert.Equal(t, "Mercado reage & dispara", a.Title)
	assert.Equal(t, "Resumo com markup", a.Summary)
}

func TestNormalizeIdempotentWithDate(t *testing.T) {
	n := testNormalizer()
	raw := feed.RawArticle{
		ID:          "x",
		Title:       "Governo anuncia novo pacote econômico",
		Description: "Resumo estável.",
		URL:         "https://exemplo.com.br/1",
		PublishedAt: "2024-01-02T10:30:00Z",
	}
	first := n.Normalize(raw, 0)
	second := n.Normalize(raw, 0)
	assert.Equal(t, first, second)
}
