package feed

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/onlydans/newsapi/internal/config"
	"github.com/onlydans/newsapi/internal/logger"
)

// RSSFetcher reads the per-category feed URLs from configuration. A feed
// that fails to download or parse is logged and skipped; the fetch as a
// whole only fails when no feed produced any item.
type RSSFetcher struct {
	categories map[string]config.CategoryConfig
	parser     *gofeed.Parser
}

func NewRSSFetcher(cfg *config.Config) *RSSFetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = cfg.UserAgent
	parser.Client = &http.Client{Timeout: cfg.RequestTimeout}
	return &RSSFetcher{
		categories: cfg.Categories,
		parser:     parser,
	}
}

func (r *RSSFetcher) Name() string { return "rss" }

func (r *RSSFetcher) Fetch(ctx context.Context, category string, limit int) ([]RawArticle, int, error) {
	qc, ok := r.categories[category]
	if !ok {
		return nil, 0, &UpstreamError{Message: "unknown category " + category}
	}
	if len(qc.Feeds) == 0 {
		return nil, 0, &UpstreamError{Message: "no feeds configured for category " + category}
	}

	// Always hand back a real slice: a feed with a single item, or none at
	// all, must look the same to the caller as any other list.
	items := make([]RawArticle, 0, limit)
	var lastErr error
	failed := 0

	for _, feedURL := range qc.Feeds {
		parsed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			logger.Error("rss feed failed", "url", feedURL, "err", err)
			lastErr = err
			failed++
			continue
		}
		for _, item := range parsed.Items {
			items = append(items, r.toRaw(item, parsed))
		}
		logger.Debug("rss feed loaded", "url", feedURL, "items", len(parsed.Items))
	}

	if failed == len(qc.Feeds) && len(items) == 0 {
		return nil, 0, &UpstreamError{Message: "all feeds failed: " + lastErr.Error()}
	}
	return items, len(items), nil
}

func (r *RSSFetcher) toRaw(item *gofeed.Item, parent *gofeed.Feed) RawArticle {
	published := item.Published
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.Format(time.RFC3339)
	}

	var author string
	if item.Author != nil {
		author = item.Author.Name
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		author = item.Authors[0].Name
	}

	return RawArticle{
		ID:          item.GUID,
		Title:       item.Title,
		Description: item.Description,
		URL:         item.Link,
		Source:      Source{Name: parent.Title, URL: parent.Link},
		PublishedAt: published,
		Image:       itemImage(item),
		Author:      author,
	}
}

// itemImage resolves an illustration for an RSS item: the item image block,
// then an image enclosure, then the first <img> inside the description
// markup. RSS has no dedicated image field the way the JSON API does.
func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return imageFromHTML(item.Description)
}

func imageFromHTML(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src
}
