package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onlydans/newsapi/internal/cache"
	"github.com/onlydans/newsapi/internal/config"
	"github.com/onlydans/newsapi/internal/feed"
	"github.com/onlydans/newsapi/internal/logger"
	"github.com/onlydans/newsapi/internal/metrics"
	"github.com/onlydans/newsapi/internal/usage"
)

// ErrUnknownCategory marks requests for a category that is not configured.
// The HTTP layer maps it to a 400 without touching cache or upstream.
var ErrUnknownCategory = errors.New("unknown category")

// Result is one answer from the service: the surfaced articles plus the
// cache metadata the HTTP layer reports back.
type Result struct {
	Articles       []Article
	TotalAvailable int
	// Cached is true when the response was served from the cache, either
	// a fresh hit or a stale entry kept after an upstream failure.
	Cached    bool
	FetchedAt time.Time
}

// Service runs the pipeline per request: cache lookup, then on miss or
// expiry one upstream fetch, normalization, the title filter, and an atomic
// snapshot replace of the cache entry. On upstream failure it serves the
// last cached snapshot for the key if one exists.
type Service struct {
	fetcher    feed.Fetcher
	normalizer *Normalizer
	store      *cache.Store[[]Article]
	tracker    *usage.Tracker
	categories map[string]config.CategoryConfig
}

func NewService(fetcher feed.Fetcher, normalizer *Normalizer, tracker *usage.Tracker, categories map[string]config.CategoryConfig) *Service {
	return &Service{
		fetcher:    fetcher,
		normalizer: normalizer,
		store:      cache.New[[]Article](),
		tracker:    tracker,
		categories: categories,
	}
}

// GetNews returns up to limit normalized articles for the category. The
// caller is responsible for clamping limit; the service treats the pair
// (category, limit) as the cache identity.
func (s *Service) GetNews(ctx context.Context, category string, limit int) (*Result, error) {
	qc, ok := s.categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	key := cache.Key(category, limit)
	entry, exists := s.store.Get(key)
	if exists && s.store.Fresh(entry, qc.TTL) {
		logger.Debug("cache hit", "category", category, "limit", limit)
		metrics.Global.IncrementCacheHits()
		return resultFrom(entry, true), nil
	}
	metrics.Global.IncrementCacheMisses()

	count, warn := s.tracker.Track()
	metrics.Global.IncrementFetches()
	if warn {
		logger.Warn("high upstream request volume today", "count", count)
	}

	raw, total, err := s.fetcher.Fetch(ctx, category, limit)
	if err != nil {
		metrics.Global.SetError(err.Error())
		logger.Error("upstream fetch failed", "category", category, "err", err)
		if exists {
			// Stale-serve: availability beats freshness when the
			// provider is down.
			metrics.Global.IncrementStaleServed()
			logger.Warn("serving stale cache after fetch failure",
				"category", category, "age", time.Since(entry.FetchedAt))
			return resultFrom(entry, true), nil
		}
		return nil, fmt.Errorf("fetch news for %q: %w", category, err)
	}

	if len(raw) > limit {
		raw = raw[:limit]
	}

	articles := make([]Article, 0, len(raw))
	dropped := 0
	for i, r := range raw {
		a := s.normalizer.Normalize(r, i)
		if !ValidTitle(a) {
			dropped++
			continue
		}
		articles = append(articles, a)
	}
	if dropped > 0 {
		metrics.Global.AddArticlesDropped(dropped)
		logger.Debug("dropped short-title articles", "category", category, "dropped", dropped)
	}
	if total == 0 {
		total = len(articles)
	}

	entry = s.store.Put(key, articles, total)
	metrics.Global.SetFetchOK()
	logger.Info("news fetched", "category", category,
		"articles", len(articles), "total", total, "requests_today", count)

	return resultFrom(entry, false), nil
}

// resultFrom copies the entry's article slice so callers can reorder their
// view freely: cache entries are immutable snapshots.
func resultFrom(entry cache.Entry[[]Article], cached bool) *Result {
	articles := make([]Article, len(entry.Data))
	copy(articles, entry.Data)
	return &Result{
		Articles:       articles,
		TotalAvailable: entry.Total,
		Cached:         cached,
		FetchedAt:      entry.FetchedAt,
	}
}

// Reset clears the cache and the usage counter. Intended for tests and
// operational resets.
func (s *Service) Reset() {
	s.store.Reset()
	s.tracker.Reset()
}
