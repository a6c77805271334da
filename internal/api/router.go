// Package api exposes the read-only HTTP contract consumed by the
// frontend. All normalization and caching lives below in internal/news;
// this layer only validates the query, applies the sort, and shapes the
// response.
package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onlydans/newsapi/internal/config"
	"github.com/onlydans/newsapi/internal/logger"
	"github.com/onlydans/newsapi/internal/metrics"
	"github.com/onlydans/newsapi/internal/news"
	"github.com/onlydans/newsapi/internal/usage"
)

const (
	sortRecent   = "recent"
	sortRelevant = "relevant"
)

type Server struct {
	svc     *news.Service
	tracker *usage.Tracker
	cfg     *config.Config
}

func NewServer(svc *news.Service, tracker *usage.Tracker, cfg *config.Config) *Server {
	return &Server{svc: svc, tracker: tracker, cfg: cfg}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(s.methodNotAllowed)

	r.GET("/health", s.health)
	r.GET("/metrics", s.metricsStats)

	r.GET("/api/news", s.getNews)
}

func (s *Server) getNews(c *gin.Context) {
	category := c.DefaultQuery("category", "home")
	if _, ok := s.cfg.Categories[category]; !ok {
		c.JSON(http.StatusBadRequest, s.failure("Categoria inválida"))
		return
	}

	limit := parseLimit(c.DefaultQuery("limit", ""))

	sortBy := c.DefaultQuery("sort", sortRecent)
	if sortBy != sortRecent && sortBy != sortRelevant {
		sortBy = sortRecent
	}

	res, err := s.svc.GetNews(c.Request.Context(), category, limit)
	if err != nil {
		if errors.Is(err, news.ErrUnknownCategory) {
			c.JSON(http.StatusBadRequest, s.failure("Categoria inválida"))
			return
		}
		logger.Error("news request failed", "category", category, "err", err)
		c.JSON(http.StatusInternalServerError, s.failure("Falha ao buscar notícias: "+err.Error()))
		return
	}

	articles := res.Articles
	switch sortBy {
	case sortRelevant:
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].Relevance > articles[j].Relevance
		})
	default:
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].Timestamp.After(articles[j].Timestamp)
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
		"total":    len(articles),
		// totalAvailable is the provider-reported pool size at fetch time,
		// which can exceed the served page.
		"totalAvailable": res.TotalAvailable,
		"data":           articles,
		"cached":         res.Cached,
		"fetchedAt":      time.Now().UTC().Format(time.RFC3339),
		"apiUsage":       s.tracker.String(),
	})
}

// parseLimit applies the boundary policy: non-numeric or non-positive input
// falls back to the default, anything above the cap is clamped. The clamp
// also keeps the cache key space finite.
func parseLimit(value string) int {
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return config.DefaultLimit
	}
	if limit > config.MaxLimit {
		return config.MaxLimit
	}
	return limit
}

func (s *Server) methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, s.failure("Método não permitido"))
}

func (s *Server) failure(msg string) gin.H {
	return gin.H{
		"success":   false,
		"error":     msg,
		"fetchedAt": time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *Server) health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if !metrics.Global.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	stats := metrics.Global.GetStats()
	c.JSON(code, gin.H{
		"status":     status,
		"last_fetch": stats["last_fetch_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Server) metricsStats(c *gin.Context) {
	stats := metrics.Global.GetStats()
	stats["api_usage"] = s.tracker.String()
	c.JSON(http.StatusOK, stats)
}
