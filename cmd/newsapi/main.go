package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/onlydans/newsapi/internal/api"
	"github.com/onlydans/newsapi/internal/config"
	"github.com/onlydans/newsapi/internal/feed"
	"github.com/onlydans/newsapi/internal/logger"
	"github.com/onlydans/newsapi/internal/news"
	"github.com/onlydans/newsapi/internal/usage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.Init(cfg.Debug)

	var fetcher feed.Fetcher
	switch cfg.Backend {
	case config.BackendRSS:
		fetcher = feed.NewRSSFetcher(cfg)
	default:
		fetcher = feed.NewGNewsFetcher(cfg)
	}

	scorer := news.NewScorer(cfg.Keywords.High, cfg.Keywords.Medium, cfg.Keywords.Low)
	tracker := usage.NewTracker(cfg.DailyRequestWarn)
	svc := news.NewService(fetcher, news.NewNormalizer(scorer), tracker, cfg.Categories)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	api.NewServer(svc, tracker, cfg).RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	logger.Info("starting news api", "addr", addr, "backend", fetcher.Name(), "categories", len(cfg.Categories))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
