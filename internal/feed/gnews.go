package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/onlydans/newsapi/internal/config"
	"github.com/onlydans/newsapi/internal/logger"
)

// gnewsMax is the hard per-request cap of the GNews API.
const gnewsMax = 100

type gnewsArticle struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`

	// GNews signals application-level failures inside a 200 body.
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

// GNewsFetcher queries the GNews JSON API with the per-category endpoint
// and query params from configuration.
type GNewsFetcher struct {
	baseURL    string
	apiKey     string
	userAgent  string
	categories map[string]config.CategoryConfig
	client     *http.Client
}

func NewGNewsFetcher(cfg *config.Config) *GNewsFetcher {
	return &GNewsFetcher{
		baseURL:    cfg.GNewsBaseURL,
		apiKey:     cfg.GNewsAPIKey,
		userAgent:  cfg.UserAgent,
		categories: cfg.Categories,
		client:     &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func (g *GNewsFetcher) Name() string { return "gnews" }

func (g *GNewsFetcher) Fetch(ctx context.Context, category string, limit int) ([]RawArticle, int, error) {
	qc, ok := g.categories[category]
	if !ok {
		return nil, 0, fmt.Errorf("unknown category %q", category)
	}

	max := limit
	if max > gnewsMax {
		max = gnewsMax
	}

	// Params come from configuration as a readable query string; search
	// categories carry spaces and accented words, so they must go through
	// url.Values to be encoded onto the wire.
	values, err := url.ParseQuery(qc.Params)
	if err != nil {
		return nil, 0, fmt.Errorf("parse params for category %q: %w", category, err)
	}
	values.Set("max", strconv.Itoa(max))
	values.Set("apikey", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/"+qc.Endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.URL.RawQuery = values.Encode()
	req.Header.Set("User-Agent", g.userAgent)

	logger.Debug("fetching from gnews", "category", category, "endpoint", qc.Endpoint, "max", max)
	start := time.Now()

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, &UpstreamError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var out gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, 0, &UpstreamError{Message: "decode response: " + err.Error()}
	}
	if out.Error != "" {
		return nil, 0, &UpstreamError{Message: out.Error}
	}
	if len(out.Errors) > 0 {
		return nil, 0, &UpstreamError{Message: strings.Join(out.Errors, "; ")}
	}

	raws := make([]RawArticle, 0, len(out.Articles))
	for _, a := range out.Articles {
		raws = append(raws, RawArticle{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Image:       a.Image,
			PublishedAt: a.PublishedAt,
			Source:      Source{Name: a.Source.Name, URL: a.Source.URL},
		})
	}

	logger.Debug("gnews fetch done", "category", category,
		"articles", len(raws), "total", out.TotalArticles, "took", time.Since(start))
	return raws, out.TotalArticles, nil
}
