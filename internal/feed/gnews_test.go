package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/onlydans/newsapi/internal/config"
)

func gnewsTestConfig(baseURL string) *config.Config {
	return &config.Config{
		GNewsBaseURL:   baseURL,
		GNewsAPIKey:    "test-key",
		UserAgent:      "newsapi-test/1.0",
		RequestTimeout: 5 * time.Second,
		Categories: map[string]config.CategoryConfig{
			"tech": {
				Endpoint: "top-headlines",
				Params:   "category=technology&lang=pt",
				TTL:      time.Hour,
			},
		},
	}
}

func TestGNewsFetchMapsArticles(t *testing.T) {
	var gotPath, gotUA string
	var gotQuery map[string][]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"totalArticles": 120,
			"articles": [
				{
					"id": "gn-1",
					"title": "Empresa lança produto",
					"description": "Detalhes do lançamento.",
					"url": "https://exemplo.com.br/1",
					"image": "https://img.exemplo.com.br/1.jpg",
					"publishedAt": "2024-01-02T10:00:00Z",
					"source": {"name": "Exemplo", "url": "https://exemplo.com.br"}
				},
				{
					"title": "Segunda notícia do dia",
					"url": "https://exemplo.com.br/2"
				}
			]
		}`))
	}))
	defer ts.Close()

	g := NewGNewsFetcher(gnewsTestConfig(ts.URL))
	raws, total, err := g.Fetch(context.Background(), "tech", 10)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if gotPath != "/top-headlines" {
		t.Errorf("path = %q, want /top-headlines", gotPath)
	}
	if gotUA != "newsapi-test/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	for key, want := range map[string]string{
		"category": "technology",
		"max":      "10",
		"apikey":   "test-key",
	} {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Errorf("query %s = %v, want %q", key, got, want)
		}
	}

	if total != 120 {
		t.Errorf("total = %d, want 120", total)
	}
	if len(raws) != 2 {
		t.Fatalf("len(raws) = %d, want 2", len(raws))
	}
	first := raws[0]
	if first.ID != "gn-1" || first.Title != "Empresa lança produto" ||
		first.Source.Name != "Exemplo" || first.Image != "https://img.exemplo.com.br/1.jpg" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if raws[1].ID != "" || raws[1].Source.Name != "" {
		t.Errorf("missing fields should stay empty: %+v", raws[1])
	}
}

func TestGNewsFetchEncodesQueryParams(t *testing.T) {
	var gotQ, gotSort, gotRawQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		gotSort = r.URL.Query().Get("sortby")
		gotRawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"totalArticles": 0, "articles": []}`))
	}))
	defer ts.Close()

	cfg := gnewsTestConfig(ts.URL)
	cfg.Categories["politics"] = config.CategoryConfig{
		Endpoint: "search",
		Params:   "q=política OR governo OR eleição&lang=pt&country=br&sortby=publishedAt",
		TTL:      time.Hour,
	}

	g := NewGNewsFetcher(cfg)
	if _, _, err := g.Fetch(context.Background(), "politics", 10); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if gotQ != "política OR governo OR eleição" {
		t.Errorf("q = %q, spaces and accents must survive the round trip", gotQ)
	}
	if gotSort != "publishedAt" {
		t.Errorf("sortby = %q", gotSort)
	}
	if strings.ContainsAny(gotRawQuery, " ãçí") {
		t.Errorf("raw query %q contains unencoded bytes", gotRawQuery)
	}
}

func TestGNewsFetchCapsMaxParam(t *testing.T) {
	var gotMax string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMax = r.URL.Query().Get("max")
		_, _ = w.Write([]byte(`{"totalArticles": 0, "articles": []}`))
	}))
	defer ts.Close()

	g := NewGNewsFetcher(gnewsTestConfig(ts.URL))
	if _, _, err := g.Fetch(context.Background(), "tech", 500); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if gotMax != "100" {
		t.Errorf("max = %q, want capped 100", gotMax)
	}
}

func TestGNewsFetchNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer ts.Close()

	g := NewGNewsFetcher(gnewsTestConfig(ts.URL))
	_, _, err := g.Fetch(context.Background(), "tech", 10)

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("want UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", ue.Status)
	}
}

func TestGNewsFetchApplicationError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors": ["API key invalid"]}`))
	}))
	defer ts.Close()

	g := NewGNewsFetcher(gnewsTestConfig(ts.URL))
	_, _, err := g.Fetch(context.Background(), "tech", 10)

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("want UpstreamError, got %v", err)
	}
}

func TestGNewsFetchMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"articles": [`))
	}))
	defer ts.Close()

	g := NewGNewsFetcher(gnewsTestConfig(ts.URL))
	_, _, err := g.Fetch(context.Background(), "tech", 10)

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("malformed JSON should yield UpstreamError, got %v", err)
	}
}

func TestGNewsFetchUnknownCategory(t *testing.T) {
	g := NewGNewsFetcher(gnewsTestConfig("http://127.0.0.1:0"))
	if _, _, err := g.Fetch(context.Background(), "nope", 10); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
