// Package feed talks to the upstream news provider. Two interchangeable
// backends exist: the GNews JSON API and plain RSS feeds. Both flatten
// provider records into RawArticle before anything downstream sees them.
package feed

import (
	"context"
	"fmt"
)

// Source is the publisher block a provider attaches to a record.
type Source struct {
	Name string
	URL  string
}

// RawArticle is the provider-shaped record handed to normalization. Fields
// are raw: no sanitization or defaulting has happened yet, and any of them
// may be empty depending on the provider.
type RawArticle struct {
	ID          string
	Title       string
	Description string
	URL         string
	Source      Source
	PublishedAt string
	Image       string
	Author      string
}

// Fetcher is one upstream backend. Fetch returns the raw records for a
// category plus the provider-reported total when it gives one (0 when it
// does not). The returned slice is never nil.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, category string, limit int) ([]RawArticle, int, error)
}

// UpstreamError reports a failed provider call: transport failure, non-2xx
// status, an unparseable body, or an application-level error field inside
// an otherwise successful response.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream HTTP %d: %s", e.Status, e.Message)
	}
	return "upstream: " + e.Message
}
