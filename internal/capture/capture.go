package capture

import (
	"context"
	"time"
)

// PageCapture is the record extracted from the active page before submission.
// ID doubles as the dedupe key and is always the page URL.
type PageCapture struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	SavedAt     time.Time `json:"saved_at"`
}

// TabInfo is the basic metadata the browser reports for a tab.
type TabInfo struct {
	TargetID string
	Title    string
	URL      string
}

// Meta is the best-effort result of scraping embedded page-description tags.
type Meta struct {
	Description string
	ImageURL    string
}

// MetadataScraper reads description/image hints out of a live page.
// Implementations may fail independently; a failure never aborts a capture.
type MetadataScraper interface {
	ScrapeMetadata(ctx context.Context, targetID string) (Meta, error)
}

// Build merges tab metadata with the scraper's best-effort result into a
// canonical capture. A scraper error degrades to an empty description and
// image rather than failing the capture.
func Build(ctx context.Context, tab TabInfo, scraper MetadataScraper) PageCapture {
	c := PageCapture{
		ID:      tab.URL,
		Title:   tab.Title,
		URL:     tab.URL,
		SavedAt: time.Now().UTC(),
	}
	if c.Title == "" {
		c.Title = "No Title"
	}

	if scraper != nil {
		meta, err := scraper.ScrapeMetadata(ctx, tab.TargetID)
		if err == nil {
			c.Description = meta.Description
			c.Image = meta.ImageURL
		}
	}

	return c
}
