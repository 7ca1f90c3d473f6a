package storage

import "time"

// Run records one completed scrape dispatch: what was fetched and how the
// extracted URLs broke down per category after filtering.
type Run struct {
	ID        int64
	URL       string
	FetchedAt time.Time
	BodyBytes int
	Extracted int
	Matched   int

	// Per-category counts of matched URLs.
	Scripts   int
	Media     int
	API       int
	Documents int
	HTML      int
	Other     int
}
