package listing

import (
	"context"

	"github.com/google/uuid"
)

// SearchIndexer mirrors plots into a secondary search store. The relational
// store stays authoritative; callers log indexer errors and carry on.
type SearchIndexer interface {
	Index(ctx context.Context, l *Listing) error
	Remove(ctx context.Context, id uuid.UUID) error
	Bulk(ctx context.Context, listings []Listing) (int, error)
}

// NoopIndexer is used when no search backend is configured.
type NoopIndexer struct{}

func (NoopIndexer) Index(context.Context, *Listing) error  { return nil }
func (NoopIndexer) Remove(context.Context, uuid.UUID) error { return nil }
func (NoopIndexer) Bulk(_ context.Context, listings []Listing) (int, error) {
	return len(listings), nil
}
