// File: internal/listing/service.go
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"realty_bureau_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for plot-related business logic.
type Service interface {
	CreateListing(ctx context.Context, req CreateListingRequest) (*Listing, error)
	GetListing(ctx context.Context, idOrSlug string) (*Listing, error)
	UpdateListing(ctx context.Context, id uuid.UUID, req UpdateListingRequest) (*Listing, error)
	DeleteListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	ApproveListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	SearchListings(ctx context.Context, query Query) ([]Listing, *common.Pagination, error)
	ListingExists(ctx context.Context, id uuid.UUID) (bool, error)

	// SyncSearchIndex pushes every plot to the search mirror in batches.
	SyncSearchIndex(ctx context.Context, batchSize int) (int, error)
}

// ServiceImplementation implements the listing Service interface.
type ServiceImplementation struct {
	repo    Repository
	slugs   *SlugAssigner
	indexer SearchIndexer
	logger  *zap.Logger
}

// NewService creates a new listing service.
func NewService(repo Repository, indexer SearchIndexer, logger *zap.Logger) Service {
	if indexer == nil {
		indexer = NoopIndexer{}
	}
	return &ServiceImplementation{
		repo:    repo,
		slugs:   NewSlugAssigner(repo),
		indexer: indexer,
		logger:  logger,
	}
}

// CreateListing validates req, assigns a slug and stores the plot.
func (s *ServiceImplementation) CreateListing(ctx context.Context, req CreateListingRequest) (*Listing, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	listing := req.ToListing()
	listing.ID = uuid.New()

	slug, err := s.slugs.Assign(ctx, listing.Title, listing.ID)
	if err != nil {
		if _, ok := common.IsAPIError(err); !ok {
			s.logger.Error("Failed to assign slug", zap.String("title", listing.Title), zap.Error(err))
		}
		return nil, err
	}
	listing.Slug = slug

	err = s.repo.Create(ctx, listing)
	if errors.Is(err, ErrDuplicateSlug) {
		// A concurrent create took the slug between the check and the insert.
		if listing.Slug, err = s.slugs.Disambiguate(listing.Title); err == nil {
			s.logger.Info("Slug taken concurrently, retrying with suffix", zap.String("slug", slug), zap.String("retry", listing.Slug))
			err = s.repo.Create(ctx, listing)
		}
	}
	if err != nil {
		s.logger.Error("Failed to create plot", zap.String("slug", listing.Slug), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Plot created", zap.String("plotID", listing.ID.String()), zap.String("slug", listing.Slug))

	s.mirror(ctx, listing)
	return listing, nil
}

// GetListing resolves an identifier or a slug. A well-formed identifier is
// tried first and a miss falls through to the slug lookup.
func (s *ServiceImplementation) GetListing(ctx context.Context, idOrSlug string) (*Listing, error) {
	key := strings.TrimSpace(idOrSlug)
	if key == "" {
		return nil, notFound()
	}
	if id, err := uuid.Parse(key); err == nil {
		listing, err := s.repo.FindByID(ctx, id)
		if err == nil {
			return listing, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}
	return s.repo.FindBySlug(ctx, strings.ToLower(key))
}

// UpdateListing validates the whole patch before touching the store, then
// writes the changed columns.
func (s *ServiceImplementation) UpdateListing(ctx context.Context, id uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return listing, nil
	}

	columns := req.ApplyTo(listing)
	updated, err := s.repo.UpdateFields(ctx, listing, columns)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("Failed to update plot", zap.String("plotID", id.String()), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("Plot updated", zap.String("plotID", id.String()), zap.Strings("fields", columns))

	s.mirror(ctx, updated)
	return updated, nil
}

// DeleteListing hard-deletes a plot. Wishlist entries pointing at it are
// left in place and filtered on read.
func (s *ServiceImplementation) DeleteListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	listing, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Plot deleted", zap.String("plotID", id.String()), zap.String("slug", listing.Slug))

	if err := s.indexer.Remove(ctx, id); err != nil {
		s.logger.Warn("Failed to remove plot from search index", zap.String("plotID", id.String()), zap.Error(err))
	}
	return listing, nil
}

// ApproveListing publishes a plot. Approving twice is a no-op.
func (s *ServiceImplementation) ApproveListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	listing, err := s.repo.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Plot approved", zap.String("plotID", id.String()))

	s.mirror(ctx, listing)
	return listing, nil
}

// SearchListings returns one page of plots matching query.
func (s *ServiceImplementation) SearchListings(ctx context.Context, query Query) ([]Listing, *common.Pagination, error) {
	if query.Page < 1 || query.Limit < 1 || query.Limit > common.MaxLimit {
		query.PaginationQuery = common.NewPaginationQuery(fmt.Sprint(query.Page), fmt.Sprint(query.Limit))
	}

	listings, total, err := s.repo.Search(ctx, query)
	if err != nil {
		s.logger.Error("Failed to search plots", zap.Error(err))
		return nil, nil, err
	}
	return listings, common.NewPagination(total, query.Page, query.Limit), nil
}

func (s *ServiceImplementation) ListingExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// SyncSearchIndex walks the store in batches and bulk indexes each batch.
func (s *ServiceImplementation) SyncSearchIndex(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	synced := 0
	for offset := 0; ; offset += batchSize {
		batch, err := s.repo.FindBatch(ctx, offset, batchSize)
		if err != nil {
			return synced, fmt.Errorf("failed to fetch plots at offset %d: %w", offset, err)
		}
		if len(batch) == 0 {
			break
		}
		n, err := s.indexer.Bulk(ctx, batch)
		synced += n
		if err != nil {
			return synced, fmt.Errorf("failed to index plots at offset %d: %w", offset, err)
		}
		s.logger.Debug("Indexed plot batch", zap.Int("offset", offset), zap.Int("count", n))
		if len(batch) < batchSize {
			break
		}
	}
	return synced, nil
}

// mirror pushes l to the search index. Failures are logged only.
func (s *ServiceImplementation) mirror(ctx context.Context, l *Listing) {
	if err := s.indexer.Index(ctx, l); err != nil {
		s.logger.Warn("Failed to index plot", zap.String("plotID", l.ID.String()), zap.Error(err))
	}
}
