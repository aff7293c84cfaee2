// File: internal/wishlist/service.go
package wishlist

import (
	"context"

	"realty_bureau_backend/internal/common"
	"realty_bureau_backend/internal/listing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingChecker reports whether a plot exists. listing.Service satisfies it.
type ListingChecker interface {
	ListingExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service defines the interface for wishlist business logic.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListPlots(ctx context.Context, userID uuid.UUID) ([]listing.Listing, error)
	Contains(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	Add(ctx context.Context, userID, listingID uuid.UUID) (AddResult, error)
	Remove(ctx context.Context, userID, listingID uuid.UUID) error
	Toggle(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	PruneDangling(ctx context.Context) (int64, error)
}

// ServiceImplementation implements the wishlist Service interface.
type ServiceImplementation struct {
	repo     Repository
	listings ListingChecker
	logger   *zap.Logger
}

// NewService creates a new wishlist service.
func NewService(repo Repository, listings ListingChecker, logger *zap.Logger) Service {
	return &ServiceImplementation{repo: repo, listings: listings, logger: logger}
}

func (s *ServiceImplementation) List(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListListingIDs(ctx, userID)
}

func (s *ServiceImplementation) ListPlots(ctx context.Context, userID uuid.UUID) ([]listing.Listing, error) {
	return s.repo.ListListings(ctx, userID)
}

func (s *ServiceImplementation) Contains(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	return s.repo.Contains(ctx, userID, listingID)
}

// Add saves a plot. Saving an already saved plot reports AlreadyPresent.
func (s *ServiceImplementation) Add(ctx context.Context, userID, listingID uuid.UUID) (AddResult, error) {
	if err := s.ensureListing(ctx, listingID); err != nil {
		return "", err
	}
	added, err := s.repo.Add(ctx, userID, listingID)
	if err != nil {
		s.logger.Error("Failed to add wishlist entry", zap.String("userID", userID.String()), zap.String("plotID", listingID.String()), zap.Error(err))
		return "", err
	}
	if !added {
		return AlreadyPresent, nil
	}
	return Added, nil
}

// Remove unsaves a plot. Removing a plot that is not saved succeeds.
func (s *ServiceImplementation) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	removed, err := s.repo.Remove(ctx, userID, listingID)
	if err != nil {
		s.logger.Error("Failed to remove wishlist entry", zap.String("userID", userID.String()), zap.String("plotID", listingID.String()), zap.Error(err))
		return err
	}
	if !removed {
		s.logger.Debug("Wishlist entry already absent", zap.String("userID", userID.String()), zap.String("plotID", listingID.String()))
	}
	return nil
}

// Toggle flips membership and returns the new state.
func (s *ServiceImplementation) Toggle(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	if err := s.ensureListing(ctx, listingID); err != nil {
		return false, err
	}
	saved, err := s.repo.Toggle(ctx, userID, listingID)
	if err != nil {
		s.logger.Error("Failed to toggle wishlist entry", zap.String("userID", userID.String()), zap.String("plotID", listingID.String()), zap.Error(err))
		return false, err
	}
	return saved, nil
}

// PruneDangling deletes entries that point at deleted plots.
func (s *ServiceImplementation) PruneDangling(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteDangling(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Pruned dangling wishlist entries", zap.Int64("count", n))
	}
	return n, nil
}

func (s *ServiceImplementation) ensureListing(ctx context.Context, listingID uuid.UUID) error {
	exists, err := s.listings.ListingExists(ctx, listingID)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrNotFound.WithDetails("Plot not found.")
	}
	return nil
}
