// File: internal/wishlist/repository.go
package wishlist

import (
	"context"
	"fmt"

	"realty_bureau_backend/internal/common"
	"realty_bureau_backend/internal/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for wishlist data operations.
type Repository interface {
	Add(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	Toggle(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	Contains(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	ListListingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListListings(ctx context.Context, userID uuid.UUID) ([]listing.Listing, error)
	DeleteDangling(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM wishlist repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

var onPairConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
	DoNothing: true,
}

func insertPair(tx *gorm.DB, userID, listingID uuid.UUID) (bool, error) {
	result := tx.Clauses(onPairConflict).Create(&Entry{UserID: userID, ListingID: listingID})
	if result.Error != nil {
		if common.IsUniqueViolation(result.Error) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func pair(tx *gorm.DB, userID, listingID uuid.UUID) *gorm.DB {
	return tx.Where("user_id = ? AND listing_id = ?", userID, listingID)
}

// Add inserts the pair with a single INSERT ... ON CONFLICT DO NOTHING. It
// reports false when the pair was already present.
func (r *gormRepository) Add(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	added, err := insertPair(r.db.WithContext(ctx), userID, listingID)
	if err != nil {
		return false, fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return added, nil
}

// Remove deletes the pair and reports whether a row existed.
func (r *gormRepository) Remove(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	result := pair(r.db.WithContext(ctx), userID, listingID).Delete(&Entry{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove wishlist entry: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Toggle flips membership in one transaction and returns the resulting state.
func (r *gormRepository) Toggle(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	saved := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := pair(tx, userID, listingID).Delete(&Entry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			saved = false
			return nil
		}
		// Zero rows inserted means a concurrent toggle saved it first; the
		// pair is present either way.
		if _, err := insertPair(tx, userID, listingID); err != nil {
			return err
		}
		saved = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle wishlist entry: %w", err)
	}
	return saved, nil
}

func (r *gormRepository) Contains(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	var count int64
	if err := pair(r.db.WithContext(ctx).Model(&Entry{}), userID, listingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListListingIDs returns the saved plot ids whose plot still exists, newest
// entry first.
func (r *gormRepository) ListListingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.WithContext(ctx).Model(&Entry{}).
		Joins("JOIN plots ON plots.id = wishlist_entries.listing_id").
		Where("wishlist_entries.user_id = ?", userID).
		Order("wishlist_entries.created_at DESC").
		Order("wishlist_entries.listing_id").
		Pluck("wishlist_entries.listing_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return ids, nil
}

// ListListings returns the saved plots themselves in the same order.
func (r *gormRepository) ListListings(ctx context.Context, userID uuid.UUID) ([]listing.Listing, error) {
	plots := []listing.Listing{}
	err := r.db.WithContext(ctx).Model(&listing.Listing{}).
		Joins("JOIN wishlist_entries ON wishlist_entries.listing_id = plots.id").
		Where("wishlist_entries.user_id = ?", userID).
		Order("wishlist_entries.created_at DESC").
		Order("plots.id").
		Find(&plots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist plots: %w", err)
	}
	return plots, nil
}

// DeleteDangling removes entries whose plot no longer exists.
func (r *gormRepository) DeleteDangling(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM plots WHERE plots.id = wishlist_entries.listing_id)").
		Delete(&Entry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune wishlist: %w", result.Error)
	}
	return result.RowsAffected, nil
}
