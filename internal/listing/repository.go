// File: internal/listing/repository.go
package listing

import (
	"context"
	"errors"
	"fmt"

	"realty_bureau_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateSlug is returned when the unique slug index rejects an insert.
var ErrDuplicateSlug = errors.New("listing: slug already taken")

// Repository defines the interface for listing data operations.
type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindBySlug(ctx context.Context, slug string) (*Listing, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Listing, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	UpdateFields(ctx context.Context, listing *Listing, columns []string) (*Listing, error)
	Delete(ctx context.Context, id uuid.UUID) (*Listing, error)
	Approve(ctx context.Context, id uuid.UUID) (*Listing, error)
	Search(ctx context.Context, query Query) ([]Listing, int64, error)
	FindBatch(ctx context.Context, offset, limit int) ([]Listing, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM listing repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func notFound() error {
	return common.ErrNotFound.WithDetails("Plot not found.")
}

// Create inserts a new listing. The slug must already be assigned.
func (r *gormRepository) Create(ctx context.Context, listing *Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create plot %q: %w", listing.Slug, ErrDuplicateSlug)
		}
		return fmt.Errorf("failed to create plot: %w", err)
	}
	return nil
}

// FindByID retrieves a listing by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var listing Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound()
		}
		return nil, err
	}
	return &listing, nil
}

// FindBySlug retrieves a listing by its slug.
func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Listing, error) {
	var listing Listing
	if err := r.db.WithContext(ctx).First(&listing, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound()
		}
		return nil, err
	}
	return &listing, nil
}

// FindByIDs returns the listings that still exist among ids, in no particular order.
func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Listing, error) {
	if len(ids) == 0 {
		return []Listing{}, nil
	}
	var listings []Listing
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *gormRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Listing{}).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SlugExists reports whether a listing other than excludeID holds slug.
func (r *gormRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&Listing{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateFields writes the named columns of listing in a single UPDATE and
// returns the stored row.
func (r *gormRepository) UpdateFields(ctx context.Context, listing *Listing, columns []string) (*Listing, error) {
	var updated Listing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cols := append(append([]string{}, columns...), "updated_at")
		result := tx.Model(listing).Select(cols).Updates(listing)
		if result.Error != nil {
			return fmt.Errorf("failed to update plot: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound()
		}
		return tx.First(&updated, "id = ?", listing.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a listing and returns it as it was.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var listing Listing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&listing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound()
			}
			return err
		}
		result := tx.Delete(&Listing{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete plot: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Approve sets approved=true. An already approved listing is returned
// without a write.
func (r *gormRepository) Approve(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var listing Listing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&listing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound()
			}
			return err
		}
		if listing.Approved {
			return nil
		}
		if err := tx.Model(&Listing{}).Where("id = ?", id).Update("approved", true).Error; err != nil {
			return fmt.Errorf("failed to approve plot: %w", err)
		}
		return tx.First(&listing, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Search counts and fetches one page of listings matching query. The two
// reads are independent; the total may lag the page under concurrent writes.
func (r *gormRepository) Search(ctx context.Context, query Query) ([]Listing, int64, error) {
	var total int64
	if err := query.Filter(r.db.WithContext(ctx).Model(&Listing{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count plots: %w", err)
	}

	listings := []Listing{}
	if total == 0 {
		return listings, 0, nil
	}

	page := query.Order(query.Filter(r.db.WithContext(ctx).Model(&Listing{})))
	if err := page.Offset(query.Offset()).Limit(query.Limit).Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search plots: %w", err)
	}
	return listings, total, nil
}

// FindBatch pages through every listing in id order.
func (r *gormRepository) FindBatch(ctx context.Context, offset, limit int) ([]Listing, error) {
	var listings []Listing
	err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&listings).Error
	return listings, err
}
