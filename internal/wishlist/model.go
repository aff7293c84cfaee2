// File: internal/wishlist/model.go
package wishlist

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry records that a user saved a plot. At most one entry exists per
// (user, plot) pair; the unique index enforces it.
type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_listing,priority:1" json:"userId"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_listing,priority:2;index:idx_wishlist_listing" json:"plotId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Entry) TableName() string {
	return "wishlist_entries"
}

func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// AddResult tells a fresh save apart from a repeated one. Both are successes.
type AddResult string

const (
	Added          AddResult = "added"
	AlreadyPresent AddResult = "alreadyPresent"
)

// PlotRequest is the body of the add, remove and toggle endpoints.
type PlotRequest struct {
	PlotID string `json:"plotId" binding:"required,uuid"`
}

// MembershipResponse reports whether a plot is saved after an operation.
type MembershipResponse struct {
	Saved bool `json:"saved"`
}

// AddResponse is returned by the add endpoint.
type AddResponse struct {
	Result AddResult `json:"result"`
	Saved  bool      `json:"saved"`
}

// ListResponse carries the saved plot identifiers, newest first.
type ListResponse struct {
	Wishlist []uuid.UUID `json:"wishlist"`
}
