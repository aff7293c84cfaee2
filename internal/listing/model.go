// File: internal/listing/model.go
package listing

import (
	"strings"

	"realty_bureau_backend/internal/common"

	"gorm.io/gorm"
)

// PlotSizeUnit is the unit a plot area is measured in.
type PlotSizeUnit string

const (
	UnitSqft PlotSizeUnit = "sqft"
	UnitCent PlotSizeUnit = "cent"
)

// Category classifies a plot.
type Category string

const (
	CategoryResidential Category = "Residential"
	CategoryCommercial  Category = "Commercial"
)

// Status is the sale state of a plot.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusSold      Status = "Sold"
	StatusReserved  Status = "Reserved"
)

// IsValid reports whether u is one of the known units.
func (u PlotSizeUnit) IsValid() bool {
	return u == UnitSqft || u == UnitCent
}

func (c Category) IsValid() bool {
	return c == CategoryResidential || c == CategoryCommercial
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusSold, StatusReserved:
		return true
	}
	return false
}

// PlotSize is a value-unit pair.
type PlotSize struct {
	Value float64      `gorm:"column:value;not null" json:"value"`
	Unit  PlotSizeUnit `gorm:"column:unit;type:varchar(10);not null;default:sqft" json:"unit"`
}

// Location is an optional structured address.
type Location struct {
	Address  string `gorm:"column:address" json:"address,omitempty"`
	City     string `gorm:"column:city" json:"city,omitempty"`
	District string `gorm:"column:district" json:"district,omitempty"`
	State    string `gorm:"column:state" json:"state,omitempty"`
	Pincode  string `gorm:"column:pincode" json:"pincode,omitempty"`
}

// Image is a hosted image reference.
type Image struct {
	URL string `json:"url" binding:"required,notblank"`
	Alt string `json:"alt,omitempty"`
}

// Video is a hosted video reference.
type Video struct {
	URL       string   `json:"url" binding:"required,notblank"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Duration  *float64 `json:"duration,omitempty" binding:"omitempty,gte=0"`
	Alt       string   `json:"alt,omitempty"`
}

// Listing is a land plot offered on the marketplace.
type Listing struct {
	common.BaseModel
	Slug        string   `gorm:"type:varchar(255);not null;uniqueIndex:idx_plots_slug" json:"slug"`
	Title       string   `gorm:"type:varchar(255);not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	PlotSize    PlotSize `gorm:"embedded;embeddedPrefix:plot_size_" json:"plotSize"`
	Price       float64  `gorm:"not null;index" json:"price"`
	Location    Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Images      []Image  `gorm:"type:jsonb;serializer:json;not null" json:"images"`
	Videos      []Video  `gorm:"type:jsonb;serializer:json;not null" json:"videos"`
	Category    Category `gorm:"type:varchar(20);not null;index" json:"category"`
	Status      Status   `gorm:"type:varchar(20);not null;default:Available;index" json:"status"`
	Approved    bool     `gorm:"not null;default:false;index" json:"approved"`
}

// TableName specifies the table name for GORM.
func (Listing) TableName() string {
	return "plots"
}

// BeforeSave keeps the media columns as JSON arrays, never null.
func (l *Listing) BeforeSave(tx *gorm.DB) error {
	if l.Images == nil {
		l.Images = []Image{}
	}
	if l.Videos == nil {
		l.Videos = []Video{}
	}
	return nil
}

// --- Request DTOs ---

// PlotSizeInput is the plot size accepted on create.
type PlotSizeInput struct {
	Value *common.Number `json:"value" binding:"required,gt=0"`
	Unit  string         `json:"unit" binding:"omitempty,oneof=sqft cent"`
}

// VideoInput accepts a numeric or string duration.
type VideoInput struct {
	URL       string         `json:"url" binding:"required,notblank"`
	Thumbnail string         `json:"thumbnail"`
	Duration  *common.Number `json:"duration" binding:"omitempty,gte=0"`
	Alt       string         `json:"alt"`
}

// CreateListingRequest is the input schema for creating a plot. The approval
// flag is deliberately absent: new plots always start unapproved.
type CreateListingRequest struct {
	Title       string         `json:"title" binding:"required,notblank,max=255"`
	Description string         `json:"description" binding:"required,notblank"`
	PlotSize    PlotSizeInput  `json:"plotSize"`
	Price       *common.Number `json:"price" binding:"required,gte=0"`
	Location    *Location      `json:"location"`
	Images      []Image        `json:"images" binding:"omitempty,dive"`
	Videos      []VideoInput   `json:"videos" binding:"omitempty,dive"`
	Category    string         `json:"category" binding:"required,oneof=Residential Commercial"`
	Status      string         `json:"status" binding:"omitempty,oneof=Available Sold Reserved"`
}

// PlotSizePatch is a partial plot size.
type PlotSizePatch struct {
	Value *common.Number `json:"value" binding:"omitempty,gt=0"`
	Unit  *string        `json:"unit" binding:"omitempty,oneof=sqft cent"`
}

// UpdateListingRequest is a partial patch. A nil field is left untouched; a
// non-nil empty media slice clears that sequence.
type UpdateListingRequest struct {
	Title       *string        `json:"title" binding:"omitempty,notblank,max=255"`
	Description *string        `json:"description" binding:"omitempty,notblank"`
	PlotSize    *PlotSizePatch `json:"plotSize"`
	Price       *common.Number `json:"price" binding:"omitempty,gte=0"`
	Location    *Location      `json:"location"`
	Images      []Image        `json:"images" binding:"omitempty,dive"`
	Videos      []VideoInput   `json:"videos" binding:"omitempty,dive"`
	Category    *string        `json:"category" binding:"omitempty,oneof=Residential Commercial"`
	Status      *string        `json:"status" binding:"omitempty,oneof=Available Sold Reserved"`
}

// ToListing builds a new, unapproved listing from a validated request.
func (r CreateListingRequest) ToListing() *Listing {
	l := &Listing{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		PlotSize: PlotSize{
			Unit: UnitSqft,
		},
		Images:   trimImages(r.Images),
		Videos:   toVideos(r.Videos),
		Category: Category(r.Category),
		Status:   StatusAvailable,
	}
	if r.PlotSize.Value != nil {
		l.PlotSize.Value = r.PlotSize.Value.Float64()
	}
	if r.PlotSize.Unit != "" {
		l.PlotSize.Unit = PlotSizeUnit(r.PlotSize.Unit)
	}
	if r.Price != nil {
		l.Price = r.Price.Float64()
	}
	if r.Location != nil {
		l.Location = r.Location.trimmed()
	}
	if r.Status != "" {
		l.Status = Status(r.Status)
	}
	return l
}

// IsEmpty reports whether the patch changes nothing.
func (r UpdateListingRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.PlotSize == nil && r.Price == nil &&
		r.Location == nil && r.Images == nil && r.Videos == nil && r.Category == nil && r.Status == nil
}

// ApplyTo mutates l with the patch and returns the columns that changed.
// The request must already be validated.
func (r UpdateListingRequest) ApplyTo(l *Listing) []string {
	var cols []string
	if r.Title != nil {
		l.Title = strings.TrimSpace(*r.Title)
		cols = append(cols, "title")
	}
	if r.Description != nil {
		l.Description = strings.TrimSpace(*r.Description)
		cols = append(cols, "description")
	}
	if r.PlotSize != nil {
		if r.PlotSize.Unit != nil {
			l.PlotSize.Unit = PlotSizeUnit(*r.PlotSize.Unit)
			cols = append(cols, "plot_size_unit")
		}
		if r.PlotSize.Value != nil {
			l.PlotSize.Value = r.PlotSize.Value.Float64()
			cols = append(cols, "plot_size_value")
		}
	}
	if r.Price != nil {
		l.Price = r.Price.Float64()
		cols = append(cols, "price")
	}
	if r.Location != nil {
		l.Location = r.Location.trimmed()
		cols = append(cols, "location_address", "location_city", "location_district", "location_state", "location_pincode")
	}
	if r.Images != nil {
		l.Images = trimImages(r.Images)
		cols = append(cols, "images")
	}
	if r.Videos != nil {
		l.Videos = toVideos(r.Videos)
		cols = append(cols, "videos")
	}
	if r.Category != nil {
		l.Category = Category(*r.Category)
		cols = append(cols, "category")
	}
	if r.Status != nil {
		l.Status = Status(*r.Status)
		cols = append(cols, "status")
	}
	return cols
}

func (loc Location) trimmed() Location {
	return Location{
		Address:  strings.TrimSpace(loc.Address),
		City:     strings.TrimSpace(loc.City),
		District: strings.TrimSpace(loc.District),
		State:    strings.TrimSpace(loc.State),
		Pincode:  strings.TrimSpace(loc.Pincode),
	}
}

func trimImages(in []Image) []Image {
	out := make([]Image, 0, len(in))
	for _, img := range in {
		out = append(out, Image{URL: strings.TrimSpace(img.URL), Alt: strings.TrimSpace(img.Alt)})
	}
	return out
}

func toVideos(in []VideoInput) []Video {
	out := make([]Video, 0, len(in))
	for _, v := range in {
		out = append(out, Video{
			URL:       strings.TrimSpace(v.URL),
			Thumbnail: strings.TrimSpace(v.Thumbnail),
			Duration:  common.NumberPtr(v.Duration),
			Alt:       strings.TrimSpace(v.Alt),
		})
	}
	return out
}
