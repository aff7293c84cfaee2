package media

import (
	"context"
	"fmt"
	"io"

	"realty_bureau_backend/internal/config"

	"go.uber.org/zap"
)

// Kind selects the folder and resource type of an upload.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// File is one validated upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Asset describes a stored upload. URL is what listings reference.
type Asset struct {
	URL       string
	PublicID  string
	Format    string
	Bytes     int64
	Thumbnail string
	Duration  *float64
}

// Store persists uploaded media.
type Store interface {
	Upload(ctx context.Context, file File, kind Kind) (*Asset, error)
	// Delete removes an asset by the PublicID returned from Upload.
	Delete(ctx context.Context, publicID string, kind Kind) error
}

// NewStore builds the backend named by MEDIA_BACKEND.
func NewStore(cfg *config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.MediaBackend {
	case config.MediaBackendCloudinary:
		return NewCloudinaryStore(cfg, logger)
	case config.MediaBackendLocal:
		return NewLocalStore(cfg.UploadDir, cfg.UploadPublicPath, logger)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}

func (k Kind) folder() string {
	if k == KindVideo {
		return "videos"
	}
	return "images"
}
