package media

import (
	"context"
	"fmt"
	"strings"

	"realty_bureau_backend/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryStore uploads to Cloudinary folders per media kind.
type CloudinaryStore struct {
	cld     *cloudinary.Cloudinary
	folders map[Kind]string
	logger  *zap.Logger
}

// NewCloudinaryStore configures the client from CLOUDINARY_URL, or from the
// separate cloud name and key settings.
func NewCloudinaryStore(cfg *config.Config, logger *zap.Logger) (*CloudinaryStore, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	logger.Info("Cloudinary media store initialized",
		zap.String("imageFolder", cfg.CloudinaryImageFolder),
		zap.String("videoFolder", cfg.CloudinaryVideoFolder),
	)
	return &CloudinaryStore{
		cld: cld,
		folders: map[Kind]string{
			KindImage: cfg.CloudinaryImageFolder,
			KindVideo: cfg.CloudinaryVideoFolder,
		},
		logger: logger,
	}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, file File, kind Kind) (*Asset, error) {
	resp, err := s.cld.Upload.Upload(ctx, file.Reader, uploader.UploadParams{
		Folder:       s.folders[kind],
		ResourceType: string(kind),
	})
	if err != nil {
		s.logger.Error("Cloudinary upload failed", zap.String("file", file.Name), zap.Error(err))
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		s.logger.Error("Cloudinary rejected upload", zap.String("file", file.Name), zap.String("reason", resp.Error.Message))
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	asset := &Asset{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
		Format:   resp.Format,
		Bytes:    int64(resp.Bytes),
	}
	if kind == KindVideo {
		asset.Thumbnail = videoThumbnail(resp.SecureURL)
	}
	s.logger.Info("Uploaded media to Cloudinary", zap.String("publicID", resp.PublicID), zap.String("kind", string(kind)))
	return asset, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string, kind Kind) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: string(kind),
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}
	return nil
}

// videoThumbnail is the .jpg rendition Cloudinary serves for a video URL.
func videoThumbnail(videoURL string) string {
	if videoURL == "" {
		return ""
	}
	slash := strings.LastIndex(videoURL, "/")
	if dot := strings.LastIndex(videoURL, "."); dot > slash {
		return videoURL[:dot] + ".jpg"
	}
	return videoURL + ".jpg"
}
