package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalStore writes uploads below a directory that the server exposes at
// publicPath.
type LocalStore struct {
	storagePath string
	publicPath  string
	logger      *zap.Logger
}

// NewLocalStore creates the storage directory if needed.
func NewLocalStore(storagePath, publicPath string, logger *zap.Logger) (*LocalStore, error) {
	if storagePath == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		logger.Error("Failed to create storage path directory", zap.String("path", storagePath), zap.Error(err))
		return nil, fmt.Errorf("failed to create storage path %s: %w", storagePath, err)
	}
	logger.Info("Local media store initialized", zap.String("storagePath", storagePath), zap.String("publicPath", publicPath))
	return &LocalStore{
		storagePath: storagePath,
		publicPath:  "/" + strings.Trim(publicPath, "/"),
		logger:      logger,
	}, nil
}

// Upload saves the file as <kind folder>/<uuid><ext>. PublicID is that
// relative path.
func (s *LocalStore) Upload(_ context.Context, file File, kind Kind) (*Asset, error) {
	ext := extensionFor(file.ContentType, file.Name)
	relative := path.Join(kind.folder(), uuid.NewString()+ext)

	destinationDir := filepath.Join(s.storagePath, kind.folder())
	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", destinationDir, err)
	}

	destinationPath := filepath.Join(s.storagePath, filepath.FromSlash(relative))
	dst, err := os.Create(destinationPath)
	if err != nil {
		s.logger.Error("Failed to create destination file", zap.String("path", destinationPath), zap.Error(err))
		return nil, fmt.Errorf("failed to create file %s: %w", destinationPath, err)
	}
	written, copyErr := io.Copy(dst, file.Reader)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(destinationPath)
		if copyErr == nil {
			copyErr = closeErr
		}
		s.logger.Error("Failed to write uploaded file", zap.String("path", destinationPath), zap.Error(copyErr))
		return nil, fmt.Errorf("failed to save file: %w", copyErr)
	}

	s.logger.Info("File saved successfully", zap.String("path", destinationPath), zap.Int64("bytes", written))
	return &Asset{
		URL:      path.Join(s.publicPath, relative),
		PublicID: relative,
		Format:   strings.TrimPrefix(ext, "."),
		Bytes:    written,
	}, nil
}

// Delete removes a previously uploaded file. Missing files are not an error.
func (s *LocalStore) Delete(_ context.Context, publicID string, kind Kind) error {
	clean := path.Clean("/" + publicID)[1:]
	if clean == "" || !strings.HasPrefix(clean, kind.folder()+"/") {
		return fmt.Errorf("invalid media id %q", publicID)
	}
	fullPath := filepath.Join(s.storagePath, filepath.FromSlash(clean))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Failed to delete file", zap.String("path", fullPath), zap.Error(err))
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}
	return nil
}
