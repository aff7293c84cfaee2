package media

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"realty_bureau_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxBatchImages caps the files accepted by one /upload/images request.
const MaxBatchImages = 10

// UploadResponse is shaped to be copied into a plot's images or videos.
type UploadResponse struct {
	URL       string   `json:"url"`
	Filename  string   `json:"filename"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Duration  *float64 `json:"duration,omitempty"`
}

// Handler struct holds dependencies for upload handlers.
type Handler struct {
	store    Store
	maxBytes int64
	logger   *zap.Logger
}

// NewHandler creates a new upload handler.
func NewHandler(store Store, maxBytes int64, logger *zap.Logger) *Handler {
	return &Handler{store: store, maxBytes: maxBytes, logger: logger}
}

// RegisterRoutes sets up the upload routes. Every route requires a user.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	upload := router.Group("/upload")
	upload.Use(authMW)
	{
		upload.POST("/image", h.uploadImage)
		upload.POST("/images", h.uploadImages)
		upload.POST("/video", h.uploadVideo)
	}
}

func (h *Handler) uploadImage(c *gin.Context) {
	h.uploadSingle(c, KindImage)
}

func (h *Handler) uploadVideo(c *gin.Context) {
	h.uploadSingle(c, KindVideo)
}

func (h *Handler) uploadSingle(c *gin.Context, kind Kind) {
	h.limitBody(c, 1)
	fh, err := c.FormFile("file")
	if err != nil {
		common.RespondWithError(c, formError(err, "file"))
		return
	}
	resp, _, err := h.storeFile(c.Request.Context(), fh, kind)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, fmt.Sprintf("%s uploaded successfully.", kindLabel(kind)), resp)
}

func (h *Handler) uploadImages(c *gin.Context) {
	h.limitBody(c, MaxBatchImages)
	form, err := c.MultipartForm()
	if err != nil {
		common.RespondWithError(c, formError(err, "files"))
		return
	}
	files := form.File["files"]
	switch {
	case len(files) == 0:
		common.RespondWithError(c, common.NewFieldError("files", "At least one image is required."))
		return
	case len(files) > MaxBatchImages:
		common.RespondWithError(c, common.NewFieldError("files", fmt.Sprintf("At most %d images can be uploaded at once.", MaxBatchImages)))
		return
	}

	ctx := c.Request.Context()
	uploaded := make([]UploadResponse, 0, len(files))
	var publicIDs []string
	for _, fh := range files {
		resp, publicID, err := h.storeFile(ctx, fh, KindImage)
		if err != nil {
			h.rollback(ctx, publicIDs)
			common.RespondWithError(c, err)
			return
		}
		uploaded = append(uploaded, *resp)
		publicIDs = append(publicIDs, publicID)
	}
	common.RespondCreated(c, "Images uploaded successfully.", uploaded)
}

func (h *Handler) storeFile(ctx context.Context, fh *multipart.FileHeader, kind Kind) (*UploadResponse, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	file, err := Inspect(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, h.maxBytes, src, kind)
	if err != nil {
		return nil, "", err
	}
	asset, err := h.store.Upload(ctx, file, kind)
	if err != nil {
		return nil, "", err
	}
	return &UploadResponse{
		URL:       asset.URL,
		Filename:  file.Name,
		Thumbnail: asset.Thumbnail,
		Duration:  asset.Duration,
	}, asset.PublicID, nil
}

// rollback removes the files of a batch that failed part way.
func (h *Handler) rollback(ctx context.Context, publicIDs []string) {
	for _, id := range publicIDs {
		if err := h.store.Delete(ctx, id, KindImage); err != nil {
			h.logger.Warn("Failed to remove partial batch upload", zap.String("publicID", id), zap.Error(err))
		}
	}
}

// limitBody bounds the request body to files*maxBytes plus form overhead.
func (h *Handler) limitBody(c *gin.Context, files int64) {
	const formOverhead = 1 << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, files*h.maxBytes+formOverhead)
}

func formError(err error, field string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrPayloadTooLarge.WithDetails("The request body exceeds the upload limit.")
	}
	if errors.Is(err, http.ErrMissingFile) {
		return common.NewFieldError(field, fmt.Sprintf("The %s field is required.", field))
	}
	return common.ErrBadRequest.WithDetails("Expected a multipart/form-data body.")
}

func kindLabel(kind Kind) string {
	if kind == KindVideo {
		return "Video"
	}
	return "Image"
}
