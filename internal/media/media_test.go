package media

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"realty_bureau_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	mp4Bytes  = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom\x00\x00\x00\x08free")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
)

func TestInspect(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		content  []byte
		kind     Kind
		wantType string
		wantErr  string
	}{
		{"png", "image/png", pngBytes, KindImage, "image/png", ""},
		{"jpg alias", "image/jpg", jpegBytes, KindImage, "image/jpeg", ""},
		{"no declared type", "", pngBytes, KindImage, "image/png", ""},
		{"generic declared type", "application/octet-stream", jpegBytes, KindImage, "image/jpeg", ""},
		{"mp4", "video/mp4", mp4Bytes, KindVideo, "video/mp4", ""},
		{"quicktime sniffed as mp4", "video/quicktime", mp4Bytes, KindVideo, "video/quicktime", ""},
		{"gif not allowed", "image/gif", gifBytes, KindImage, "", "VALIDATION_ERROR"},
		{"spoofed type", "image/png", []byte("<html><body>hi</body></html>"), KindImage, "", "VALIDATION_ERROR"},
		{"image on video route", "image/png", pngBytes, KindVideo, "", "VALIDATION_ERROR"},
		{"empty", "image/png", nil, KindImage, "", "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Inspect("upload.bin", tt.declared, int64(len(tt.content)), 1<<20, bytes.NewReader(tt.content), tt.kind)
			if tt.wantErr != "" {
				apiErr, ok := common.IsAPIError(err)
				require.True(t, ok, "got %v", err)
				assert.Equal(t, tt.wantErr, apiErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, f.ContentType)
			all, err := io.ReadAll(f.Reader)
			require.NoError(t, err)
			assert.Equal(t, tt.content, all, "sniffing does not consume the content")
		})
	}
}

func TestInspect_TooLarge(t *testing.T) {
	_, err := Inspect("big.png", "image/png", 2048, 1024, bytes.NewReader(pngBytes), KindImage)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestLocalStore_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "uploads/", zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	asset, err := store.Upload(ctx, File{Name: "front.png", ContentType: "image/png", Reader: bytes.NewReader(pngBytes)}, KindImage)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset.URL, "/uploads/images/"))
	assert.True(t, strings.HasSuffix(asset.URL, ".png"))
	assert.Equal(t, int64(len(pngBytes)), asset.Bytes)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(asset.PublicID)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	require.NoError(t, store.Delete(ctx, asset.PublicID, KindImage))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(asset.PublicID)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, asset.PublicID, KindImage), "deleting twice is fine")
	assert.Error(t, store.Delete(ctx, "../../etc/passwd", KindImage))
	assert.Error(t, store.Delete(ctx, asset.PublicID, KindVideo), "ids are scoped to their kind")
}

func TestNewLocalStore_EmptyPath(t *testing.T) {
	_, err := NewLocalStore("", "/uploads", zap.NewNop())
	assert.Error(t, err)
}

func TestVideoThumbnail(t *testing.T) {
	assert.Equal(t,
		"https://res.cloudinary.com/demo/video/upload/v1/realty-videos/tour.jpg",
		videoThumbnail("https://res.cloudinary.com/demo/video/upload/v1/realty-videos/tour.mp4"))
	assert.Equal(t, "https://cdn.example/v1/tour.jpg", videoThumbnail("https://cdn.example/v1/tour"))
	assert.Equal(t, "", videoThumbnail(""))
}

type part struct {
	field, filename, contentType string
	content                      []byte
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.filename+`"`)
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func newUploadRouter(t *testing.T, maxBytes int64) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads", zap.NewNop())
	require.NoError(t, err)

	r := gin.New()
	authMW := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			common.RespondWithError(c, common.ErrUnauthorized)
			return
		}
		c.Next()
	}
	NewHandler(store, maxBytes, zap.NewNop()).RegisterRoutes(r.Group("/api/v1"), authMW)
	return r, dir
}

func postForm(r *gin.Engine, path string, body *bytes.Buffer, contentType string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	if authed {
		req.Header.Set("Authorization", "Bearer test")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_UploadImage(t *testing.T) {
	r, _ := newUploadRouter(t, 1<<20)
	body, ct := multipartBody(t, part{"file", "front.png", "image/png", pngBytes})

	w := postForm(r, "/api/v1/upload/image", body, ct, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env struct {
		Data UploadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, strings.HasPrefix(env.Data.URL, "/uploads/images/"))
	assert.Equal(t, "front.png", env.Data.Filename)
}

func TestHandler_RequiresAuth(t *testing.T) {
	r, _ := newUploadRouter(t, 1<<20)
	body, ct := multipartBody(t, part{"file", "front.png", "image/png", pngBytes})
	w := postForm(r, "/api/v1/upload/image", body, ct, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_UploadVideoRejectsImage(t *testing.T) {
	r, _ := newUploadRouter(t, 1<<20)
	body, ct := multipartBody(t, part{"file", "front.png", "image/png", pngBytes})
	w := postForm(r, "/api/v1/upload/video", body, ct, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_MissingFile(t *testing.T) {
	r, _ := newUploadRouter(t, 1<<20)
	body, ct := multipartBody(t, part{"other", "front.png", "image/png", pngBytes})
	w := postForm(r, "/api/v1/upload/image", body, ct, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_FileTooLarge(t *testing.T) {
	r, _ := newUploadRouter(t, 16)
	body, ct := multipartBody(t, part{"file", "front.png", "image/png", pngBytes})
	w := postForm(r, "/api/v1/upload/image", body, ct, true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandler_UploadImages(t *testing.T) {
	r, dir := newUploadRouter(t, 1<<20)

	body, ct := multipartBody(t,
		part{"files", "a.png", "image/png", pngBytes},
		part{"files", "b.jpg", "image/jpeg", jpegBytes},
	)
	w := postForm(r, "/api/v1/upload/images", body, ct, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var env struct {
		Data []UploadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Len(t, env.Data, 2)

	parts := make([]part, MaxBatchImages+1)
	for i := range parts {
		parts[i] = part{"files", "x.png", "image/png", pngBytes}
	}
	body, ct = multipartBody(t, parts...)
	w = postForm(r, "/api/v1/upload/images", body, ct, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	before, err := os.ReadDir(filepath.Join(dir, "images"))
	require.NoError(t, err)
	body, ct = multipartBody(t,
		part{"files", "ok.png", "image/png", pngBytes},
		part{"files", "bad.gif", "image/gif", gifBytes},
	)
	w = postForm(r, "/api/v1/upload/images", body, ct, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	after, err := os.ReadDir(filepath.Join(dir, "images"))
	require.NoError(t, err)
	assert.Len(t, after, len(before), "a failed batch leaves no files behind")
}
