package media

import (
	"bufio"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"realty_bureau_backend/internal/common"
)

const sniffLen = 512

// ErrPayloadTooLarge is returned for files above UPLOAD_MAX_BYTES.
var ErrPayloadTooLarge = common.NewAPIError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "The uploaded file is too large.")

var allowedTypes = map[Kind]map[string]string{
	KindImage: {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	},
	KindVideo: {
		"video/mp4":       ".mp4",
		"video/webm":      ".webm",
		"video/ogg":       ".ogv",
		"video/quicktime": ".mov",
	},
}

// sniffAliases lists what http.DetectContentType reports for declared
// types it cannot identify exactly.
var sniffAliases = map[string][]string{
	"video/ogg":       {"application/ogg"},
	"video/quicktime": {"video/mp4", "application/octet-stream"},
}

func normalizeType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(contentType)
	}
	mediaType = strings.ToLower(mediaType)
	if mediaType == "image/jpg" {
		return "image/jpeg"
	}
	return mediaType
}

// Inspect sniffs the leading bytes of r and checks the result, and the
// declared content type when present, against the types allowed for kind.
// The returned File reads the complete content.
func Inspect(name, declared string, size, maxBytes int64, r io.Reader, kind Kind) (File, error) {
	if size > maxBytes {
		return File{}, ErrPayloadTooLarge.WithDetails(fmt.Sprintf("%s exceeds the %d byte limit.", name, maxBytes))
	}

	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return File{}, fmt.Errorf("read upload header: %w", err)
	}
	if len(head) == 0 {
		return File{}, common.NewFieldError("file", "The uploaded file is empty.")
	}
	sniffed := normalizeType(http.DetectContentType(head))

	contentType := sniffed
	if declared = normalizeType(declared); declared != "" && declared != "application/octet-stream" {
		if !sniffMatches(declared, sniffed) {
			return File{}, common.NewFieldError("file", fmt.Sprintf("File content (%s) does not match its declared type %s.", sniffed, declared))
		}
		contentType = declared
	}
	if _, ok := allowedTypes[kind][contentType]; !ok {
		return File{}, common.NewFieldError("file", fmt.Sprintf("Unsupported %s type %s.", kind, contentType))
	}

	return File{
		Name:        filepath.Base(name),
		ContentType: contentType,
		Size:        size,
		Reader:      io.LimitReader(br, maxBytes),
	}, nil
}

func sniffMatches(declared, sniffed string) bool {
	if declared == sniffed {
		return true
	}
	for _, alias := range sniffAliases[declared] {
		if alias == sniffed {
			return true
		}
	}
	return false
}

// extensionFor prefers the canonical extension of a validated content type.
func extensionFor(contentType, name string) string {
	for _, types := range allowedTypes {
		if ext, ok := types[contentType]; ok {
			return ext
		}
	}
	return strings.ToLower(filepath.Ext(name))
}
