package upload

import (
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/payscan/payscan/internal/common"
)

// MaxFileSize is the largest screenshot accepted.
const MaxFileSize = 10 << 20

// AllowedTypes are the accepted screenshot content types.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/bmp", "image/tiff", "image/webp"}

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// DetectType names the content type of a file the way a file picker does:
// by extension. Content is sniffed only when the extension says nothing.
func DetectType(name string, head []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			t, _, _ = strings.Cut(t, ";")
			return t
		}
	}
	if len(head) == 0 {
		return ""
	}
	t, _, _ := strings.Cut(http.DetectContentType(head), ";")
	return t
}

// Validate checks the type first, then the size. It returns the detected
// content type of an acceptable file.
func Validate(name string, size int64, head []byte) (string, error) {
	t := DetectType(name, head)
	if !slices.Contains(AllowedTypes, t) {
		return "", common.ErrFileType
	}
	if size > MaxFileSize {
		return "", common.ErrFileTooLarge
	}
	return t, nil
}
