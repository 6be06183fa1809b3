package upload

import (
	"bytes"
	"encoding/base64"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/dustin/go-humanize"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Preview describes a selected file without sending it anywhere.
type Preview struct {
	Name        string
	Size        int64
	ContentType string
	// Width and Height are zero when the image header could not be read.
	Width   int
	Height  int
	DataURL string
}

// SizeText is the human-readable file size ("2.1 MB").
func (p Preview) SizeText() string {
	return humanize.Bytes(uint64(p.Size))
}

func (p Preview) Dimensions() string {
	if p.Width == 0 || p.Height == 0 {
		return "unknown"
	}
	return humanize.Comma(int64(p.Width)) + "×" + humanize.Comma(int64(p.Height))
}

func buildPreview(name, contentType string, content []byte) Preview {
	p := Preview{
		Name:        name,
		Size:        int64(len(content)),
		ContentType: contentType,
		DataURL:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(content),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(content)); err == nil {
		p.Width, p.Height = cfg.Width, cfg.Height
	}
	return p
}
