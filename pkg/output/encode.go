package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// ErrUnknownFormat is returned for image formats no encoder is registered for
var ErrUnknownFormat = errors.New("unknown image format")

// Format names an output image encoding
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TGA  Format = "tga"
	WebP Format = "webp"
)

// Formats lists the supported encodings in display order
func Formats() []Format {
	return []Format{PNG, BMP, TGA, WebP}
}

// ParseFormat converts a format name or file extension ("png", ".PNG") to a Format
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	for _, f := range Formats() {
		if name == string(f) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format from the file extension of path
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TGA:
		return "image/x-tga"
	case WebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case PNG:
		err = png.Encode(w, img)
	case BMP:
		// 24-bit uncompressed for opaque images
		err = bmp.Encode(w, img)
	case TGA:
		err = tga.Encode(w, img)
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("output: encode %s: %w", format, err)
	}
	return nil
}

// Save writes img to path, choosing the encoder from the extension and
// creating parent directories as needed
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("output: create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	if err := Encode(file, img, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("output: close %s: %w", path, err)
	}
	return nil
}
