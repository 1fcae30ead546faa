// Package imaging reads query images and writes swatch sheets.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned for a file extension with no decoder.
var ErrUnsupportedImage = errors.New("unsupported image format")

// decoders maps a lower-case extension to its decoder.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".webp": webp.Decode,
}

// Load decodes the image a query color is sampled from. The decoder is
// chosen by extension: PNG, JPEG or WEBP.
func Load(path string) (image.Image, error) {
	path = ExpandPath(path)
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: png, jpg, jpeg, webp)", ErrUnsupportedImage, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// SavePNG writes a rendered swatch sheet.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(ExpandPath(path))
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return f.Close()
}

// ExpandPath expands a leading ~ and makes path absolute and clean. Paths
// that cannot be expanded are returned as given.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if expanded, err := homedir.Expand(path); err == nil {
		path = expanded
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Clean(path)
}
