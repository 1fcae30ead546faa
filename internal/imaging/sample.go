package imaging

import (
	"errors"
	"image"

	dimg "github.com/disintegration/imaging"

	"github.com/maax3v3/swatchmatch/internal/color"
)

// ErrNoOpaquePixels is returned when an image has nothing to sample.
var ErrNoOpaquePixels = errors.New("image has no opaque pixels")

// sampleSize bounds the thumbnail averaged by AverageColor.
const sampleSize = 64

// AverageColor returns the mean color of the non-transparent pixels of img,
// each weighted by its alpha. Large images are box-filtered down first.
func AverageColor(img image.Image) (color.RGB, error) {
	thumb := dimg.Fit(img, sampleSize, sampleSize, dimg.Box)
	b := thumb.Bounds()

	pixels := make([]color.RGB, 0, b.Dx()*b.Dy())
	alphas := make([]int, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := thumb.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			pixels = append(pixels, color.RGB{R: c.R, G: c.G, B: c.B})
			alphas = append(alphas, int(c.A))
		}
	}
	if len(pixels) == 0 {
		return color.RGB{}, ErrNoOpaquePixels
	}
	return color.WeightedMean(pixels, alphas), nil
}

// LoadAverageColor loads an image file and returns its mean color.
func LoadAverageColor(path string) (color.RGB, error) {
	img, err := Load(path)
	if err != nil {
		return color.RGB{}, err
	}
	return AverageColor(img)
}
