package color

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when a color string is not exactly six hex
// digits after an optional leading '#'.
var ErrInvalidFormat = errors.New("invalid color format")

// RGB represents an opaque sRGB color with 8-bit components.
type RGB struct {
	R, G, B uint8
}

// ToStdColor converts RGB to an opaque standard library color.
func (c RGB) ToStdColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// ParseHex parses a hex color string like "#1E90FF" or "1e90ff".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("%w: %q must be 6 hex digits", ErrInvalidFormat, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q contains non-hex characters", ErrInvalidFormat, s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the canonical "#RRGGBB" form of the color.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return c.Hex()
}

// LAB represents a color in the CIELAB color space.
type LAB struct {
	L, A, B float64
}

// D65 reference white (2° observer) and the CIE f(t) breakpoint and slope.
const (
	xn, yn, zn = 0.95047, 1.00000, 1.08883

	labEpsilon = 0.008856
	labKappa   = 7.787
)

// ToLAB converts an RGB color to CIELAB.
func (c RGB) ToLAB() LAB {
	// RGB to linear sRGB
	rLin := srgbToLinear(float64(c.R) / 255.0)
	gLin := srgbToLinear(float64(c.G) / 255.0)
	bLin := srgbToLinear(float64(c.B) / 255.0)

	// Linear sRGB to XYZ (D65 illuminant)
	x := 0.4124564*rLin + 0.3575761*gLin + 0.1804375*bLin
	y := 0.2126729*rLin + 0.7151522*gLin + 0.0721750*bLin
	z := 0.0193339*rLin + 0.1191920*gLin + 0.9503041*bLin

	// XYZ to LAB
	fx := labF(x / xn)
	fy := labF(y / yn)
	fz := labF(z / zn)

	l := 116.0*fy - 16.0
	a := 500.0 * (fx - fy)
	b := 200.0 * (fy - fz)

	return LAB{L: l, A: a, B: b}
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return labKappa*t + 16.0/116.0
}

// WeightedMean computes the weighted mean of a set of colors.
// weights[i] corresponds to colors[i]. If weights is nil, equal weights are used.
func WeightedMean(colors []RGB, weights []int) RGB {
	if len(colors) == 0 {
		return RGB{}
	}
	var totalR, totalG, totalB float64
	var totalW float64
	for i, c := range colors {
		w := 1.0
		if weights != nil {
			w = float64(weights[i])
		}
		totalR += float64(c.R) * w
		totalG += float64(c.G) * w
		totalB += float64(c.B) * w
		totalW += w
	}
	if totalW == 0 {
		return RGB{}
	}
	return RGB{
		R: uint8(math.Round(totalR / totalW)),
		G: uint8(math.Round(totalG / totalW)),
		B: uint8(math.Round(totalB / totalW)),
	}
}

// IsLight returns true if the color is perceptually light (luminance > 0.5).
func (c RGB) IsLight() bool {
	// Relative luminance formula
	rLin := srgbToLinear(float64(c.R) / 255.0)
	gLin := srgbToLinear(float64(c.G) / 255.0)
	bLin := srgbToLinear(float64(c.B) / 255.0)
	luminance := 0.2126*rLin + 0.7152*gLin + 0.0722*bLin
	return luminance > 0.5
}
