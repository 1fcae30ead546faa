package renderer

import (
	"image"
	"image/color"
)

// FontRenderer draws the text of a swatch sheet: rank numbers inside the
// match circles, distances under them and entry labels.
type FontRenderer interface {
	// DrawString draws text centered at (cx, cy). size is the approximate
	// glyph height in pixels; renderers with a fixed face may ignore it.
	DrawString(img *image.RGBA, text string, cx, cy int, col color.Color, size int)

	// MeasureString returns the pixel extent DrawString would cover.
	MeasureString(text string, size int) (width, height int)
}

// BitmapFont draws ranks and distances ("3", "12.47") from 5x7 glyphs scaled
// by whole pixels, so it stays legible inside small circles. Characters
// other than digits and '.' advance the pen without drawing.
type BitmapFont struct{}

// NewBitmapFont creates a BitmapFont.
func NewBitmapFont() *BitmapFont {
	return &BitmapFont{}
}

// glyphs holds one row bitmask per line, most significant of the low five
// bits on the left.
var glyphs = map[rune][glyphHeight]uint8{
	'0': {0x0E, 0x11, 0x13, 0x15, 0x19, 0x11, 0x0E},
	'1': {0x04, 0x0C, 0x04, 0x04, 0x04, 0x04, 0x0E},
	'2': {0x0E, 0x11, 0x01, 0x06, 0x08, 0x10, 0x1F},
	'3': {0x0E, 0x11, 0x01, 0x06, 0x01, 0x11, 0x0E},
	'4': {0x02, 0x06, 0x0A, 0x12, 0x1F, 0x02, 0x02},
	'5': {0x1F, 0x10, 0x1E, 0x01, 0x01, 0x11, 0x0E},
	'6': {0x06, 0x08, 0x10, 0x1E, 0x11, 0x11, 0x0E},
	'7': {0x1F, 0x01, 0x02, 0x04, 0x08, 0x08, 0x08},
	'8': {0x0E, 0x11, 0x11, 0x0E, 0x11, 0x11, 0x0E},
	'9': {0x0E, 0x11, 0x11, 0x0F, 0x01, 0x02, 0x0C},
	'.': {0x00, 0x00, 0x00, 0x00, 0x00, 0x0C, 0x0C},
}

const (
	glyphWidth  = 5
	glyphHeight = 7
)

// glyphScale is the whole-pixel magnification for a requested height.
func glyphScale(size int) int {
	if s := size / glyphHeight; s > 1 {
		return s
	}
	return 1
}

func (bf *BitmapFont) DrawString(img *image.RGBA, text string, cx, cy int, col color.Color, size int) {
	scale := glyphScale(size)
	w, h := bf.MeasureString(text, size)
	x, y := cx-w/2, cy-h/2
	for _, ch := range text {
		if rows, ok := glyphs[ch]; ok {
			drawGlyph(img, rows, x, y, scale, col)
		}
		x += (glyphWidth + 1) * scale
	}
}

func (bf *BitmapFont) MeasureString(text string, size int) (width, height int) {
	n := len([]rune(text))
	if n == 0 {
		return 0, 0
	}
	scale := glyphScale(size)
	return n*glyphWidth*scale + (n-1)*scale, glyphHeight * scale
}

// drawGlyph paints the set bits of rows as scale x scale blocks with the
// top-left corner at (x, y), clipped to img.
func drawGlyph(img *image.RGBA, rows [glyphHeight]uint8, x, y, scale int, col color.Color) {
	b := img.Bounds()
	for row, bits := range rows {
		for bit := 0; bit < glyphWidth; bit++ {
			if bits&(1<<(glyphWidth-1-bit)) == 0 {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					p := image.Pt(b.Min.X+x+bit*scale+dx, b.Min.Y+y+row*scale+dy)
					if p.In(b) {
						img.Set(p.X, p.Y, col)
					}
				}
			}
		}
	}
}
