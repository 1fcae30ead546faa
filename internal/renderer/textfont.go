package renderer

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextFont renders arbitrary ASCII text with the fixed 7x13 face from
// golang.org/x/image. The size argument is ignored.
type TextFont struct {
	face font.Face
}

// NewTextFont creates a TextFont.
func NewTextFont() *TextFont {
	return &TextFont{face: basicfont.Face7x13}
}

func (tf *TextFont) DrawString(img *image.RGBA, text string, cx, cy int, col color.Color, size int) {
	w, h := tf.MeasureString(text, size)
	ascent := tf.face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: tf.face,
		Dot:  fixed.P(cx-w/2, cy-h/2+ascent),
	}
	d.DrawString(text)
}

func (tf *TextFont) MeasureString(text string, size int) (width, height int) {
	if text == "" {
		return 0, 0
	}
	m := tf.face.Metrics()
	return font.MeasureString(tf.face, text).Ceil(), (m.Ascent + m.Descent).Ceil()
}
