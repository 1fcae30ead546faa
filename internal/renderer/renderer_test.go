package renderer

import (
	"image"
	"image/color"
	"testing"

	mcol "github.com/maax3v3/swatchmatch/internal/color"
	"github.com/maax3v3/swatchmatch/internal/match"
)

func TestBitmapFont_MeasureString(t *testing.T) {
	bf := NewBitmapFont()

	tests := []struct {
		name       string
		text       string
		size       int
		wantW, wantH int
	}{
		{
			name: "empty string",
			text: "", size: 14,
			wantW: 0, wantH: 0,
		},
		{
			name: "single digit scale 1",
			text: "5", size: 7,
			wantW: 5, wantH: 7,
		},
		{
			name: "two digits scale 1",
			text: "12", size: 7,
			// 2 * (5*1) + (2-1)*1 = 11
			wantW: 11, wantH: 7,
		},
		{
			name: "single digit scale 2",
			text: "5", size: 14,
			wantW: 10, wantH: 14,
		},
		{
			name: "decimal distance",
			text: "1.23", size: 7,
			// 4 * 5 + 3 = 23
			wantW: 23, wantH: 7,
		},
		{
			name: "size smaller than glyph height uses scale 1",
			text: "0", size: 3,
			wantW: 5, wantH: 7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := bf.MeasureString(tt.text, tt.size)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("MeasureString(%q, %d) = (%d, %d), want (%d, %d)",
					tt.text, tt.size, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestBitmapFont_DrawString_WritesPixels(t *testing.T) {
	bf := NewBitmapFont()
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	// Fill with white
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	bf.DrawString(img, "1", 25, 25, color.Black, 7)

	// At least some pixels should now be black
	blackCount := 0
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r == 0 && g == 0 && b == 0 {
				blackCount++
			}
		}
	}
	if blackCount == 0 {
		t.Error("DrawString did not write any pixels")
	}
}

func TestBitmapFont_DrawString_UnknownGlyph(t *testing.T) {
	bf := NewBitmapFont()
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	// Drawing a character with no glyph should not panic
	bf.DrawString(img, "X", 25, 25, color.Black, 7)

	// No black pixels expected (unknown glyph is skipped)
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r == 0 && g == 0 && b == 0 {
				t.Fatal("unexpected black pixel for unknown glyph")
			}
		}
	}
}

func TestBitmapFont_ImplementsFontRenderer(t *testing.T) {
	var _ FontRenderer = (*BitmapFont)(nil)
}

func TestBitmapFont_DrawString_DecimalPoint(t *testing.T) {
	bf := NewBitmapFont()
	img := whiteImage(20, 20)

	bf.DrawString(img, ".", 10, 10, color.Black, 7)

	if countColor(img, color.RGBA{0, 0, 0, 255}) != 4 {
		t.Error("decimal point should draw a 2x2 block")
	}
}

func TestTextFont_MeasureString(t *testing.T) {
	tf := NewTextFont()
	if w, h := tf.MeasureString("", 13); w != 0 || h != 0 {
		t.Errorf("empty string: got (%d, %d)", w, h)
	}
	w, h := tf.MeasureString("Ab", 13)
	if w != 14 || h != 13 {
		t.Errorf("MeasureString(%q) = (%d, %d), want (14, 13)", "Ab", w, h)
	}
}

func TestTextFont_DrawString_WritesPixels(t *testing.T) {
	tf := NewTextFont()
	img := whiteImage(80, 30)

	tf.DrawString(img, "PANTONE", 40, 15, color.Black, 13)

	if countColor(img, color.RGBA{255, 255, 255, 255}) == 80*30 {
		t.Error("DrawString did not write any pixels")
	}
}

func TestTextFont_ImplementsFontRenderer(t *testing.T) {
	var _ FontRenderer = (*TextFont)(nil)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Padding <= 0 || cfg.QuerySize <= 0 || cfg.CircleSize <= 0 ||
		cfg.Spacing <= 0 || cfg.LabelHeight <= 0 || cfg.Columns <= 0 {
		t.Errorf("default config has non-positive values: %+v", cfg)
	}
}

func sheetMatches() []match.Match {
	return []match.Match{
		{
			Entry:    match.Entry{Code: "PANTONE 2925 C", Hex: "#009CDE"},
			Color:    mcol.RGB{R: 0x00, G: 0x9C, B: 0xDE},
			Distance: 3.5,
		},
		{
			Entry:    match.Entry{Name: "Sunshine yellow with a very long name", Hex: "#FFFF00"},
			Color:    mcol.RGB{R: 255, G: 255},
			Distance: 40.25,
		},
	}
}

func TestRender_OutputDimensions(t *testing.T) {
	cfg := DefaultConfig()
	out := Render(mcol.RGB{R: 30, G: 144, B: 255}, sheetMatches(), NewBitmapFont(), NewTextFont(), cfg)

	// Two matches fit on one row; the header text sets the minimum width.
	wantW := 2*cfg.Padding + cfg.QuerySize + 200
	wantH := cfg.Padding + cfg.QuerySize + cfg.Padding +
		cfg.CircleSize + cfg.LabelHeight + cfg.Spacing + cfg.Padding
	if out.Bounds().Dx() != wantW || out.Bounds().Dy() != wantH {
		t.Errorf("got %dx%d, want %dx%d", out.Bounds().Dx(), out.Bounds().Dy(), wantW, wantH)
	}
}

func TestRender_WrapsRows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Columns = 2
	matches := append(sheetMatches(), sheetMatches()...)
	matches = append(matches, sheetMatches()[0])

	out := Render(mcol.RGB{}, matches, NewBitmapFont(), NewTextFont(), cfg)

	rowH := cfg.CircleSize + cfg.LabelHeight + cfg.Spacing
	wantH := cfg.Padding + cfg.QuerySize + cfg.Padding + 3*rowH + cfg.Padding
	if out.Bounds().Dy() != wantH {
		t.Errorf("height: got %d, want %d", out.Bounds().Dy(), wantH)
	}
}

func TestRender_QuerySwatch(t *testing.T) {
	cfg := DefaultConfig()
	query := mcol.RGB{R: 30, G: 144, B: 255}
	out := Render(query, nil, NewBitmapFont(), NewTextFont(), cfg)

	c := out.RGBAAt(cfg.Padding+cfg.QuerySize/2, cfg.Padding+cfg.QuerySize/2)
	if c != query.ToStdColor() {
		t.Errorf("query swatch center: got %v, want %v", c, query.ToStdColor())
	}
	edge := out.RGBAAt(cfg.Padding, cfg.Padding+cfg.QuerySize/2)
	if edge != border {
		t.Errorf("query swatch outline: got %v, want %v", edge, border)
	}
}

func TestRender_MatchCircles(t *testing.T) {
	cfg := DefaultConfig()
	matches := sheetMatches()
	out := Render(mcol.RGB{}, matches, NewBitmapFont(), NewTextFont(), cfg)

	radius := cfg.CircleSize / 2
	cy := cfg.Padding + cfg.QuerySize + cfg.Padding + radius
	cell := cfg.CircleSize + cfg.Spacing
	for i, m := range matches {
		cx := cfg.Padding + i*cell + radius
		// Left of the rank digits but well inside the circle.
		c := out.RGBAAt(cx-radius*2/3, cy)
		if c != m.Color.ToStdColor() {
			t.Errorf("match %d fill: got %v, want %v", i, c, m.Color.ToStdColor())
		}
	}
}

func TestRender_NoMatches(t *testing.T) {
	cfg := DefaultConfig()
	out := Render(mcol.RGB{R: 255}, nil, NewBitmapFont(), NewTextFont(), cfg)

	wantH := cfg.Padding + cfg.QuerySize + cfg.Padding + cfg.Padding
	if out.Bounds().Dy() != wantH {
		t.Errorf("height: got %d, want %d", out.Bounds().Dy(), wantH)
	}
	corner := out.RGBAAt(out.Bounds().Dx()-1, out.Bounds().Dy()-1)
	if corner != background {
		t.Errorf("background: got %v", corner)
	}
}

func TestTruncate(t *testing.T) {
	tf := NewTextFont()
	if got := truncate(tf, "short", 100); got != "short" {
		t.Errorf("got %q", got)
	}
	got := truncate(tf, "Sunshine yellow", 70)
	if w, _ := tf.MeasureString(got, 13); w > 70 {
		t.Errorf("%q is %dpx wide, want <= 70", got, w)
	}
	if got != "Sunshin..." {
		t.Errorf("got %q, want %q", got, "Sunshin...")
	}
	if got := truncate(tf, "abc", 1); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	return img
}

func countColor(img *image.RGBA, c color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}
