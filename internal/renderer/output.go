package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	mcol "github.com/maax3v3/swatchmatch/internal/color"
	"github.com/maax3v3/swatchmatch/internal/match"
	"github.com/maax3v3/swatchmatch/internal/report"
)

// Config holds rendering configuration.
type Config struct {
	Padding     int // outer margin and gap between the query band and the grid
	QuerySize   int // side of the query swatch square
	CircleSize  int // diameter of match circles
	Spacing     int // gap between grid cells
	LabelHeight int // room under each circle for the distance and label
	Columns     int // maximum circles per row
}

// DefaultConfig returns sensible default rendering configuration.
func DefaultConfig() Config {
	return Config{
		Padding:     20,
		QuerySize:   80,
		CircleSize:  60,
		Spacing:     24,
		LabelHeight: 40,
		Columns:     5,
	}
}

var (
	background = color.RGBA{255, 255, 255, 255}
	border     = color.RGBA{100, 100, 100, 255}
	separator  = color.RGBA{200, 200, 200, 255}
	textColor  = color.RGBA{40, 40, 40, 255}
)

// Render draws a swatch sheet: the query color at the top, then one circle
// per match in rank order with the rank inside and the distance and label
// underneath.
func Render(query mcol.RGB, matches []match.Match, digits, text FontRenderer, cfg Config) *image.RGBA {
	cols := cfg.Columns
	if cols < 1 {
		cols = 1
	}
	if len(matches) > 0 && len(matches) < cols {
		cols = len(matches)
	}
	rows := (len(matches) + cols - 1) / cols

	cell := cfg.CircleSize + cfg.Spacing
	gridW := cols*cell - cfg.Spacing
	width := 2*cfg.Padding + max(gridW, cfg.QuerySize+200)
	headerH := cfg.Padding + cfg.QuerySize + cfg.Padding
	rowH := cfg.CircleSize + cfg.LabelHeight + cfg.Spacing
	height := headerH + rows*rowH + cfg.Padding

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.SetRGBA(x, y, background)
		}
	}

	drawQuery(out, query, text, cfg)

	// Thin separator between the query band and the grid
	sepY := headerH - cfg.Padding/2
	for x := cfg.Padding; x < width-cfg.Padding; x++ {
		out.SetRGBA(x, sepY, separator)
	}

	radius := cfg.CircleSize / 2
	fontSize := cfg.CircleSize * 2 / 5
	for i, m := range matches {
		row := i / cols
		col := i % cols

		cx := cfg.Padding + col*cell + radius
		cy := headerH + row*rowH + radius

		fill := m.Color.ToStdColor()
		drawFilledCircle(out, cx, cy, radius, fill)
		drawCircleBorder(out, cx, cy, radius, border)

		rankColor := color.Color(color.Black)
		if !m.Color.IsLight() {
			rankColor = color.White
		}
		digits.DrawString(out, fmt.Sprintf("%d", i+1), cx, cy, rankColor, fontSize)

		labelY := cy + radius + cfg.LabelHeight/4
		digits.DrawString(out, report.FormatDistance(m.Distance), cx, labelY, textColor, 7)
		label := truncate(text, m.Entry.Label(), cell)
		text.DrawString(out, label, cx, labelY+cfg.LabelHeight/2, textColor, 13)
	}

	return out
}

func drawQuery(img *image.RGBA, query mcol.RGB, text FontRenderer, cfg Config) {
	x0, y0 := cfg.Padding, cfg.Padding
	fill := query.ToStdColor()
	for y := y0; y < y0+cfg.QuerySize; y++ {
		for x := x0; x < x0+cfg.QuerySize; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	// Outline
	for i := 0; i < cfg.QuerySize; i++ {
		img.SetRGBA(x0+i, y0, border)
		img.SetRGBA(x0+i, y0+cfg.QuerySize-1, border)
		img.SetRGBA(x0, y0+i, border)
		img.SetRGBA(x0+cfg.QuerySize-1, y0+i, border)
	}

	label := "Input " + query.Hex()
	w, _ := text.MeasureString(label, 13)
	text.DrawString(img, label, x0+cfg.QuerySize+cfg.Padding+w/2, y0+cfg.QuerySize/2, textColor, 13)
}

// truncate shortens s with a trailing "..." until it fits in maxW pixels.
func truncate(f FontRenderer, s string, maxW int) string {
	if w, _ := f.MeasureString(s, 13); w <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		candidate := string(r) + "..."
		if w, _ := f.MeasureString(candidate, 13); w <= maxW {
			return candidate
		}
	}
	return ""
}

func drawFilledCircle(img *image.RGBA, cx, cy, radius int, col color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				px, py := cx+dx, cy+dy
				if px >= 0 && px < img.Bounds().Dx() && py >= 0 && py < img.Bounds().Dy() {
					img.SetRGBA(px, py, col)
				}
			}
		}
	}
}

func drawCircleBorder(img *image.RGBA, cx, cy, radius int, col color.RGBA) {
	for angle := 0.0; angle < 2*math.Pi; angle += 0.01 {
		px := cx + int(math.Round(float64(radius)*math.Cos(angle)))
		py := cy + int(math.Round(float64(radius)*math.Sin(angle)))
		if px >= 0 && px < img.Bounds().Dx() && py >= 0 && py < img.Bounds().Dy() {
			img.SetRGBA(px, py, col)
		}
	}
}
