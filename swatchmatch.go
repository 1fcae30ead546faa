// Package swatchmatch finds the reference colors in a catalog (such as a
// Pantone library) that are perceptually closest to a query color.
//
// Colors are compared in CIELAB space with either CIEDE2000 or the CIE76
// Euclidean distance. Results are ranked by ascending distance, ties kept in
// catalog order, filtered by a maximum distance and truncated to a limit.
//
// Usage as a library:
//
//	entries, _ := swatchmatch.LoadLibrary("pantone_full.json")
//	res, _ := swatchmatch.FindNearestHex("#1E90FF", entries, swatchmatch.DefaultOptions())
//	for _, m := range res.Matches {
//		fmt.Println(m.Entry.Label(), m.Hex(), m.Distance)
//	}
//
// For repeated queries against the same catalog, build a Library once:
//
//	lib := swatchmatch.NewLibrary(entries)
//	res := lib.Nearest(query, opts)
package swatchmatch

import (
	"image"

	"github.com/maax3v3/swatchmatch/internal/color"
	"github.com/maax3v3/swatchmatch/internal/deltae"
	"github.com/maax3v3/swatchmatch/internal/imaging"
	"github.com/maax3v3/swatchmatch/internal/library"
	"github.com/maax3v3/swatchmatch/internal/match"
	"github.com/maax3v3/swatchmatch/internal/renderer"
)

type (
	// RGB is an sRGB color with 8-bit channels.
	RGB = color.RGB
	// LAB is a CIELAB color under the D65 white point.
	LAB = color.LAB
	// Metric selects the color difference formula.
	Metric = deltae.Metric
	// Entry is one reference color of a catalog.
	Entry = match.Entry
	// Match is an entry paired with its distance from the query.
	Match = match.Match
	// Result is the ranked, filtered and truncated outcome of a query.
	Result = match.Result
	// Options configures a query.
	Options = match.Options
	// Library is a catalog with colors resolved once, safe for concurrent use.
	Library = match.Library
)

// Supported metrics.
const (
	CIEDE2000   = deltae.CIEDE2000
	Euclidean76 = deltae.Euclidean76
)

var (
	// ErrInvalidFormat is returned for a color that is not six hex digits.
	ErrInvalidFormat = color.ErrInvalidFormat
	// ErrUnknownMetric is returned for an unsupported metric name.
	ErrUnknownMetric = deltae.ErrUnknownMetric
	// ErrEmpty is returned when a catalog has no usable entries.
	ErrEmpty = library.ErrEmpty
)

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (RGB, error) {
	return color.ParseHex(s)
}

// ParseMetric resolves a metric name such as "ciede2000" or "deltae76".
func ParseMetric(s string) (Metric, error) {
	return deltae.ParseMetric(s)
}

// ToLab converts an sRGB color to CIELAB.
func ToLab(c RGB) LAB {
	return c.ToLAB()
}

// DeltaE76 is the Euclidean distance between two Lab colors.
func DeltaE76(a, b LAB) float64 {
	return deltae.DeltaE76(a, b)
}

// DeltaE00 is the CIEDE2000 color difference with unit weighting factors.
func DeltaE00(a, b LAB) float64 {
	return deltae.DeltaE00(a, b)
}

// DefaultOptions returns CIEDE2000, no distance threshold and 10 results.
func DefaultOptions() Options {
	return match.DefaultOptions()
}

// NewLibrary resolves entries for repeated queries. Entries with a malformed
// color are skipped.
func NewLibrary(entries []Entry) *Library {
	return match.NewLibrary(entries)
}

// FindNearest ranks entries against query.
func FindNearest(query RGB, entries []Entry, opts Options) Result {
	return match.FindNearest(query, entries, opts)
}

// FindNearestHex parses query and ranks entries against it.
func FindNearestHex(query string, entries []Entry, opts Options) (Result, error) {
	return match.FindNearestHex(query, entries, opts)
}

// LoadLibrary reads a JSON or CSV catalog file.
func LoadLibrary(path string) ([]Entry, error) {
	entries, _, err := library.Load(path)
	return entries, err
}

// SampleImage returns the average color of the opaque pixels of an image
// file. Supports PNG, JPEG, and WEBP.
func SampleImage(path string) (RGB, error) {
	return imaging.LoadAverageColor(path)
}

// RenderSheet draws the query color followed by the ranked matches.
func RenderSheet(query RGB, matches []Match) *image.RGBA {
	return renderer.Render(query, matches, renderer.NewBitmapFont(), renderer.NewTextFont(), renderer.DefaultConfig())
}

// SavePNG writes an image to disk as PNG.
func SavePNG(path string, img image.Image) error {
	return imaging.SavePNG(path, img)
}
