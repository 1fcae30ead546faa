package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/maax3v3/swatchmatch/internal/color"
	"github.com/maax3v3/swatchmatch/internal/config"
	"github.com/maax3v3/swatchmatch/internal/imaging"
	"github.com/maax3v3/swatchmatch/internal/library"
	"github.com/maax3v3/swatchmatch/internal/match"
	"github.com/maax3v3/swatchmatch/internal/renderer"
	"github.com/maax3v3/swatchmatch/internal/report"
)

// Request names the query and the optional outputs of one match run.
type Request struct {
	Hex       string // query color; ignored when ImagePath is set
	ImagePath string // sample the query color from this image
	CSVPath   string // write the matches as CSV
	PNGPath   string // render a swatch sheet
}

// Validate checks that exactly one query source is given and that the
// outputs are writable formats.
func (r Request) Validate() error {
	hasHex := strings.TrimSpace(r.Hex) != ""
	switch {
	case hasHex && r.ImagePath != "":
		return errors.New("give either a hex color or --image, not both")
	case !hasHex && r.ImagePath == "":
		return errors.New("a hex color or --image is required")
	}
	if r.PNGPath != "" {
		if ext := strings.ToLower(filepath.Ext(r.PNGPath)); ext != ".png" {
			return fmt.Errorf("--png must be a .png file, got %q", ext)
		}
	}
	return nil
}

// Run executes one match: load the library, resolve the query color, rank
// the library and write the report to w.
func Run(ctx context.Context, cfg config.Config, req Request, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	// Step 1: Load library
	entries, err := LoadLibrary(ctx, cfg.Library, w)
	if err != nil {
		return err
	}
	lib := match.NewLibrary(entries)
	fmt.Fprintf(w, "Library loaded: %d colors\n", lib.Len())
	if lib.Skipped() > 0 {
		fmt.Fprintf(w, "Skipped %d entries with an invalid color\n", lib.Skipped())
	}

	// Step 2: Resolve the query color
	query, err := resolveQuery(req, w)
	if err != nil {
		return err
	}

	// Step 3: Rank the library
	opts := cfg.MatchOptions()
	res := lib.Nearest(query, opts)

	// Step 4: Report
	fmt.Fprintln(w)
	if err := report.WriteText(w, report.Summary{
		Input:  query.Hex(),
		Metric: opts.Metric.String(),
		Limit:  opts.Limit,
		Result: res,
	}); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if len(res.Matches) > 0 {
		fmt.Fprintf(w, "\nBest: %s\n", report.BestSummary(res.Matches[0]))
	}

	// Step 5: Optional outputs
	if req.CSVPath != "" {
		fmt.Fprintf(w, "Saving CSV: %s\n", req.CSVPath)
		if err := saveCSV(req.CSVPath, res.Matches); err != nil {
			return fmt.Errorf("saving CSV: %w", err)
		}
	}
	if req.PNGPath != "" {
		fmt.Fprintf(w, "Saving swatch sheet: %s\n", req.PNGPath)
		sheet := renderer.Render(query, res.Matches, renderer.NewBitmapFont(), renderer.NewTextFont(), renderer.DefaultConfig())
		if err := imaging.SavePNG(req.PNGPath, sheet); err != nil {
			return fmt.Errorf("saving swatch sheet: %w", err)
		}
	}
	return nil
}

// LoadLibrary loads src, or the first existing default library when src is
// empty. A library without any entries is an error.
func LoadLibrary(ctx context.Context, src string, w io.Writer) ([]match.Entry, error) {
	var (
		entries []match.Entry
		stats   library.Stats
		err     error
	)
	if src == "" {
		fmt.Fprintf(w, "Loading library: %s\n", strings.Join(library.DefaultPaths, " or "))
		entries, stats, src, err = library.LoadFirst(library.DefaultPaths...)
	} else {
		fmt.Fprintf(w, "Loading library: %s\n", src)
		entries, stats, err = library.Open(ctx, nil, src)
	}
	if err != nil {
		return nil, fmt.Errorf("loading library: %w", err)
	}
	if stats.NoColor > 0 {
		fmt.Fprintf(w, "Ignored %d records without a color\n", stats.NoColor)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: %w", src, library.ErrEmpty)
	}
	return entries, nil
}

func resolveQuery(req Request, w io.Writer) (color.RGB, error) {
	if req.ImagePath != "" {
		fmt.Fprintf(w, "Sampling image: %s\n", req.ImagePath)
		c, err := imaging.LoadAverageColor(req.ImagePath)
		if err != nil {
			return color.RGB{}, fmt.Errorf("sampling image: %w", err)
		}
		fmt.Fprintf(w, "Average color: %s\n", c.Hex())
		return c, nil
	}
	c, err := color.ParseHex(strings.TrimSpace(req.Hex))
	if err != nil {
		return color.RGB{}, fmt.Errorf("query: %w", err)
	}
	return c, nil
}

func saveCSV(path string, matches []match.Match) error {
	f, err := os.Create(imaging.ExpandPath(path))
	if err != nil {
		return err
	}
	if err := report.WriteCSV(f, matches); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
