// Package match ranks a library of reference colors by perceptual closeness
// to a query color.
package match

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/maax3v3/swatchmatch/internal/color"
	"github.com/maax3v3/swatchmatch/internal/deltae"
)

// DefaultLimit is the number of matches returned when Options.Limit is unset.
const DefaultLimit = 10

// Unbounded is the MaxDistance that accepts every scored entry.
var Unbounded = math.Inf(1)

// Entry is a reference color with its catalog labels. The labels are carried
// through untouched.
type Entry struct {
	Code string // catalog code, e.g. "PANTONE 2925 C"
	Name string // display name
	Hex  string // six hex digits, optionally prefixed with '#'
}

// Label returns the code, or the name when the entry has no code.
func (e Entry) Label() string {
	if e.Code != "" {
		return e.Code
	}
	return e.Name
}

// Match is a library entry scored against a query color.
type Match struct {
	Entry    Entry
	Color    color.RGB // resolved color used for the comparison
	Distance float64   // lower is closer, 0 is an exact match
}

// Hex returns the canonical "#RRGGBB" form of the matched color.
func (m Match) Hex() string {
	return m.Color.Hex()
}

// Result is the outcome of one match operation.
type Result struct {
	// Matches holds at most Options.Limit entries, closest first.
	Matches []Match
	// Total is the number of entries within MaxDistance before truncation.
	Total int
}

// Options configures a match operation.
type Options struct {
	// Metric selects the distance formula. Default: CIEDE2000.
	Metric deltae.Metric

	// MaxDistance drops entries farther than this from the query.
	// Default: Unbounded.
	MaxDistance float64

	// Limit is the maximum number of matches returned. Default: 10.
	Limit int

	// Workers is the number of goroutines scoring the library.
	// Values below 2 score sequentially. Default: 1.
	Workers int
}

// DefaultOptions returns Options with the default metric, no threshold and
// a limit of 10.
func DefaultOptions() Options {
	return Options{
		Metric:      deltae.CIEDE2000,
		MaxDistance: Unbounded,
		Limit:       DefaultLimit,
		Workers:     1,
	}
}

// Validate reports configuration errors a caller should surface.
func (o Options) Validate() error {
	var errs []error
	if !o.Metric.Valid() {
		errs = append(errs, fmt.Errorf("metric: %w: %d", deltae.ErrUnknownMetric, int(o.Metric)))
	}
	if math.IsNaN(o.MaxDistance) || o.MaxDistance <= 0 {
		errs = append(errs, fmt.Errorf("max distance must be > 0, got %v", o.MaxDistance))
	}
	if o.Limit <= 0 {
		errs = append(errs, fmt.Errorf("limit must be > 0, got %d", o.Limit))
	}
	if o.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", o.Workers))
	}
	return errors.Join(errs...)
}

// withDefaults fills zero-valued fields so a literal Options{} behaves like
// DefaultOptions.
func (o Options) withDefaults() Options {
	if o.MaxDistance == 0 || math.IsNaN(o.MaxDistance) {
		o.MaxDistance = Unbounded
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// reference is a library entry resolved once to RGB and CIELAB.
type reference struct {
	entry Entry
	rgb   color.RGB
	lab   color.LAB
}

// Library is an immutable, pre-resolved set of reference colors. It is safe
// for concurrent use.
type Library struct {
	refs    []reference
	skipped int
}

// NewLibrary resolves every entry's color once. Entries whose color is not
// six hex digits are skipped and counted, not reported.
func NewLibrary(entries []Entry) *Library {
	lib := &Library{refs: make([]reference, 0, len(entries))}
	for _, e := range entries {
		rgb, err := color.ParseHex(strings.TrimSpace(e.Hex))
		if err != nil {
			lib.skipped++
			continue
		}
		lib.refs = append(lib.refs, reference{entry: e, rgb: rgb, lab: rgb.ToLAB()})
	}
	return lib
}

// Len returns the number of usable entries.
func (l *Library) Len() int {
	return len(l.refs)
}

// Skipped returns the number of entries dropped for a malformed color.
func (l *Library) Skipped() int {
	return l.skipped
}

// Entries returns the usable entries in library order.
func (l *Library) Entries() []Entry {
	out := make([]Entry, len(l.refs))
	for i, r := range l.refs {
		out[i] = r.entry
	}
	return out
}

// Nearest ranks the library against query. The result is sorted by
// ascending distance with ties kept in library order, filtered to
// MaxDistance and truncated to Limit. An empty library yields an empty
// result.
func (l *Library) Nearest(query color.RGB, opts Options) Result {
	opts = opts.withDefaults()
	if len(l.refs) == 0 {
		return Result{Matches: []Match{}}
	}

	q := query.ToLAB()
	scored := make([]Match, len(l.refs))
	parallelChunks(len(l.refs), opts.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			r := &l.refs[i]
			scored[i] = Match{
				Entry:    r.entry,
				Color:    r.rgb,
				Distance: opts.Metric.Distance(q, r.lab),
			}
		}
	})

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})

	// Sorted ascending, so the entries within threshold form a prefix.
	total := sort.Search(len(scored), func(i int) bool {
		return scored[i].Distance > opts.MaxDistance
	})
	shown := total
	if shown > opts.Limit {
		shown = opts.Limit
	}

	return Result{
		Matches: scored[:shown:shown],
		Total:   total,
	}
}

// FindNearest resolves entries and ranks them against query in one call.
func FindNearest(query color.RGB, entries []Entry, opts Options) Result {
	return NewLibrary(entries).Nearest(query, opts)
}

// FindNearestHex parses query and ranks entries against it. A malformed
// query fails with color.ErrInvalidFormat and no result.
func FindNearestHex(query string, entries []Entry, opts Options) (Result, error) {
	rgb, err := color.ParseHex(query)
	if err != nil {
		return Result{}, fmt.Errorf("query: %w", err)
	}
	return FindNearest(rgb, entries, opts), nil
}
