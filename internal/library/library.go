// Package library loads reference color catalogs from JSON or delimited text
// into match entries.
package library

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/maax3v3/swatchmatch/internal/match"
)

var (
	// ErrUnsupportedFormat is returned for sources that are neither JSON nor
	// delimited text.
	ErrUnsupportedFormat = errors.New("unsupported library format")

	// ErrEmpty is returned when a source yields no usable entries.
	ErrEmpty = errors.New("library has no usable entries")
)

// Format identifies how a library source is encoded.
type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	default:
		return "auto"
	}
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".csv", ".txt", ".tsv":
		return FormatCSV, nil
	default:
		return FormatAuto, fmt.Errorf("%w %q (supported: json, csv, txt, tsv)", ErrUnsupportedFormat, ext)
	}
}

// Stats summarises one parse.
type Stats struct {
	Read    int // records seen
	Added   int // entries returned
	NoColor int // records without any color field, omitted
	Invalid int // entries whose color could not be normalised, kept verbatim
}

// DefaultPaths are tried in order by LoadFirst when no library is configured.
var DefaultPaths = []string{"pantone_full.json", "pantone_sample.json"}

// Load reads a library file. The format is chosen from the extension.
func Load(path string) ([]match.Entry, Stats, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, Stats{}, err
	}
	full, err := homedir.Expand(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("expanding %q: %w", path, err)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening library: %w", err)
	}
	defer f.Close()

	entries, stats, err := Parse(f, format)
	if err != nil {
		return nil, stats, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, stats, nil
}

// LoadFirst loads the first path that exists. It returns the path used.
func LoadFirst(paths ...string) ([]match.Entry, Stats, string, error) {
	var lastErr error
	for _, p := range paths {
		entries, stats, err := Load(p)
		if err == nil {
			return entries, stats, p, nil
		}
		lastErr = err
		if !errors.Is(err, os.ErrNotExist) {
			return nil, stats, p, err
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no library paths given")
	}
	return nil, Stats{}, "", lastErr
}

// Parse decodes a library from r. FormatAuto tries JSON first and falls
// back to delimited text.
func Parse(r io.Reader, format Format) ([]match.Entry, Stats, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(r)
	case FormatCSV:
		return ParseCSV(r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Stats{}, err
	}
	if entries, stats, err := ParseJSON(bytes.NewReader(data)); err == nil {
		return entries, stats, nil
	}
	return ParseCSV(bytes.NewReader(data))
}

var (
	// hexPattern recognises a color value in an unlabelled field.
	hexPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)
	hexDigits  = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)
)

// NormalizeHex returns s as "#RRGGBB", expanding 3-digit shorthand.
func NormalizeHex(s string) (string, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if !hexDigits.MatchString(h) {
		return "", false
	}
	return "#" + strings.ToUpper(h), true
}

var (
	hexKeys  = []string{"hex", "color", "colour", "hexcode"}
	codeKeys = []string{"pantone", "code", "id"}
	nameKeys = []string{"name", "title", "description"}

	// Looser header matches for hand-made spreadsheets.
	hexHints  = []string{"hex", "#", "color", "colour", "cor"}
	codeHints = []string{"pantone", "code"}
	nameHints = []string{"name", "nome", "descricao", "description"}
)

// record is one decoded row or object with its original keys.
type record map[string]any

// extract maps a record to an entry. ok is false when no color field exists.
func (rec record) extract() (e match.Entry, ok bool) {
	keys := make(map[string]string, len(rec))
	lowered := make([]string, 0, len(rec))
	for k := range rec {
		lk := strings.ToLower(strings.TrimSpace(k))
		keys[lk] = k
		lowered = append(lowered, lk)
	}
	sort.Strings(lowered)

	used := map[string]bool{}
	var hexVal any
	if k, found := lookup(keys, lowered, used, hexKeys, hexHints); found {
		hexVal = rec[k]
		used[k] = true
	} else {
		// Fall back to any value that looks like a hex color.
		for _, lk := range lowered {
			if s, isStr := rec[keys[lk]].(string); isStr && hexPattern.MatchString(strings.TrimSpace(s)) {
				hexVal = s
				used[keys[lk]] = true
				break
			}
		}
	}
	hex, isStr := hexVal.(string)
	if !isStr || strings.TrimSpace(hex) == "" {
		return match.Entry{}, false
	}

	e.Hex = strings.TrimSpace(hex)
	if k, found := lookup(keys, lowered, used, codeKeys, codeHints); found {
		e.Code = stringify(rec[k])
		used[k] = true
	}
	if k, found := lookup(keys, lowered, used, nameKeys, nameHints); found {
		e.Name = stringify(rec[k])
	}
	return e, true
}

// lookup returns the original key of the first exact match, then of the
// first key containing a hint, skipping keys already used.
func lookup(keys map[string]string, lowered []string, used map[string]bool, exact, hints []string) (string, bool) {
	for _, k := range exact {
		if orig, ok := keys[k]; ok && !used[orig] {
			return orig, true
		}
	}
	for _, h := range hints {
		for _, lk := range lowered {
			if orig := keys[lk]; strings.Contains(lk, h) && !used[orig] {
				return orig, true
			}
		}
	}
	return "", false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// collect turns records into entries, normalising colors where possible.
func collect(records []record) ([]match.Entry, Stats) {
	stats := Stats{Read: len(records)}
	entries := make([]match.Entry, 0, len(records))
	for _, rec := range records {
		e, ok := rec.extract()
		if !ok {
			stats.NoColor++
			continue
		}
		if norm, ok := NormalizeHex(e.Hex); ok {
			e.Hex = norm
		} else {
			stats.Invalid++
		}
		entries = append(entries, e)
	}
	stats.Added = len(entries)
	return entries, stats
}
