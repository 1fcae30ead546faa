package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/maax3v3/swatchmatch/internal/match"
)

// FetchTimeout bounds a single remote source download.
const FetchTimeout = 20 * time.Second

const userAgent = "swatchmatch/1.0"

// Fetch reads a source, downloading http(s) URLs and reading anything else
// as a local path.
func Fetch(ctx context.Context, client *http.Client, src string) ([]byte, error) {
	if !isURL(src) {
		path, err := homedir.Expand(src)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(path)
	}

	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: %s", src, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Open loads a library from a local path or an http(s) URL. Remote sources
// are parsed by extension when it is recognised and sniffed otherwise.
func Open(ctx context.Context, client *http.Client, src string) ([]match.Entry, Stats, error) {
	if !isURL(src) {
		return Load(src)
	}
	data, err := Fetch(ctx, client, src)
	if err != nil {
		return nil, Stats{}, err
	}
	format, err := FormatFromPath(strings.SplitN(src, "?", 2)[0])
	if err != nil {
		format = FormatAuto
	}
	entries, stats, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, stats, fmt.Errorf("parsing %s: %w", src, err)
	}
	return entries, stats, nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// SourceLog records what one source contributed to a merge.
type SourceLog struct {
	Source string
	Read   int
	Added  int
	Err    error
}

// Merge reads every source, keeps entries with a valid color, normalises it
// to "#RRGGBB" and drops later duplicates of the same color. The result is
// sorted by hex. A failing source is logged and skipped.
func Merge(ctx context.Context, client *http.Client, sources []string) ([]match.Entry, []SourceLog) {
	var merged []match.Entry
	seen := make(map[string]bool)
	logs := make([]SourceLog, 0, len(sources))

	for _, src := range sources {
		src = strings.TrimSpace(src)
		if src == "" || strings.HasPrefix(src, "#") {
			continue
		}
		sl := SourceLog{Source: src}

		data, err := Fetch(ctx, client, src)
		if err != nil {
			sl.Err = err
			logs = append(logs, sl)
			continue
		}
		entries, stats, err := Parse(bytes.NewReader(data), FormatAuto)
		if err != nil {
			sl.Err = err
			logs = append(logs, sl)
			continue
		}
		sl.Read = stats.Read

		for _, e := range entries {
			norm, ok := NormalizeHex(e.Hex)
			if !ok || seen[norm] {
				continue
			}
			seen[norm] = true
			e.Hex = norm
			merged = append(merged, e)
			sl.Added++
		}
		logs = append(logs, sl)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Hex < merged[j].Hex
	})
	return merged, logs
}

// ReadSources reads a sources list: one path or URL per line, blank lines
// and '#' comments ignored.
func ReadSources(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// jsonEntry is the normalised on-disk shape of a library entry.
type jsonEntry struct {
	Hex     string `json:"hex"`
	Pantone string `json:"pantone,omitempty"`
	Name    string `json:"name,omitempty"`
}

// WriteJSON writes entries as an indented JSON array readable by ParseJSON.
func WriteJSON(w io.Writer, entries []match.Entry) error {
	out := make([]jsonEntry, len(entries))
	for i, e := range entries {
		out[i] = jsonEntry{Hex: e.Hex, Pantone: e.Code, Name: e.Name}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// WriteLog writes a markdown summary of a merge.
func WriteLog(w io.Writer, logs []SourceLog, total int) error {
	read := 0
	for _, l := range logs {
		read += l.Read
	}
	var b strings.Builder
	b.WriteString("# Sources log\n\n")
	fmt.Fprintf(&b, "- sources processed: %d\n", len(logs))
	fmt.Fprintf(&b, "- entries read: %d\n", read)
	fmt.Fprintf(&b, "- entries kept: %d\n\n", total)
	b.WriteString("## Per source\n")
	for _, l := range logs {
		if l.Err != nil {
			fmt.Fprintf(&b, "- %s: failed (%v)\n", l.Source, l.Err)
			continue
		}
		fmt.Fprintf(&b, "- %s: read %d, added %d\n", l.Source, l.Read, l.Added)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
