package match

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/maax3v3/swatchmatch/internal/color"
	"github.com/maax3v3/swatchmatch/internal/deltae"
)

func mustHex(t *testing.T, s string) color.RGB {
	t.Helper()
	c, err := color.ParseHex(s)
	if err != nil {
		t.Fatalf("ParseHex(%q): %v", s, err)
	}
	return c
}

func testLibrary() []Entry {
	return []Entry{
		{Name: "Red", Hex: "#FF0000"},
		{Name: "Green", Hex: "#00FF00"},
		{Name: "Blue", Hex: "#0000FF"},
		{Name: "DodgerBlue", Hex: "#1E90FF"},
		{Name: "NearDodger", Hex: "1e8fff"},
		{Name: "Gray", Hex: "#808080"},
		{Name: "White", Hex: "#FFFFFF"},
		{Name: "Black", Hex: "#000000"},
		{Name: "Orange", Hex: "#FF8000"},
		{Name: "Yellow", Hex: "#FFFF00"},
		{Name: "Teal", Hex: "#008080"},
		{Name: "Navy", Hex: "#000080"},
	}
}

func names(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Entry.Name
	}
	return out
}

func TestFindNearest_ExactMatchFirst(t *testing.T) {
	lib := []Entry{
		{Name: "DodgerBlue", Hex: "#1E90FF"},
		{Name: "Red", Hex: "#FF0000"},
	}
	opts := DefaultOptions()
	opts.MaxDistance = 50

	res, err := FindNearestHex("#1E90FF", lib, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Matches) == 0 {
		t.Fatal("expected at least one match")
	}
	if res.Matches[0].Entry.Name != "DodgerBlue" || res.Matches[0].Distance != 0 {
		t.Errorf("first match: got %s at %f, want DodgerBlue at 0", res.Matches[0].Entry.Name, res.Matches[0].Distance)
	}
	// Red sits at ~52.04 under CIEDE2000.
	for _, m := range res.Matches {
		if m.Entry.Name == "Red" {
			t.Errorf("Red should be beyond the threshold, got distance %f", m.Distance)
		}
	}
	if res.Total != 1 {
		t.Errorf("Total: got %d, want 1", res.Total)
	}
}

func TestFindNearest_SortedAndBounded(t *testing.T) {
	query := mustHex(t, "#3366CC")
	for _, metric := range deltae.Metrics {
		for _, maxDist := range []float64{5, 30, 60, Unbounded} {
			for _, limit := range []int{1, 3, 10, 100} {
				name := fmt.Sprintf("%v/max=%v/limit=%d", metric, maxDist, limit)
				t.Run(name, func(t *testing.T) {
					res := FindNearest(query, testLibrary(), Options{
						Metric:      metric,
						MaxDistance: maxDist,
						Limit:       limit,
					})
					if len(res.Matches) > limit {
						t.Errorf("len %d exceeds limit %d", len(res.Matches), limit)
					}
					if res.Total < len(res.Matches) {
						t.Errorf("Total %d < len %d", res.Total, len(res.Matches))
					}
					for i, m := range res.Matches {
						if m.Distance > maxDist {
							t.Errorf("%s at %f exceeds %f", m.Entry.Name, m.Distance, maxDist)
						}
						if i > 0 && res.Matches[i-1].Distance > m.Distance {
							t.Errorf("not sorted at %d: %f > %f", i, res.Matches[i-1].Distance, m.Distance)
						}
					}
				})
			}
		}
	}
}

func TestFindNearest_TotalCountsBeforeTruncation(t *testing.T) {
	res := FindNearest(mustHex(t, "#1E90FF"), testLibrary(), Options{Limit: 3})
	if len(res.Matches) != 3 {
		t.Fatalf("len: got %d, want 3", len(res.Matches))
	}
	if res.Total != len(testLibrary()) {
		t.Errorf("Total: got %d, want %d", res.Total, len(testLibrary()))
	}
	want := []string{"DodgerBlue", "NearDodger"}
	if got := names(res.Matches[:2]); !reflect.DeepEqual(got, want) {
		t.Errorf("top two: got %v, want %v", got, want)
	}
}

func TestFindNearest_DefaultLimit(t *testing.T) {
	res := FindNearest(mustHex(t, "#1E90FF"), testLibrary(), DefaultOptions())
	if len(res.Matches) != DefaultLimit {
		t.Errorf("len: got %d, want %d", len(res.Matches), DefaultLimit)
	}
	if res.Total != len(testLibrary()) {
		t.Errorf("Total: got %d, want %d", res.Total, len(testLibrary()))
	}
}

func TestFindNearest_ZeroOptionsUseDefaults(t *testing.T) {
	got := FindNearest(mustHex(t, "#1E90FF"), testLibrary(), Options{})
	want := FindNearest(mustHex(t, "#1E90FF"), testLibrary(), DefaultOptions())
	if !reflect.DeepEqual(got, want) {
		t.Errorf("zero Options differ from defaults:\n got %v\nwant %v", names(got.Matches), names(want.Matches))
	}
}

func TestFindNearest_TiesKeepLibraryOrder(t *testing.T) {
	lib := []Entry{
		{Name: "first", Hex: "#336699"},
		{Name: "other", Hex: "#FF0000"},
		{Name: "second", Hex: "#336699"},
		{Name: "third", Hex: "336699"},
	}
	res := FindNearest(mustHex(t, "#336699"), lib, DefaultOptions())
	want := []string{"first", "second", "third", "other"}
	if got := names(res.Matches); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFindNearest_MalformedEntriesSkipped(t *testing.T) {
	lib := []Entry{
		{Name: "Bad", Hex: "#XYZ123"},
		{Name: "Good", Hex: "#00FF00"},
		{Name: "Short", Hex: "#0F0"},
		{Name: "Empty"},
	}
	for _, q := range []string{"#00FF00", "#FF0000", "000000"} {
		res, err := FindNearestHex(q, lib, DefaultOptions())
		if err != nil {
			t.Fatalf("query %s: unexpected error: %v", q, err)
		}
		if got := names(res.Matches); !reflect.DeepEqual(got, []string{"Good"}) {
			t.Errorf("query %s: got %v, want [Good]", q, got)
		}
	}

	l := NewLibrary(lib)
	if l.Len() != 1 || l.Skipped() != 3 {
		t.Errorf("Len/Skipped: got %d/%d, want 1/3", l.Len(), l.Skipped())
	}
}

func TestFindNearest_EmptyLibrary(t *testing.T) {
	for _, lib := range [][]Entry{nil, {{Name: "Bad", Hex: "nope"}}} {
		res := FindNearest(mustHex(t, "#123456"), lib, DefaultOptions())
		if len(res.Matches) != 0 || res.Total != 0 {
			t.Errorf("expected empty result, got %+v", res)
		}
		if res.Matches == nil {
			t.Error("Matches should be an empty slice, not nil")
		}
	}
}

func TestFindNearestHex_InvalidQuery(t *testing.T) {
	for _, q := range []string{"12345", "#12G456", "", "#FFF"} {
		res, err := FindNearestHex(q, testLibrary(), DefaultOptions())
		if !errors.Is(err, color.ErrInvalidFormat) {
			t.Errorf("query %q: expected ErrInvalidFormat, got %v", q, err)
		}
		if res.Matches != nil || res.Total != 0 {
			t.Errorf("query %q: expected no result, got %+v", q, res)
		}
	}
}

func TestFindNearest_MetricsDisagree(t *testing.T) {
	query := mustHex(t, "#1E90FF")
	e76 := FindNearest(query, testLibrary(), Options{Metric: deltae.Euclidean76, Limit: 100})
	e00 := FindNearest(query, testLibrary(), Options{Metric: deltae.CIEDE2000, Limit: 100})

	dist := func(r Result, name string) float64 {
		for _, m := range r.Matches {
			if m.Entry.Name == name {
				return m.Distance
			}
		}
		return math.NaN()
	}
	// Red: ~148.36 under CIE76 and ~52.04 under CIEDE2000.
	if d := dist(e76, "Red"); math.Abs(d-148.359658) > 1e-3 {
		t.Errorf("CIE76 Red: got %f", d)
	}
	if d := dist(e00, "Red"); math.Abs(d-52.038459) > 1e-3 {
		t.Errorf("CIEDE2000 Red: got %f", d)
	}
}

func TestLibrary_ParallelMatchesSequential(t *testing.T) {
	var entries []Entry
	for i := 0; i < 500; i++ {
		c := color.RGB{R: uint8(i * 7), G: uint8(i * 13), B: uint8(i * 29)}
		entries = append(entries, Entry{Name: fmt.Sprintf("c%03d", i), Hex: c.Hex()})
	}
	// Duplicate colors to exercise tie ordering across chunk boundaries.
	entries = append(entries, entries[:50]...)
	lib := NewLibrary(entries)
	query := color.RGB{R: 90, G: 140, B: 40}

	base := lib.Nearest(query, Options{Limit: 100, Workers: 1})
	for _, workers := range []int{2, 3, 8, 64, 1000} {
		got := lib.Nearest(query, Options{Limit: 100, Workers: workers})
		if !reflect.DeepEqual(got, base) {
			t.Errorf("workers=%d: result differs from sequential", workers)
		}
	}
}

func TestLibrary_ConcurrentUse(t *testing.T) {
	lib := NewLibrary(testLibrary())
	query := mustHex(t, "#204060")
	want := lib.Nearest(query, DefaultOptions())

	var failures atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 16; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			if got := lib.Nearest(query, DefaultOptions()); !reflect.DeepEqual(got, want) {
				failures.Add(1)
			}
		}()
	}
	for i := 0; i < 16; i++ {
		<-done
	}
	if n := failures.Load(); n != 0 {
		t.Errorf("%d concurrent calls returned a different result", n)
	}
}

func TestLibrary_Entries(t *testing.T) {
	lib := NewLibrary([]Entry{{Name: "a", Hex: "#000000"}, {Name: "bad", Hex: "x"}, {Name: "b", Hex: "#FFFFFF"}})
	got := lib.Entries()
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Errorf("Entries: got %+v", got)
	}
}

func TestEntry_Label(t *testing.T) {
	if got := (Entry{Code: "PANTONE 2925 C", Name: "Blue"}).Label(); got != "PANTONE 2925 C" {
		t.Errorf("got %q", got)
	}
	if got := (Entry{Name: "Blue"}).Label(); got != "Blue" {
		t.Errorf("got %q", got)
	}
}

func TestMatch_Hex(t *testing.T) {
	res := FindNearest(mustHex(t, "#1e90ff"), []Entry{{Name: "x", Hex: "1e90ff"}}, DefaultOptions())
	if got := res.Matches[0].Hex(); got != "#1E90FF" {
		t.Errorf("Hex: got %q, want #1E90FF", got)
	}
	if res.Matches[0].Entry.Hex != "1e90ff" {
		t.Errorf("entry payload should be untouched, got %q", res.Matches[0].Entry.Hex)
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"finite threshold", Options{MaxDistance: 2.5, Limit: 1}, false},
		{"zero threshold", Options{MaxDistance: 0, Limit: 10}, true},
		{"negative threshold", Options{MaxDistance: -1, Limit: 10}, true},
		{"NaN threshold", Options{MaxDistance: math.NaN(), Limit: 10}, true},
		{"zero limit", Options{MaxDistance: 10, Limit: 0}, true},
		{"bad metric", Options{Metric: deltae.Metric(9), MaxDistance: 10, Limit: 10}, true},
		{"negative workers", Options{MaxDistance: 10, Limit: 10, Workers: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParallelChunks_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 100} {
		for _, workers := range []int{0, 1, 2, 3, 8, 200} {
			seen := make([]int32, n)
			parallelChunks(n, workers, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})
			for i, c := range seen {
				if c != 1 {
					t.Fatalf("n=%d workers=%d: index %d visited %d times", n, workers, i, c)
				}
			}
		}
	}
}
