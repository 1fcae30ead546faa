package library

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/maax3v3/swatchmatch/internal/match"
)

// wrapperKeys name the fields that may hold the entry array when a JSON
// library is an object rather than a bare array.
var wrapperKeys = []string{"data", "colors", "items", "entries"}

// ParseJSON decodes a JSON array of color objects, or an object holding such
// an array under one of "data", "colors", "items" or "entries".
func ParseJSON(r io.Reader) ([]match.Entry, Stats, error) {
	var doc any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, Stats{}, fmt.Errorf("decoding JSON: %w", err)
	}

	items, err := jsonItems(doc)
	if err != nil {
		return nil, Stats{}, err
	}

	records := make([]record, 0, len(items))
	skipped := 0
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record(obj))
	}
	entries, stats := collect(records)
	stats.Read += skipped
	stats.NoColor += skipped
	return entries, stats, nil
}

func jsonItems(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, k := range wrapperKeys {
			if arr, ok := v[k].([]any); ok {
				return arr, nil
			}
		}
		return nil, fmt.Errorf("%w: JSON object has no %v array", ErrUnsupportedFormat, wrapperKeys)
	default:
		return nil, fmt.Errorf("%w: JSON document is neither an array nor an object", ErrUnsupportedFormat)
	}
}
