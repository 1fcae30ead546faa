package deltae

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maax3v3/swatchmatch/internal/color"
)

// ErrUnknownMetric is returned when a metric name is not recognized.
var ErrUnknownMetric = errors.New("unknown distance metric")

// Metric selects the color difference formula.
type Metric int

// Supported metrics. The zero value is CIEDE2000.
const (
	CIEDE2000 Metric = iota
	Euclidean76
)

// Metrics lists every supported metric, default first.
var Metrics = []Metric{CIEDE2000, Euclidean76}

var metricAliases = map[string]Metric{
	"ciede2000":   CIEDE2000,
	"de2000":      CIEDE2000,
	"deltae00":    CIEDE2000,
	"deltae2000":  CIEDE2000,
	"cie2000":     CIEDE2000,
	"euclidean76": Euclidean76,
	"deltae76":    Euclidean76,
	"de76":        Euclidean76,
	"cie76":       Euclidean76,
}

// ParseMetric resolves a metric name, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	m, ok := metricAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w %q (want ciede2000 or deltae76)", ErrUnknownMetric, s)
	}
	return m, nil
}

// String returns the canonical metric name.
func (m Metric) String() string {
	switch m {
	case CIEDE2000:
		return "ciede2000"
	case Euclidean76:
		return "deltae76"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// Distance computes the difference between x and y under m.
// It panics if m is not a supported metric.
func (m Metric) Distance(x, y color.LAB) float64 {
	switch m {
	case CIEDE2000:
		return DeltaE00(x, y)
	case Euclidean76:
		return DeltaE76(x, y)
	}
	panic(fmt.Sprintf("deltae: %v", m))
}

// Valid reports whether m is one of the supported metrics.
func (m Metric) Valid() bool {
	return m == CIEDE2000 || m == Euclidean76
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMetric, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	v, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Set implements pflag.Value.
func (m *Metric) Set(s string) error {
	return m.UnmarshalText([]byte(s))
}

// Type implements pflag.Value.
func (m *Metric) Type() string {
	return "metric"
}
