// Package report formats match results for people and spreadsheets.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/flosch/pongo2"

	"github.com/maax3v3/swatchmatch/internal/match"
)

// FormatDistance renders a distance with two decimals, the precision every
// output surface shares.
func FormatDistance(d float64) string {
	return strconv.FormatFloat(d, 'f', 2, 64)
}

// Row is the display form of one match.
type Row struct {
	Rank     int
	Label    string
	Code     string
	Name     string
	Hex      string
	Distance string
}

// Rows converts matches to display rows, ranked from 1.
func Rows(matches []match.Match) []Row {
	rows := make([]Row, len(matches))
	for i, m := range matches {
		rows[i] = Row{
			Rank:     i + 1,
			Label:    m.Entry.Label(),
			Code:     m.Entry.Code,
			Name:     m.Entry.Name,
			Hex:      m.Hex(),
			Distance: FormatDistance(m.Distance),
		}
	}
	return rows
}

// Status is the "N matches" line shown under a result.
func Status(total, limit int) string {
	return fmt.Sprintf("%d matches within threshold (showing up to %d)", total, limit)
}

// BestSummary is the one-line form of the closest match, suitable for a
// clipboard.
func BestSummary(m match.Match) string {
	return fmt.Sprintf("Pantone: %s - HEX: %s - DeltaE: %s", m.Entry.Label(), m.Hex(), FormatDistance(m.Distance))
}

// WriteCSV writes matches as CSV with a "pantone,hex,deltaE" header and every
// cell quoted.
func WriteCSV(w io.Writer, matches []match.Match) error {
	var b strings.Builder
	b.WriteString("pantone,hex,deltaE")
	for _, r := range Rows(matches) {
		b.WriteString("\r\n")
		b.WriteString(quote(r.Label))
		b.WriteByte(',')
		b.WriteString(quote(r.Hex))
		b.WriteByte(',')
		b.WriteString(quote(r.Distance))
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

const textTemplate = `{% autoescape off %}Input:  {{ input }}
Metric: {{ metric }}
{{ status }}
{% for r in rows %}{{ r.Rank }}. {{ r.Label }}  {{ r.Hex }}  dE {{ r.Distance }}{% if r.Name and r.Code %}  ({{ r.Name }}){% endif %}
{% empty %}No matches.
{% endfor %}{% endautoescape %}`

var textTpl = pongo2.Must(pongo2.FromString(textTemplate))

// Summary describes one match operation for WriteText.
type Summary struct {
	Input  string
	Metric string
	Limit  int
	Result match.Result
}

// WriteText writes a human-readable report.
func WriteText(w io.Writer, s Summary) error {
	return textTpl.ExecuteWriter(pongo2.Context{
		"input":  s.Input,
		"metric": s.Metric,
		"status": Status(s.Result.Total, s.Limit),
		"rows":   Rows(s.Result.Matches),
	}, w)
}
