package diagram

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Profile is one field component sampled along a line of stations
type Profile struct {
	Title    string
	Label    string    // component name, e.g. "uz"
	Unit     string    // unit of Values
	Distance []float64 // along-profile distance of each station
	Values   []float64
}

// Validate checks that the profile can be drawn
func (p Profile) Validate() error {
	if len(p.Values) < 2 {
		return fmt.Errorf("profile needs at least 2 samples, got %d", len(p.Values))
	}
	if len(p.Distance) != len(p.Values) {
		return fmt.Errorf("profile has %d distances for %d values", len(p.Distance), len(p.Values))
	}
	return nil
}

// DrawProfile renders the profile as a terminal line chart
func DrawProfile(p Profile, width, height int) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if width <= 0 {
		width = 70
	}
	if height <= 0 {
		height = 15
	}

	caption := p.Label
	if p.Unit != "" {
		caption = fmt.Sprintf("%s (%s)", p.Label, p.Unit)
	}
	caption = fmt.Sprintf("%s, distance %.4g to %.4g", caption, p.Distance[0], p.Distance[len(p.Distance)-1])

	graph := asciigraph.Plot(p.Values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(precision(p.Values)),
		asciigraph.Caption(caption),
	)
	return graph + "\n", nil
}

// precision picks enough decimals to tell the axis labels apart
func precision(values []float64) uint {
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	var prec uint = 2
	for span > 0 && span < 1 && prec < 12 {
		span *= 10
		prec++
	}
	return prec
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
