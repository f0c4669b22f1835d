package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/juststeveking/pingscope/internal/monitor"
)

const (
	fastMs = 50
	slowMs = 150
)

type summary struct {
	count int
	last  int64
	min   int64
	max   int64
	avg   float64
}

// summarize computes latency stats over points with a known round trip
func summarize(points []monitor.Point) summary {
	var s summary
	var total int64

	for _, p := range points {
		if p.RoundtripMs == monitor.NoRoundtrip {
			continue
		}
		if s.count == 0 || p.RoundtripMs < s.min {
			s.min = p.RoundtripMs
		}
		if p.RoundtripMs > s.max {
			s.max = p.RoundtripMs
		}
		s.last = p.RoundtripMs
		total += p.RoundtripMs
		s.count++
	}

	if s.count > 0 {
		s.avg = float64(total) / float64(s.count)
	}
	return s
}

// latencyColor maps a round trip to the dashboard palette
func latencyColor(ms int64) lipgloss.Color {
	switch {
	case ms < fastMs:
		return colorHealthy
	case ms < slowMs:
		return colorChecking
	default:
		return colorUnhealthy
	}
}

func formatMs(ms int64) string {
	return fmt.Sprintf("%dms", ms)
}

// renderBars draws the newest points that fit in width as a bar chart of
// the given height plus one axis row
func renderBars(points []monitor.Point, width, rows int) string {
	if rows < 1 {
		rows = 1
	}

	s := summarize(points)
	scale := max(s.max, 1)

	topLabel := formatMs(scale)
	labelWidth := max(len(topLabel), len("0ms"))

	cols := width - labelWidth - 1
	if cols < 1 {
		cols = 1
	}
	if len(points) > cols {
		points = points[len(points)-cols:]
	}

	lines := make([]string, 0, rows+1)
	for r := rows; r >= 1; r-- {
		var line strings.Builder

		label := ""
		switch r {
		case rows:
			label = topLabel
		case 1:
			label = "0ms"
		}
		line.WriteString(metadataStyle.Render(fmt.Sprintf("%*s", labelWidth, label)))
		line.WriteString(metadataStyle.Render("│"))

		for _, p := range points {
			if p.RoundtripMs == monitor.NoRoundtrip {
				if r == 1 {
					line.WriteString(metadataStyle.Render("·"))
				} else {
					line.WriteString(" ")
				}
				continue
			}

			// ceil so any non-zero latency shows at least one cell
			h := (p.RoundtripMs*int64(rows) + scale - 1) / scale
			if h >= int64(r) {
				line.WriteString(lipgloss.NewStyle().Foreground(latencyColor(p.RoundtripMs)).Render("█"))
			} else {
				line.WriteString(" ")
			}
		}
		lines = append(lines, line.String())
	}

	axis := strings.Repeat(" ", labelWidth) + "└" + strings.Repeat("─", len(points))
	lines = append(lines, metadataStyle.Render(axis))

	return strings.Join(lines, "\n")
}
