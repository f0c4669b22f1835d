package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/juststeveking/pingscope/internal/monitor"
)

var (
	colorAccent    = lipgloss.Color("#04D9FF") // Neon Cyan
	colorHealthy   = lipgloss.Color("#00FF94") // Neon Green
	colorUnhealthy = lipgloss.Color("#FF0055") // Neon Red
	colorChecking  = lipgloss.Color("#FFD700") // Gold
	colorMuted     = lipgloss.Color("#565f89") // Muted Blue
	colorSubtle    = lipgloss.Color("#24283b") // Dark Blue
	colorText      = lipgloss.Color("#c0caf5") // Light Blue/White

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginTop(1)

	runningStyle = lipgloss.NewStyle().
			Foreground(colorHealthy).
			Bold(true)

	idleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	metadataStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorUnhealthy)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	chartStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)
)

// chartRows is the height of the latency chart in terminal rows
const chartRows = 10

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.showForm {
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent).
				Padding(1, 2).
				Render(m.form.View()),
		)
	}

	// Handle initial state when width is not set
	width := m.width
	if width < 40 {
		width = 80
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(width))
	b.WriteString("\n")

	points := m.series.Points()
	if len(points) == 0 {
		b.WriteString("\n")
		centerText := "Press s to start probing"
		if m.prober.Running() {
			centerText = "⟳ Waiting for the first reply..."
		}
		padding := (width - len(centerText)) / 2
		if padding > 0 {
			b.WriteString(strings.Repeat(" ", padding))
		}
		b.WriteString(metadataStyle.Render(centerText))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderStats(points))
		b.WriteString("\n")
		// border and padding take 4 columns
		b.WriteString(chartStyle.Render(renderBars(points, width-4, chartRows)))
		b.WriteString("\n")
	}

	b.WriteString(m.renderNotices())

	footerStyle := lipgloss.NewStyle().
		Foreground(colorMuted).
		BorderTop(true).
		BorderForeground(colorSubtle).
		Width(width).
		PaddingTop(1)

	timeStr := time.Now().Format("15:04:05")
	helpStr := "Start: s │ Stop: x │ Export: e │ Quit: q"
	left := fmt.Sprintf(" %s │ %s", timeStr, helpStr)
	right := fmt.Sprintf("%d/%d points ", m.series.Len(), m.prober.Config().MaxResults)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	b.WriteString(footerStyle.Render(left + strings.Repeat(" ", gap) + right))
	b.WriteString("\n")

	return b.String()
}

// renderHeader renders the title with the prober state on the right
func (m Model) renderHeader(width int) string {
	var b strings.Builder

	title := titleStyle.Render("PINGSCOPE")

	var state string
	if m.prober.Running() {
		state = fmt.Sprintf("%s %s", m.spinner.View(), runningStyle.Render("probing "+m.prober.Target()))
	} else if target := m.prober.Target(); target != "" {
		state = idleStyle.Render("stopped " + target)
	} else {
		state = idleStyle.Render("idle")
	}

	availableWidth := width - lipgloss.Width(title) - lipgloss.Width(state) - 2
	if availableWidth < 0 {
		availableWidth = 0
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, title, strings.Repeat(" ", availableWidth), state))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorSubtle).Render(strings.Repeat("━", width)))

	return b.String()
}

// renderStats renders last/min/avg/max latency for the window
func (m Model) renderStats(points []monitor.Point) string {
	s := summarize(points)
	if s.count == 0 {
		return headerStyle.Render("No round-trip data")
	}

	fields := []string{
		"last " + valueStyle.Foreground(latencyColor(s.last)).Render(formatMs(s.last)),
		"min " + valueStyle.Render(formatMs(s.min)),
		"avg " + valueStyle.Render(fmt.Sprintf("%.1fms", s.avg)),
		"max " + valueStyle.Render(formatMs(s.max)),
	}
	if m.failures > 0 {
		fields = append(fields, errorStyle.Render(fmt.Sprintf("%d failed", m.failures)))
	}

	return headerStyle.Render("Round trip") + "\n" + strings.Join(fields, metadataStyle.Render(" • "))
}

// renderNotices lists the most recent operational messages
func (m Model) renderNotices() string {
	notices := m.notices.Snapshot()
	if len(notices) == 0 && m.exportInfo == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Messages"))
	b.WriteString("\n")

	for i := len(notices) - 1; i >= 0; i-- {
		n := notices[i]
		line := fmt.Sprintf("%s  %s", n.At.Format("15:04:05"), n.Message())
		switch n.Kind {
		case monitor.NoticeProbeFailure:
			b.WriteString(errorStyle.Render(line))
		case monitor.NoticeRecovered:
			b.WriteString(runningStyle.Render(line))
		default:
			b.WriteString(metadataStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.exportInfo != "" {
		b.WriteString(metadataStyle.Render(m.exportInfo))
		b.WriteString("\n")
	}

	return b.String()
}
