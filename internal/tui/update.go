package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/juststeveking/pingscope/internal/chart"
	"github.com/juststeveking/pingscope/internal/monitor"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Always update window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
	}

	// Prober traffic is applied even while the form is open
	switch msg := msg.(type) {
	case updateMsg:
		m.applyUpdate(monitor.Update(msg))
		return m, waitForUpdate(m.sink)
	case noticeMsg:
		m.applyNotice(monitor.Notice(msg))
		return m, waitForNotice(m.sink)
	}

	if m.showForm {
		if msg, ok := msg.(tea.KeyMsg); ok {
			if msg.String() == "esc" {
				m.showForm = false
				m.form = nil
				return m, nil
			}
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		switch m.form.State {
		case huh.StateCompleted:
			m.showForm = false
			m.form = nil
			m.startProbe(m.cfg.ResolveTarget(m.formData.Target))
			return m, cmd
		case huh.StateAborted:
			m.showForm = false
			m.form = nil
			return m, cmd
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.prober.Running() {
				_ = m.prober.Stop()
			}
			return m, tea.Quit
		case "s":
			if m.prober.Running() {
				// Let the prober report the rejected start
				_ = m.prober.Start(m.prober.Target())
				return m, nil
			}
			m.showForm = true
			m.initStartForm()
			return m, m.form.Init()
		case "x":
			_ = m.prober.Stop()
		case "e":
			return m, m.exportChart()
		}

	case exportMsg:
		if msg.err != nil {
			m.exportInfo = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.exportInfo = fmt.Sprintf("Exported %s", msg.path)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, doTick()
	}

	return m, nil
}

// initStartForm initializes the form asking for the probe target
func (m *Model) initStartForm() {
	m.formData = &FormData{Target: m.defaultTarget()}

	names := make([]string, 0, len(m.cfg.Targets))
	for _, t := range m.cfg.Targets {
		names = append(names, t.Name)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target host or saved name").
				Suggestions(names).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return monitor.ErrEmptyTarget
					}
					return nil
				}).
				Value(&m.formData.Target),
		).Title("Start probe (Esc to cancel)"),
	).WithTheme(huh.ThemeCatppuccin()).WithWidth(60).WithShowHelp(true)
}

// defaultTarget picks the prefilled form value
func (m *Model) defaultTarget() string {
	if t := m.prober.Target(); t != "" {
		return t
	}
	return m.cfg.DefaultTarget
}

// startProbe starts the prober, surfacing rejections as notices
func (m *Model) startProbe(target string) {
	err := m.prober.Start(target)
	if errors.Is(err, monitor.ErrEmptyTarget) {
		m.applyNotice(monitor.Notice{Kind: monitor.NoticeProbeFailure, Err: err, At: time.Now()})
		return
	}
	if err == nil {
		m.failures = 0
	}
}

// applyUpdate appends the point to the display series
func (m *Model) applyUpdate(u monitor.Update) {
	if m.series.Apply(u, m.prober) {
		m.resyncs++
	}

	if m.notifier != nil {
		m.notifier.Success(m.prober.Target(), time.Duration(u.Point.RoundtripMs)*time.Millisecond)
	}
}

// applyNotice records an operational message
func (m *Model) applyNotice(n monitor.Notice) {
	m.notices.Append(n)

	if n.Kind == monitor.NoticeProbeFailure && n.Target != "" {
		m.failures++
		if m.notifier != nil {
			m.notifier.Failure(n.Target, n.Err)
		}
	}
}

// exportChart renders the displayed series to a PNG in the background
func (m Model) exportChart() tea.Cmd {
	points := m.series.Points()
	target := m.prober.Target()
	name := fmt.Sprintf("pingscope-%s-%s.png", unsafeFileChars.ReplaceAllString(target, "_"), time.Now().Format("20060102-150405"))
	path := filepath.Join(m.exportDir, name)

	return func() tea.Msg {
		err := chart.WriteFile(path, points, chart.Options{Title: target})
		return exportMsg{path: path, err: err}
	}
}
