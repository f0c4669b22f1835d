package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/juststeveking/pingscope/internal/config"
	"github.com/juststeveking/pingscope/internal/monitor"
	"github.com/juststeveking/pingscope/internal/notify"
)

// maxNotices is how many operational messages the footer keeps
const maxNotices = 5

// Model represents the TUI application state
type Model struct {
	prober   *monitor.Prober
	sink     *monitor.ChannelSink
	cfg      *config.Config
	notifier *notify.Notifier

	series   *monitor.Series
	notices  *monitor.Bounded[monitor.Notice]
	failures int
	resyncs  int

	spinner    spinner.Model
	width      int
	height     int
	quitting   bool
	exportDir  string
	exportInfo string

	// Form state
	form     *huh.Form
	showForm bool
	formData *FormData
}

// FormData holds the data for the start form
type FormData struct {
	Target string
}

// NewModel creates a new TUI model. The sink must be the one the prober
// publishes to; the model drains it on the bubbletea event loop.
func NewModel(p *monitor.Prober, sink *monitor.ChannelSink, cfg *config.Config, n *notify.Notifier) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(colorChecking)

	return Model{
		prober:    p,
		sink:      sink,
		cfg:       cfg,
		notifier:  n,
		series:    monitor.NewSeries(p.Config().MaxResults),
		notices:   monitor.NewBounded[monitor.Notice](maxNotices),
		spinner:   s,
		exportDir: ".",
	}
}

// WithExportDir sets where exported charts are written
func (m Model) WithExportDir(dir string) Model {
	m.exportDir = dir
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForUpdate(m.sink),
		waitForNotice(m.sink),
		m.spinner.Tick,
		tea.EnterAltScreen,
		doTick(),
	)
}

// updateMsg wraps a prober update for Bubble Tea
type updateMsg monitor.Update

// noticeMsg wraps a prober notice for Bubble Tea
type noticeMsg monitor.Notice

// waitForUpdate listens for prober updates
func waitForUpdate(sink *monitor.ChannelSink) tea.Cmd {
	return func() tea.Msg {
		return updateMsg(<-sink.Updates())
	}
}

// waitForNotice listens for prober notices
func waitForNotice(sink *monitor.ChannelSink) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-sink.Notices())
	}
}

// tickMsg is sent on every tick
type tickMsg time.Time

// doTick returns a command that waits for the next tick
func doTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// exportMsg is sent when a chart export completes
type exportMsg struct {
	path string
	err  error
}
