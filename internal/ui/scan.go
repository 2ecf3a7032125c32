package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/muurk/slhttpd/internal/discovery"
)

// ScanFunc browses for servers until ctx is done.
type ScanFunc func(ctx context.Context) ([]*discovery.Device, error)

type scanCompleteMsg struct {
	devices []*discovery.Device
	err     error
}

type scanKeyMap struct {
	Cancel key.Binding
}

func (k scanKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Cancel} }

func (k scanKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Cancel}} }

// ScanModel shows a spinner while a scan runs and quits when it returns.
type ScanModel struct {
	Spinner  spinner.Model
	Progress progress.Model
	Help     help.Model
	Keys     scanKeyMap

	Timeout time.Duration
	Started time.Time
	Elapsed time.Duration

	Devices  []*discovery.Device
	Err      error
	Done     bool
	Canceled bool

	ctx  context.Context
	scan ScanFunc
	now  func() time.Time
}

// NewScanModel creates a model that runs scan with ctx when started.
func NewScanModel(ctx context.Context, timeout time.Duration, scan ScanFunc) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	p := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	p.Width = 30

	return ScanModel{
		Spinner:  s,
		Progress: p,
		Help:     help.New(),
		Keys: scanKeyMap{
			Cancel: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "stop scan"),
			),
		},
		Timeout: timeout,
		ctx:     ctx,
		scan:    scan,
		now:     time.Now,
	}
}

// Init starts the scan and the spinner.
func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.runScan, m.Spinner.Tick)
}

func (m ScanModel) runScan() tea.Msg {
	devices, err := m.scan(m.ctx)
	return scanCompleteMsg{devices: devices, err: err}
}

// Update handles key presses, spinner ticks and scan completion.
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.Keys.Cancel) {
			m.Canceled = true
			return m, tea.Quit
		}

	case scanCompleteMsg:
		m.Devices = msg.devices
		m.Err = msg.err
		m.Done = true
		return m, tea.Quit

	case spinner.TickMsg:
		if m.Started.IsZero() {
			m.Started = m.now()
		}
		m.Elapsed = m.now().Sub(m.Started)
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the scanning line. It is empty once the scan has finished
// so the caller's result table replaces it.
func (m ScanModel) View() string {
	if m.Done || m.Canceled {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Scanning for HTTP servers (timeout: %ds)...\n\n",
		m.Spinner.View(), int(m.Timeout/time.Second))
	b.WriteString("  " + m.Progress.ViewAs(m.fraction()))
	b.WriteString("\n\n")
	b.WriteString(m.Help.View(m.Keys))
	b.WriteString("\n")
	return b.String()
}

func (m ScanModel) fraction() float64 {
	if m.Timeout <= 0 {
		return 0
	}
	return min(float64(m.Elapsed)/float64(m.Timeout), 1)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// RunScan runs scan under a spinner on out, which must be a terminal. A scan
// stopped from the keyboard returns what was found with context.Canceled.
func RunScan(ctx context.Context, out io.Writer, timeout time.Duration, scan ScanFunc) ([]*discovery.Device, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	final, err := tea.NewProgram(NewScanModel(ctx, timeout, scan), tea.WithOutput(out)).Run()
	if err != nil {
		return nil, fmt.Errorf("scan display failed: %w", err)
	}

	m := final.(ScanModel)
	if m.Canceled {
		return m.Devices, context.Canceled
	}
	return m.Devices, m.Err
}
