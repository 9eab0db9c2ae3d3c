package viz

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mctrans/internal/compute"
	"github.com/san-kum/mctrans/internal/transport"
)

const historyCapacity = 600

type (
	StepMsg transport.StepStats
	TickMsg time.Time
)

type DoneMsg struct {
	Result *transport.Result
	Err    error
}

// Feed carries a running loop's steps to the live view. It is a
// [transport.Observer]; after Stop every send returns immediately.
type Feed struct {
	msgs chan tea.Msg
	done chan struct{}
	once sync.Once
}

func NewFeed() *Feed {
	return &Feed{msgs: make(chan tea.Msg, 64), done: make(chan struct{})}
}

func (f *Feed) OnStep(s transport.StepStats) { f.send(StepMsg(s)) }

func (f *Feed) Finish(r *transport.Result, err error) { f.send(DoneMsg{Result: r, Err: err}) }

func (f *Feed) Stop() { f.once.Do(func() { close(f.done) }) }

func (f *Feed) send(msg tea.Msg) {
	select {
	case f.msgs <- msg:
	case <-f.done:
	}
}

func (f *Feed) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-f.msgs:
			return msg
		case <-f.done:
			return nil
		}
	}
}

// Model is the live view of one transport run.
type Model struct {
	title     string
	feed      *Feed
	cancel    context.CancelFunc
	last      transport.StepStats
	alive     []float64
	occupancy []float64
	produced  int
	exhausted int
	dropped   int
	deposited float64
	result    *transport.Result
	err       error
	done      bool
	frame     int
	showHelp  bool
}

// NewModel watches feed. cancel, when set, is called if the user quits
// before the run finishes.
func NewModel(title string, feed *Feed, cancel context.CancelFunc) Model {
	return Model{
		title:     title,
		feed:      feed,
		cancel:    cancel,
		alive:     make([]float64, 0, historyCapacity),
		occupancy: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.feed.next(), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.done && m.cancel != nil {
				m.cancel()
			}
			m.feed.Stop()
			return m, tea.Quit
		case "t":
			nextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case StepMsg:
		m.record(transport.StepStats(msg))
		return m, m.feed.next()
	case DoneMsg:
		m.done = true
		m.result, m.err = msg.Result, msg.Err
	case TickMsg:
		m.frame++
		if !m.done {
			return m, tick()
		}
	}
	return m, nil
}

func (m *Model) record(s transport.StepStats) {
	m.last = s
	m.produced += s.Secondaries
	m.dropped += s.Dropped
	m.deposited += s.Deposited
	if s.Exhausted || s.Retries > 0 {
		m.exhausted++
	}

	m.alive = append(m.alive, float64(s.Alive))
	m.occupancy = append(m.occupancy, s.Occupancy())
	if len(m.alive) > historyCapacity {
		m.alive = m.alive[1:]
		m.occupancy = m.occupancy[1:]
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return fg(CurrentTheme.Error).Render("FAILED: " + m.err.Error())
	case m.done:
		return fg(CurrentTheme.Success).Render("DONE")
	}
	return fg(CurrentTheme.Warning).Render(AnimatedSpinner(m.frame) + " RUNNING")
}

func (m Model) View() string {
	row := func(label, value string) string {
		return labelStyle().Render(label) + valueStyle().Render(value) + "\n"
	}

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(row("Step", fmt.Sprintf("%d", m.last.Step)))
	s.WriteString(row("Tracks", fmt.Sprintf("%d", m.last.Tracks)))
	s.WriteString(row("Alive", fmt.Sprintf("%d", m.last.Alive)))
	s.WriteString(row("Secondaries", fmt.Sprintf("%d", m.produced)))
	s.WriteString(row("Deposited", fmt.Sprintf("%.4g MeV", m.deposited)))
	s.WriteString(row("Bank", fmt.Sprintf("%d", m.last.Capacity)))
	s.WriteString(row("Occupancy", ProgressBar(m.last.Occupancy(), 20)+fmt.Sprintf(" %3.0f%%", 100*m.last.Occupancy())))
	s.WriteString(row("Exhaustions", fmt.Sprintf("%d", m.exhausted)))
	s.WriteString(row("Dropped", fmt.Sprintf("%d", m.dropped)))
	s.WriteString(row("Backend", compute.GetBackend().Name()))

	s.WriteString("\n" + labelStyle().Render("Occupancy") + SparklineChart(m.occupancy, 30) + "\n")
	if len(m.alive) > 1 {
		chart := asciigraph.Plot(m.alive, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("alive tracks"))
		s.WriteString(graphStyle().Render(chart) + "\n")
	}

	s.WriteString(helpStyle().Render(Separator(36) + "\nQ:Quit T:Theme ?:Help"))
	view := panelStyle().Render(s.String())

	if m.showHelp {
		help := panelStyle().Render(strings.Join([]string{
			"Q / Esc  quit (cancels a running transport)",
			"T        cycle themes",
			"?        toggle this help",
		}, "\n"))
		return lipgloss.JoinVertical(lipgloss.Left, help, view)
	}
	return view
}
