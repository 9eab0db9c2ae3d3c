package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/mctrans/internal/transport"
)

var testSteps = []transport.StepStats{
	{Step: 0, Tracks: 4, Secondaries: 8, Alive: 8, Capacity: 8, Claimed: 8},
	{Step: 1, Tracks: 8, Secondaries: 6, Alive: 6, Capacity: 8, Claimed: 12, Exhausted: true, Dropped: 2},
	{Step: 2, Tracks: 6, Alive: 0, Capacity: 8},
}

func TestSeriesOf(t *testing.T) {
	occ, err := SeriesOf(testSteps, "occupancy")
	if err != nil {
		t.Fatal(err)
	}
	if occ[0] != 1 || occ[1] != 1 || occ[2] != 0 {
		t.Errorf("unexpected occupancy %v", occ)
	}

	for _, name := range Series {
		if _, err := SeriesOf(testSteps, name); err != nil {
			t.Errorf("series %s: %v", name, err)
		}
	}
	if _, err := SeriesOf(testSteps, "temperature"); err == nil {
		t.Error("expected error for unknown series")
	}
}

func TestPlotSteps(t *testing.T) {
	out, err := PlotSteps(testSteps, "alive", 30, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "alive per step") {
		t.Errorf("missing caption in\n%s", out)
	}

	if _, err := PlotSteps(nil, "alive", 30, 5); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)
	if got := c.Grid[0][0]; got != brailleBlank|0x1 {
		t.Errorf("expected dot 1, got %U", got)
	}
	if got := c.Grid[0][1]; got != brailleBlank|0x80 {
		t.Errorf("expected dot 8, got %U", got)
	}

	c.Clear()
	if strings.TrimSpace(c.String()) != string([]rune{brailleBlank, brailleBlank}) {
		t.Error("clear left dots behind")
	}
}

func TestDirectionMap(t *testing.T) {
	empty := DirectionMap(nil, 10, 5)
	withAxis := DirectionMap([]r3.Vec{{Z: 1}}, 10, 5)
	if empty == withAxis {
		t.Error("a forward direction should light the centre")
	}
	if lines := strings.Count(withAxis, "\n"); lines != 5 {
		t.Errorf("expected 5 rows, got %d", lines)
	}
}

func TestSparklineAndProgress(t *testing.T) {
	if got := SparklineChart(nil, 4); got != "────" {
		t.Errorf("empty sparkline %q", got)
	}
	long := make([]float64, 100)
	for i := range long {
		long[i] = float64(i)
	}
	if got := SparklineChart(long, 10); strings.Count(got, "█") != 1 {
		t.Errorf("expected one full block for the latest maximum, got %q", got)
	}
	if got := ProgressBar(2, 5); strings.Count(got, "█") != 5 {
		t.Errorf("overfull bar %q", got)
	}
	if got := ProgressBar(-1, 5); strings.Count(got, "░") != 5 {
		t.Errorf("negative bar %q", got)
	}
}

func TestModelRecordsSteps(t *testing.T) {
	feed := NewFeed()
	var m tea.Model = NewModel("em", feed, nil)

	for _, s := range testSteps {
		m, _ = m.Update(StepMsg(s))
	}
	lm := m.(Model)
	if lm.produced != 14 || lm.dropped != 2 || lm.exhausted != 1 {
		t.Errorf("unexpected totals: produced %d dropped %d exhausted %d", lm.produced, lm.dropped, lm.exhausted)
	}
	if len(lm.alive) != 3 {
		t.Errorf("expected 3 history points, got %d", len(lm.alive))
	}
	if !strings.Contains(lm.View(), "RUNNING") {
		t.Error("expected running status")
	}

	m, cmd := m.Update(DoneMsg{Result: &transport.Result{}})
	if cmd != nil {
		t.Error("no command expected after completion")
	}
	if !strings.Contains(m.View(), "DONE") {
		t.Error("expected done status")
	}

	m, _ = m.Update(DoneMsg{Err: errors.New("boom")})
	if !strings.Contains(m.View(), "boom") {
		t.Error("expected error in view")
	}
}

func TestModelQuitCancels(t *testing.T) {
	feed := NewFeed()
	canceled := false
	m := NewModel("em", feed, func() { canceled = true })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !canceled {
		t.Error("quitting a running view should cancel the run")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}

	done := make(chan struct{})
	go func() {
		for range 200 {
			feed.OnStep(transport.StepStats{})
		}
		feed.Finish(nil, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("feed blocked after stop")
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(ThemeCyberpunk.Name)

	SetTheme("retro")
	if CurrentTheme.Name != "retro" {
		t.Errorf("expected retro, got %s", CurrentTheme.Name)
	}
	nextTheme()
	if CurrentTheme.Name != "minimal" {
		t.Errorf("expected minimal, got %s", CurrentTheme.Name)
	}
	if GetTheme("nope").Name != ThemeCyberpunk.Name {
		t.Error("unknown theme should fall back to default")
	}
}
