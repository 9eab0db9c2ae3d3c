package viz

import (
	"errors"
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mctrans/internal/transport"
)

var ErrNoData = errors.New("no data to plot")

// Series names the per-step quantities that can be plotted.
var Series = []string{"alive", "tracks", "secondaries", "occupancy", "claimed", "deposited", "dropped"}

func SeriesOf(steps []transport.StepStats, name string) ([]float64, error) {
	pick, ok := map[string]func(transport.StepStats) float64{
		"alive":       func(s transport.StepStats) float64 { return float64(s.Alive) },
		"tracks":      func(s transport.StepStats) float64 { return float64(s.Tracks) },
		"secondaries": func(s transport.StepStats) float64 { return float64(s.Secondaries) },
		"occupancy":   transport.StepStats.Occupancy,
		"claimed":     func(s transport.StepStats) float64 { return float64(s.Claimed) },
		"deposited":   func(s transport.StepStats) float64 { return s.Deposited },
		"dropped":     func(s transport.StepStats) float64 { return float64(s.Dropped) },
	}[name]
	if !ok {
		return nil, fmt.Errorf("unknown series %q (have %v)", name, Series)
	}

	out := make([]float64, len(steps))
	for i, s := range steps {
		out[i] = pick(s)
	}
	return out, nil
}

func PlotSteps(steps []transport.StepStats, name string, width, height int) (string, error) {
	data, err := SeriesOf(steps, name)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNoData
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(name+" per step")), nil
}
