package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/mctrans/internal/transport"
)

var steps = []transport.StepStats{
	{Step: 0, Tracks: 10, Secondaries: 20, Capacity: 32, Claimed: 20},
	{Step: 1, Tracks: 30, Secondaries: 30, Capacity: 32, Claimed: 40, Exhausted: true, Retries: 1},
	{Step: 2, Tracks: 0},
	{Step: 3, Tracks: 5, Secondaries: 0, Capacity: 64, Claimed: 70, Exhausted: true, Dropped: 3},
}

func observe(m transport.Metric) float64 {
	for _, s := range steps {
		m.Observe(s)
	}
	return m.Value()
}

func TestMetrics(t *testing.T) {
	tests := []struct {
		metric transport.Metric
		want   float64
	}{
		{NewSecondaryYield(), 50.0 / 45.0},
		{NewPeakOccupancy(), 1},
		{NewExhaustions(), 2},
		{NewDroppedTracks(), 3},
	}

	for _, tt := range tests {
		t.Run(tt.metric.Name(), func(t *testing.T) {
			if got := observe(tt.metric); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
			tt.metric.Reset()
			if got := tt.metric.Value(); got != 0 {
				t.Errorf("expected zero after reset, got %f", got)
			}
		})
	}
}

func TestDefaultNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(seen))
	}
}
