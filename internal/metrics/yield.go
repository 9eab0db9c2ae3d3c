package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mctrans/internal/transport"
)

// SecondaryYield is the mean number of secondaries produced per track,
// weighted by the number of tracks in each step.
type SecondaryYield struct {
	name    string
	yields  []float64
	weights []float64
}

func NewSecondaryYield() *SecondaryYield {
	return &SecondaryYield{name: "secondary_yield"}
}

func (y *SecondaryYield) Name() string { return y.name }

func (y *SecondaryYield) Observe(s transport.StepStats) {
	if s.Tracks == 0 {
		return
	}
	y.yields = append(y.yields, float64(s.Secondaries)/float64(s.Tracks))
	y.weights = append(y.weights, float64(s.Tracks))
}

func (y *SecondaryYield) Value() float64 {
	if len(y.yields) == 0 {
		return 0
	}
	return stat.Mean(y.yields, y.weights)
}

func (y *SecondaryYield) Reset() {
	y.yields = y.yields[:0]
	y.weights = y.weights[:0]
}
