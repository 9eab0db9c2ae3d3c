package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/mctrans/internal/quantity"
)

var (
	// ErrSizeMismatch indicates a value table that does not match its grid.
	ErrSizeMismatch = errors.New("grid: value count does not match grid size")

	// ErrBounds indicates grid bounds that cannot form a grid.
	ErrBounds = errors.New("grid: invalid grid bounds")
)

// Interp linearly interpolates tabulated values on a uniform grid. Queries
// outside the grid are clamped to the first or last value.
type Interp struct {
	grid   UniformGrid
	values []float64
}

func NewInterp(g UniformGrid, values []float64) (*Interp, error) {
	if len(values) != g.Size() {
		return nil, fmt.Errorf("%w: %d values for %d points", ErrSizeMismatch, len(values), g.Size())
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Interp{grid: g, values: v}, nil
}

func (t *Interp) Grid() UniformGrid { return t.grid }

func (t *Interp) Eval(x float64) float64 {
	last := len(t.values) - 1
	switch {
	case x <= t.grid.Front():
		return t.values[0]
	case x >= t.grid.Back():
		return t.values[last]
	}

	bin := t.grid.Find(x)
	frac := (x - t.grid.At(bin)) / t.grid.Delta()
	return t.values[bin]*(1-frac) + t.values[bin+1]*frac
}

// LogInterp tabulates an energy-dependent value on a grid uniform in ln(E).
type LogInterp struct {
	interp *Interp
}

func NewLogInterp(emin, emax quantity.MevEnergy, values []float64) (*LogInterp, error) {
	if !(emin.Value() > 0) || !emax.Gt(emin) || len(values) < 2 {
		return nil, fmt.Errorf("%w: [%v, %v] MeV with %d points", ErrBounds, emin, emax, len(values))
	}
	g := NewUniformGrid(FromBounds(math.Log(emin.Value()), math.Log(emax.Value()), len(values)))
	interp, err := NewInterp(g, values)
	if err != nil {
		return nil, err
	}
	return &LogInterp{interp: interp}, nil
}

// Eval returns the interpolated value at energy e. Non-positive energies
// evaluate to the lowest tabulated value.
func (t *LogInterp) Eval(e quantity.MevEnergy) float64 {
	if e.Value() <= 0 {
		return t.interp.values[0]
	}
	return t.interp.Eval(math.Log(e.Value()))
}

// Energies returns the tabulation points.
func (t *LogInterp) Energies() []quantity.MevEnergy {
	pts := t.interp.grid.Points()
	out := make([]quantity.MevEnergy, len(pts))
	for i, p := range pts {
		out[i] = quantity.New[quantity.Mev](math.Exp(p))
	}
	return out
}
