package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mctrans/internal/quantity"
)

func testGrid() UniformGrid {
	return NewUniformGrid(UniformGridData{Size: 5, Front: 0, Back: 8, Delta: 2})
}

func TestUniformGridAccessors(t *testing.T) {
	g := testGrid()
	assert.Equal(t, 5, g.Size())
	assert.Equal(t, 0.0, g.Front())
	assert.Equal(t, 8.0, g.Back())
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, g.Points())
	for i := 0; i < g.Size(); i++ {
		assert.Equal(t, 2*float64(i), g.At(i))
	}
}

func TestUniformGridFind(t *testing.T) {
	g := testGrid()
	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{1.999, 0},
		{2, 1},
		{3, 1},
		{6, 3},
		{7.99, 3},
		{math.Nextafter(8, 0), 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Find(tt.v), "find(%v)", tt.v)
	}
}

func TestUniformGridFindOutOfRange(t *testing.T) {
	g := testGrid()
	assert.Panics(t, func() { g.Find(8) })
	assert.Panics(t, func() { g.Find(-0.1) })
	assert.Panics(t, func() { g.At(5) })
}

func TestUniformGridDataValid(t *testing.T) {
	tests := []struct {
		name string
		data UniformGridData
		want bool
	}{
		{"consistent", UniformGridData{Size: 5, Front: 0, Back: 8, Delta: 2}, true},
		{"single point", UniformGridData{Size: 1, Front: 0, Back: 0, Delta: 1}, false},
		{"zero delta", UniformGridData{Size: 3, Front: 0, Back: 0, Delta: 0}, false},
		{"inconsistent back", UniformGridData{Size: 5, Front: 0, Back: 9, Delta: 2}, false},
		{"from bounds", FromBounds(-3, 7, 11), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.data.Valid())
		})
	}
	assert.Panics(t, func() { NewUniformGrid(UniformGridData{Size: 1}) })
}

func TestFindMatchesPoints(t *testing.T) {
	g := NewUniformGrid(FromBounds(math.Log(1e-3), math.Log(1e4), 97))
	for i := 0; i < g.Size()-1; i++ {
		lo, hi := g.At(i), g.At(i+1)
		mid := 0.5 * (lo + hi)
		require.Equal(t, i, g.Find(mid))
		assert.LessOrEqual(t, g.At(g.Find(mid)), mid)
	}
}

func TestInterp(t *testing.T) {
	g := testGrid()
	_, err := NewInterp(g, []float64{1, 2})
	require.ErrorIs(t, err, ErrSizeMismatch)

	interp, err := NewInterp(g, []float64{0, 4, 8, 12, 16})
	require.NoError(t, err)

	assert.InDelta(t, 0, interp.Eval(-1), 1e-12)
	assert.InDelta(t, 2, interp.Eval(1), 1e-12)
	assert.InDelta(t, 7, interp.Eval(3.5), 1e-12)
	assert.InDelta(t, 16, interp.Eval(8), 1e-12)
	assert.InDelta(t, 16, interp.Eval(100), 1e-12)
}

func TestLogInterp(t *testing.T) {
	_, err := NewLogInterp(quantity.New[quantity.Mev](0), quantity.New[quantity.Mev](1), []float64{1, 2})
	require.ErrorIs(t, err, ErrBounds)

	// value = log10(E) over 1e-2..1e2 MeV is linear in ln(E)
	values := []float64{-2, -1, 0, 1, 2}
	interp, err := NewLogInterp(quantity.New[quantity.Mev](1e-2), quantity.New[quantity.Mev](1e2), values)
	require.NoError(t, err)

	for _, e := range []float64{0.02, 0.5, 1, 3.3, 70} {
		assert.InDelta(t, math.Log10(e), interp.Eval(quantity.New[quantity.Mev](e)), 1e-9, "E=%v", e)
	}
	assert.Equal(t, -2.0, interp.Eval(quantity.New[quantity.Mev](0)))

	energies := interp.Energies()
	require.Len(t, energies, 5)
	assert.InEpsilon(t, 1e-2, energies[0].Value(), 1e-12)
	assert.InEpsilon(t, 1.0, energies[2].Value(), 1e-12)
	assert.InEpsilon(t, 1e2, energies[4].Value(), 1e-12)
}
