package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/mctrans/internal/assert"
)

// UniformGridData describes an evenly spaced grid. It holds no pointers and
// is copied by value into kernels.
type UniformGridData struct {
	Size  int
	Front float64
	Back  float64
	Delta float64
}

// FromBounds builds grid data with size points spanning [front, back].
func FromBounds(front, back float64, size int) UniformGridData {
	assert.Expect(size >= 2, "grid needs at least two points")
	assert.Expect(back > front, "grid bounds must be increasing")
	return UniformGridData{
		Size:  size,
		Front: front,
		Back:  back,
		Delta: (back - front) / float64(size-1),
	}
}

// Valid reports whether the data describe a usable grid.
func (d UniformGridData) Valid() bool {
	if d.Size < 2 || !(d.Delta > 0) {
		return false
	}
	expected := d.Front + d.Delta*float64(d.Size-1)
	tol := 1e-12 * math.Max(1, math.Abs(d.Back))
	return math.Abs(expected-d.Back) <= tol
}

// UniformGrid answers index and bin queries over [UniformGridData].
type UniformGrid struct {
	data UniformGridData
}

func NewUniformGrid(data UniformGridData) UniformGrid {
	assert.Expect(data.Valid(), "invalid uniform grid data")
	return UniformGrid{data: data}
}

func (g UniformGrid) Size() int             { return g.data.Size }
func (g UniformGrid) Front() float64        { return g.data.Front }
func (g UniformGrid) Back() float64         { return g.data.Back }
func (g UniformGrid) Delta() float64        { return g.data.Delta }
func (g UniformGrid) Data() UniformGridData { return g.data }

// At returns the value of grid point i.
func (g UniformGrid) At(i int) float64 {
	assert.Expect(i >= 0 && i < g.data.Size, "grid index out of range")
	return g.data.Front + g.data.Delta*float64(i)
}

// Find returns the bin containing v, so that At(bin) <= v < At(bin+1).
// The caller must handle values outside [Front, Back), including Back
// itself.
func (g UniformGrid) Find(v float64) int {
	assert.Expect(v >= g.data.Front && v < g.data.Back, "value outside grid")
	bin := int((v - g.data.Front) / g.data.Delta)
	if bin == g.data.Size-1 {
		// v < Back but the division rounded up onto the last point
		bin--
	}
	assert.Ensure(bin+1 < g.data.Size, "bin past end of grid")
	return bin
}

// Points materializes every grid point.
func (g UniformGrid) Points() []float64 {
	return floats.Span(make([]float64, g.data.Size), g.data.Front, g.data.Back)
}
