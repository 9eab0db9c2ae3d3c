// Package ids provides strongly typed indices into registries.
//
// An [ID] is parameterized by a tag type so that a particle index can never
// be passed where a material index is expected. The zero value is the
// invalid (unset) id.
package ids

import (
	"fmt"
	"math"

	"github.com/san-kum/mctrans/internal/assert"
)

type ID[T any] struct {
	index uint32
	valid bool
}

// New creates a valid id. Only registries that own the indexed storage
// should call it.
func New[T any](i int) ID[T] {
	assert.Expect(i >= 0 && i < math.MaxUint32, "id index out of range")
	return ID[T]{index: uint32(i), valid: true}
}

func (id ID[T]) Valid() bool { return id.valid }

// Get returns the index. The id must be valid.
func (id ID[T]) Get() int {
	assert.Expect(id.valid, "access to an unset id")
	return int(id.index)
}

func (id ID[T]) String() string {
	if !id.valid {
		return "<unset>"
	}
	return fmt.Sprintf("%d", id.index)
}

// Compare orders ids by index. Unset ids sort after every valid one.
func Compare[T any](a, b ID[T]) int {
	switch {
	case a.valid && !b.valid:
		return -1
	case !a.valid && b.valid:
		return 1
	case a.index < b.index:
		return -1
	case a.index > b.index:
		return 1
	default:
		return 0
	}
}

type (
	ParticleTag struct{}
	MaterialTag struct{}
	ModelTag    struct{}
)

type (
	ParticleDefID = ID[ParticleTag]
	MaterialDefID = ID[MaterialTag]
	ModelID       = ID[ModelTag]
)
