package alloc

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/san-kum/mctrans/internal/assert"
	"github.com/san-kum/mctrans/internal/compute"
)

var (
	// ErrExhausted indicates an allocation that does not fit in the
	// remaining capacity.
	ErrExhausted = errors.New("alloc: stack allocator capacity exhausted")

	// ErrCapacity indicates an unusable requested capacity.
	ErrCapacity = errors.New("alloc: invalid capacity")
)

const cacheLine = 64

// counterWords is two cache lines. Backends only align to 8 bytes, so the
// cursor is placed at the first line boundary inside the block, and the
// whole line it sits on belongs to the block.
const counterWords = 2 * cacheLine / 8

// View is the kernel-side handle of a [Store]. It is copied by value into
// every thread; all copies share the same storage and cursor.
type View[T any] struct {
	storage []T
	cursor  *uint64
}

// Allocate claims n contiguous slots with one atomic add. When the claim
// runs past the end of storage it returns ErrExhausted and the cursor is
// left where the add put it: later claims in the same step fail too.
func (v View[T]) Allocate(n int) ([]T, error) {
	assert.Expect(n >= 0, "negative allocation count")
	if n == 0 {
		return v.storage[:0:0], nil
	}
	end := atomic.AddUint64(v.cursor, uint64(n))
	start := end - uint64(n)
	if end > uint64(len(v.storage)) {
		return nil, ErrExhausted
	}
	return v.storage[start:end:end], nil
}

func (v View[T]) Capacity() int { return len(v.storage) }

// Store owns the device storage and cursor of a stack allocator. Its
// methods run on the host between kernel launches, never concurrently
// with Allocate.
type Store[T any] struct {
	storage *compute.DeviceVector[T]
	counter *compute.DeviceVector[uint64]
	line    int // word index of the cursor in counter
	closed  bool
}

func NewStore[T any](b compute.Backend, capacity int) (*Store[T], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrCapacity, capacity)
	}
	storage, err := compute.NewDeviceVector[T](b, capacity)
	if err != nil {
		return nil, fmt.Errorf("alloc: storage: %w", err)
	}
	counter, err := compute.NewDeviceVector[uint64](b, counterWords)
	if err != nil {
		storage.Free()
		return nil, fmt.Errorf("alloc: cursor: %w", err)
	}
	counter.CopyToDevice(make([]uint64, counterWords))

	addr := uintptr(unsafe.Pointer(&counter.DeviceSlice()[0]))
	line := int((cacheLine-addr%cacheLine)%cacheLine) / 8

	return &Store[T]{storage: storage, counter: counter, line: line}, nil
}

func (s *Store[T]) cursor() *uint64 {
	assert.Expect(!s.closed, "use of a closed stack allocator")
	return &s.counter.DeviceSlice()[s.line]
}

func (s *Store[T]) View() View[T] {
	return View[T]{storage: s.storage.DeviceSlice(), cursor: s.cursor()}
}

func (s *Store[T]) Capacity() int { return s.storage.Capacity() }

// Claimed is the raw cursor: the total number of slots requested since the
// last reset, including failed requests.
func (s *Store[T]) Claimed() uint64 {
	return atomic.LoadUint64(s.cursor())
}

// Size is the cursor clamped to capacity. After exhaustion, slots between
// the end of the last successful claim and capacity may be unwritten.
func (s *Store[T]) Size() int {
	return int(min(s.Claimed(), uint64(s.Capacity())))
}

// Exhausted reports whether any request since the last reset failed.
func (s *Store[T]) Exhausted() bool {
	return s.Claimed() > uint64(s.Capacity())
}

// Reset empties the allocator and returns the size it had.
func (s *Store[T]) Reset() int {
	prior := s.Size()
	atomic.StoreUint64(s.cursor(), 0)
	return prior
}

// Close frees device memory. It is safe to call more than once.
func (s *Store[T]) Close() {
	if s.closed {
		return
	}
	s.storage.Free()
	s.counter.Free()
	s.closed = true
}
