package compute

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
)

// minParallel is the smallest launch split across workers.
const minParallel = 16

// CPUBackend emulates a device with separate host allocations. Kernels run
// on a pool of goroutines, one chunk of thread ids per worker.
type CPUBackend struct {
	workers int
	live    atomic.Int64
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string     { return "cpu" }
func (c *CPUBackend) Available() bool  { return true }
func (c *CPUBackend) Synchronize()     {}
func (c *CPUBackend) Cleanup()         {}
func (c *CPUBackend) LiveBytes() int64 { return c.live.Load() }

// Malloc returns 8-byte aligned zeroed memory.
func (c *CPUBackend) Malloc(size int) (unsafe.Pointer, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrAllocation, size)
	}
	if size == 0 {
		return nil, nil
	}
	buf := make([]uint64, (size+7)/8)
	c.live.Add(int64(size))
	return unsafe.Pointer(&buf[0]), nil
}

func (c *CPUBackend) Free(ptr unsafe.Pointer, size int) {
	if ptr == nil {
		return
	}
	c.live.Add(-int64(size))
}

func (c *CPUBackend) CopyToDevice(dst unsafe.Pointer, src []byte) {
	if len(src) == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), len(src)), src)
}

func (c *CPUBackend) CopyToHost(dst []byte, src unsafe.Pointer) {
	if len(dst) == 0 {
		return
	}
	copy(dst, unsafe.Slice((*byte)(src), len(dst)))
}

func (c *CPUBackend) Launch(n int, kernel func(tid int)) {
	if n <= 0 {
		return
	}
	if n < minParallel || c.workers <= 1 {
		for tid := 0; tid < n; tid++ {
			kernel(tid)
		}
		return
	}

	workers := c.workers
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for tid := start; tid < end; tid++ {
				kernel(tid)
			}
		}(start, end)
	}

	wg.Wait()
}
