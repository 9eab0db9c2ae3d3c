//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -lcudart
#include <cuda_runtime_api.h>
*/
import "C"

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// CUDABackend allocates unified (managed) memory so that kernels launched
// from Go worker goroutines and device code see the same allocations.
type CUDABackend struct {
	available  bool
	deviceName string
	host       *CPUBackend
	live       atomic.Int64
}

func NewCUDABackend() *CUDABackend {
	var count C.int
	if C.cudaGetDeviceCount(&count) != C.cudaSuccess {
		count = 0
	}
	name := ""
	if count > 0 {
		var prop C.struct_cudaDeviceProp
		if C.cudaGetDeviceProperties(&prop, 0) == C.cudaSuccess {
			name = C.GoString(&prop.name[0])
		}
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
		host:       NewCPUBackend(),
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool  { return c.available }
func (c *CUDABackend) LiveBytes() int64 { return c.live.Load() }

func (c *CUDABackend) Malloc(size int) (unsafe.Pointer, error) {
	if !c.available {
		return nil, ErrDeviceUnavailable
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrAllocation, size)
	}
	if size == 0 {
		return nil, nil
	}
	var ptr unsafe.Pointer
	if err := C.cudaMallocManaged(&ptr, C.size_t(size), C.cudaMemAttachGlobal); err != C.cudaSuccess {
		return nil, fmt.Errorf("%w: %s", ErrAllocation, C.GoString(C.cudaGetErrorString(err)))
	}
	c.live.Add(int64(size))
	return ptr, nil
}

func (c *CUDABackend) Free(ptr unsafe.Pointer, size int) {
	if ptr == nil {
		return
	}
	C.cudaFree(ptr)
	c.live.Add(-int64(size))
}

func (c *CUDABackend) CopyToDevice(dst unsafe.Pointer, src []byte) {
	if len(src) == 0 {
		return
	}
	C.cudaMemcpy(dst, unsafe.Pointer(&src[0]), C.size_t(len(src)), C.cudaMemcpyDefault)
}

func (c *CUDABackend) CopyToHost(dst []byte, src unsafe.Pointer) {
	if len(dst) == 0 {
		return
	}
	C.cudaMemcpy(unsafe.Pointer(&dst[0]), src, C.size_t(len(dst)), C.cudaMemcpyDefault)
}

// Launch runs the kernel on host workers over managed memory. Go closures
// cannot be compiled for the device.
func (c *CUDABackend) Launch(n int, kernel func(tid int)) {
	c.Synchronize()
	c.host.Launch(n, kernel)
}

func (c *CUDABackend) Synchronize() {
	if c.available {
		C.cudaDeviceSynchronize()
	}
}

func (c *CUDABackend) Cleanup() {
	if c.available {
		C.cudaDeviceReset()
	}
}
