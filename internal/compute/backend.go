package compute

import (
	"errors"
	"strings"
	"unsafe"
)

var (
	// ErrDeviceUnavailable indicates a backend without a usable device.
	ErrDeviceUnavailable = errors.New("compute: device not available")

	// ErrAllocation indicates a failed device allocation.
	ErrAllocation = errors.New("compute: device allocation failed")

	// ErrUnknownBackend indicates a backend name that is not compiled in.
	ErrUnknownBackend = errors.New("compute: unknown backend")
)

// Backend owns device memory and runs kernels. Device pointers returned by
// Malloc are only valid for the backend that produced them.
type Backend interface {
	Name() string
	Available() bool
	Malloc(size int) (unsafe.Pointer, error)
	Free(ptr unsafe.Pointer, size int)
	CopyToDevice(dst unsafe.Pointer, src []byte)
	CopyToHost(dst []byte, src unsafe.Pointer)
	// Launch calls kernel once for every thread id in [0, n) and returns
	// when all of them are done.
	Launch(n int, kernel func(tid int))
	Synchronize()
	// LiveBytes reports device memory that has been allocated and not freed.
	LiveBytes() int64
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil && activeBackend != b {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend prefers CUDA and falls back to the CPU.
func AutoSelectBackend() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}

// BackendByName returns "auto", "cpu" or "cuda".
func BackendByName(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return AutoSelectBackend(), nil
	case "cpu":
		return NewCPUBackend(), nil
	case "cuda":
		cuda := NewCUDABackend()
		if !cuda.Available() {
			return nil, ErrDeviceUnavailable
		}
		return cuda, nil
	default:
		return nil, ErrUnknownBackend
	}
}
