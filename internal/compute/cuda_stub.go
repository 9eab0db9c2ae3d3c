//go:build !cuda

package compute

import "unsafe"

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string     { return "cuda (not available)" }
func (c *CUDABackend) Available() bool  { return false }
func (c *CUDABackend) Synchronize()     {}
func (c *CUDABackend) Cleanup()         {}
func (c *CUDABackend) LiveBytes() int64 { return 0 }

func (c *CUDABackend) Malloc(size int) (unsafe.Pointer, error) {
	return nil, ErrDeviceUnavailable
}

func (c *CUDABackend) Free(ptr unsafe.Pointer, size int)           {}
func (c *CUDABackend) CopyToDevice(dst unsafe.Pointer, src []byte) {}
func (c *CUDABackend) CopyToHost(dst []byte, src unsafe.Pointer)   {}

func (c *CUDABackend) Launch(n int, kernel func(tid int)) {
	NewCPUBackend().Launch(n, kernel)
}
