// Package compute provides host/device memory and kernel launch backends.
//
// The package automatically selects the best available backend:
//
//   - CUDA: unified memory on an NVIDIA device (build tag cuda)
//   - CPU: a separate host allocation standing in for device memory
//
// # Device Vectors
//
// Read-only parameter data is built on the host and mirrored into a
// [DeviceVector], whose [DeviceVector.DeviceSlice] is handed to kernels:
//
//	dv, err := compute.NewDeviceVector[Def](compute.GetBackend(), len(defs))
//	dv.CopyToDevice(defs)
//	view := dv.DeviceSlice()
//
// Element types must be pointer-free; see [Mirrorable].
//
// # Kernels
//
// [Backend.Launch] calls a function once per thread id. On the CPU backend
// thread ids are split into chunks across runtime.NumCPU() goroutines.
//
// Build with CUDA support:
//
//	go build -tags cuda ./...
package compute
