package compute

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/san-kum/mctrans/internal/assert"
)

// DeviceVector is a fixed-capacity array in device memory. Element types
// must be pointer-free so that their bytes mean the same thing on the host
// and on the device.
type DeviceVector[T any] struct {
	backend  Backend
	ptr      unsafe.Pointer
	size     int
	capacity int
}

// NewDeviceVector allocates room for n elements. Contents are unspecified
// until the first CopyToDevice.
func NewDeviceVector[T any](b Backend, n int) (*DeviceVector[T], error) {
	assert.Expect(Mirrorable(reflect.TypeFor[T]()), "device vector element type holds pointers")
	assert.Expect(n >= 0, "negative device vector size")

	var zero T
	assert.Check(unsafe.Alignof(zero) <= 8, "device element alignment exceeds allocation alignment")

	ptr, err := b.Malloc(n * int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, fmt.Errorf("allocate %d x %T on %s: %w", n, zero, b.Name(), err)
	}
	return &DeviceVector[T]{backend: b, ptr: ptr, size: n, capacity: n}, nil
}

func (v *DeviceVector[T]) Size() int     { return v.size }
func (v *DeviceVector[T]) Capacity() int { return v.capacity }
func (v *DeviceVector[T]) Empty() bool   { return v.size == 0 }

// Resize changes the logical size without reallocating.
func (v *DeviceVector[T]) Resize(n int) {
	assert.Expect(n >= 0 && n <= v.capacity, "resize beyond device vector capacity")
	v.size = n
}

func (v *DeviceVector[T]) CopyToDevice(src []T) {
	assert.Expect(len(src) == v.size, "host and device sizes differ")
	v.backend.CopyToDevice(v.ptr, bytesOf(src))
}

func (v *DeviceVector[T]) CopyToHost(dst []T) {
	assert.Expect(len(dst) == v.size, "host and device sizes differ")
	v.backend.CopyToHost(bytesOf(dst), v.ptr)
}

// DeviceSlice returns a non-owning view of the device elements. It must not
// be used after Free.
func (v *DeviceVector[T]) DeviceSlice() []T {
	if v.ptr == nil {
		return nil
	}
	return unsafe.Slice((*T)(v.ptr), v.size)
}

// Free releases the device memory. Calling it twice is harmless.
func (v *DeviceVector[T]) Free() {
	if v.ptr == nil {
		return
	}
	var zero T
	v.backend.Free(v.ptr, v.capacity*int(unsafe.Sizeof(zero)))
	v.ptr = nil
	v.size, v.capacity = 0, 0
}

func bytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

// Mirrorable reports whether values of t can be copied bytewise between
// host and device memory.
func Mirrorable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return Mirrorable(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !Mirrorable(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
