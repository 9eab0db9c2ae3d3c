package compute

import (
	"reflect"
	"sync/atomic"
	"testing"
)

type podRecord struct {
	A int32
	B float64
	C [3]float64
	D bool
}

type pointerRecord struct {
	Name string
	X    float64
}

func TestMirrorable(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"float", reflect.TypeFor[float64](), true},
		{"struct of scalars", reflect.TypeFor[podRecord](), true},
		{"array", reflect.TypeFor[[4]podRecord](), true},
		{"string field", reflect.TypeFor[pointerRecord](), false},
		{"pointer", reflect.TypeFor[*float64](), false},
		{"slice", reflect.TypeFor[[]float64](), false},
		{"map", reflect.TypeFor[map[int]int](), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mirrorable(tt.typ); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDeviceVectorRoundTrip(t *testing.T) {
	cpu := NewCPUBackend()
	host := []podRecord{
		{A: 1, B: 0.5, C: [3]float64{1, 2, 3}, D: true},
		{A: -7, B: 1e300},
	}

	dv, err := NewDeviceVector[podRecord](cpu, len(host))
	if err != nil {
		t.Fatalf("allocation failed: %v", err)
	}
	defer dv.Free()

	dv.CopyToDevice(host)
	device := dv.DeviceSlice()
	if len(device) != len(host) {
		t.Fatalf("expected %d device elements, got %d", len(host), len(device))
	}
	if &device[0] == &host[0] {
		t.Error("device copy should not alias host memory")
	}
	for i := range host {
		if device[i] != host[i] {
			t.Errorf("element %d: expected %+v, got %+v", i, host[i], device[i])
		}
	}

	back := make([]podRecord, len(host))
	dv.CopyToHost(back)
	for i := range host {
		if back[i] != host[i] {
			t.Errorf("element %d: round trip mismatch", i)
		}
	}
}

func TestDeviceVectorFree(t *testing.T) {
	cpu := NewCPUBackend()
	dv, err := NewDeviceVector[float64](cpu, 10)
	if err != nil {
		t.Fatalf("allocation failed: %v", err)
	}
	if cpu.LiveBytes() != 80 {
		t.Errorf("expected 80 live bytes, got %d", cpu.LiveBytes())
	}

	dv.Free()
	dv.Free()
	if cpu.LiveBytes() != 0 {
		t.Errorf("expected 0 live bytes after free, got %d", cpu.LiveBytes())
	}
	if dv.DeviceSlice() != nil || dv.Size() != 0 {
		t.Error("freed vector should be empty")
	}
}

func TestDeviceVectorResize(t *testing.T) {
	dv, err := NewDeviceVector[uint64](NewCPUBackend(), 8)
	if err != nil {
		t.Fatalf("allocation failed: %v", err)
	}
	defer dv.Free()

	dv.Resize(3)
	if dv.Size() != 3 || dv.Capacity() != 8 {
		t.Errorf("expected size 3 capacity 8, got %d/%d", dv.Size(), dv.Capacity())
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic when resizing past capacity")
		}
	}()
	dv.Resize(9)
}

func TestDeviceVectorRejectsPointers(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for pointer-holding element type")
		}
	}()
	_, _ = NewDeviceVector[pointerRecord](NewCPUBackend(), 1)
}

func TestLaunchVisitsEveryThread(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 1000, 4097} {
		cpu := NewCPUBackend()
		hits := make([]atomic.Int32, n)
		cpu.Launch(n, func(tid int) {
			hits[tid].Add(1)
		})
		for i := range hits {
			if hits[i].Load() != 1 {
				t.Fatalf("n=%d: thread %d ran %d times", n, i, hits[i].Load())
			}
		}
	}
}

func TestBackendByName(t *testing.T) {
	b, err := BackendByName("cpu")
	if err != nil || b.Name() != "cpu" {
		t.Errorf("expected cpu backend, got %v (%v)", b, err)
	}
	if _, err := BackendByName("opencl"); err != ErrUnknownBackend {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
	if GetBackend() == nil {
		t.Error("expected an active backend")
	}
}

func BenchmarkLaunch(b *testing.B) {
	cpu := NewCPUBackend()
	data := make([]float64, 1<<16)
	for i := 0; i < b.N; i++ {
		cpu.Launch(len(data), func(tid int) {
			data[tid] += 1
		})
	}
}
