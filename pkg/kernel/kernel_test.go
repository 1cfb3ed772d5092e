package kernel

import "testing"

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel proves the interface is satisfiable. It ignores rotation.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	return &stubSolid{
		minBB: [3]float64{-x / 2, -y / 2, -z / 2},
		maxBB: [3]float64{x / 2, y / 2, z / 2},
	}
}

func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid { return s }

func (k *stubKernel) Translate(s Solid, x, y, z float64) Solid {
	min, max := s.BoundingBox()
	d := [3]float64{x, y, z}
	for i := range d {
		min[i] += d[i]
		max[i] += d[i]
	}
	return &stubSolid{minBB: min, maxBB: max}
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestExtents(t *testing.T) {
	var k Kernel = &stubKernel{}
	tests := []struct {
		name string
		s    Solid
		want [3]float64
	}{
		{"nil", nil, [3]float64{}},
		{"box", k.Box(10, 20, 30), [3]float64{10, 20, 30}},
		{"translated", k.Translate(k.Box(10, 20, 30), 5, -5, 100), [3]float64{10, 20, 30}},
		{"degenerate", k.Box(0, 0, 0), [3]float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extents(tt.s); got != tt.want {
				t.Errorf("Extents() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStubKernelBoxIsCentered(t *testing.T) {
	var k Kernel = &stubKernel{}
	min, max := k.Box(10, 20, 30).BoundingBox()
	if min != [3]float64{-5, -10, -15} {
		t.Errorf("Box min = %v, want [-5 -10 -15]", min)
	}
	if max != [3]float64{5, 10, 15} {
		t.Errorf("Box max = %v, want [5 10 15]", max)
	}
}
