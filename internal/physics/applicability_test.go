package physics

import (
	"math"
	"slices"
	"testing"

	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/quantity"
)

func mev(v float64) quantity.MevEnergy { return quantity.New[quantity.Mev](v) }

func TestNewApplicabilityDefaults(t *testing.T) {
	a := NewApplicability(ids.New[ids.ParticleTag](0))
	if a.Material.Valid() {
		t.Error("default material should be unset")
	}
	if a.Lower.Value() != 0 || !math.IsInf(a.Upper.Value(), 1) {
		t.Errorf("expected (0, inf], got (%v, %v]", a.Lower, a.Upper)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unset particle")
		}
	}()
	NewApplicability(ids.ParticleDefID{})
}

func TestAtRest(t *testing.T) {
	p := ids.New[ids.ParticleTag](1)
	a := AtRest(p)
	if a.Particle != p {
		t.Errorf("expected particle %v, got %v", p, a.Particle)
	}
	if !math.IsInf(a.Lower.Value(), -1) || a.Upper.Value() != 0 {
		t.Errorf("expected (-inf, 0], got (%v, %v]", a.Lower, a.Upper)
	}
	if !a.Contains(ids.MaterialDefID{}, p, mev(0)) {
		t.Error("at-rest range should contain zero energy")
	}
	if a.Contains(ids.MaterialDefID{}, p, mev(1e-12)) {
		t.Error("at-rest range should exclude positive energy")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unset particle")
		}
	}()
	AtRest(ids.ParticleDefID{})
}

func TestContains(t *testing.T) {
	p := ids.New[ids.ParticleTag](0)
	other := ids.New[ids.ParticleTag](1)
	mat := ids.New[ids.MaterialTag](2)

	a := NewApplicability(p)
	a.Lower, a.Upper = mev(1), mev(10)

	tests := []struct {
		name     string
		material ids.MaterialDefID
		particle ids.ParticleDefID
		energy   float64
		want     bool
	}{
		{"lower edge is open", ids.MaterialDefID{}, p, 1, false},
		{"inside", ids.MaterialDefID{}, p, 5, true},
		{"upper edge is closed", ids.MaterialDefID{}, p, 10, true},
		{"above", ids.MaterialDefID{}, p, 10.5, false},
		{"wrong particle", ids.MaterialDefID{}, other, 5, false},
		{"any material", mat, p, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Contains(tt.material, tt.particle, mev(tt.energy)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	a.Material = mat
	if a.Contains(ids.New[ids.MaterialTag](3), p, mev(5)) {
		t.Error("material-specific range should reject other materials")
	}
	if !a.Contains(mat, p, mev(5)) {
		t.Error("material-specific range should accept its material")
	}
}

func TestApplicabilityOrdering(t *testing.T) {
	p0, p1 := ids.New[ids.ParticleTag](0), ids.New[ids.ParticleTag](1)
	m0 := ids.New[ids.MaterialTag](0)

	withRange := func(a Applicability, lo, hi float64) Applicability {
		a.Lower, a.Upper = mev(lo), mev(hi)
		return a
	}
	withMaterial := func(a Applicability, m ids.MaterialDefID) Applicability {
		a.Material = m
		return a
	}

	want := []Applicability{
		withMaterial(NewApplicability(p1), m0),
		AtRest(p0),
		withRange(NewApplicability(p0), 0, 1),
		NewApplicability(p0),
		withRange(NewApplicability(p0), 1, 10),
		NewApplicability(p1),
	}
	got := []Applicability{want[4], want[5], want[0], want[3], want[1], want[2]}
	slices.SortFunc(got, CompareApplicability)

	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("position %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	for i := 1; i < len(want); i++ {
		if !want[i-1].Less(want[i]) || want[i].Less(want[i-1]) {
			t.Errorf("expected %v < %v", want[i-1], want[i])
		}
	}
}
