package ids

import (
	"slices"
	"testing"
)

func TestZeroValueIsUnset(t *testing.T) {
	var id ParticleDefID
	if id.Valid() {
		t.Error("zero id should be unset")
	}
	if id.String() != "<unset>" {
		t.Errorf("unexpected string %q", id.String())
	}
}

func TestNew(t *testing.T) {
	id := New[ParticleTag](3)
	if !id.Valid() {
		t.Fatal("expected valid id")
	}
	if id.Get() != 3 {
		t.Errorf("expected index 3, got %d", id.Get())
	}
	if id != New[ParticleTag](3) {
		t.Error("ids with equal index should be equal")
	}
}

func TestGetUnsetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unset id access")
		}
	}()
	var id MaterialDefID
	_ = id.Get()
}

func TestCompare(t *testing.T) {
	var unset ParticleDefID
	ids := []ParticleDefID{unset, New[ParticleTag](2), New[ParticleTag](0), unset, New[ParticleTag](1)}
	slices.SortFunc(ids, Compare[ParticleTag])

	for i := 0; i < 3; i++ {
		if ids[i].Get() != i {
			t.Errorf("position %d: expected index %d, got %v", i, i, ids[i])
		}
	}
	for i := 3; i < len(ids); i++ {
		if ids[i].Valid() {
			t.Errorf("position %d: expected unset id to sort last", i)
		}
	}
	if Compare(unset, unset) != 0 {
		t.Error("unset ids should compare equal")
	}
}
