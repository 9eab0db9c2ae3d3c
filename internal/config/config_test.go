package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mctrans/internal/particles"
	"github.com/san-kum/mctrans/internal/transport"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Primary.Particle != "gamma" {
		t.Errorf("expected gamma primaries, got %s", cfg.Primary.Particle)
	}
	lc, err := cfg.LoopConfig()
	if err != nil {
		t.Fatal(err)
	}
	if lc != transport.DefaultConfig() {
		t.Errorf("loop config %+v differs from transport defaults", lc)
	}
	if cfg.ModelConfig() != transport.DefaultModelConfig() {
		t.Error("model config differs from transport defaults")
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}

	a := GetPreset("em")
	a.Primary.Count = 1
	if GetPreset("em").Primary.Count == 1 {
		t.Error("presets must not share state")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no particles", func(c *Config) { c.Particles = nil }},
		{"no models", func(c *Config) { c.Models = nil }},
		{"zero count", func(c *Config) { c.Primary.Count = 0 }},
		{"negative energy", func(c *Config) { c.Primary.Energy = -1 }},
		{"zero direction", func(c *Config) { c.Primary.Direction = [3]float64{} }},
		{"bad policy", func(c *Config) { c.Transport.Policy = "explode" }},
		{"zero steps", func(c *Config) { c.Transport.MaxSteps = 0 }},
		{"unknown pdg", func(c *Config) { c.Particles = append(c.Particles, ParticleConfig{PDG: 99}) }},
		{"opening cosine above one", func(c *Config) { c.Tuning.OpeningCos = 1.5 }},
		{"opening cosine below minus one", func(c *Config) { c.Tuning.OpeningCos = -1.01 }},
		{"negative radiated fraction", func(c *Config) { c.Tuning.RadiatedFraction = -0.1 }},
		{"loss fraction above one", func(c *Config) { c.Tuning.LossFraction = 1.2 }},
		{"fractions sum above one", func(c *Config) { c.Tuning.RadiatedFraction, c.Tuning.LossFraction = 0.7, 0.6 }},
		{"zero yield minimum", func(c *Config) { c.Tuning.YieldEmin = 0 }},
		{"yield maximum below minimum", func(c *Config) { c.Tuning.YieldEmax = c.Tuning.YieldEmin / 2 }},
		{"single yield point", func(c *Config) { c.Tuning.YieldPoints = 1 }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("muon")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Primary != cfg.Primary {
		t.Errorf("primary %+v, want %+v", loaded.Primary, cfg.Primary)
	}
	if len(loaded.Particles) != 5 {
		t.Errorf("expected 5 particles, got %d", len(loaded.Particles))
	}
}

func TestLoadPartialYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yml")
	data := "primary:\n  particle: e-\n  energy: 50\ntransport:\n  policy: drop\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Primary.Particle != "e-" || cfg.Primary.Energy != 50 {
		t.Errorf("unexpected primary %+v", cfg.Primary)
	}
	if cfg.Primary.Count != DefaultCount {
		t.Errorf("expected default count, got %d", cfg.Primary.Count)
	}
	lc, err := cfg.LoopConfig()
	if err != nil {
		t.Fatal(err)
	}
	if lc.Policy != transport.PolicyDrop {
		t.Errorf("expected drop policy, got %v", lc.Policy)
	}
}

func TestLoadINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ini")
	data := `[run]
backend = cpu
model = pair
model = cascade

[particle "gamma"]
pdg = 22
standard

[particle "e+"]
pdg = -11
standard

[particle "e-"]
pdg = 11
mass = 0.511
charge = -1

[primary]
particle = gamma
energy = 20
count = 3
dir-x = 1
dir-z = 0

[transport]
max-steps = 50
capacity = 8
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "cpu" || len(cfg.Models) != 2 {
		t.Errorf("unexpected run section: %s %v", cfg.Backend, cfg.Models)
	}

	inputs, err := cfg.ParticleInputs()
	if err != nil {
		t.Fatal(err)
	}
	names := []string{inputs[0].Name, inputs[1].Name, inputs[2].Name}
	if names[0] != "e+" || names[1] != "e-" || names[2] != "gamma" {
		t.Errorf("expected name order, got %v", names)
	}
	if inputs[1].Mass.Value() != 0.511 {
		t.Errorf("expected custom electron mass, got %v", inputs[1].Mass)
	}

	p, err := particles.New(inputs)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	tracks, err := cfg.Primaries(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 3 || tracks[0].Direction.X != 1 {
		t.Errorf("unexpected primaries %+v", tracks)
	}

	if cfg.Transport.MaxCapacity != DefaultConfig().Transport.MaxCapacity {
		t.Error("unset INI keys should keep defaults")
	}
}

func TestSaveINIUnsupported(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "run.ini"), DefaultConfig())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestPrimariesNormalizeDirection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Primary.Direction = [3]float64{0, 3, 4}
	cfg.Primary.Count = 2

	inputs, err := cfg.ParticleInputs()
	if err != nil {
		t.Fatal(err)
	}
	p, err := particles.New(inputs)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	tracks, err := cfg.Primaries(p)
	if err != nil {
		t.Fatal(err)
	}
	if d := tracks[0].Direction; math.Abs(d.Y-0.6) > 1e-15 || math.Abs(d.Z-0.8) > 1e-15 {
		t.Errorf("expected (0, 0.6, 0.8), got %v", d)
	}

	cfg.Primary.Particle = "graviton"
	if _, err := cfg.Primaries(p); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
