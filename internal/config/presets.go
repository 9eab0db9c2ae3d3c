package config

import (
	"sort"

	"github.com/san-kum/mctrans/internal/particles"
)

func emPreset() *Config {
	return DefaultConfig()
}

func muonPreset() *Config {
	cfg := DefaultConfig()
	cfg.Particles = append(cfg.Particles,
		ParticleConfig{PDG: int32(particles.MuMinus)},
		ParticleConfig{PDG: int32(particles.MuPlus)},
	)
	cfg.Primary.Particle = "mu-"
	cfg.Primary.Energy = 10000
	cfg.Primary.Count = 20
	cfg.Transport.MaxSteps = 400
	return cfg
}

// overflowPreset runs an EM shower through a bank far too small for it, so
// that tracks are dropped every step.
func overflowPreset() *Config {
	cfg := DefaultConfig()
	cfg.Primary.Count = 500
	cfg.Transport.Capacity = 256
	cfg.Transport.MaxCapacity = 256
	cfg.Transport.Policy = "drop"
	return cfg
}

var Presets = map[string]func() *Config{
	"em":       emPreset,
	"muon":     muonPreset,
	"overflow": overflowPreset,
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
