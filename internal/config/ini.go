package config

import (
	"sort"

	"gopkg.in/gcfg.v1"
)

// iniFile is the gcfg layout of a problem setup:
//
//	[run]
//	backend = cpu
//	model = pair
//	model = cascade
//
//	[particle "gamma"]
//	pdg = 22
//	standard
//
//	[particle "heavy-e"]
//	pdg = 4011
//	mass = 2.5
//	charge = -1
//
//	[primary]
//	particle = heavy-e
//	energy = 100
//	count = 10
//	dir-z = 1
//
//	[transport]
//	max-steps = 200
//	policy = drop
//
// A particle section marked standard takes the tabulated definition of its
// pdg code. Particles are registered in name order.
type iniFile struct {
	Run struct {
		Backend string   `gcfg:"backend"`
		Model   []string `gcfg:"model"`
	}
	Particle map[string]*iniParticle
	Primary  struct {
		Particle string  `gcfg:"particle"`
		Energy   float64 `gcfg:"energy"`
		Count    int     `gcfg:"count"`
		DirX     float64 `gcfg:"dir-x"`
		DirY     float64 `gcfg:"dir-y"`
		DirZ     float64 `gcfg:"dir-z"`
	}
	Transport struct {
		MaxSteps    int     `gcfg:"max-steps"`
		Capacity    int     `gcfg:"capacity"`
		MaxCapacity int     `gcfg:"max-capacity"`
		Policy      string  `gcfg:"policy"`
		Cutoff      float64 `gcfg:"cutoff"`
	}
}

type iniParticle struct {
	PDG           int     `gcfg:"pdg"`
	Mass          float64 `gcfg:"mass"`
	Charge        float64 `gcfg:"charge"`
	DecayConstant float64 `gcfg:"decay-constant"`
	Standard      bool    `gcfg:"standard"`
}

func loadINI(path string) (*Config, error) {
	def := DefaultConfig()

	var f iniFile
	f.Run.Backend = def.Backend
	f.Primary.Particle = def.Primary.Particle
	f.Primary.Energy = def.Primary.Energy
	f.Primary.Count = def.Primary.Count
	f.Primary.DirX, f.Primary.DirY, f.Primary.DirZ = def.Primary.Direction[0], def.Primary.Direction[1], def.Primary.Direction[2]
	f.Transport.MaxSteps = def.Transport.MaxSteps
	f.Transport.Capacity = def.Transport.Capacity
	f.Transport.MaxCapacity = def.Transport.MaxCapacity
	f.Transport.Policy = def.Transport.Policy
	f.Transport.Cutoff = def.Transport.Cutoff

	if err := gcfg.FatalOnly(gcfg.ReadFileInto(&f, path)); err != nil {
		return nil, err
	}

	cfg := def
	cfg.Backend = f.Run.Backend
	if len(f.Run.Model) > 0 {
		cfg.Models = f.Run.Model
	}
	if len(f.Particle) > 0 {
		names := make([]string, 0, len(f.Particle))
		for name := range f.Particle {
			names = append(names, name)
		}
		sort.Strings(names)

		cfg.Particles = cfg.Particles[:0]
		for _, name := range names {
			p := f.Particle[name]
			pc := ParticleConfig{PDG: int32(p.PDG)}
			if !p.Standard {
				pc.Name, pc.Mass, pc.Charge, pc.DecayConstant = name, p.Mass, p.Charge, p.DecayConstant
			}
			cfg.Particles = append(cfg.Particles, pc)
		}
	}
	cfg.Primary = PrimaryConfig{
		Particle:  f.Primary.Particle,
		Energy:    f.Primary.Energy,
		Count:     f.Primary.Count,
		Direction: [3]float64{f.Primary.DirX, f.Primary.DirY, f.Primary.DirZ},
	}
	cfg.Transport = TransportConfig{
		MaxSteps:    f.Transport.MaxSteps,
		Capacity:    f.Transport.Capacity,
		MaxCapacity: f.Transport.MaxCapacity,
		Policy:      f.Transport.Policy,
		Cutoff:      f.Transport.Cutoff,
	}
	return cfg, nil
}
