package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mctrans/internal/particles"
	"github.com/san-kum/mctrans/internal/physics"
	"github.com/san-kum/mctrans/internal/quantity"
	"github.com/san-kum/mctrans/internal/transport"
)

const (
	DefaultBackend = "auto"
	DefaultCount   = 100
	DefaultEnergy  = 1000.0 // MeV
)

var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

type Config struct {
	Backend   string           `yaml:"backend"`
	Particles []ParticleConfig `yaml:"particles"`
	Models    []string         `yaml:"models"`
	Primary   PrimaryConfig    `yaml:"primary"`
	Transport TransportConfig  `yaml:"transport"`
	Tuning    TuningConfig     `yaml:"tuning"`
}

// ParticleConfig defines one species. An entry with only a PDG code takes
// its properties from the standard table.
type ParticleConfig struct {
	Name          string  `yaml:"name,omitempty"`
	PDG           int32   `yaml:"pdg"`
	Mass          float64 `yaml:"mass,omitempty"`           // MeV/c^2
	Charge        float64 `yaml:"charge,omitempty"`         // e
	DecayConstant float64 `yaml:"decay_constant,omitempty"` // 1/s
}

type PrimaryConfig struct {
	Particle  string     `yaml:"particle"`
	Energy    float64    `yaml:"energy"` // MeV
	Count     int        `yaml:"count"`
	Direction [3]float64 `yaml:"direction"`
}

type TransportConfig struct {
	MaxSteps    int     `yaml:"max_steps"`
	Capacity    int     `yaml:"capacity"`
	MaxCapacity int     `yaml:"max_capacity"`
	Policy      string  `yaml:"policy"`
	Cutoff      float64 `yaml:"cutoff"` // MeV
}

type TuningConfig struct {
	YieldEmin        float64 `yaml:"yield_emin"`
	YieldEmax        float64 `yaml:"yield_emax"`
	YieldPoints      int     `yaml:"yield_points"`
	YieldPerDecade   float64 `yaml:"yield_per_decade"`
	RadiatedFraction float64 `yaml:"radiated_fraction"`
	LossFraction     float64 `yaml:"loss_fraction"`
	OpeningCos       float64 `yaml:"opening_cos"`
}

func DefaultConfig() *Config {
	tc := transport.DefaultConfig()
	mc := transport.DefaultModelConfig()
	return &Config{
		Backend: DefaultBackend,
		Particles: []ParticleConfig{
			{PDG: int32(particles.Gamma)},
			{PDG: int32(particles.Electron)},
			{PDG: int32(particles.Positron)},
		},
		Models: []string{"pair", "cascade", "annihilation"},
		Primary: PrimaryConfig{
			Particle:  "gamma",
			Energy:    DefaultEnergy,
			Count:     DefaultCount,
			Direction: [3]float64{0, 0, 1},
		},
		Transport: TransportConfig{
			MaxSteps:    tc.MaxSteps,
			Capacity:    tc.Capacity,
			MaxCapacity: tc.MaxCapacity,
			Policy:      tc.Policy.String(),
			Cutoff:      tc.Cutoff.Value(),
		},
		Tuning: TuningConfig{
			YieldEmin:        mc.YieldEmin,
			YieldEmax:        mc.YieldEmax,
			YieldPoints:      mc.YieldPoints,
			YieldPerDecade:   mc.YieldPerDecade,
			RadiatedFraction: mc.RadiatedFraction,
			LossFraction:     mc.LossFraction,
			OpeningCos:       mc.OpeningCos,
		},
	}
}

func isINI(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg", ".cfg":
		return true
	}
	return false
}

// Load reads a YAML file, or an INI file when the extension says so.
// Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	if isINI(path) {
		return loadINI(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if isINI(path) {
		return fmt.Errorf("%w: cannot write %s, use YAML", ErrUnsupportedFormat, filepath.Ext(path))
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if len(c.Particles) == 0 {
		return fmt.Errorf("%w: no particles defined", ErrInvalidConfig)
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("%w: no models selected", ErrInvalidConfig)
	}
	if c.Primary.Count <= 0 {
		return fmt.Errorf("%w: primary count must be positive, got %d", ErrInvalidConfig, c.Primary.Count)
	}
	if c.Primary.Energy < 0 {
		return fmt.Errorf("%w: negative primary energy %g", ErrInvalidConfig, c.Primary.Energy)
	}
	if r3.Norm(c.direction()) == 0 {
		return fmt.Errorf("%w: primary direction is zero", ErrInvalidConfig)
	}
	if _, err := c.LoopConfig(); err != nil {
		return err
	}
	if err := c.ModelConfig().Validate(); err != nil {
		return err
	}
	if _, err := c.ParticleInputs(); err != nil {
		return err
	}
	return nil
}

func (c *Config) direction() r3.Vec {
	d := c.Primary.Direction
	return r3.Vec{X: d[0], Y: d[1], Z: d[2]}
}

// ParticleInputs resolves the particle list into registry inputs.
func (c *Config) ParticleInputs() ([]particles.Input, error) {
	inputs := make([]particles.Input, 0, len(c.Particles))
	for _, pc := range c.Particles {
		if pc.Name == "" {
			std, err := particles.StandardInputs(particles.PDGNumber(pc.PDG))
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, std...)
			continue
		}
		inputs = append(inputs, particles.Input{
			Name:          pc.Name,
			PDG:           particles.PDGNumber(pc.PDG),
			Mass:          quantity.New[quantity.UnitDivide[quantity.Mev, quantity.CLightSq]](pc.Mass),
			Charge:        quantity.New[quantity.EChargeUnit](pc.Charge),
			DecayConstant: pc.DecayConstant,
		})
	}
	return inputs, nil
}

func (c *Config) LoopConfig() (transport.Config, error) {
	policy, err := transport.ParsePolicy(c.Transport.Policy)
	if err != nil {
		return transport.Config{}, err
	}
	tc := transport.Config{
		MaxSteps:    c.Transport.MaxSteps,
		Capacity:    c.Transport.Capacity,
		MaxCapacity: c.Transport.MaxCapacity,
		Policy:      policy,
		Cutoff:      quantity.New[quantity.Mev](c.Transport.Cutoff),
	}
	return tc, tc.Validate()
}

func (c *Config) ModelConfig() transport.ModelConfig {
	return transport.ModelConfig{
		YieldEmin:        c.Tuning.YieldEmin,
		YieldEmax:        c.Tuning.YieldEmax,
		YieldPoints:      c.Tuning.YieldPoints,
		YieldPerDecade:   c.Tuning.YieldPerDecade,
		RadiatedFraction: c.Tuning.RadiatedFraction,
		LossFraction:     c.Tuning.LossFraction,
		OpeningCos:       c.Tuning.OpeningCos,
	}
}

// Primaries builds the initial tracks. The direction is normalized.
func (c *Config) Primaries(p *particles.Params) ([]transport.Track, error) {
	id := p.Find(c.Primary.Particle)
	if !id.Valid() {
		return nil, fmt.Errorf("%w: primary particle %q is not defined", ErrInvalidConfig, c.Primary.Particle)
	}
	dir := c.direction()
	if r3.Norm(dir) == 0 {
		return nil, fmt.Errorf("%w: primary direction is zero", ErrInvalidConfig)
	}
	state := physics.ParticleTrackState{Particle: id, Energy: quantity.New[quantity.Mev](c.Primary.Energy)}
	return transport.Primaries(c.Primary.Count, state, r3.Unit(dir)), nil
}
