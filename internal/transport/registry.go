package transport

import (
	"fmt"
	"sort"

	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/particles"
)

// Factory builds the models registered under one name.
type Factory func(p *particles.Params, cfg ModelConfig) ([]Model, error)

type Registry struct {
	models map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]Factory)}
	r.models["pair"] = newPairModels
	r.models["cascade"] = newCascadeModels
	r.models["annihilation"] = newAnnihilationModels
	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.models[name] = f
}

// Build instantiates the named models in order.
func (r *Registry) Build(names []string, p *particles.Params, cfg ModelConfig) ([]Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var out []Model
	for _, name := range names {
		f, ok := r.models[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
		}
		models, err := f(p, cfg)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", name, err)
		}
		out = append(out, models...)
	}
	return out, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupSpecies(p *particles.Params, codes ...particles.PDGNumber) ([]ids.ParticleDefID, error) {
	out := make([]ids.ParticleDefID, len(codes))
	for i, code := range codes {
		id := p.FindPDG(code)
		if !id.Valid() {
			return nil, fmt.Errorf("%w: PDG %d", ErrMissingSpecies, code)
		}
		out[i] = id
	}
	return out, nil
}

func newPairModels(p *particles.Params, cfg ModelConfig) ([]Model, error) {
	found, err := lookupSpecies(p, particles.Gamma, particles.Electron, particles.Positron)
	if err != nil {
		return nil, err
	}
	mass := p.Get(found[1]).Mass
	return []Model{NewPairSplit(found[0], found[1], found[2], mass, cfg)}, nil
}

func newCascadeModels(p *particles.Params, cfg ModelConfig) ([]Model, error) {
	photon, err := lookupSpecies(p, particles.Gamma)
	if err != nil {
		return nil, err
	}
	yield, err := cfg.YieldTable()
	if err != nil {
		return nil, err
	}

	var out []Model
	for _, code := range []particles.PDGNumber{particles.Electron, particles.Positron, particles.MuMinus, particles.MuPlus} {
		if id := p.FindPDG(code); id.Valid() {
			out = append(out, NewCascade(id, photon[0], yield, cfg))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no charged leptons", ErrMissingSpecies)
	}
	return out, nil
}

func newAnnihilationModels(p *particles.Params, cfg ModelConfig) ([]Model, error) {
	found, err := lookupSpecies(p, particles.Positron, particles.Gamma)
	if err != nil {
		return nil, err
	}
	return []Model{NewAnnihilation(found[0], found[1], p.Get(found[0]).Mass)}, nil
}
