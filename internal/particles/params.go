package particles

import (
	"fmt"

	"github.com/san-kum/mctrans/internal/assert"
	"github.com/san-kum/mctrans/internal/compute"
	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/logger"
	"github.com/san-kum/mctrans/internal/quantity"
)

// Input defines one particle species.
type Input struct {
	Name          string
	PDG           PDGNumber
	Mass          quantity.MevMass
	Charge        quantity.ElementaryCharge
	DecayConstant float64 // 1/s; zero for stable particles
}

// Def is the per-species data visible to kernels.
type Def struct {
	Mass          quantity.MevMass
	Charge        quantity.ElementaryCharge
	DecayConstant float64
}

// View is a non-owning descriptor of the definitions in one memory space.
// It is copied by value into kernels.
type View struct {
	defs []Def
}

func (v View) Size() int { return len(v.defs) }

func (v View) Get(id ids.ParticleDefID) Def {
	assert.Expect(id.Get() < len(v.defs), "particle id out of range")
	return v.defs[id.Get()]
}

// Params is the particle registry. Construction validates the inputs and
// mirrors the definitions into device memory; Close releases it.
type Params struct {
	labels   []string
	codes    []PDGNumber
	nameToID map[string]ids.ParticleDefID
	pdgToID  map[PDGNumber]ids.ParticleDefID
	host     []Def
	device   *compute.DeviceVector[Def]
	closed   bool
}

// New builds a registry on the active compute backend.
func New(inputs []Input) (*Params, error) {
	return NewWithBackend(compute.GetBackend(), inputs)
}

func NewWithBackend(b compute.Backend, inputs []Input) (*Params, error) {
	p := &Params{
		labels:   make([]string, 0, len(inputs)),
		codes:    make([]PDGNumber, 0, len(inputs)),
		nameToID: make(map[string]ids.ParticleDefID, len(inputs)),
		pdgToID:  make(map[PDGNumber]ids.ParticleDefID, len(inputs)),
		host:     make([]Def, 0, len(inputs)),
	}

	for i, in := range inputs {
		if err := validate(i, in); err != nil {
			return nil, err
		}
		if prev, ok := p.nameToID[in.Name]; ok {
			return nil, &DuplicateError{Name: in.Name, PDG: in.PDG, First: prev.Get(), Second: i, Wrapped: ErrDuplicateName}
		}
		if prev, ok := p.pdgToID[in.PDG]; ok {
			return nil, &DuplicateError{Name: in.Name, PDG: in.PDG, First: prev.Get(), Second: i, Wrapped: ErrDuplicatePDG}
		}

		id := ids.New[ids.ParticleTag](i)
		p.nameToID[in.Name] = id
		p.pdgToID[in.PDG] = id
		p.labels = append(p.labels, in.Name)
		p.codes = append(p.codes, in.PDG)
		p.host = append(p.host, Def{Mass: in.Mass, Charge: in.Charge, DecayConstant: in.DecayConstant})
	}

	device, err := compute.NewDeviceVector[Def](b, len(p.host))
	if err != nil {
		return nil, fmt.Errorf("particles: mirror definitions: %w", err)
	}
	device.CopyToDevice(p.host)
	p.device = device

	assert.Ensure(len(p.nameToID) == len(p.host) && len(p.pdgToID) == len(p.host), "registry maps out of sync")
	logger.World().Debugf("registered %d particle types on %s", len(p.host), b.Name())
	return p, nil
}

func validate(i int, in Input) error {
	switch {
	case in.Name == "":
		return fmt.Errorf("%w: input %d has an empty name", ErrInvalidInput, i)
	case !in.PDG.Valid():
		return fmt.Errorf("%w: %q has PDG code 0", ErrInvalidInput, in.Name)
	case !in.Mass.Ge(quantity.From[quantity.UnitDivide[quantity.Mev, quantity.CLightSq]](quantity.ZeroQuantity())):
		return fmt.Errorf("%w: %q has mass %v", ErrInvalidInput, in.Name, in.Mass)
	case !(in.DecayConstant >= 0):
		return fmt.Errorf("%w: %q has decay constant %v", ErrInvalidInput, in.Name, in.DecayConstant)
	}
	return nil
}

func (p *Params) Size() int { return len(p.host) }

// Find returns the id of a particle name, or an unset id.
func (p *Params) Find(name string) ids.ParticleDefID {
	return p.nameToID[name]
}

// FindPDG returns the id of a PDG code, or an unset id.
func (p *Params) FindPDG(code PDGNumber) ids.ParticleDefID {
	return p.pdgToID[code]
}

func (p *Params) Label(id ids.ParticleDefID) string {
	assert.Expect(id.Get() < len(p.labels), "particle id out of range")
	return p.labels[id.Get()]
}

func (p *Params) PDG(id ids.ParticleDefID) PDGNumber {
	assert.Expect(id.Get() < len(p.codes), "particle id out of range")
	return p.codes[id.Get()]
}

// Get returns the host copy of a definition.
func (p *Params) Get(id ids.ParticleDefID) Def {
	return p.HostView().Get(id)
}

func (p *Params) HostView() View {
	return View{defs: p.host}
}

// DeviceView returns the device copy. The registry must not be closed.
func (p *Params) DeviceView() View {
	assert.Expect(!p.closed, "device view of a closed particle registry")
	return View{defs: p.device.DeviceSlice()}
}

// Close frees the device copy. It is safe to call more than once.
func (p *Params) Close() {
	if p.closed {
		return
	}
	p.device.Free()
	p.closed = true
}
