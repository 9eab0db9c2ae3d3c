package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/mctrans/internal/compute"
	"github.com/san-kum/mctrans/internal/config"
	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/metrics"
	"github.com/san-kum/mctrans/internal/particles"
	"github.com/san-kum/mctrans/internal/store"
	"github.com/san-kum/mctrans/internal/transport"
)

var ErrNotSetup = errors.New("experiment not set up")

// Experiment owns everything one configured run needs: the backend, the
// particle registry and the transport loop.
type Experiment struct {
	name    string
	cfg     *config.Config
	backend compute.Backend
	params  *particles.Params
	loop    *transport.Loop
	tc      transport.Config
}

func New(name string, cfg *config.Config) *Experiment {
	return &Experiment{name: name, cfg: cfg}
}

// Setup validates the configuration and builds the loop. Extra metrics are
// added after the default ones.
func (e *Experiment) Setup(extra ...transport.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	tc, err := e.cfg.LoopConfig()
	if err != nil {
		return err
	}

	backend, err := compute.BackendByName(e.cfg.Backend)
	if err != nil {
		return fmt.Errorf("backend %q: %w", e.cfg.Backend, err)
	}
	inputs, err := e.cfg.ParticleInputs()
	if err != nil {
		return err
	}
	params, err := particles.NewWithBackend(backend, inputs)
	if err != nil {
		return err
	}
	models, err := transport.NewRegistry().Build(e.cfg.Models, params, e.cfg.ModelConfig())
	if err != nil {
		params.Close()
		return err
	}

	loop := transport.New(backend, params, models...)
	for _, m := range metrics.Default() {
		loop.AddMetric(m)
	}
	for _, m := range extra {
		loop.AddMetric(m)
	}

	e.backend, e.params, e.loop, e.tc = backend, params, loop, tc
	return nil
}

func (e *Experiment) Params() *particles.Params { return e.params }
func (e *Experiment) Backend() compute.Backend  { return e.backend }

func (e *Experiment) Run(ctx context.Context, observers ...transport.Observer) (*transport.Result, error) {
	if e.loop == nil {
		return nil, ErrNotSetup
	}
	for _, o := range observers {
		e.loop.AddObserver(o)
	}
	defer e.loop.ClearObservers()

	primaries, err := e.cfg.Primaries(e.params)
	if err != nil {
		return nil, err
	}
	return e.loop.Run(ctx, primaries, e.tc)
}

// Metadata describes the run for the store.
func (e *Experiment) Metadata() store.RunMetadata {
	meta := store.RunMetadata{
		Name:        e.name,
		Models:      e.cfg.Models,
		Primary:     e.cfg.Primary.Particle,
		Energy:      e.cfg.Primary.Energy,
		Count:       e.cfg.Primary.Count,
		Policy:      e.tc.Policy.String(),
		Capacity:    e.tc.Capacity,
		MaxCapacity: e.tc.MaxCapacity,
		Cutoff:      e.tc.Cutoff.Value(),
	}
	if e.backend != nil {
		meta.Backend = e.backend.Name()
	}
	if e.params != nil {
		for i := range e.params.Size() {
			meta.Particles = append(meta.Particles, e.params.Label(ids.New[ids.ParticleTag](i)))
		}
	}
	return meta
}

func (e *Experiment) Close() {
	if e.params != nil {
		e.params.Close()
		e.params = nil
	}
	e.loop = nil
}
