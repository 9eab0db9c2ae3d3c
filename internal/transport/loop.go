package transport

import (
	"context"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/mctrans/internal/alloc"
	"github.com/san-kum/mctrans/internal/compute"
	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/logger"
	"github.com/san-kum/mctrans/internal/particles"
	"github.com/san-kum/mctrans/internal/physics"
	"github.com/san-kum/mctrans/internal/quantity"
)

// Model acts on one track per call. Interact runs concurrently for
// different tracks and must only write to its own result and to slots it
// obtained from the allocator. When allocation fails it returns
// [physics.FromBankFailure] without side effects.
type Model interface {
	Label() string
	Applicability() physics.Applicability
	Interact(track physics.ParticleTrackView, dir r3.Vec, bank physics.SecondaryAllocator) physics.Interaction
}

// Loop advances a population of tracks one step at a time, one kernel
// thread per track, with a fresh secondary bank every step.
type Loop struct {
	backend   compute.Backend
	params    *particles.Params
	models    []Model
	metrics   []Metric
	observers []Observer
	log       *logger.Logger
}

func New(b compute.Backend, params *particles.Params, models ...Model) *Loop {
	sorted := slices.Clone(models)
	slices.SortStableFunc(sorted, func(a, b Model) int {
		return physics.CompareApplicability(a.Applicability(), b.Applicability())
	})
	return &Loop{
		backend: b,
		params:  params,
		models:  sorted,
		log:     logger.World(),
	}
}

func (l *Loop) AddMetric(m Metric)           { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer)       { l.observers = append(l.observers, o) }
func (l *Loop) ClearObservers()              { l.observers = nil }
func (l *Loop) SetLogger(log *logger.Logger) { l.log = log }
func (l *Loop) Models() []Model              { return l.models }

// selectModel returns the first model, in applicability order, whose range
// contains the track.
func (l *Loop) selectModel(particle ids.ParticleDefID, energy quantity.MevEnergy) Model {
	for _, m := range l.models {
		if m.Applicability().Contains(ids.MaterialDefID{}, particle, energy) {
			return m
		}
	}
	return nil
}

func (l *Loop) hasAtRest(particle ids.ParticleDefID) bool {
	return l.selectModel(particle, quantity.From[quantity.Mev](quantity.ZeroQuantity())) != nil
}

func (l *Loop) Run(ctx context.Context, primaries []Track, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for i, p := range primaries {
		if !p.State.Particle.Valid() || p.State.Particle.Get() >= l.params.Size() {
			return nil, fmt.Errorf("%w: primary %d has unknown particle %v", ErrInvalidPrimary, i, p.State.Particle)
		}
		if p.State.Energy.CompareUnitless(quantity.ZeroQuantity()) < 0 {
			return nil, fmt.Errorf("%w: primary %d has energy %v", ErrInvalidPrimary, i, p.State.Energy)
		}
		if !physics.IsUnit(p.Direction) {
			return nil, fmt.Errorf("%w: primary %d direction %v is not a unit vector", ErrInvalidPrimary, i, p.Direction)
		}
	}

	bank, err := alloc.NewStore[physics.Secondary](l.backend, cfg.Capacity)
	if err != nil {
		return nil, err
	}
	defer func() { bank.Close() }()

	for _, m := range l.metrics {
		m.Reset()
	}

	result := &Result{
		Steps:   make([]StepStats, 0, cfg.MaxSteps),
		Metrics: make(map[string]float64),
	}

	var deposited, droppedEnergy float64
	tracks := slices.Clone(primaries)

	for step := 0; step < cfg.MaxSteps && len(tracks) > 0; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		interactions, stats, err := l.launch(step, tracks, &bank, cfg)
		if err != nil {
			return result, &StepError{Step: step, Wrapped: err}
		}

		next := make([]Track, 0, len(tracks))
		for i, it := range interactions {
			track := tracks[i]
			switch it.Action {
			case physics.ActionFailed:
				stats.Dropped++
				stats.DroppedEnergy += track.State.Energy.Value()
				continue
			case physics.ActionScattered:
				physics.NewParticleTrackView(l.params.HostView(), &track.State).SetEnergy(it.Energy)
				track.Direction = it.Direction
				next = l.push(next, track, cfg, &stats)
			}
			stats.Deposited += it.EnergyDeposition.Value()

			for _, sec := range it.Secondaries {
				result.Secondaries = append(result.Secondaries, sec)
				next = l.push(next, TrackFromSecondary(sec), cfg, &stats)
			}
			stats.Secondaries += len(it.Secondaries)
		}

		bank.Reset()
		tracks = next
		stats.Alive = len(tracks)
		deposited += stats.Deposited
		droppedEnergy += stats.DroppedEnergy

		result.Steps = append(result.Steps, stats)
		result.StepsTaken++
		result.Dropped += stats.Dropped

		for _, m := range l.metrics {
			m.Observe(stats)
		}
		for _, o := range l.observers {
			o.OnStep(stats)
		}
		if stats.Dropped > 0 {
			l.log.Warnf("step %d: dropped %d tracks whose secondaries did not fit", step, stats.Dropped)
		}
	}

	result.Alive = len(tracks)
	result.Deposited = quantity.New[quantity.Mev](deposited)
	result.DroppedEnergy = quantity.New[quantity.Mev](droppedEnergy)
	result.FinalCapacity = bank.Capacity()
	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	l.log.Statusf("transported %d primaries in %d steps: %d secondaries, %d alive, %d dropped",
		len(primaries), result.StepsTaken, len(result.Secondaries), result.Alive, result.Dropped)
	return result, nil
}

// launch runs one step's kernel, retrying with a larger bank while the
// policy allows.
func (l *Loop) launch(step int, tracks []Track, bank **alloc.Store[physics.Secondary], cfg Config) ([]physics.Interaction, StepStats, error) {
	view := l.params.DeviceView()
	stats := StepStats{Step: step, Tracks: len(tracks)}

	for {
		interactions := make([]physics.Interaction, len(tracks))
		secondaries := (*bank).View()

		l.backend.Launch(len(tracks), func(tid int) {
			state := tracks[tid].State
			tv := physics.NewParticleTrackView(view, &state)
			model := l.selectModel(state.Particle, state.Energy)
			if model == nil {
				interactions[tid] = physics.Interaction{
					Action:           physics.ActionAbsorbed,
					EnergyDeposition: state.Energy,
				}
				return
			}
			interactions[tid] = model.Interact(tv, tracks[tid].Direction, secondaries)
		})
		l.backend.Synchronize()

		exhausted := (*bank).Exhausted()
		stats.Capacity = (*bank).Capacity()
		stats.Claimed = (*bank).Claimed()
		if stats.Retries == 0 {
			stats.FirstClaimed = stats.Claimed
		}
		stats.Exhausted = stats.Exhausted || exhausted
		if !exhausted || cfg.Policy == PolicyDrop {
			return interactions, stats, nil
		}

		capacity := stats.Capacity
		if capacity >= cfg.MaxCapacity {
			l.log.Warnf("step %d: secondary bank exhausted at maximum capacity %d; dropping", step, capacity)
			return interactions, stats, nil
		}
		grown := int(max(uint64(2*capacity), stats.Claimed))
		grown = min(grown, cfg.MaxCapacity)

		l.log.Warnf("step %d: secondary bank exhausted (%d requested, capacity %d); retrying with capacity %d",
			step, stats.Claimed, capacity, grown)

		replacement, err := alloc.NewStore[physics.Secondary](l.backend, grown)
		if err != nil {
			return nil, stats, err
		}
		(*bank).Close()
		*bank = replacement
		stats.Retries++
	}
}

// push queues a track for the next step, stopping it at the cutoff. A
// stopped track is kept only if a model handles it at rest.
func (l *Loop) push(next []Track, t Track, cfg Config, stats *StepStats) []Track {
	if t.State.Energy.Ge(cfg.Cutoff) {
		return append(next, t)
	}
	stats.Deposited += t.State.Energy.Value()
	t.State.Energy = quantity.From[quantity.Mev](quantity.ZeroQuantity())
	if l.hasAtRest(t.State.Particle) {
		return append(next, t)
	}
	return next
}
