// Package transport runs particle populations through a step loop.
//
// Each step launches one kernel thread per live track on the active
// compute backend. A thread picks the first [Model] whose
// [physics.Applicability] contains the track and lets it claim slots for
// secondaries from a shared stack allocator. After the kernel the host
// gathers secondaries in track order, so results do not depend on the
// order in which threads won their slots, and resets the bank.
//
// # Exhaustion
//
// When a step requests more secondary slots than the bank holds, the
// configured [Policy] applies:
//
//   - [PolicyGrow]: the step's results are discarded, the bank is
//     reallocated to hold the full demand (at least doubling, capped at
//     MaxCapacity) and the step runs again. Models are deterministic, so
//     the retried step produces the same tracks.
//   - [PolicyDrop]: tracks whose allocation failed are killed and their
//     energy is reported as dropped.
//
// Growth that would exceed MaxCapacity falls back to dropping.
//
// # Example
//
//	loop := transport.New(compute.GetBackend(), params, models...)
//	loop.AddMetric(metrics.NewSecondaryYield())
//	result, err := loop.Run(ctx, primaries, transport.DefaultConfig())
//
// # Thread Safety
//
// A Loop runs one population at a time; Run must not be called
// concurrently on the same Loop.
package transport
