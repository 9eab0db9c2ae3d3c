// Package particles provides the registry of particle species.
//
// [Params] is built once from a list of [Input] definitions and is
// immutable afterwards. Host-only metadata (names, PDG codes, lookup maps)
// stays on the host; the numeric [Def] records are mirrored to device
// memory at construction and released by [Params.Close].
//
//	params, err := particles.New(inputs)
//	defer params.Close()
//	electron := params.Find("e-")
//	def := params.DeviceView().Get(electron)
//
// Lookups by name or code return an unset id when nothing matches; indexed
// accessors require a valid, in-range id.
package particles
