// Package physics provides the data types shared by transport kernels.
//
//   - [Applicability]: energy, particle and material range of a model
//   - [Secondary]: a particle emitted into the per-step secondary bank
//   - [Interaction]: what a model did to one track
//   - [ParticleTrackView]: a track's particle state joined with its species
//
// Direction helpers ([FromSpherical], [Rotate]) work on gonum r3 vectors.
package physics
