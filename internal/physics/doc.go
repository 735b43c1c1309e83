// Package physics provides the bubble particle simulation drawn behind the page.
//
// [Bubbles] owns a fixed population of [Particle] values created in one batch
// by [Bubbles.Initialize]. Each [Bubbles.Step] applies, per particle:
//
//   - repulsion away from the pointer inside RepulsionRadius
//   - occasional random drift
//   - a speed clamp to MaxSpeed
//   - a unit-step position update
//   - a radius oscillation inside [0.8, 1.2] x Original
//   - a toroidal wrap once the particle is fully off-screen
//
// [Bubbles] also implements the GetParams/SetParam pair used by the live
// views to tweak forces at runtime.
package physics
