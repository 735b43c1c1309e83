// Package ambient renders the background field behind the bubbles.
//
// A Field blends a cyclic palette over time, eases a glow toward the
// pointer and keeps a set of short-lived press pulses. Pulses expire on
// their own scheduler timer and animate from elapsed time alone, so
// Tick never touches them.
package ambient
