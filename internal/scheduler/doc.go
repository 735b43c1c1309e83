// Package scheduler drives the renderers from a display-refresh style loop.
//
// A [Loop] is the only place callbacks run: hosts call [Loop.Pump] once per
// refresh (raylib frame, terminal tick, or [Loop.Drive] for headless use).
// [Run] keeps a callback re-registered every refresh until its [Disposer] is
// called, and [RunThrottled] adds a frame-rate ceiling via [Throttle].
//
// Timers created with [Loop.AfterFunc] fire by deadline, not by frame count,
// so throttled renderers do not delay them.
package scheduler
