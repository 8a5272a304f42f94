// SPDX-License-Identifier: EPL-2.0

// Package mixer is the cue scheduling and transition engine: it treats a
// logical track as a persistent playback slot above the primitive audio
// graph, able to load sources, start and stop with scheduled delays,
// crossfade between sources, loop or jump within a buffer, emit rhythmic
// beat events, and synchronize one track's transitions to another
// track's beats.
//
// # Timing
//
// Every operation returns after scheduling its work against the graph
// clock; nothing blocks. Operations issued in the same synchronous turn
// against the same track apply in call order. Cancellation is
// best-effort: a callback already committed to the clock queue still
// runs, but re-checks its cancellation state before causing any audible
// side effect. The worst case of losing that race is a brief stray
// sound, never a fault.
//
// # Adjustments
//
// Operations take a *mixer.Options with optional delay, duration, start
// delay and ramp shape; nil fields fall back to per-operation defaults.
// An explicit Options.Delay always wins over a positional delay
// argument, so Start(5, &Options{Delay: Ptr(2.0)}) schedules at now+2.
//
// # Concurrency
//
// The package relies on the cooperative, clock-driven model of the audio
// package and takes no locks of its own: drive all control either from
// a single goroutine or from the clock's callbacks.
package mixer
