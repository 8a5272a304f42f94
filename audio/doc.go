// SPDX-License-Identifier: EPL-2.0

// Package audio defines the contracts of the primitive audio graph the
// mixer schedules against.
//
// The graph consists of a clock-bearing Context, gain-control nodes and
// sample-buffer playback sources:
//
//	type Context interface {
//	    Clock
//	    SampleRate() int
//	    NewGain() GainNode
//	    Destination() GainNode
//	    Load(path string) (BufferSource, error)
//	}
//
// All timing is expressed in seconds of graph time as reported by
// Clock.Now. Scheduling is cooperative: Schedule queues a callback and the
// clock's driver invokes it later, so nothing in this package blocks.
//
// The package also holds the shared PCM Buffer value and the decoder
// Registry used by format packages to plug themselves into a Context
// implementation. See the engine package for the concrete graph and the
// formats subpackages for decoders.
package audio
