// SPDX-License-Identifier: EPL-2.0

package audio

// Clock supplies monotonic time for the audio graph and a callback queue
// driven by it. Callbacks scheduled for the same instant run in the order
// they were scheduled.
type Clock interface {
	// Now returns the current graph time in seconds.
	Now() float64
	// Schedule queues fn to run once the clock reaches at. A deadline in
	// the past fires on the next clock step. Scheduled callbacks cannot be
	// unscheduled; callers that may need to abandon one should check their
	// own cancellation state inside fn.
	Schedule(at float64, fn func())
}

// GainNode is a gain-control element of the audio graph. Its level scales
// everything routed through it and can be ramped over a time window.
type GainNode interface {
	// Connect routes this node's output into dst, replacing any previous
	// routing.
	Connect(dst GainNode)
	// Disconnect removes the node's outgoing routing.
	Disconnect()

	Level() float64
	SetLevel(v float64)

	// RampTo schedules the level to move to target over the window
	// [start, start+duration] using the given shape. A zero duration sets
	// the level at start. Ramps starting inside an earlier ramp's window
	// take over from the level reached so far.
	RampTo(target, start, duration float64, shape RampShape)
	// CancelRamps drops all pending and in-progress ramps, freezing the
	// level where it is.
	CancelRamps()
}

// BufferSource is a sample-buffer playback primitive. It plays a decoded
// buffer through a gain node, with a seekable playhead and native loop
// bounds. Positions are expressed in buffer frames at the buffer's own
// sample rate.
type BufferSource interface {
	Connect(dst GainNode)
	Disconnect()

	// StartAt schedules playback to begin when the clock reaches the given
	// time. Starting an already-active source is a no-op.
	StartAt(when float64)
	// PauseAt schedules playback to halt, keeping the playhead where it
	// stops so a later StartAt resumes from there.
	PauseAt(when float64)
	// Playing reports whether the source is currently producing audio.
	Playing() bool

	Position() int
	Seek(frame int)
	Frames() int
	// Rate returns the buffer's sample rate in Hz.
	Rate() int

	// SetLoop sets or clears the native loop bounds. Bounds are ignored
	// when on is false.
	SetLoop(on bool, startFrame, endFrame int)

	// Clone returns a fresh, unconnected source sharing this source's
	// underlying buffer, with the playhead at frame zero.
	Clone() BufferSource

	// OnEnded registers fn to run once playback runs past the final frame.
	// Looping sources never end; paused sources end only after resuming.
	OnEnded(fn func())
}

// Context is the clock-bearing audio context: it owns the graph time,
// constructs gain nodes and buffer sources, and exposes the final output
// stage every audible node must eventually route into.
type Context interface {
	Clock

	SampleRate() int
	NewGain() GainNode
	Destination() GainNode

	// Load decodes the file at path into a buffer source linked to this
	// context. Repeated loads of the same path share the decoded buffer.
	Load(path string) (BufferSource, error)
}
