// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides a scripted implementation of the audio
// graph contracts for tests: a clock advanced by hand and fake gain
// nodes and sources that record every call made against them.
package audiotest

import (
	"fmt"
	"sort"

	"github.com/almic/music-mixer-rpgmmv/audio"
)

// Clock is a manually advanced audio.Clock. Callbacks fire during
// AdvanceTo in (deadline, schedule order), including callbacks scheduled
// by other callbacks while advancing.
type Clock struct {
	now   float64
	seq   int
	queue []scheduled
}

type scheduled struct {
	at  float64
	seq int
	fn  func()
}

func (c *Clock) Now() float64 { return c.now }

func (c *Clock) Schedule(at float64, fn func()) {
	c.queue = append(c.queue, scheduled{at: at, seq: c.seq, fn: fn})
	c.seq++
}

// AdvanceTo moves the clock to t, firing every due callback on the way.
func (c *Clock) AdvanceTo(t float64) {
	for {
		best := -1
		for i, s := range c.queue {
			if s.at > t+1e-9 {
				continue
			}
			if best < 0 || s.at < c.queue[best].at ||
				(s.at == c.queue[best].at && s.seq < c.queue[best].seq) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		s := c.queue[best]
		c.queue = append(c.queue[:best], c.queue[best+1:]...)
		if s.at > c.now {
			c.now = s.at
		}
		s.fn()
	}
	if t > c.now {
		c.now = t
	}
}

// Pending returns the deadlines of all queued callbacks, sorted.
func (c *Clock) Pending() []float64 {
	out := make([]float64, len(c.queue))
	for i, s := range c.queue {
		out[i] = s.at
	}
	sort.Float64s(out)
	return out
}

// Context is a fake audio.Context. Buffers maps a path to the frame
// count Load hands out; loading an unknown path fails.
type Context struct {
	Clock
	Rate    int
	Buffers map[string]int

	Gains   []*GainNode
	Sources []*Source

	dest *GainNode
}

func NewContext(rate int) *Context {
	c := &Context{
		Rate:    rate,
		Buffers: make(map[string]int),
	}
	c.dest = &GainNode{level: 1}
	return c
}

func (c *Context) SampleRate() int { return c.Rate }

func (c *Context) NewGain() audio.GainNode {
	g := &GainNode{level: 1}
	c.Gains = append(c.Gains, g)
	return g
}

func (c *Context) Destination() audio.GainNode { return c.dest }

func (c *Context) Load(path string) (audio.BufferSource, error) {
	frames, ok := c.Buffers[path]
	if !ok {
		return nil, fmt.Errorf("no test buffer for %q", path)
	}
	s := &Source{ctx: c, Path: path, frames: frames, rate: c.Rate}
	c.Sources = append(c.Sources, s)
	return s, nil
}

// Ramp records one RampTo call.
type Ramp struct {
	Target   float64
	Start    float64
	Duration float64
	Shape    audio.RampShape
}

// GainNode is a fake audio.GainNode recording its automation. The level
// does not follow ramps over time; tests assert on the recorded calls.
type GainNode struct {
	level     float64
	Ramps     []Ramp
	Cancels   int
	Dst       audio.GainNode
	Connected bool
}

func (g *GainNode) Connect(dst audio.GainNode) {
	g.Dst = dst
	g.Connected = true
}

func (g *GainNode) Disconnect() {
	g.Dst = nil
	g.Connected = false
}

func (g *GainNode) Level() float64     { return g.level }
func (g *GainNode) SetLevel(v float64) { g.level = v }

func (g *GainNode) RampTo(target, start, duration float64, shape audio.RampShape) {
	g.Ramps = append(g.Ramps, Ramp{Target: target, Start: start, Duration: duration, Shape: shape})
}

func (g *GainNode) CancelRamps() { g.Cancels++ }

// LoopCall records one SetLoop call.
type LoopCall struct {
	On         bool
	Start, End int
}

// Source is a fake audio.BufferSource. Activation follows StartAt and
// PauseAt through the clock like the real engine; the playhead only
// moves when a test calls SetPosition.
type Source struct {
	ctx    *Context
	Path   string
	frames int
	rate   int

	pos    int
	active bool

	Starts      []float64
	Pauses      []float64
	Seeks       []int
	Loops       []LoopCall
	Disconnects int

	Dst       audio.GainNode
	Connected bool

	ClonedFrom *Source
	onEnded    []func()
}

func (s *Source) Connect(dst audio.GainNode) {
	s.Dst = dst
	s.Connected = true
}

func (s *Source) Disconnect() {
	s.Dst = nil
	s.Connected = false
	s.Disconnects++
}

func (s *Source) StartAt(when float64) {
	s.Starts = append(s.Starts, when)
	s.ctx.Schedule(when, func() { s.active = true })
}

func (s *Source) PauseAt(when float64) {
	s.Pauses = append(s.Pauses, when)
	s.ctx.Schedule(when, func() { s.active = false })
}

func (s *Source) Playing() bool { return s.active }

func (s *Source) Position() int { return s.pos }

// SetPosition moves the fake playhead, standing in for rendering.
func (s *Source) SetPosition(frame int) { s.pos = frame }

func (s *Source) Seek(frame int) {
	s.pos = frame
	s.Seeks = append(s.Seeks, frame)
}

func (s *Source) Frames() int { return s.frames }
func (s *Source) Rate() int   { return s.rate }

func (s *Source) SetLoop(on bool, startFrame, endFrame int) {
	s.Loops = append(s.Loops, LoopCall{On: on, Start: startFrame, End: endFrame})
}

func (s *Source) Clone() audio.BufferSource {
	clone := &Source{ctx: s.ctx, Path: s.Path, frames: s.frames, rate: s.rate, ClonedFrom: s}
	s.ctx.Sources = append(s.ctx.Sources, clone)
	return clone
}

func (s *Source) OnEnded(fn func()) { s.onEnded = append(s.onEnded, fn) }

// End fires the source's ended callbacks, as the engine would when the
// playhead runs out.
func (s *Source) End() {
	s.active = false
	for _, fn := range s.onEnded {
		fn()
	}
}
