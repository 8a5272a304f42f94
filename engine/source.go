// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/almic/music-mixer-rpgmmv/audio"

// Source is the engine's buffer playback primitive. The playhead is a
// fractional frame position in the buffer's own rate; rendering resamples
// to the context rate with Catmull-Rom interpolation and up/down-mixes the
// buffer's channels to the stereo output.
type Source struct {
	ctx       *Context
	buf       *audio.Buffer
	out       *Gain
	connected bool

	active bool
	ended  bool

	pos       float64
	loop      bool
	loopStart int
	loopEnd   int

	onEnded []func()
}

func (s *Source) Connect(dst audio.GainNode) {
	g, ok := dst.(*Gain)
	if !ok || g.ctx != s.ctx {
		return
	}
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.out = g
	s.connected = true
}

func (s *Source) Disconnect() {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.out = nil
	s.connected = false
}

func (s *Source) StartAt(when float64) {
	s.ctx.Schedule(when, func() {
		s.ctx.mu.Lock()
		defer s.ctx.mu.Unlock()
		if s.ended {
			return
		}
		s.active = true
	})
}

func (s *Source) PauseAt(when float64) {
	s.ctx.Schedule(when, func() {
		s.ctx.mu.Lock()
		defer s.ctx.mu.Unlock()
		s.active = false
	})
}

func (s *Source) Playing() bool {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return s.active
}

func (s *Source) Position() int {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return int(s.pos)
}

func (s *Source) Seek(frame int) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	if frame < 0 {
		frame = 0
	}
	s.pos = float64(frame)
	s.ended = false
}

func (s *Source) Frames() int { return s.buf.Frames() }
func (s *Source) Rate() int   { return s.buf.Rate }

func (s *Source) SetLoop(on bool, startFrame, endFrame int) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.loop = on
	s.loopStart = startFrame
	s.loopEnd = endFrame
}

func (s *Source) Clone() audio.BufferSource {
	return s.ctx.newSource(s.buf)
}

func (s *Source) OnEnded(fn func()) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.onEnded = append(s.onEnded, fn)
}

// renderInto mixes frames of this source into dst at the given gain.
// Called with the context lock held; gain 0 still advances the playhead so
// unrouted sources keep their place in time.
func (s *Source) renderInto(dst []float32, frames int, gain float32) {
	step := float64(s.buf.Rate) / float64(s.ctx.rate)
	total := s.buf.Frames()

	for i := range frames {
		if gain != 0 {
			l, r := s.frameAt(s.pos)
			dst[i*outChannels] += l * gain
			dst[i*outChannels+1] += r * gain
		}

		s.pos += step
		if s.loop && s.loopEnd > s.loopStart && s.pos >= float64(s.loopEnd) {
			s.pos = float64(s.loopStart) + (s.pos - float64(s.loopEnd))
			continue
		}
		if s.pos >= float64(total) {
			s.finish()
			return
		}
	}
}

// finish deactivates the source and queues its ended callbacks on the
// clock so they run outside the render lock.
func (s *Source) finish() {
	s.active = false
	s.ended = true
	fns := s.onEnded
	for _, fn := range fns {
		s.ctx.schedule(s.ctx.now(), fn)
	}
}

// frameAt samples the buffer at a fractional frame position, resampled
// with Catmull-Rom interpolation and mixed to a stereo pair.
func (s *Source) frameAt(pos float64) (left, right float32) {
	frame := int(pos)
	x := float32(pos - float64(frame))

	switch s.buf.Channels {
	case 1:
		v := s.interp(frame, 0, x)
		return v, v
	case 2:
		return s.interp(frame, 0, x), s.interp(frame, 1, x)
	default:
		// average everything into both output channels
		var sum float32
		for ch := range s.buf.Channels {
			sum += s.interp(frame, ch, x)
		}
		v := sum / float32(s.buf.Channels)
		return v, v
	}
}

// interp is a Catmull-Rom spline over the four frames around the playhead,
// clamped at the buffer edges.
func (s *Source) interp(frame, channel int, x float32) float32 {
	if x == 0 {
		return s.buf.Sample(frame, channel)
	}
	last := s.buf.Frames() - 1
	clamp := func(f int) int {
		if f < 0 {
			return 0
		}
		if f > last {
			return last
		}
		return f
	}
	y0 := s.buf.Sample(clamp(frame-1), channel)
	y1 := s.buf.Sample(clamp(frame), channel)
	y2 := s.buf.Sample(clamp(frame+1), channel)
	y3 := s.buf.Sample(clamp(frame+2), channel)

	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}
