// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/almic/music-mixer-rpgmmv/audio"

// Gain is the engine's gain-control node. Nodes route into each other via
// Connect and everything audible must eventually reach the context's
// destination node.
type Gain struct {
	ctx       *Context
	level     float64
	ramps     []rampSegment
	out       *Gain
	connected bool
	isDest    bool
}

// rampSegment is one pending or in-progress gain automation. The starting
// level is captured lazily when the window opens, so ramps issued ahead of
// time pick up whatever level earlier automation left behind.
type rampSegment struct {
	target   float64
	start    float64
	duration float64
	shape    audio.RampShape
	from     float64
	captured bool
}

func (g *Gain) Connect(dst audio.GainNode) {
	d, ok := dst.(*Gain)
	if !ok || d.ctx != g.ctx {
		return
	}
	c := g.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	g.out = d
	g.connected = true
	if !g.registered() {
		c.gains = append(c.gains, g)
	}
}

func (g *Gain) Disconnect() {
	c := g.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	g.out = nil
	g.connected = false
	for i, node := range c.gains {
		if node == g {
			c.gains = append(c.gains[:i], c.gains[i+1:]...)
			break
		}
	}
}

func (g *Gain) registered() bool {
	for _, node := range g.ctx.gains {
		if node == g {
			return true
		}
	}
	return false
}

func (g *Gain) Level() float64 {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	return g.level
}

func (g *Gain) SetLevel(v float64) {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	g.level = v
}

func (g *Gain) RampTo(target, start, duration float64, shape audio.RampShape) {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	g.ramps = append(g.ramps, rampSegment{
		target:   target,
		start:    start,
		duration: duration,
		shape:    shape,
	})
}

func (g *Gain) CancelRamps() {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	g.ramps = nil
}

// evalRamps moves the level along every open ramp window and retires
// segments whose window has closed. Called once per render quantum with
// the context lock held.
func (g *Gain) evalRamps(now float64) {
	for i := 0; i < len(g.ramps); {
		r := &g.ramps[i]
		if now+timeEpsilon < r.start {
			i++
			continue
		}
		if !r.captured {
			r.from = g.level
			r.captured = true
		}
		if r.duration <= 0 || now+timeEpsilon >= r.start+r.duration {
			g.level = r.target
			g.ramps = append(g.ramps[:i], g.ramps[i+1:]...)
			continue
		}
		g.level = r.shape.Value(r.from, r.target, (now-r.start)/r.duration)
		i++
	}
}

// chain returns the product of levels from this node down to the
// destination, or 0 if the node is not routed there. Depth is capped to
// guard against routing cycles.
func (g *Gain) chain() float64 {
	v := 1.0
	node := g
	for depth := 0; node != nil && depth < 16; depth++ {
		v *= node.level
		if node.isDest {
			return v
		}
		if !node.connected {
			return 0
		}
		node = node.out
	}
	return 0
}
