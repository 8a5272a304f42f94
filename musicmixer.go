// SPDX-License-Identifier: EPL-2.0

package musicmixer

import (
	"fmt"

	"github.com/almic/music-mixer-rpgmmv/engine"
	"github.com/almic/music-mixer-rpgmmv/mixer"
)

// Mixer bundles an audio engine with a set of named track groups behind
// one master output stage.
type Mixer struct {
	ctx    *engine.Context
	groups map[string]*mixer.Group
	order  []string
	warn   func(error)
}

// New creates a mixer rendering at the given sample rate. The clock does
// not advance until an Output pumps it or the engine context is rendered
// manually.
func New(sampleRate int) *Mixer {
	return &Mixer{
		ctx:    engine.NewContext(sampleRate),
		groups: make(map[string]*mixer.Group),
	}
}

// Context exposes the underlying engine, for custom rendering or decoder
// registration.
func (m *Mixer) Context() *engine.Context { return m.ctx }

// Output opens the system audio device for this mixer.
func (m *Mixer) Output() (*engine.Output, error) {
	return engine.NewOutput(m.ctx)
}

// OnWarning sets the callback receiving errors from asynchronous paths on
// all current and future groups.
func (m *Mixer) OnWarning(fn func(error)) {
	m.warn = fn
	for _, name := range m.order {
		m.groups[name].OnWarning(fn)
	}
}

// NewGroup creates a named track group, including its primary track of
// the same name.
func (m *Mixer) NewGroup(name string) (*mixer.Group, error) {
	if _, ok := m.groups[name]; ok {
		return nil, fmt.Errorf("group %q: %w", name, mixer.ErrTrackExists)
	}
	g := mixer.NewGroup(m.ctx, name, nil)
	g.OnWarning(m.warn)
	m.groups[name] = g
	m.order = append(m.order, name)
	return g, nil
}

// Group looks up a group by name.
func (m *Mixer) Group(name string) (*mixer.Group, bool) {
	g, ok := m.groups[name]
	return g, ok
}

// Channel resolves a name to a group, or failing that to a member track
// of any group, searching groups in creation order. Both answer the same
// dispatch contract.
func (m *Mixer) Channel(name string) (mixer.Channel, bool) {
	if g, ok := m.groups[name]; ok {
		return g, true
	}
	for _, gname := range m.order {
		if t, ok := m.groups[gname].Track(name); ok {
			return t, true
		}
	}
	return nil, false
}

// Volume ramps the master output stage.
func (m *Mixer) Volume(v float64, opts *mixer.Options) {
	adj := mixer.Resolve(opts, mixer.Adjustment{})
	m.ctx.Destination().RampTo(v, m.ctx.Now()+adj.Delay+adj.StartDelay, adj.Duration, adj.Shape)
}
