// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"

	"github.com/almic/music-mixer-rpgmmv/audio"
)

// Group is a named collection of tracks sharing one output gain stage.
// The member whose name matches the group's own name is the primary
// track; it exists from construction until explicitly removed.
//
// Group-wide operations broadcast to every member independently, with no
// ordering guarantees between them. Single-target operations go to the
// primary track.
type Group struct {
	name string
	ctx  audio.Context
	out  audio.GainNode

	tracks map[string]*Track
	order  []string

	warn func(error)
}

// NewGroup creates a group routed into dest (the context destination when
// nil), together with its primary track.
func NewGroup(ctx audio.Context, name string, dest audio.GainNode) *Group {
	if dest == nil {
		dest = ctx.Destination()
	}
	out := ctx.NewGain()
	out.Connect(dest)

	g := &Group{
		name:   name,
		ctx:    ctx,
		out:    out,
		tracks: make(map[string]*Track),
	}
	g.add(NewTrack(ctx, name, out))
	return g
}

func (g *Group) Name() string { return g.name }

// Output returns the group's shared output gain node.
func (g *Group) Output() audio.GainNode { return g.out }

// OnWarning sets the warning callback on the group and all its members.
func (g *Group) OnWarning(fn func(error)) {
	g.warn = fn
	for _, name := range g.order {
		g.tracks[name].OnWarning(fn)
	}
}

func (g *Group) add(t *Track) {
	t.OnWarning(g.warn)
	g.tracks[t.Name()] = t
	g.order = append(g.order, t.Name())
}

// NewTrack adds a member track, optionally loading a source into it when
// path is non-empty. The name must not collide with the group's own name
// or any existing member.
func (g *Group) NewTrack(name, path string) (*Track, error) {
	if name == g.name {
		return nil, fmt.Errorf("track %q: %w (group name)", name, ErrTrackExists)
	}
	if _, ok := g.tracks[name]; ok {
		return nil, fmt.Errorf("track %q: %w", name, ErrTrackExists)
	}

	t := NewTrack(g.ctx, name, g.out)
	if path != "" {
		if _, err := t.LoadSource(path); err != nil {
			t.Output().Disconnect()
			return nil, err
		}
	}
	g.add(t)
	return t, nil
}

// Track looks up a member by name.
func (g *Group) Track(name string) (*Track, bool) {
	t, ok := g.tracks[name]
	return t, ok
}

// Tracks returns the member tracks in insertion order.
func (g *Group) Tracks() []*Track {
	out := make([]*Track, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.tracks[name])
	}
	return out
}

// Remove detaches a member from the group and from the audio graph.
// Removing the primary track is allowed; delegated operations fail with
// ErrNoPrimary afterwards.
func (g *Group) Remove(name string) bool {
	t, ok := g.tracks[name]
	if !ok {
		return false
	}
	t.ClearBeats()
	t.Output().Disconnect()
	delete(g.tracks, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return true
}

func (g *Group) primary() (*Track, error) {
	t, ok := g.tracks[g.name]
	if !ok {
		return nil, fmt.Errorf("group %q: %w", g.name, ErrNoPrimary)
	}
	return t, nil
}

// broadcast applies op to every member, joining the reported errors.
func (g *Group) broadcast(op func(*Track) error) error {
	var errs []error
	for _, name := range g.order {
		if err := op(g.tracks[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Start broadcasts to every member track.
func (g *Group) Start(delay float64, opts *Options) error {
	return g.broadcast(func(t *Track) error { return t.Start(delay, opts) })
}

// StartFor broadcasts to every member track.
func (g *Group) StartFor(delay, duration float64, opts *Options) error {
	return g.broadcast(func(t *Track) error { return t.StartFor(delay, duration, opts) })
}

// Stop broadcasts to every member track.
func (g *Group) Stop(delay float64, opts *Options) error {
	return g.broadcast(func(t *Track) error { return t.Stop(delay, opts) })
}

// ClearBeats broadcasts to every member track.
func (g *Group) ClearBeats() {
	for _, name := range g.order {
		g.tracks[name].ClearBeats()
	}
}

// SyncPlayTo broadcasts: every member starts on target's beats.
func (g *Group) SyncPlayTo(target *Track, opts *Options) error {
	return g.broadcast(func(t *Track) error { return t.SyncPlayTo(target, opts) })
}

// SyncStopTo broadcasts: every member stops on target's beats.
func (g *Group) SyncStopTo(target *Track, opts *Options) error {
	return g.broadcast(func(t *Track) error { return t.SyncStopTo(target, opts) })
}

// Volume ramps the group's shared output gain.
func (g *Group) Volume(v float64, opts *Options) error {
	adj := opts.merge(defaultVolume)
	g.out.RampTo(v, g.ctx.Now()+adj.Delay+adj.StartDelay, adj.Duration, adj.Shape)
	return nil
}

// Swap delegates to the primary track.
func (g *Group) Swap(spec SwapSpec) error {
	p, err := g.primary()
	if err != nil {
		return err
	}
	return p.Swap(spec)
}

// LoadSource delegates to the primary track.
func (g *Group) LoadSource(path string) (audio.BufferSource, error) {
	p, err := g.primary()
	if err != nil {
		return nil, err
	}
	return p.LoadSource(path)
}

// PlaySource delegates to the primary track.
func (g *Group) PlaySource(path string, opts *Options) (audio.BufferSource, error) {
	p, err := g.primary()
	if err != nil {
		return nil, err
	}
	return p.PlaySource(path, opts)
}

// CreateBeat delegates to the primary track.
func (g *Group) CreateBeat(kind BeatKind, origin, period float64) (*Beat, error) {
	p, err := g.primary()
	if err != nil {
		return nil, err
	}
	return p.CreateBeat(kind, origin, period)
}

// ListenFor delegates to the primary track. The remove function is a
// no-op when the primary is missing.
func (g *Group) ListenFor(fn BeatFunc) func() {
	p, err := g.primary()
	if err != nil {
		g.warnIf(err)
		return func() {}
	}
	return p.ListenFor(fn)
}

func (g *Group) warnIf(err error) {
	if err != nil && g.warn != nil {
		g.warn(err)
	}
}
