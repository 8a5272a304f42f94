// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"

	"github.com/almic/music-mixer-rpgmmv/audio"
)

// jumpLookahead is how far ahead of the playhead a jump watch looks, and
// how often it polls.
const jumpLookahead = 0.025

// Track is a persistent playback slot: it owns one output gain node for
// its whole lifetime, at most one staged (loaded, silent) source and at
// most one playing source. Each audible source plays through its own
// stage gain into the track's output node, which is what swaps ramp
// against each other.
//
// A track's state moves through idle → staged → playing (+staged during a
// swap); Start, Swap and Stop are transitions on that state.
type Track struct {
	name string
	ctx  audio.Context
	out  audio.GainNode

	playing *stage
	staged  *stage
	paused  bool

	resumeFrame int
	level       float64

	beats *beatScheduler

	// generation counters invalidate callbacks already committed to the
	// clock queue; the callback compares and silently bows out
	swapGen int
	jumpGen int

	warn func(error)
}

// stage couples a source with the gain node its ramps run on.
type stage struct {
	src  audio.BufferSource
	gain audio.GainNode
}

// NewTrack creates a track routed into dest, or into the context's
// destination when dest is nil.
func NewTrack(ctx audio.Context, name string, dest audio.GainNode) *Track {
	if dest == nil {
		dest = ctx.Destination()
	}
	out := ctx.NewGain()
	out.Connect(dest)
	return &Track{
		name:  name,
		ctx:   ctx,
		out:   out,
		level: 1,
		beats: newBeatScheduler(ctx),
	}
}

func (t *Track) Name() string { return t.name }

// Output returns the track's output gain node, for routing inspection.
func (t *Track) Output() audio.GainNode { return t.out }

// Playing reports whether the track has an audible (non-paused) source.
func (t *Track) Playing() bool { return t.playing != nil && !t.paused }

// OnWarning sets the callback receiving errors from asynchronous paths
// (beat-synced operations, jump watches) where no caller is on the stack.
func (t *Track) OnWarning(fn func(error)) { t.warn = fn }

func (t *Track) warnIf(err error) {
	if err != nil && t.warn != nil {
		t.warn(err)
	}
}

// LoadSource stages a new source for this track without touching current
// playback. A previously staged source that never played is replaced.
func (t *Track) LoadSource(path string) (audio.BufferSource, error) {
	src, err := t.ctx.Load(path)
	if err != nil {
		return nil, err
	}
	t.staged = &stage{src: src}
	return src, nil
}

// PlaySource loads a source and immediately starts it; if something is
// already playing this becomes a swap.
func (t *Track) PlaySource(path string, opts *Options) (audio.BufferSource, error) {
	src, err := t.LoadSource(path)
	if err != nil {
		return nil, err
	}
	return src, t.Start(0, opts)
}

// Start plays the staged source, or re-triggers/resumes the current one.
// The effective delay is opts.Delay if set, else the positional delay;
// the two are never summed.
//
// With a playing source and nothing staged, the playing source is cloned
// into the staged slot first (a paused track resumes from the offset its
// Stop captured). With a staged source, Start is a swap. With neither,
// nothing happens and ErrNoSource reports the misuse.
func (t *Track) Start(delay float64, opts *Options) error {
	return t.start(delay, opts, nil)
}

// StartFor is Start with a bounded play time: a stop is scheduled at
// effective delay + duration.
func (t *Track) StartFor(delay, duration float64, opts *Options) error {
	return t.start(delay, opts, &duration)
}

func (t *Track) start(delay float64, opts *Options, playFor *float64) error {
	eff := effectiveDelay(delay, opts)

	if t.staged == nil {
		if t.playing == nil {
			return fmt.Errorf("start %q: %w", t.name, ErrNoSource)
		}
		clone := t.playing.src.Clone()
		if t.paused {
			clone.Seek(t.resumeFrame)
		}
		t.staged = &stage{src: clone}
	}

	spec := SwapSpec{Strategy: SwapCross, Adjustment: startOptions(eff, opts)}
	if err := t.Swap(spec); err != nil {
		return err
	}

	if playFor != nil {
		gen := t.swapGen
		t.ctx.Schedule(t.ctx.Now()+eff+*playFor, func() {
			if t.swapGen != gen {
				return
			}
			t.warnIf(t.Stop(0, nil))
		})
	}
	return nil
}

// startOptions rebuilds the caller's options with the resolved delay so
// the swap normalization sees exactly one delay source. Unset fields stay
// unset and inherit the swap defaults during normalization.
func startOptions(eff float64, opts *Options) *Options {
	merged := &Options{Delay: &eff}
	if opts != nil {
		merged.Duration = opts.Duration
		merged.StartDelay = opts.StartDelay
		merged.Shape = opts.Shape
	}
	return merged
}

// Stop fades the playing source out and pauses it at ramp completion,
// capturing the playhead so a later Start resumes from the same spot.
// Stopping an idle or already-stopped track is a no-op.
func (t *Track) Stop(delay float64, opts *Options) error {
	if t.playing == nil || t.paused {
		return nil
	}

	adj := opts.merge(defaultStop)
	eff := effectiveDelay(delay, opts)
	now := t.ctx.Now()

	t.resumeFrame = t.playing.src.Position()
	t.paused = true

	st := t.playing
	rampStart := now + eff + adj.StartDelay
	st.gain.RampTo(0, rampStart, adj.Duration, adj.Shape)
	t.ctx.Schedule(rampStart+adj.Duration, func() {
		st.src.PauseAt(t.ctx.Now())
		st.src.Disconnect()
	})
	return nil
}

// Swap transitions from the playing source to the staged one. The staged
// source becomes the playing source immediately; gain automation for both
// sides follows the normalized form of the SwapSpec. A swap that replaces
// a playing source resets the track's mutable state (loop, jump, volume)
// to what a fresh track would have, and the old source is no longer owned
// by the track.
func (t *Track) Swap(spec SwapSpec) error {
	if t.staged == nil {
		return fmt.Errorf("swap %q: %w", t.name, ErrNoSource)
	}

	oldAdj, newAdj := spec.normalize()
	now := t.ctx.Now()
	old := t.playing
	next := t.staged

	t.swapGen++
	t.jumpGen++ // any jump watch dies with the old source

	// incoming side: route through a fresh stage gain, start the buffer
	// the instant its ramp begins
	if next.gain == nil {
		next.gain = t.ctx.NewGain()
	}
	next.src.Disconnect() // clear dangling connections from a prior life
	next.src.Connect(next.gain)
	next.gain.Connect(t.out)
	next.gain.SetLevel(0)

	startAt := now + newAdj.Delay + newAdj.StartDelay
	next.src.StartAt(startAt)
	next.gain.RampTo(1, startAt, newAdj.Duration, newAdj.Shape)

	// outgoing side: ramp to silence, then fully release
	if old != nil {
		rampStart := now + oldAdj.Delay + oldAdj.StartDelay
		old.gain.RampTo(0, rampStart, oldAdj.Duration, oldAdj.Shape)
		t.ctx.Schedule(rampStart+oldAdj.Duration, func() {
			old.src.PauseAt(t.ctx.Now())
			old.src.Disconnect()
			old.gain.Disconnect()
		})
	}

	t.playing = next
	t.staged = nil
	t.paused = false
	if old != nil {
		// replacing a playing source resets the track's mutable state;
		// a first start keeps whatever volume was configured beforehand
		t.level = 1
		t.out.CancelRamps()
		t.out.SetLevel(1)
	}
	return nil
}

// Volume ramps the track's output gain to v. Staged sources are
// unaffected; they always fade in through their own stage gain.
func (t *Track) Volume(v float64, opts *Options) error {
	adj := opts.merge(defaultVolume)
	t.level = v
	t.out.RampTo(v, t.ctx.Now()+adj.Delay+adj.StartDelay, adj.Duration, adj.Shape)
	return nil
}

// Level returns the track's configured volume.
func (t *Track) Level() float64 { return t.level }

// Loop sets or clears native loop bounds on the playing source. Bounds
// are frames in the source's own sample rate and must satisfy
// startFrame < endFrame; violating that is a caller error, reported and
// not corrected.
func (t *Track) Loop(enabled bool, startFrame, endFrame int) error {
	if t.playing == nil {
		return fmt.Errorf("loop %q: %w", t.name, ErrNoSource)
	}
	if enabled && startFrame >= endFrame {
		return fmt.Errorf("loop %q [%d, %d): %w", t.name, startFrame, endFrame, ErrLoopBounds)
	}
	t.playing.src.SetLoop(enabled, startFrame, endFrame)
	return nil
}

// Jump arms a lookahead watch that, once the playhead crosses fromFrame,
// cut-swaps to a clone of the current source seeked to toFrame. A jump
// and a loop may be active at the same time. The watch does not survive a
// swap, including the one it triggers itself.
func (t *Track) Jump(enabled bool, fromFrame, toFrame int) error {
	t.jumpGen++
	if !enabled {
		return nil
	}
	if t.playing == nil {
		return fmt.Errorf("jump %q: %w", t.name, ErrNoSource)
	}
	if fromFrame < 0 || toFrame < 0 {
		return fmt.Errorf("jump %q %d -> %d: %w", t.name, fromFrame, toFrame, ErrJumpBounds)
	}

	t.watchJump(t.jumpGen, fromFrame, toFrame)
	return nil
}

func (t *Track) watchJump(gen, fromFrame, toFrame int) {
	var tick func()
	tick = func() {
		if t.jumpGen != gen || t.playing == nil {
			return
		}
		src := t.playing.src
		if src.Playing() {
			remaining := float64(fromFrame-src.Position()) / float64(src.Rate())
			if remaining <= jumpLookahead {
				if remaining < 0 {
					remaining = 0
				}
				clone := src.Clone()
				clone.Seek(toFrame)
				if t.staged != nil {
					t.warnIf(fmt.Errorf("jump %q: %w", t.name, ErrSourceDiscarded))
				}
				t.staged = &stage{src: clone}
				t.warnIf(t.Swap(SwapSpec{
					Strategy:   SwapCut,
					Adjustment: &Options{Delay: &remaining},
				}))
				return
			}
		}
		t.ctx.Schedule(t.ctx.Now()+jumpLookahead, tick)
	}
	tick()
}

// CreateBeat adds a beat rule to this track and returns its handle. The
// handle's Time holds the next computed occurrence; Cancel silences it.
func (t *Track) CreateBeat(kind BeatKind, origin, period float64) (*Beat, error) {
	return t.beats.create(kind, origin, period)
}

// ClearBeats removes every beat rule, cancelling all outstanding handles,
// and drops sync registrations other tracks placed on this track's beats.
func (t *Track) ClearBeats() {
	t.beats.clear()
}

// ListenFor registers fn for every non-cancelled beat of this track and
// returns a function that removes the registration.
func (t *Track) ListenFor(fn BeatFunc) func() {
	return t.beats.listen(fn, false)
}
