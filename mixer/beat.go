// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"math"

	"github.com/almic/music-mixer-rpgmmv/audio"
)

// BeatKind classifies a beat rule.
type BeatKind int

const (
	// BeatRepeating fires at origin + k*period for every k >= 0.
	BeatRepeating BeatKind = iota
	// BeatPrecise fires exactly once, at origin.
	BeatPrecise
	// BeatExclude never fires; it suppresses any other rule's occurrence
	// falling inside [origin, origin+period).
	BeatExclude
)

const timeEpsilon = 1e-9

// maxExcludeSkips bounds the occurrence re-check loop so a rule whose
// every candidate is excluded cannot spin; such a rule simply stops
// reporting occurrences.
const maxExcludeSkips = 64

// Beat is the handle returned by CreateBeat. Its time is the next
// computed occurrence, refreshed each time the rule fires. Cancellation
// is advisory: a firing already committed to the clock's callback queue
// still runs, but re-checks the flag before notifying anyone.
type Beat struct {
	kind   BeatKind
	origin float64
	period float64

	time      float64
	fired     bool // precise rules only
	cancelled bool
}

func (b *Beat) Kind() BeatKind  { return b.kind }
func (b *Beat) Origin() float64 { return b.origin }
func (b *Beat) Period() float64 { return b.period }

// Time returns the next computed occurrence of this rule.
func (b *Beat) Time() float64 { return b.time }

// Cancel marks the beat so no further listener is notified for it.
// Cancellation never unschedules anything; it is checked wherever a side
// effect would happen.
func (b *Beat) Cancel() { b.cancelled = true }

func (b *Beat) Cancelled() bool { return b.cancelled }

// nextCandidate returns the rule's first occurrence after the given time,
// before exclusion windows are considered.
func (b *Beat) nextCandidate(after float64) (float64, bool) {
	switch b.kind {
	case BeatPrecise:
		if b.fired || b.origin <= after-timeEpsilon {
			return 0, false
		}
		return b.origin, true
	case BeatRepeating:
		k := math.Floor((after-b.origin)/b.period) + 1
		if k < 0 {
			k = 0
		}
		t := b.origin + k*b.period
		for t <= after+timeEpsilon {
			t += b.period
		}
		return t, true
	}
	return 0, false
}

// BeatFunc receives beat notifications. at is the occurrence the beat
// fired for; the handle's Time already points at the next one.
type BeatFunc func(b *Beat, at float64)

type beatListener struct {
	fn      BeatFunc
	viaSync bool
}

// beatScheduler owns a track's beat rules, computes fire times and
// dispatches notifications in time order. Rules created at the same
// instant dispatch in creation order.
type beatScheduler struct {
	clock     audio.Clock
	rules     []*Beat
	listeners []*beatListener

	// dispatchSeq identifies the one live dispatch callback; queued
	// callbacks carrying an older value return without doing anything
	dispatchSeq int
}

func newBeatScheduler(clock audio.Clock) *beatScheduler {
	return &beatScheduler{clock: clock}
}

func (s *beatScheduler) create(kind BeatKind, origin, period float64) (*Beat, error) {
	if kind != BeatPrecise && period <= 0 {
		return nil, fmt.Errorf("%v beat at %v: %w", kind, origin, ErrBeatPeriod)
	}

	b := &Beat{kind: kind, origin: origin, period: period, time: origin}
	if kind != BeatExclude {
		if t, ok := s.next(b, s.clock.Now()-timeEpsilon); ok {
			b.time = t
		} else if kind == BeatPrecise {
			// origin already passed; this rule will never fire
			b.fired = true
		} else {
			b.time = math.Inf(1)
		}
	}
	s.rules = append(s.rules, b)

	if kind != BeatExclude {
		s.scheduleDispatch()
	}
	return b, nil
}

// listen registers fn for every non-cancelled beat of this scheduler and
// returns a function removing the registration.
func (s *beatScheduler) listen(fn BeatFunc, viaSync bool) func() {
	l := &beatListener{fn: fn, viaSync: viaSync}
	s.listeners = append(s.listeners, l)
	return func() {
		for i, x := range s.listeners {
			if x == l {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// clear removes every rule, cancelling all outstanding handles, and tears
// down sync registrations riding on this scheduler's beats.
func (s *beatScheduler) clear() {
	for _, b := range s.rules {
		b.cancelled = true
	}
	s.rules = nil
	s.dispatchSeq++

	kept := s.listeners[:0]
	for _, l := range s.listeners {
		if !l.viaSync {
			kept = append(kept, l)
		}
	}
	s.listeners = kept
}

// next computes the rule's first occurrence after the given time that is
// not suppressed by an exclusion window.
func (s *beatScheduler) next(b *Beat, after float64) (float64, bool) {
	t, ok := b.nextCandidate(after)
	skips := 0
	for ok && s.excluded(t) {
		skips++
		if skips > maxExcludeSkips {
			return 0, false
		}
		t, ok = b.nextCandidate(t)
	}
	return t, ok
}

func (s *beatScheduler) excluded(t float64) bool {
	for _, ex := range s.rules {
		if ex.kind != BeatExclude || ex.cancelled {
			continue
		}
		if t >= ex.origin-timeEpsilon && t < ex.origin+ex.period-timeEpsilon {
			return true
		}
	}
	return false
}

// scheduleDispatch queues a dispatch at the earliest pending occurrence
// and supersedes any dispatch queued earlier, so at most one callback
// chain is ever alive no matter how many rules were created.
func (s *beatScheduler) scheduleDispatch() {
	s.dispatchSeq++
	at, ok := s.earliest()
	if !ok {
		return
	}
	seq := s.dispatchSeq
	s.clock.Schedule(at, func() { s.dispatch(seq) })
}

func (s *beatScheduler) earliest() (float64, bool) {
	at, ok := 0.0, false
	for _, b := range s.rules {
		if b.kind == BeatExclude || b.cancelled || (b.kind == BeatPrecise && b.fired) {
			continue
		}
		if math.IsInf(b.time, 1) {
			continue
		}
		if !ok || b.time < at {
			at, ok = b.time, true
		}
	}
	return at, ok
}

// dispatch fires every rule whose occurrence has come due, advancing each
// to its next occurrence, then notifies listeners in rule creation order.
// Exclusion windows are re-checked here so windows added after a fire
// time was computed still suppress it.
func (s *beatScheduler) dispatch(seq int) {
	if seq != s.dispatchSeq {
		return
	}
	now := s.clock.Now()

	type firing struct {
		b  *Beat
		at float64
	}
	var fired []firing

	for _, b := range append([]*Beat(nil), s.rules...) {
		if b.kind == BeatExclude || b.cancelled || (b.kind == BeatPrecise && b.fired) {
			continue
		}
		if b.time > now+timeEpsilon {
			continue
		}

		occurrence := b.time
		suppressed := s.excluded(occurrence)
		if b.kind == BeatPrecise {
			b.fired = true
		}
		if t, ok := s.next(b, occurrence); ok {
			b.time = t
		} else if b.kind == BeatRepeating {
			b.time = math.Inf(1)
		}
		if !suppressed {
			fired = append(fired, firing{b: b, at: occurrence})
		}
	}

	if len(fired) > 0 {
		// snapshot so listeners registering or removing listeners (or
		// syncing a track to itself) cannot disturb this tick
		listeners := append([]*beatListener(nil), s.listeners...)
		for _, f := range fired {
			if f.b.cancelled {
				continue
			}
			for _, l := range listeners {
				l.fn(f.b, f.at)
			}
		}
	}

	s.scheduleDispatch()
}

func (k BeatKind) String() string {
	switch k {
	case BeatRepeating:
		return "repeating"
	case BeatPrecise:
		return "precise"
	case BeatExclude:
		return "exclude"
	}
	return "unknown"
}
