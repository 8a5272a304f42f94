// SPDX-License-Identifier: EPL-2.0

package mixer

// SyncPlayTo starts this track on every beat of target. The beat's fire
// time, not the moment the callback runs, is the scheduling origin: any
// delay in the given options is measured from the beat. Registrations
// live on target's notification list and are torn down by target's
// ClearBeats; cancelling the originating beat handle silences them too.
func (t *Track) SyncPlayTo(target *Track, opts *Options) error {
	return t.syncTo(target, opts, (*Track).Start)
}

// SyncStopTo stops this track on every beat of target. Syncing a track to
// its own beats is supported; the stop is scheduled, never dispatched
// re-entrantly.
func (t *Track) SyncStopTo(target *Track, opts *Options) error {
	return t.syncTo(target, opts, (*Track).Stop)
}

func (t *Track) syncTo(target *Track, opts *Options, op func(*Track, float64, *Options) error) error {
	if target == nil {
		return ErrNoTarget
	}

	target.beats.listen(func(b *Beat, at float64) {
		// the flag may have flipped after this firing was committed
		if b.Cancelled() {
			return
		}
		delay := at - t.ctx.Now()
		if delay < 0 {
			delay = 0
		}
		delay += effectiveDelay(0, opts)

		shifted := Options{Delay: &delay}
		if opts != nil {
			shifted.Duration = opts.Duration
			shifted.StartDelay = opts.StartDelay
			shifted.Shape = opts.Shape
		}
		t.warnIf(op(t, 0, &shifted))
	}, true)
	return nil
}
