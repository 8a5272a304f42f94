// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	// ErrNoSource reports an operation that needs a loaded or playing
	// source on a track that has neither. It is a warning, not a fault:
	// the operation was skipped and the track is unchanged.
	ErrNoSource = errors.New("track has no source")

	// ErrLoopBounds reports loop bounds with start at or past end.
	ErrLoopBounds = errors.New("loop start must come before loop end")

	// ErrJumpBounds reports negative jump frame positions.
	ErrJumpBounds = errors.New("jump frames must not be negative")

	// ErrBeatPeriod reports a repeating or exclusion rule without a
	// positive period.
	ErrBeatPeriod = errors.New("beat period must be positive")

	// ErrSourceDiscarded reports a staged source that was replaced before
	// it ever played, e.g. by a jump committing its seeked clone.
	ErrSourceDiscarded = errors.New("staged source discarded")

	// ErrTrackExists reports a track name collision within a group.
	ErrTrackExists = errors.New("track name already in use")

	// ErrNoPrimary reports a delegated group operation after the primary
	// track was removed.
	ErrNoPrimary = errors.New("group has no primary track")

	// ErrNoTarget reports a sync request against a nil track.
	ErrNoTarget = errors.New("sync target is nil")
)
