// SPDX-License-Identifier: EPL-2.0

package mixer

import "github.com/almic/music-mixer-rpgmmv/audio"

// Options is a caller-supplied partial set of adjustment parameters. Nil
// fields fall back to the operation's defaults when merged; a nil *Options
// means "all defaults". Options values are never retained: every operation
// merges its own copy.
type Options struct {
	// Delay in seconds before the adjustment begins. Takes precedence
	// over an operation's positional delay argument when set.
	Delay *float64
	// Duration of the gain ramp in seconds.
	Duration *float64
	// StartDelay is an extra offset on top of Delay, letting the two
	// sides of an advanced swap share a base delay while staggering.
	StartDelay *float64
	// Shape of the gain ramp.
	Shape *audio.RampShape
}

// Ptr is a helper for filling Options fields inline:
//
//	track.Start(0, &mixer.Options{Duration: mixer.Ptr(1.5)})
func Ptr[T any](v T) *T { return &v }

// Adjustment is a fully resolved set of parameters, produced by merging
// caller Options with per-operation defaults.
type Adjustment struct {
	Delay      float64
	Duration   float64
	StartDelay float64
	Shape      audio.RampShape
}

var (
	defaultStop   = Adjustment{Shape: audio.RampLinear}
	defaultSwap   = Adjustment{Duration: 2, Shape: audio.RampEqualPower}
	defaultVolume = Adjustment{Shape: audio.RampLinear}
)

// merge resolves o against def, copying so the result shares nothing with
// the caller's Options.
func (o *Options) merge(def Adjustment) Adjustment {
	a := def
	if o == nil {
		return a
	}
	if o.Delay != nil {
		a.Delay = *o.Delay
	}
	if o.Duration != nil {
		a.Duration = *o.Duration
	}
	if o.StartDelay != nil {
		a.StartDelay = *o.StartDelay
	}
	if o.Shape != nil {
		a.Shape = *o.Shape
	}
	return a
}

// Resolve merges caller options against def the way every operation in
// this package does, for layers composing their own operations on the
// graph.
func Resolve(o *Options, def Adjustment) Adjustment {
	return o.merge(def)
}

// effectiveDelay resolves the delay precedence rule: an explicit
// Options.Delay always wins over the positional delay; the two are never
// summed.
func effectiveDelay(delay float64, o *Options) float64 {
	if o != nil && o.Delay != nil {
		delay = *o.Delay
	}
	if delay < 0 {
		return 0
	}
	return delay
}
