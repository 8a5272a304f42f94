// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// RampShape selects the curve a gain ramp follows between its start and
// target values.
type RampShape int

const (
	// RampLinear interpolates the level linearly over the window.
	RampLinear RampShape = iota
	// RampEqualPower follows a constant-power curve, keeping the summed
	// energy of a crossfade roughly flat.
	RampEqualPower
	// RampExponential approaches the target along an exponential curve,
	// which the ear perceives as an even fade.
	RampExponential
)

func (s RampShape) String() string {
	switch s {
	case RampLinear:
		return "linear"
	case RampEqualPower:
		return "equal-power"
	case RampExponential:
		return "exponential"
	}
	return "unknown"
}

// Value returns the level at fraction x (0..1) of a ramp from from to to.
func (s RampShape) Value(from, to, x float64) float64 {
	if x <= 0 {
		return from
	}
	if x >= 1 {
		return to
	}
	switch s {
	case RampEqualPower:
		// sin/cos quarter-wave pair: rising legs use sin, falling cos
		if to >= from {
			return from + (to-from)*math.Sin(x*math.Pi/2)
		}
		return to + (from-to)*math.Cos(x*math.Pi/2)
	case RampExponential:
		// WebAudio-style exponential approach; a zero endpoint is nudged
		// since a true exponential can never reach it
		const floor = 1e-4
		f, t := from, to
		if f == 0 {
			f = floor
		}
		if t == 0 {
			t = floor
		}
		if (f > 0) == (t > 0) {
			v := f * math.Pow(t/f, x)
			if to == 0 && v <= floor {
				return 0
			}
			return v
		}
		// mixed signs fall back to linear
		fallthrough
	default:
		return from + (to-from)*x
	}
}
