// SPDX-License-Identifier: EPL-2.0

package mixer

// Strategy selects how a swap sequences the old and new source ramps.
type Strategy int

const (
	// SwapCut stops the old source and starts the new one instantly.
	SwapCut Strategy = iota
	// SwapCross ramps both sources over the same window.
	SwapCross
	// SwapOutIn ramps the old source out, waits the swap delay, then
	// ramps the new source in.
	SwapOutIn
	// SwapInOut ramps the new source in first; the old source ramps out
	// once the new one is at full level.
	SwapInOut
)

func (s Strategy) String() string {
	switch s {
	case SwapCut:
		return "cut"
	case SwapCross:
		return "cross"
	case SwapOutIn:
		return "out-in"
	case SwapInOut:
		return "in-out"
	}
	return "unknown"
}

// SwapSpec describes a source transition. The simple form is Strategy +
// Adjustment + SwapDelay; the advanced form sets Old and New directly for
// independent per-side ramps and overrides the simple fields entirely.
type SwapSpec struct {
	Strategy   Strategy
	Adjustment *Options
	// SwapDelay inserts a silence gap between ramps for SwapOutIn; for
	// the other strategies it postpones the incoming source's ramp.
	SwapDelay float64

	Old *Options
	New *Options
}

// normalize reduces any SwapSpec to the single swap-execution contract:
// one fully resolved adjustment per side. Delays are relative to the
// moment the swap is issued.
func (s SwapSpec) normalize() (oldAdj, newAdj Adjustment) {
	if s.Old != nil || s.New != nil {
		return s.Old.merge(defaultSwap), s.New.merge(defaultSwap)
	}

	base := s.Adjustment.merge(defaultSwap)
	t0 := base.Delay + base.StartDelay
	dur := base.Duration

	oldAdj = Adjustment{Shape: base.Shape}
	newAdj = Adjustment{Shape: base.Shape}

	switch s.Strategy {
	case SwapCut:
		oldAdj.Delay = t0
		newAdj.Delay = t0 + s.SwapDelay
	case SwapCross:
		oldAdj.Delay, oldAdj.Duration = t0, dur
		newAdj.Delay, newAdj.Duration = t0+s.SwapDelay, dur
	case SwapOutIn:
		oldAdj.Delay, oldAdj.Duration = t0, dur
		newAdj.Delay, newAdj.Duration = t0+dur+s.SwapDelay, dur
	case SwapInOut:
		newAdj.Delay, newAdj.Duration = t0+s.SwapDelay, dur
		oldAdj.Delay, oldAdj.Duration = t0+s.SwapDelay+dur, dur
	}
	return oldAdj, newAdj
}
