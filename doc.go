// SPDX-License-Identifier: EPL-2.0

// Package musicmixer provides audio-cue scheduling and mixing control for
// game-style background music: persistent tracks that load sources,
// start and stop on scheduled delays, crossfade between sources under
// four swap strategies, loop or jump within a buffer, emit rhythmic beat
// events, and synchronize their transitions to other tracks' beats.
//
// # Layers
//
// The audio package declares the primitive graph contracts (clock, gain
// nodes, buffer sources); the engine package implements them with a
// render-driven clock and wav/mp3/ogg/aiff decoding; the mixer package
// is the scheduling core built purely against the contracts. This root
// package wires the three together and adds YAML session loading.
//
// # Quick start
//
//	m := musicmixer.New(44100)
//	out, err := m.Output()
//	if err != nil {
//	    // no audio device
//	}
//	out.Start()
//
//	bgm, _ := m.NewGroup("bgm")
//	bgm.PlaySource("audio/theme.ogg", nil)
//
//	// crossfade to a battle theme over 1.5 seconds
//	bgm.LoadSource("audio/battle.ogg")
//	bgm.Swap(mixer.SwapSpec{
//	    Strategy:   mixer.SwapCross,
//	    Adjustment: &mixer.Options{Duration: mixer.Ptr(1.5)},
//	})
//
// Whole setups can be declared in a YAML session file; see Session.
package musicmixer
