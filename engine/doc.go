// SPDX-License-Identifier: EPL-2.0

// Package engine implements the audio graph contracts from the audio
// package: a render-driven clock, gain nodes with scheduled ramps, and
// buffer sources decoded from wav/mp3/ogg/aiff files.
//
// Time is render time: the clock advances only as audio is rendered,
// either by an Output pumping the system device or by calling Render or
// Advance directly. Scheduled callbacks fire between render quanta (128
// frames), in deadline order with FIFO tie-breaking, on the goroutine
// doing the rendering.
//
//	ctx := engine.NewContext(44100)
//	out, err := engine.NewOutput(ctx)
//	if err != nil {
//	    // no audio device
//	}
//	out.Start()
//
// Offline use works the same way without an Output:
//
//	ctx := engine.NewContext(44100)
//	src, _ := ctx.Load("theme.ogg")
//	src.Connect(ctx.Destination())
//	src.StartAt(0)
//	ctx.Advance(2.5) // render 2.5s of audio into the void
package engine
