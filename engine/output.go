// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ebitengine/oto/v3"
)

// Output pumps a Context into the system audio device via oto. Creating an
// Output claims the device; only one per process is supported by oto.
type Output struct {
	otoCtx *oto.Context
	player *oto.Player
}

func NewOutput(c *Context) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   c.SampleRate(),
		ChannelCount: outChannels,
		Format:       oto.FormatFloat32LE,
	}

	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	return &Output{
		otoCtx: otoCtx,
		player: otoCtx.NewPlayer(&renderReader{ctx: c}),
	}, nil
}

// Start begins pulling rendered audio to the device. The graph clock only
// advances while the output is running (or Render/Advance is called
// manually).
func (o *Output) Start() { o.player.Play() }

func (o *Output) Stop() { o.player.Pause() }

func (o *Output) Running() bool { return o.player.IsPlaying() }

func (o *Output) Close() error {
	return o.player.Close()
}

// renderReader adapts Context.Render to the io.Reader oto pulls from,
// converting float32 samples to little-endian bytes.
type renderReader struct {
	ctx *Context
	buf []float32
}

func (r *renderReader) Read(p []byte) (int, error) {
	frames := len(p) / 4 / outChannels
	if frames == 0 {
		return 0, nil
	}

	need := frames * outChannels
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]

	r.ctx.Render(r.buf)

	for i, v := range r.buf {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}
	return need * 4, nil
}
