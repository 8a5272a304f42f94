// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/almic/music-mixer-rpgmmv/audio"
)

type Decoder struct{}

// Decode reads a complete MP3 stream into a PCM buffer. go-mp3 always
// emits 16-bit little-endian stereo at the stream's sample rate.
func (Decoder) Decode(r io.Reader) (*audio.Buffer, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("opening mp3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}

	samples := len(raw) / 2
	if samples == 0 {
		return nil, audio.ErrEmptyBuffer
	}

	buf := &audio.Buffer{
		Data:     make([]float32, samples),
		Rate:     dec.SampleRate(),
		Channels: 2,
	}
	for i := 0; i < samples; i++ {
		low := uint16(raw[2*i])
		high := uint16(raw[2*i+1])
		buf.Data[i] = float32(int16(low|(high<<8))) / 32768.0
	}

	return buf, nil
}
