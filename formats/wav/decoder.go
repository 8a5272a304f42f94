// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/almic/music-mixer-rpgmmv/audio"
)

type Decoder struct{}

// Decode reads a complete WAV stream into a PCM buffer. go-audio needs an
// io.ReadSeeker, so non-seekable input is slurped into memory first; for
// playback buffers the whole file ends up in memory anyway.
func (Decoder) Decode(r io.Reader) (*audio.Buffer, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}

	return fromIntBuffer(pcm, int(dec.BitDepth))
}

// fromIntBuffer normalizes go-audio integer samples into float32 [-1, 1].
func fromIntBuffer(pcm *goaudio.IntBuffer, bitDepth int) (*audio.Buffer, error) {
	if pcm == nil || pcm.Format == nil || len(pcm.Data) == 0 {
		return nil, audio.ErrEmptyBuffer
	}

	var maxVal float32
	switch bitDepth {
	case 8:
		maxVal = 128.0
	case 16:
		maxVal = 32768.0
	case 24:
		maxVal = 8388608.0
	case 32:
		maxVal = 2147483648.0
	default:
		maxVal = 32768.0
	}

	buf := &audio.Buffer{
		Data:     make([]float32, len(pcm.Data)),
		Rate:     pcm.Format.SampleRate,
		Channels: pcm.Format.NumChannels,
	}
	for i, v := range pcm.Data {
		buf.Data[i] = float32(v) / maxVal
	}

	return buf, nil
}
