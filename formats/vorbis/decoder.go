// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/almic/music-mixer-rpgmmv/audio"
)

type Decoder struct{}

// Decode reads a complete Ogg Vorbis stream into a PCM buffer. oggvorbis
// already produces interleaved float32 samples, so the data is used as-is.
func (Decoder) Decode(r io.Reader) (*audio.Buffer, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decoding ogg vorbis: %w", err)
	}
	if len(data) == 0 {
		return nil, audio.ErrEmptyBuffer
	}

	return &audio.Buffer{
		Data:     data,
		Rate:     format.SampleRate,
		Channels: format.Channels,
	}, nil
}
