// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/almic/music-mixer-rpgmmv/audio"
)

const readChunk = 4096

type Decoder struct{}

// Decode reads a complete AIFF stream into a PCM buffer. Only 16-bit PCM
// is supported, which covers the files RPG-style asset pipelines produce.
func (Decoder) Decode(r io.Reader) (*audio.Buffer, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()
	if dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}

	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	// go-audio's aiff decoder has no full-buffer read, so pull fixed-size
	// chunks until EOF.
	var data []float32
	chunk := &goaudio.IntBuffer{Data: make([]int, readChunk), Format: format}
	for {
		chunk.Data = chunk.Data[:readChunk]
		n, err := dec.PCMBuffer(chunk)
		for i := 0; i < n; i++ {
			data = append(data, float32(chunk.Data[i])/32768.0)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("decoding aiff: %w", err)
		}
		if n < readChunk || err == io.EOF {
			break
		}
	}
	if len(data) == 0 {
		return nil, audio.ErrEmptyBuffer
	}

	return &audio.Buffer{
		Data:     data,
		Rate:     format.SampleRate,
		Channels: format.NumChannels,
	}, nil
}
