// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sync"
)

// Buffer holds fully decoded PCM audio: interleaved float32 samples in
// [-1, 1]. It is immutable once handed to a source; clones of a source
// share the same Buffer.
type Buffer struct {
	Data     []float32
	Rate     int
	Channels int
}

// Frames returns the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// Duration returns the buffer's play time in seconds at its native rate.
func (b *Buffer) Duration() float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.Rate)
}

// Sample returns the sample at the given frame and channel, or 0 outside
// the buffer.
func (b *Buffer) Sample(frame, channel int) float32 {
	if frame < 0 || frame >= b.Frames() || channel < 0 || channel >= b.Channels {
		return 0
	}
	return b.Data[frame*b.Channels+channel]
}

// Decoder constructs a Buffer from an input reader.
type Decoder interface {
	Decode(r io.Reader) (*Buffer, error)
}

// Registry maps format keys (e.g. "wav", "mp3", "ogg") to decoders.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}
