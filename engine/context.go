// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"container/heap"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/almic/music-mixer-rpgmmv/audio"
	"github.com/almic/music-mixer-rpgmmv/formats/aiff"
	"github.com/almic/music-mixer-rpgmmv/formats/mp3"
	"github.com/almic/music-mixer-rpgmmv/formats/vorbis"
	"github.com/almic/music-mixer-rpgmmv/formats/wav"
)

// renderQuantum is the number of frames rendered between callback checks.
// Scheduled callbacks therefore fire with at most quantum/rate seconds of
// jitter (~2.9ms at 44.1kHz).
const renderQuantum = 128

// outChannels is the channel count of the rendered output. Buffers with
// other channel counts are up- or down-mixed at render time.
const outChannels = 2

const timeEpsilon = 1e-9

// Context is the concrete audio graph: a sample-frame clock, a stable
// callback queue, gain nodes and buffer sources mixed into a destination
// stage. Time only advances while Render is being called, either by an
// Output pump or manually via Advance.
//
// All methods are safe for concurrent use; scheduled callbacks run on the
// rendering goroutine between quanta, outside the graph lock, so they may
// freely call back into the graph.
type Context struct {
	mu      sync.Mutex
	rate    int
	frame   int64
	seq     int64
	queue   callbackQueue
	dest    *Gain
	gains   []*Gain
	sources []*Source

	registry *audio.Registry
	cache    map[string]*audio.Buffer

	scratch []float32
}

func NewContext(sampleRate int) *Context {
	c := &Context{
		rate:     sampleRate,
		registry: audio.NewRegistry(),
		cache:    make(map[string]*audio.Buffer),
	}
	c.dest = &Gain{ctx: c, level: 1, isDest: true}
	c.gains = append(c.gains, c.dest)

	c.registry.Register("wav", wav.Decoder{})
	c.registry.Register("mp3", mp3.Decoder{})
	c.registry.Register("ogg", vorbis.Decoder{})
	c.registry.Register("aiff", aiff.Decoder{})
	c.registry.Register("aif", aiff.Decoder{})

	return c
}

func (c *Context) SampleRate() int { return c.rate }

// Formats exposes the decoder registry so callers can plug in additional
// file formats before loading.
func (c *Context) Formats() *audio.Registry { return c.registry }

func (c *Context) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now()
}

func (c *Context) now() float64 {
	return float64(c.frame) / float64(c.rate)
}

func (c *Context) Schedule(at float64, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.schedule(at, fn)
}

func (c *Context) schedule(at float64, fn func()) {
	heap.Push(&c.queue, scheduled{at: at, seq: c.seq, fn: fn})
	c.seq++
}

func (c *Context) NewGain() audio.GainNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	g := &Gain{ctx: c, level: 1}
	c.gains = append(c.gains, g)
	return g
}

func (c *Context) Destination() audio.GainNode { return c.dest }

// Load decodes the file at path into a new buffer source. Decoded PCM is
// cached per path, so repeated loads and clones share memory.
func (c *Context) Load(path string) (audio.BufferSource, error) {
	buf, err := c.buffer(path)
	if err != nil {
		return nil, err
	}
	return c.newSource(buf), nil
}

// NewSource creates a playback source over an in-memory buffer, for
// audio that was generated or decoded outside the registry.
func (c *Context) NewSource(buf *audio.Buffer) audio.BufferSource {
	return c.newSource(buf)
}

func (c *Context) buffer(path string) (*audio.Buffer, error) {
	c.mu.Lock()
	buf, ok := c.cache[path]
	c.mu.Unlock()
	if ok {
		return buf, nil
	}

	key := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	dec, ok := c.registry.Get(key)
	if !ok {
		return nil, fmt.Errorf("loading %q: %w", path, audio.ErrUnknownFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	defer f.Close()

	buf, err = dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}

	c.mu.Lock()
	c.cache[path] = buf
	c.mu.Unlock()
	return buf, nil
}

func (c *Context) newSource(buf *audio.Buffer) *Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := &Source{ctx: c, buf: buf}
	c.sources = append(c.sources, s)
	return s
}

// Render fills dst with interleaved stereo float32 samples, advancing the
// graph clock by len(dst)/outChannels frames. Due callbacks run between
// render quanta in (deadline, schedule order).
func (c *Context) Render(dst []float32) {
	frames := len(dst) / outChannels

	c.mu.Lock()
	c.sweep()
	c.mu.Unlock()

	for done := 0; done < frames; {
		n := min(renderQuantum, frames-done)
		c.runDue()

		c.mu.Lock()
		c.mixQuantum(dst[done*outChannels:(done+n)*outChannels], n)
		c.frame += int64(n)
		c.mu.Unlock()

		done += n
	}
}

// Advance renders and discards the given number of seconds of audio. It is
// the offline way to drive the clock, used by tests and pre-rolls.
func (c *Context) Advance(seconds float64) {
	frames := int(seconds*float64(c.rate) + 0.5)
	for frames > 0 {
		n := min(renderQuantum, frames)
		if len(c.scratch) < n*outChannels {
			c.scratch = make([]float32, renderQuantum*outChannels)
		}
		c.Render(c.scratch[:n*outChannels])
		frames -= n
	}
}

// runDue pops and runs every callback whose deadline has passed. Each
// callback executes outside the lock so it can safely re-enter the graph.
func (c *Context) runDue() {
	for {
		c.mu.Lock()
		if len(c.queue) == 0 || c.queue[0].at > c.now()+timeEpsilon {
			c.mu.Unlock()
			return
		}
		cb := heap.Pop(&c.queue).(scheduled)
		c.mu.Unlock()

		cb.fn()
	}
}

func (c *Context) mixQuantum(dst []float32, frames int) {
	for i := range dst {
		dst[i] = 0
	}

	now := c.now()
	for _, g := range c.gains {
		g.evalRamps(now)
	}

	for _, s := range c.sources {
		if !s.active {
			continue
		}
		gain := 0.0
		if s.connected {
			gain = s.out.chain()
		}
		s.renderInto(dst, frames, float32(gain))
	}
}

// sweep drops sources that finished and were disconnected, and keeps the
// gain list free of nodes Disconnect removed.
func (c *Context) sweep() {
	kept := c.sources[:0]
	for _, s := range c.sources {
		if s.ended && !s.connected {
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(c.sources); i++ {
		c.sources[i] = nil
	}
	c.sources = kept
}

type scheduled struct {
	at  float64
	seq int64
	fn  func()
}

// callbackQueue is a min-heap ordered by deadline, with the schedule
// sequence breaking ties so equal deadlines fire FIFO.
type callbackQueue []scheduled

func (q callbackQueue) Len() int { return len(q) }
func (q callbackQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q callbackQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *callbackQueue) Push(x any) { *q = append(*q, x.(scheduled)) }
func (q *callbackQueue) Pop() any {
	old := *q
	n := len(old)
	v := old[n-1]
	*q = old[:n-1]
	return v
}
