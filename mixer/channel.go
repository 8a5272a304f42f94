// SPDX-License-Identifier: EPL-2.0

package mixer

import "github.com/almic/music-mixer-rpgmmv/audio"

// Channel is the dispatch contract shared by tracks and groups: anything
// addressable by name that can be started, stopped, faded and synced. A
// group satisfies it by fanning out to its members; a track by acting on
// itself.
type Channel interface {
	Name() string

	Start(delay float64, opts *Options) error
	StartFor(delay, duration float64, opts *Options) error
	Stop(delay float64, opts *Options) error
	Volume(v float64, opts *Options) error

	Swap(spec SwapSpec) error
	LoadSource(path string) (audio.BufferSource, error)
	PlaySource(path string, opts *Options) (audio.BufferSource, error)

	CreateBeat(kind BeatKind, origin, period float64) (*Beat, error)
	ClearBeats()
	ListenFor(fn BeatFunc) func()
	SyncPlayTo(target *Track, opts *Options) error
	SyncStopTo(target *Track, opts *Options) error
}

var (
	_ Channel = (*Track)(nil)
	_ Channel = (*Group)(nil)
)
