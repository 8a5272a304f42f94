// SPDX-License-Identifier: EPL-2.0

package musicmixer

import (
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/almic/music-mixer-rpgmmv/audio"
)

// loadConcurrency caps how many sources a session decodes at once.
const loadConcurrency = 4

// Session describes a mixer setup: groups, their member tracks, sources
// and initial levels. Sessions are declared in YAML:
//
//	groups:
//	  - name: bgm
//	    volume: 0.8
//	    tracks:
//	      - name: bgm            # primary member
//	        source: audio/theme.ogg
//	        loop: { start: 0, end: 441000 }
//	      - name: bgm-battle
//	        source: audio/battle.ogg
type Session struct {
	Groups []SessionGroup `yaml:"groups"`
}

type SessionGroup struct {
	Name   string         `yaml:"name"`
	Volume *float64       `yaml:"volume"`
	Tracks []SessionTrack `yaml:"tracks"`
}

type SessionTrack struct {
	Name   string       `yaml:"name"`
	Source string       `yaml:"source"`
	Volume *float64     `yaml:"volume"`
	Loop   *SessionLoop `yaml:"loop"`
}

// SessionLoop holds native loop bounds in source frames.
type SessionLoop struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// ParseSession decodes and validates session YAML.
func ParseSession(data []byte) (*Session, error) {
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	for _, g := range s.Groups {
		if g.Name == "" {
			return nil, fmt.Errorf("parsing session: group without a name")
		}
		for _, t := range g.Tracks {
			if t.Name == "" {
				return nil, fmt.Errorf("parsing session: track without a name in group %q", g.Name)
			}
			if t.Loop != nil && t.Loop.Start >= t.Loop.End {
				return nil, fmt.Errorf("parsing session: track %q loop [%d, %d) is empty", t.Name, t.Loop.Start, t.Loop.End)
			}
		}
	}
	return &s, nil
}

// LoadSession reads a session file and applies it to the mixer.
func (m *Mixer) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	s, err := ParseSession(data)
	if err != nil {
		return err
	}
	return m.ApplySession(s)
}

// ApplySession builds the declared groups and tracks, decoding sources in
// parallel. The first failure aborts and is returned; groups created
// before the failure remain.
func (m *Mixer) ApplySession(s *Session) error {
	type pending struct {
		track *SessionTrack
		load  func() (audio.BufferSource, error)
		src   audio.BufferSource
	}

	var loads []*pending
	for _, sg := range s.Groups {
		g, err := m.NewGroup(sg.Name)
		if err != nil {
			return err
		}
		if sg.Volume != nil {
			g.Volume(*sg.Volume, nil)
		}

		for i := range sg.Tracks {
			st := &sg.Tracks[i]
			t, ok := g.Track(st.Name)
			if !ok {
				if t, err = g.NewTrack(st.Name, ""); err != nil {
					return err
				}
			}
			if st.Volume != nil {
				t.Volume(*st.Volume, nil)
			}
			if st.Source != "" {
				track := t
				path := st.Source
				loads = append(loads, &pending{
					track: st,
					load:  func() (audio.BufferSource, error) { return track.LoadSource(path) },
				})
			}
		}
	}

	// decode sources in parallel; each load touches only its own track
	var eg errgroup.Group
	eg.SetLimit(loadConcurrency)
	for _, p := range loads {
		eg.Go(func() error {
			src, err := p.load()
			if err != nil {
				return err
			}
			p.src = src
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	// loop bounds apply to the staged source directly: the track-level
	// Loop operation works on playing sources only
	for _, p := range loads {
		if p.track.Loop != nil {
			p.src.SetLoop(true, p.track.Loop.Start, p.track.Loop.End)
		}
	}
	return nil
}
