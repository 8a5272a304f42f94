// SPDX-License-Identifier: EPL-2.0

package musicmixer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeWAVFile drops a minimal 16-bit mono WAV into dir and returns its path.
func writeWAVFile(t *testing.T, dir, name string, sampleRate int, samples []int16) string {
	t.Helper()

	buf := new(bytes.Buffer)
	dataSize := uint32(len(samples) * 2)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, s)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestParseSession_Valid(t *testing.T) {
	t.Parallel()

	yml := `
groups:
  - name: bgm
    volume: 0.8
    tracks:
      - name: bgm
        source: audio/theme.wav
        loop: { start: 100, end: 5000 }
      - name: pad
        source: audio/pad.wav
`
	s, err := ParseSession([]byte(yml))
	if err != nil {
		t.Fatalf("ParseSession() error = %v", err)
	}

	if len(s.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(s.Groups))
	}
	g := s.Groups[0]
	if g.Name != "bgm" || g.Volume == nil || *g.Volume != 0.8 {
		t.Errorf("group = %+v, want name bgm volume 0.8", g)
	}
	if len(g.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(g.Tracks))
	}
	if g.Tracks[0].Loop == nil || g.Tracks[0].Loop.Start != 100 || g.Tracks[0].Loop.End != 5000 {
		t.Errorf("loop = %+v, want {100 5000}", g.Tracks[0].Loop)
	}
}

func TestParseSession_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yml  string
		want string
	}{
		{
			name: "not yaml",
			yml:  "{{{",
			want: "parsing session",
		},
		{
			name: "group without name",
			yml:  "groups:\n  - tracks: []\n",
			want: "group without a name",
		},
		{
			name: "track without name",
			yml:  "groups:\n  - name: bgm\n    tracks:\n      - source: a.wav\n",
			want: "track without a name",
		},
		{
			name: "empty loop window",
			yml:  "groups:\n  - name: bgm\n    tracks:\n      - name: bgm\n        loop: { start: 10, end: 10 }\n",
			want: "loop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseSession([]byte(tt.yml))
			if err == nil {
				t.Fatal("ParseSession() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseSession() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestMixer_ApplySession(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	theme := writeWAVFile(t, dir, "theme.wav", 44100, make([]int16, 44100))
	pad := writeWAVFile(t, dir, "pad.wav", 44100, make([]int16, 22050))

	yml := fmt.Sprintf(`
groups:
  - name: bgm
    volume: 0.8
    tracks:
      - name: bgm
        source: %s
        loop: { start: 0, end: 44100 }
      - name: pad
        source: %s
`, theme, pad)

	s, err := ParseSession([]byte(yml))
	if err != nil {
		t.Fatalf("ParseSession() error = %v", err)
	}

	m := New(44100)
	if err := m.ApplySession(s); err != nil {
		t.Fatalf("ApplySession() error = %v", err)
	}

	g, ok := m.Group("bgm")
	if !ok {
		t.Fatal("group bgm missing after ApplySession")
	}
	if got := len(g.Tracks()); got != 2 {
		t.Fatalf("tracks = %d, want 2", got)
	}
	if _, ok := g.Track("pad"); !ok {
		t.Fatal("track pad missing after ApplySession")
	}

	// every declared track has a staged source, so a group start succeeds
	if err := g.Start(0, nil); err != nil {
		t.Errorf("Start() after ApplySession error = %v", err)
	}
}

func TestMixer_ApplySessionUnknownSource(t *testing.T) {
	t.Parallel()

	s := &Session{Groups: []SessionGroup{{
		Name:   "bgm",
		Tracks: []SessionTrack{{Name: "bgm", Source: "does-not-exist.wav"}},
	}}}

	m := New(44100)
	if err := m.ApplySession(s); err == nil {
		t.Error("ApplySession() error = nil for a missing source file")
	}
}

func TestMixer_LoadSession(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	theme := writeWAVFile(t, dir, "theme.wav", 44100, make([]int16, 4410))

	yml := fmt.Sprintf("groups:\n  - name: bgm\n    tracks:\n      - name: bgm\n        source: %s\n", theme)
	path := filepath.Join(dir, "session.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(44100)
	if err := m.LoadSession(path); err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if _, ok := m.Group("bgm"); !ok {
		t.Error("group bgm missing after LoadSession")
	}
}

func TestMixer_LoadSessionMissingFile(t *testing.T) {
	t.Parallel()

	m := New(44100)
	if err := m.LoadSession(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadSession() error = nil for a missing file")
	}
}
