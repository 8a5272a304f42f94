// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"testing"

	"github.com/almic/music-mixer-rpgmmv/internal/audiotest"
)

func TestTrack_SyncPlayToStartsOnBeat(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext(44100)
	ctx.Buffers["pad.ogg"] = 44100

	lead := NewTrack(ctx, "lead", nil)
	pad := NewTrack(ctx, "pad", nil)

	if _, err := lead.CreateBeat(BeatRepeating, 1, 1); err != nil {
		t.Fatalf("CreateBeat() error = %v", err)
	}

	src, _ := pad.LoadSource("pad.ogg")
	if err := pad.SyncPlayTo(lead, nil); err != nil {
		t.Fatalf("SyncPlayTo() error = %v", err)
	}

	ctx.AdvanceTo(1)

	fsrc := src.(*audiotest.Source)
	if len(fsrc.Starts) != 1 || !approx(fsrc.Starts[0], 1) {
		t.Errorf("StartAt times = %v, want [1]: the beat's fire time is the origin", fsrc.Starts)
	}
	if !pad.Playing() {
		t.Error("Playing() = false after the synced start")
	}
}

func TestTrack_SyncPlayToAddsOptionDelay(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext(44100)
	ctx.Buffers["pad.ogg"] = 44100

	lead := NewTrack(ctx, "lead", nil)
	pad := NewTrack(ctx, "pad", nil)

	lead.CreateBeat(BeatRepeating, 1, 10)
	src, _ := pad.LoadSource("pad.ogg")
	pad.SyncPlayTo(lead, &Options{Delay: Ptr(0.5)})

	ctx.AdvanceTo(1)

	fsrc := src.(*audiotest.Source)
	if len(fsrc.Starts) != 1 || !approx(fsrc.Starts[0], 1.5) {
		t.Errorf("StartAt times = %v, want [1.5]: option delay stacks on the beat time", fsrc.Starts)
	}
}

func TestTrack_SyncSkipsCancelledBeat(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext(44100)
	ctx.Buffers["pad.ogg"] = 44100

	lead := NewTrack(ctx, "lead", nil)
	pad := NewTrack(ctx, "pad", nil)

	lead.CreateBeat(BeatRepeating, 1, 1)
	src, _ := pad.LoadSource("pad.ogg")

	// this listener runs first and flips the flag mid-dispatch
	lead.ListenFor(func(b *Beat, at float64) { b.Cancel() })
	pad.SyncPlayTo(lead, nil)

	ctx.AdvanceTo(3)

	fsrc := src.(*audiotest.Source)
	if len(fsrc.Starts) != 0 {
		t.Errorf("StartAt times = %v, want none for a cancelled beat", fsrc.Starts)
	}
}

func TestTrack_SyncStopToSelf(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext(44100)
	ctx.Buffers["theme.ogg"] = 44100 * 4

	tr := NewTrack(ctx, "bgm", nil)
	tr.LoadSource("theme.ogg")
	tr.Start(0, nil)
	ctx.AdvanceTo(0)

	tr.CreateBeat(BeatRepeating, 1, 1)
	if err := tr.SyncStopTo(tr, nil); err != nil {
		t.Fatalf("SyncStopTo() error = %v", err)
	}

	ctx.AdvanceTo(1.1)
	if tr.Playing() {
		t.Error("Playing() = true after stopping on the track's own beat")
	}
}

func TestTrack_SyncNilTarget(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext(44100)
	tr := NewTrack(ctx, "bgm", nil)

	if err := tr.SyncPlayTo(nil, nil); !errors.Is(err, ErrNoTarget) {
		t.Errorf("SyncPlayTo(nil) error = %v, want ErrNoTarget", err)
	}
	if err := tr.SyncStopTo(nil, nil); !errors.Is(err, ErrNoTarget) {
		t.Errorf("SyncStopTo(nil) error = %v, want ErrNoTarget", err)
	}
}

func TestTrack_ClearBeatsDropsSyncRegistrations(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext(44100)
	ctx.Buffers["pad.ogg"] = 44100

	lead := NewTrack(ctx, "lead", nil)
	pad := NewTrack(ctx, "pad", nil)

	lead.CreateBeat(BeatRepeating, 1, 1)
	src, _ := pad.LoadSource("pad.ogg")
	pad.SyncPlayTo(lead, nil)

	var plainFired int
	lead.ListenFor(func(b *Beat, at float64) { plainFired++ })

	lead.ClearBeats()
	lead.CreateBeat(BeatRepeating, 2, 1)

	ctx.AdvanceTo(2.5)

	fsrc := src.(*audiotest.Source)
	if len(fsrc.Starts) != 0 {
		t.Errorf("StartAt times = %v, want none after ClearBeats tore the sync down", fsrc.Starts)
	}
	if plainFired != 1 {
		t.Errorf("plain listener fired %d times, want 1: ClearBeats keeps direct listeners", plainFired)
	}
}

func TestTrack_ListenForRemove(t *testing.T) {
	t.Parallel()

	ctx := audiotest.NewContext(44100)
	tr := NewTrack(ctx, "bgm", nil)

	tr.CreateBeat(BeatRepeating, 1, 1)

	var fired int
	remove := tr.ListenFor(func(b *Beat, at float64) { fired++ })

	ctx.AdvanceTo(1)
	remove()
	ctx.AdvanceTo(3)

	if fired != 1 {
		t.Errorf("listener fired %d times, want 1 before removal", fired)
	}
}
