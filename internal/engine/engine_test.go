package engine

import (
	"errors"
	"io"
	"sync"
	"testing"
)

type fakeUnit struct {
	mu      sync.Mutex
	playing bool
	closes  int
}

func (u *fakeUnit) Play() {
	u.mu.Lock()
	u.playing = true
	u.mu.Unlock()
}

func (u *fakeUnit) SetVolume(float64) {}

func (u *fakeUnit) IsPlaying() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.playing
}

func (u *fakeUnit) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.closes++
	if !u.playing && u.closes > 1 {
		// Platform players may reject a second stop after finishing.
		return errors.New("already closed")
	}
	u.playing = false
	return nil
}

type fakeSink struct {
	mu        sync.Mutex
	units     []*fakeUnit
	suspended bool
}

func (s *fakeSink) newUnit(io.Reader) soundUnit {
	u := &fakeUnit{}
	s.mu.Lock()
	s.units = append(s.units, u)
	s.mu.Unlock()
	return u
}

func (s *fakeSink) suspend() error {
	s.mu.Lock()
	s.suspended = true
	s.mu.Unlock()
	return nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.units)
}

func newTestEngine(t *testing.T, contributions int) (*Engine, *fakeSink) {
	t.Helper()
	e := New(Config{Contributions: contributions})
	out := &fakeSink{}
	e.attach = func() (sink, error) { return out, nil }
	t.Cleanup(e.Stop)
	return e, out
}

func TestPlayIsIdempotent(t *testing.T) {
	e, out := newTestEngine(t, 500)

	e.Play()
	if !e.IsPlaying() {
		t.Fatal("engine should be playing after Play")
	}
	e.Play()
	if got := out.count(); got != 1 {
		t.Fatalf("double Play scheduled %d windows, want 1", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	e, out := newTestEngine(t, 500)

	e.Play()
	e.Stop()
	e.Stop()

	if e.IsPlaying() || e.IsLoading() {
		t.Fatal("engine should be idle after Stop")
	}
	for _, u := range out.units {
		if u.IsPlaying() {
			t.Fatal("Stop left a unit playing")
		}
	}
}

func TestStopHaltsTrackedUnits(t *testing.T) {
	e, out := newTestEngine(t, 3100)

	e.Play()
	if out.count() == 0 {
		t.Fatal("Play scheduled nothing")
	}
	e.Stop()

	for i, u := range out.units {
		if u.closes == 0 {
			t.Fatalf("unit %d was never closed", i)
		}
	}
	// A unit that already finished naturally must not break a second Stop.
	out.units[0].playing = false
	e.Stop()
}

func TestToggle(t *testing.T) {
	e, _ := newTestEngine(t, 500)

	if got := e.Toggle(); !got {
		t.Fatal("Toggle from idle should report playing")
	}
	if got := e.Toggle(); got {
		t.Fatal("Toggle from playing should report stopped")
	}
	if e.IsPlaying() {
		t.Fatal("engine still playing after toggle off")
	}
}

func TestStaleContinuationIsNoop(t *testing.T) {
	e, out := newTestEngine(t, 500)

	e.Play()
	scheduled := out.count()
	e.Stop()

	// Simulate the armed continuation firing after Stop cleared it.
	e.loopTick()

	if got := out.count(); got != scheduled {
		t.Fatalf("stale continuation scheduled a window: %d -> %d", scheduled, got)
	}
	if e.IsPlaying() {
		t.Fatal("stale continuation resurrected playback")
	}
}

func TestUpdateConfigRegeneratesOnChangeOnly(t *testing.T) {
	e, _ := newTestEngine(t, 100)
	base := e.regenCount

	c := 500
	e.UpdateConfig(ConfigUpdate{Contributions: &c})
	if e.regenCount != base+1 {
		t.Fatalf("regen count after change: got %d, want %d", e.regenCount, base+1)
	}

	e.UpdateConfig(ConfigUpdate{Contributions: &c})
	if e.regenCount != base+1 {
		t.Fatal("setting the same count regenerated again")
	}

	streak := 12
	e.UpdateConfig(ConfigUpdate{StreakDays: &streak})
	if e.regenCount != base+1 {
		t.Fatal("streak update must not regenerate patterns")
	}
	if e.cfg.StreakDays != 12 {
		t.Fatalf("streak not merged: %d", e.cfg.StreakDays)
	}
}

func TestUpdateConfigWhileIdleAffectsNextPlay(t *testing.T) {
	e, _ := newTestEngine(t, 50)

	c := 5000
	e.UpdateConfig(ConfigUpdate{Contributions: &c})

	if got := e.CurrentBPM(); got != 161 {
		t.Fatalf("bpm after update: got %d, want 161", got)
	}
	if got := e.CurrentGenre(); got != GenreHardcore {
		t.Fatalf("genre after update: got %v, want hardcore", got)
	}
	if got := e.CurrentEnergy(); got != EnergyLegend {
		t.Fatalf("energy after update: got %v, want legend", got)
	}

	want := generatePatterns(5000)
	if e.pat.melody != want.melody || e.pat.bass != want.bass {
		t.Fatal("patterns are stale after idle update")
	}
}

func TestDeviceClaimFailureDegradesSilently(t *testing.T) {
	e := New(Config{Contributions: 500})
	e.attach = func() (sink, error) { return nil, errors.New("no output device") }

	e.Play() // must not panic or error out

	if e.IsPlaying() || e.IsLoading() {
		t.Fatal("engine should fall back to idle when the device is unavailable")
	}
}

func TestDestroyReleasesDevice(t *testing.T) {
	e, out := newTestEngine(t, 500)

	e.Play()
	e.Destroy()

	if !out.suspended {
		t.Fatal("Destroy did not release the device")
	}
	if e.IsPlaying() {
		t.Fatal("engine playing after Destroy")
	}

	before := out.count()
	e.Play() // terminal: must be a no-op
	if out.count() != before {
		t.Fatal("Play scheduled audio after Destroy")
	}
}

func TestAttachHappensOnce(t *testing.T) {
	e := New(Config{Contributions: 500})
	out := &fakeSink{}
	attaches := 0
	e.attach = func() (sink, error) {
		attaches++
		return out, nil
	}
	t.Cleanup(e.Stop)

	e.Play()
	e.Stop()
	e.Play()
	e.Stop()

	if attaches != 1 {
		t.Fatalf("device claimed %d times, want 1", attaches)
	}
}
