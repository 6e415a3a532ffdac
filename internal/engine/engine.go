package engine

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

// State is the playback lifecycle state, owned exclusively by the engine.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
)

// masterVolume keeps the summed arrangement comfortably below clipping on
// the device side.
const masterVolume = 0.6

// soundUnit is one sound-producing unit on the output device. Units are
// tracked from creation until the next Stop so cancellation can halt them
// even if they would have kept ringing.
type soundUnit interface {
	Play()
	SetVolume(volume float64)
	IsPlaying() bool
	Close() error
}

// sink is the claimed output device. It stays inert until the first Play.
type sink interface {
	newUnit(r io.Reader) soundUnit
	suspend() error
}

type otoSink struct {
	ctx *oto.Context
}

func (s otoSink) newUnit(r io.Reader) soundUnit { return s.ctx.NewPlayer(r) }
func (s otoSink) suspend() error                { return s.ctx.Suspend() }

// attachFunc claims the output device. It may block until the device is
// ready to produce sound.
type attachFunc func() (sink, error)

func defaultAttach() (sink, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return nil, err
	}
	<-ready
	return otoSink{ctx: ctx}, nil
}

// soundReader streams a rendered window buffer to the device.
type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// Engine turns a contribution count into a continuously looping score. It is
// an explicit instance owned by the caller; construction touches no audio
// hardware, the device is claimed lazily on the first Play.
type Engine struct {
	mu sync.Mutex

	cfg Config
	pat patterns

	state     State
	attach    attachFunc
	out       sink
	attached  bool
	destroyed bool

	units      []soundUnit
	timer      *time.Timer
	windowIdx  uint32
	nextWindow time.Time

	regenCount int
}

// New constructs an idle engine for the given config. Patterns are generated
// up front so they are always consistent with the config.
func New(cfg Config) *Engine {
	e := &Engine{
		cfg:    cfg,
		attach: defaultAttach,
	}
	e.pat = generatePatterns(cfg.Contributions)
	e.regenCount++
	return e
}

// UpdateConfig merges the partial update. A changed contribution count
// regenerates the patterns immediately, even while idle, so the next Play
// never schedules stale material. Setting the same count again is a no-op.
func (e *Engine) UpdateConfig(u ConfigUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if u.StreakDays != nil {
		e.cfg.StreakDays = *u.StreakDays
	}
	if u.Contributions != nil && *u.Contributions != e.cfg.Contributions {
		e.cfg.Contributions = *u.Contributions
		e.pat = generatePatterns(e.cfg.Contributions)
		e.regenCount++
	}
}

// Play claims the output device if needed and schedules the first loop
// window. It returns once scheduling has begun, not when audio finishes.
// Already playing is a no-op; a failed device claim degrades to silence.
func (e *Engine) Play() {
	e.mu.Lock()
	if e.destroyed || e.state != StateIdle {
		e.mu.Unlock()
		return
	}
	e.state = StateLoading
	attach := e.attach
	needAttach := !e.attached
	e.mu.Unlock()

	var out sink
	var err error
	if needAttach {
		out, err = attach()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed || e.state != StateLoading {
		// Stopped or destroyed while the device was being claimed.
		if err == nil && needAttach && !e.attached {
			e.out = out
			e.attached = true
		}
		return
	}
	if needAttach {
		if err != nil {
			log.Printf("engine: audio unavailable, continuing without sound: %v", err)
			e.state = StateIdle
			return
		}
		e.out = out
		e.attached = true
	}
	e.state = StatePlaying
	e.nextWindow = time.Now()
	e.scheduleLocked()
}

// scheduleLocked renders one loop window, hands it to the device, and arms
// the continuation against the absolute next-window timestamp so timer
// jitter never accumulates into drift.
func (e *Engine) scheduleLocked() {
	buf := renderWindow(e.cfg, e.pat, e.windowIdx)
	e.windowIdx++

	if e.out != nil {
		u := e.out.newUnit(&soundReader{data: buf})
		u.SetVolume(masterVolume)
		u.Play()
		e.units = append(e.units, u)
	}

	bpm := bpmFor(e.cfg.Contributions)
	loop := time.Duration(float64(BarsPerWindow*BeatsPerBar) * 60 / float64(bpm) * float64(time.Second))
	e.nextWindow = e.nextWindow.Add(loop)

	margin := time.Duration(overlapMarginSeconds * float64(time.Second))
	delay := time.Until(e.nextWindow.Add(-margin))
	if delay < 0 {
		delay = 0
	}
	e.timer = time.AfterFunc(delay, e.loopTick)
}

func (e *Engine) loopTick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePlaying {
		return // stale continuation after Stop
	}
	e.pruneUnitsLocked()
	e.scheduleLocked()
}

// pruneUnitsLocked closes units that finished naturally so the tracking
// list stays bounded across a long session.
func (e *Engine) pruneUnitsLocked() {
	live := e.units[:0]
	for _, u := range e.units {
		if u.IsPlaying() {
			live = append(live, u)
			continue
		}
		_ = u.Close()
	}
	e.units = live
}

// Stop cancels the pending continuation and halts every tracked unit.
// Idempotent and safe from any state.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	e.state = StateIdle
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	for _, u := range e.units {
		_ = u.Close() // a unit that already finished rejects this harmlessly
	}
	e.units = nil
}

// Toggle stops if playing, plays otherwise, and reports whether the engine
// is playing afterwards.
func (e *Engine) Toggle() bool {
	e.mu.Lock()
	playing := e.state == StatePlaying
	e.mu.Unlock()

	if playing {
		e.Stop()
		return false
	}
	e.Play()
	return e.IsPlaying()
}

// Destroy stops playback and releases the output device. The engine is
// unusable afterwards.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	if e.attached && e.out != nil {
		if err := e.out.suspend(); err != nil {
			log.Printf("engine: releasing audio device: %v", err)
		}
	}
	e.out = nil
	e.attached = false
	e.destroyed = true
}

// CurrentBPM returns the tempo derived from the current config.
func (e *Engine) CurrentBPM() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return bpmFor(e.cfg.Contributions)
}

// CurrentGenre returns the genre derived from the current tempo.
func (e *Engine) CurrentGenre() Genre {
	e.mu.Lock()
	defer e.mu.Unlock()
	return genreFor(bpmFor(e.cfg.Contributions))
}

// CurrentEnergy returns the energy level for the current config.
func (e *Engine) CurrentEnergy() Energy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return energyFor(e.cfg.Contributions)
}

func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StatePlaying
}

func (e *Engine) IsLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateLoading
}
