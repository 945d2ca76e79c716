// Package scheduler drives the cadence of a chip8.Chip8 instance: how
// many instructions execute per frame, when the 60 Hz timer domain
// ticks, and when a framebuffer snapshot is handed to a renderer. The
// core itself is single-threaded and non-reentrant (see the package
// doc on chip8.Chip8); Harness is what makes it safe to run the
// instruction stream, the timer domain, and a renderer loop as
// independent goroutines, all serialized behind one mutex.
package scheduler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/corvid-systems/chip8vm/internal/chip8"
)

const (
	// DefaultCPUHz is a commonly used CHIP-8 clock speed; many ROMs
	// assume something in this neighborhood, though the "correct" rate
	// is famously undefined for the platform.
	DefaultCPUHz = 700

	DefaultFrameRate = chip8.TimerHz
)

// Config tunes a Harness.
type Config struct {
	// CPUHz is the target instruction rate; combined with FrameRate it
	// determines how many Step calls happen per frame.
	CPUHz int
	// FrameRate is how often timers tick and frames are published.
	// Defaults to 60 if zero.
	FrameRate int
	// SpeedMultiplier scales CPUHz; 1.0 is normal speed.
	SpeedMultiplier float64
}

// Harness owns a machine and the goroutines that drive it. The zero
// value is not usable; construct with New.
type Harness struct {
	vm  *chip8.Chip8
	mu  sync.Mutex
	cfg Config

	paused bool

	onFrame func(chip8.Frame)
	onSound func(active bool)
}

// New returns a Harness around vm. A zero-valued Config falls back to
// DefaultCPUHz and DefaultFrameRate with a 1.0 speed multiplier.
func New(vm *chip8.Chip8, cfg Config) *Harness {
	if cfg.CPUHz <= 0 {
		cfg.CPUHz = DefaultCPUHz
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = DefaultFrameRate
	}
	if cfg.SpeedMultiplier <= 0 {
		cfg.SpeedMultiplier = 1.0
	}
	return &Harness{vm: vm, cfg: cfg}
}

// OnFrame registers a callback invoked once per frame with a fresh
// framebuffer snapshot. It is only invoked when the frame is dirty.
func (h *Harness) OnFrame(fn func(chip8.Frame)) {
	h.onFrame = fn
}

// OnSoundChange registers a callback invoked whenever SoundActive
// transitions, so a beeper can start/stop without polling every frame.
func (h *Harness) OnSoundChange(fn func(active bool)) {
	h.onSound = fn
}

// cyclesPerFrame is how many Step calls the instruction goroutine
// attempts in one frame period, per spec: cpu_frequency / frame_rate *
// speed_multiplier.
func (h *Harness) cyclesPerFrame() int {
	n := float64(h.cfg.CPUHz) / float64(h.cfg.FrameRate) * h.cfg.SpeedMultiplier
	if n < 1 {
		return 1
	}
	return int(n)
}

// SetPaused stops (or resumes) the instruction stream without tearing
// down the harness; the timer domain and renderer keep running, matching
// a host's "pause" button rather than a hard stop.
func (h *Harness) SetPaused(paused bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = paused
}

// Press and Release forward key events to the machine under the
// harness's lock, so a key transition is never observed mid-instruction.
func (h *Harness) Press(key uint8) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.vm.Press(key)
}

func (h *Harness) Release(key uint8) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.vm.Release(key)
}

// Run drives the machine cooperatively on the calling goroutine: one
// frame-paced loop that executes cyclesPerFrame instructions, ticks the
// timers once, and publishes a frame, in that order — the ordering spec
// calls "conventional" (timers after the frame's instructions). This is
// the simplest correct harness and is what a single-threaded host (e.g.
// an ebiten Game whose Update is already called once per frame) should
// use: call Tick once per Update instead of Run.
func (h *Harness) Run(ctx context.Context) error {
	period := time.Second / time.Duration(h.cfg.FrameRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.Tick()
		}
	}
}

// Tick runs exactly one frame's worth of work: up to cyclesPerFrame
// instructions (fewer if the machine halts or blocks on a key-wait),
// one timer pulse, then a frame publish if the framebuffer is dirty.
// Safe to call directly from a host's own frame callback (e.g. ebiten's
// Game.Update) instead of running Run on a separate goroutine.
func (h *Harness) Tick() {
	h.mu.Lock()
	wasSoundActive := h.vm.SoundActive()

	if !h.paused {
		for i := 0; i < h.cyclesPerFrame(); i++ {
			if !h.vm.Step() {
				break
			}
		}
	}
	h.vm.TickTimers()

	frame := h.vm.FramebufferSnapshot()
	soundActive := h.vm.SoundActive()
	h.mu.Unlock()

	if frame.Dirty && h.onFrame != nil {
		h.onFrame(frame)
	}
	if soundActive != wasSoundActive && h.onSound != nil {
		h.onSound(soundActive)
	}
}

// RunThreaded is the three-goroutine variant spec allows as an
// alternative to the cooperative single loop in Run: an instruction
// goroutine, a timer goroutine, and a render-publish goroutine, all
// serialized behind h.mu so no instruction ever observes a torn state.
// It runs until ctx is cancelled or one goroutine returns an error.
func (h *Harness) RunThreaded(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	instrPeriod := time.Duration(float64(time.Second) / (float64(h.cfg.CPUHz) * h.cfg.SpeedMultiplier))
	framePeriod := time.Second / time.Duration(h.cfg.FrameRate)

	g.Go(func() error {
		ticker := time.NewTicker(instrPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				h.mu.Lock()
				if !h.paused {
					h.vm.Step()
				}
				h.mu.Unlock()
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(framePeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				h.mu.Lock()
				h.vm.TickTimers()
				h.mu.Unlock()
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(framePeriod)
		defer ticker.Stop()
		wasSoundActive := false
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				h.mu.Lock()
				frame := h.vm.FramebufferSnapshot()
				soundActive := h.vm.SoundActive()
				h.mu.Unlock()

				if frame.Dirty && h.onFrame != nil {
					h.onFrame(frame)
				}
				if soundActive != wasSoundActive && h.onSound != nil {
					h.onSound(soundActive)
				}
				wasSoundActive = soundActive
			}
		}
	})

	return g.Wait()
}
