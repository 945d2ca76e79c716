// Package renderer is an ebiten-backed pixel renderer over a
// chip8.Chip8's active viewport. It is a thin adapter: all emulation
// cadence lives in internal/scheduler, all machine semantics live in
// internal/chip8. This package only turns a frame snapshot into pixels
// and keyboard/gamepad events into Press/Release calls.
package renderer

import (
	"encoding/hex"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/corvid-systems/chip8vm/internal/beep"
	"github.com/corvid-systems/chip8vm/internal/chip8"
	"github.com/corvid-systems/chip8vm/internal/gamepad"
	"github.com/corvid-systems/chip8vm/internal/scheduler"
)

// ====================
// keyboard key mapping
// ====================
//
//	1 2 3 C  -> 1 2 3 4
//	4 5 6 D  -> Q W E R
//	7 8 9 E  -> A S D F
//	A 0 B F  -> Z X C V
var keyboardMapping = map[uint8]ebiten.Key{
	0x1: ebiten.Key1, 0x2: ebiten.Key2, 0x3: ebiten.Key3, 0xC: ebiten.Key4,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE, 0xD: ebiten.KeyR,
	0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD, 0xE: ebiten.KeyF,
	0xA: ebiten.KeyZ, 0x0: ebiten.KeyX, 0xB: ebiten.KeyC, 0xF: ebiten.KeyV,
}

// Config holds the cosmetic knobs a host exposes through flags or a
// config.Settings value.
type Config struct {
	FgColor    color.Color
	BgColor    color.Color
	PixelScale int
}

// Renderer drives one ebiten window over a scheduler.Harness. It
// implements ebiten.Game.
type Renderer struct {
	vm      *chip8.Chip8
	harness *scheduler.Harness
	beeper  *beep.Beep
	pad     *gamepad.Poller

	fgColor    color.Color
	bgColor    color.Color
	pixelScale int
	paused     bool

	romName string
}

// New builds a Renderer around an already-configured harness. beeper may
// be nil if audio failed to initialize — sound is then silently
// skipped, never fatal.
func New(vm *chip8.Chip8, harness *scheduler.Harness, beeper *beep.Beep, romName string, conf Config) *Renderer {
	if conf.PixelScale <= 0 {
		conf.PixelScale = 10
	}

	r := &Renderer{
		vm:         vm,
		harness:    harness,
		beeper:     beeper,
		pad:        gamepad.New(nil),
		fgColor:    conf.FgColor,
		bgColor:    conf.BgColor,
		pixelScale: conf.PixelScale,
		romName:    romName,
	}

	harness.OnSoundChange(func(active bool) {
		if beeper == nil {
			return
		}
		if active {
			beeper.Play()
		}
	})

	return r
}

// Update is ebiten's per-frame callback. It forwards keyboard and
// gamepad input, then lets the harness run exactly one frame's worth of
// cycles, timer tick, and frame publish.
func (r *Renderer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		r.togglePause()
	}

	for key, ebitenKey := range keyboardMapping {
		if inpututil.IsKeyJustPressed(ebitenKey) {
			r.harness.Press(key)
		}
		if inpututil.IsKeyJustReleased(ebitenKey) {
			r.harness.Release(key)
		}
	}

	for _, t := range r.pad.Poll() {
		if t.Pressed {
			r.harness.Press(t.Key)
		} else {
			r.harness.Release(t.Key)
		}
	}

	r.harness.Tick()

	return nil
}

func (r *Renderer) togglePause() {
	r.paused = !r.paused
	r.harness.SetPaused(r.paused)
	r.setWindowTitle()
}

// Draw paints the active viewport, scaled by pixelScale.
func (r *Renderer) Draw(screen *ebiten.Image) {
	width, height := r.vm.ActiveViewport()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixelColor := r.bgColor
			if r.vm.PixelAt(x, y) {
				pixelColor = r.fgColor
			}
			vector.DrawFilledRect(screen,
				float32(x*r.pixelScale),
				float32(y*r.pixelScale),
				float32(r.pixelScale),
				float32(r.pixelScale),
				pixelColor, false,
			)
		}
	}
}

// Layout reports the window size in pixels for the active viewport at
// pixelScale. ebiten calls this every frame, so it must reflect a
// runtime mode switch (lo-res <-> hi-res) immediately.
func (r *Renderer) Layout(int, int) (int, int) {
	width, height := r.vm.ActiveViewport()
	return width * r.pixelScale, height * r.pixelScale
}

// Run starts the ebiten event loop. It blocks until the window is closed
// or Update returns ebiten.Termination.
func (r *Renderer) Run() error {
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	r.setWindowTitle()

	if err := ebiten.RunGame(r); err != nil {
		return fmt.Errorf("run renderer: %w", err)
	}
	return nil
}

func (r *Renderer) setWindowTitle() {
	ebiten.SetWindowTitle(fmt.Sprintf("chip8vm: %s (%s)", r.romName, r.vm.State()))
}

// DecodeColorFromHex parses an RRGGBB or RRGGBBAA hex string into a
// color.Color, for CLI flags and config.Settings fields.
func DecodeColorFromHex(s string) (color.Color, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode a hex string: %w", err)
	}
	if len(data) != 3 && len(data) != 4 {
		return nil, fmt.Errorf("color must be in rgb or rgba format")
	}

	c := color.RGBA{R: data[0], G: data[1], B: data[2], A: 0xff}
	if len(data) == 4 {
		c.A = data[3]
	}

	return c, nil
}

// MustDecodeColorFromHex is DecodeColorFromHex for callers constructing
// package-level defaults, where a bad literal is a programmer error.
func MustDecodeColorFromHex(s string) color.Color {
	c, err := DecodeColorFromHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
