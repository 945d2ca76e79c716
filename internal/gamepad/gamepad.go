// Package gamepad polls connected joysticks and maps buttons onto the
// CHIP-8 16-key hex pad, mirroring the background controller poll loop
// of the Tk-based reference implementation this system was distilled
// from. It is a best-effort external collaborator: a ROM must be fully
// playable from the keyboard alone, and a disconnect here must never
// propagate as an error into the scheduler.
package gamepad

import "github.com/hajimehoshi/ebiten/v2"

// ButtonMap assigns one hex key to each of up to 16 gamepad buttons, by
// button index. A button with no entry is ignored.
type ButtonMap map[ebiten.GamepadButton]uint8

// DefaultButtonMap mirrors a typical SNES-style pad: the four face
// buttons cover the most commonly used CHIP-8 keys. The D-pad is not
// mapped.
func DefaultButtonMap() ButtonMap {
	return ButtonMap{
		ebiten.GamepadButton0: 0x5, // A/south -> 5 (common "select")
		ebiten.GamepadButton1: 0x6, // B/east
		ebiten.GamepadButton2: 0x8, // X/west
		ebiten.GamepadButton3: 0x7, // Y/north
	}
}

// Poller tracks gamepad button state across frames and reports
// transitions so a host can forward them to (*chip8.Chip8).Press /
// Release, or to a scheduler.Harness, exactly like a keyboard event.
type Poller struct {
	buttons ButtonMap
	held    map[uint8]bool
}

// New returns a Poller using the given button map. A nil map falls back
// to DefaultButtonMap.
func New(buttons ButtonMap) *Poller {
	if buttons == nil {
		buttons = DefaultButtonMap()
	}
	return &Poller{buttons: buttons, held: make(map[uint8]bool)}
}

// Transition is one edge-triggered button event: Pressed is true on a
// down transition, false on an up transition.
type Transition struct {
	Key     uint8
	Pressed bool
}

// Poll inspects every connected gamepad and returns the key transitions
// since the last call. A connection loss simply yields "release" events
// for any key that was held — it never panics or returns an error.
func (p *Poller) Poll() []Transition {
	var transitions []Transition

	nowHeld := make(map[uint8]bool)
	var ids []ebiten.GamepadID
	ids = ebiten.AppendGamepadIDs(ids)

	for _, id := range ids {
		for button, key := range p.buttons {
			if ebiten.IsGamepadButtonPressed(id, button) {
				nowHeld[key] = true
			}
		}
	}

	for key := range nowHeld {
		if !p.held[key] {
			transitions = append(transitions, Transition{Key: key, Pressed: true})
		}
	}
	for key := range p.held {
		if !nowHeld[key] {
			transitions = append(transitions, Transition{Key: key, Pressed: false})
		}
	}

	p.held = nowHeld

	return transitions
}
