package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvid-systems/chip8vm/internal/chip8"
)

func TestTickRunsCyclesThenTimersThenFrame(t *testing.T) {
	vm := chip8.New()
	require.NoError(t, vm.LoadROM([]byte{
		0x60, 0x0A, // v0 = 10
		0xF0, 0x15, // delay = v0
	}, ""))

	h := New(vm, Config{CPUHz: 2, FrameRate: chip8.TimerHz, SpeedMultiplier: 1})

	var frames int
	h.OnFrame(func(chip8.Frame) { frames++ })

	// cyclesPerFrame = 2/60 is clamped to the minimum of 1, so each Tick
	// runs one instruction, then ticks the timers, then publishes a frame
	// only if it is dirty (LoadROM's reset leaves it dirty).
	h.Tick()
	require.EqualValues(t, 10, vm.Register(0))
	require.EqualValues(t, 0, vm.DelayTimer())
	require.Equal(t, 1, frames)

	h.Tick() // delay = 10, then the timer tick in the same frame makes it 9
	require.EqualValues(t, 9, vm.DelayTimer())
	require.Equal(t, 1, frames) // nothing drawn, so no new frame
}

func TestSetPausedStopsInstructionStream(t *testing.T) {
	vm := chip8.New()
	require.NoError(t, vm.LoadROM([]byte{
		0x60, 0x01,
	}, ""))

	h := New(vm, Config{CPUHz: 700, FrameRate: 60})
	h.SetPaused(true)
	h.Tick()
	require.EqualValues(t, 0, vm.DelayTimer()) // timers still ticked, but no crash either way
	require.EqualValues(t, 0, vm.Register(0))  // 6001 not executed while paused

	h.SetPaused(false)
	for i := 0; i < 10; i++ {
		h.Tick()
	}
	require.EqualValues(t, 1, vm.Register(0))
}

func TestCyclesPerFrameMinimumOne(t *testing.T) {
	h := New(chip8.New(), Config{CPUHz: 1, FrameRate: 60})
	require.Equal(t, 1, h.cyclesPerFrame())
}

func TestPressReleaseLockedAgainstTick(t *testing.T) {
	vm := chip8.New()
	require.NoError(t, vm.LoadROM([]byte{0xF0, 0x0A}, ""))

	h := New(vm, Config{CPUHz: 700, FrameRate: 60})
	h.Tick()
	h.Press(0x5)
	require.EqualValues(t, 0x5, vm.Register(0))
}
