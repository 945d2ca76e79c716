package chip8

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newLoaded(t *testing.T, program []byte) *Chip8 {
	t.Helper()
	c := New()
	require.NoError(t, c.LoadROM(program, "test.ch8"))
	return c
}

func TestAddRegisters8XY4(t *testing.T) {
	t.Parallel()

	t.Run("no overflow", func(t *testing.T) {
		c := newLoaded(t, []byte{
			0x60, 0x05, // v0 = 5
			0x61, 0x07, // v1 = 7
			0x80, 0x14, // v0 += v1
		})
		for i := 0; i < 3; i++ {
			require.True(t, c.Step())
		}
		require.EqualValues(t, 0x0C, c.v[0])
		require.EqualValues(t, 0x07, c.v[1])
		require.EqualValues(t, 0, c.v[0xF])
	})

	t.Run("overflow sets VF", func(t *testing.T) {
		c := newLoaded(t, []byte{
			0x60, 0xFF,
			0x61, 0x01,
			0x80, 0x14,
		})
		for i := 0; i < 3; i++ {
			require.True(t, c.Step())
		}
		require.EqualValues(t, 0x00, c.v[0])
		require.EqualValues(t, 1, c.v[0xF])
	})
}

func Test7XNNWrapsWithoutTouchingVF(t *testing.T) {
	c := newLoaded(t, []byte{
		0x60, 0xFF,
		0x7F, 0x01, // v[0xF] += 1, must not be treated specially
		0x70, 0x01, // v0 += 1 -> wraps to 0x00
	})
	c.v[0xF] = 0x42
	require.True(t, c.Step())
	require.True(t, c.Step())
	require.EqualValues(t, 0x43, c.v[0xF]) // 0x7XNN on VF itself just adds normally
	require.True(t, c.Step())
	require.EqualValues(t, 0x00, c.v[0])
	require.EqualValues(t, 0x43, c.v[0xF]) // unaffected by the v0 wrap
}

func Test8XY5Borrow(t *testing.T) {
	c := newLoaded(t, []byte{
		0x60, 0x00, // v0 = 0
		0x61, 0x01, // v1 = 1
		0x80, 0x15, // v0 -= v1
	})
	for i := 0; i < 3; i++ {
		require.True(t, c.Step())
	}
	require.EqualValues(t, 0xFF, c.v[0])
	require.EqualValues(t, 0, c.v[0xF]) // borrow occurred
}

func TestCallAndReturn(t *testing.T) {
	// 0x200: CALL 0x204
	// 0x202: JP 0x204     (reached on the third step, after RET)
	// 0x204: RET
	c := newLoaded(t, []byte{
		0x22, 0x04,
		0x12, 0x04,
		0x00, 0xEE,
	})

	require.True(t, c.Step()) // CALL -> pc=0x204, sp=1
	require.EqualValues(t, 0x204, c.pc)
	require.EqualValues(t, 1, c.sp)

	require.True(t, c.Step()) // RET -> pc=0x202 (instruction after CALL), sp=0
	require.EqualValues(t, 0x202, c.pc)
	require.EqualValues(t, 0, c.sp)

	require.True(t, c.Step()) // JP 0x204
	require.EqualValues(t, 0x204, c.pc)
	require.EqualValues(t, 0, c.sp)
}

func TestStackOverflowHalts(t *testing.T) {
	c := New()
	program := make([]byte, 0)
	for i := 0; i < StackMaxSize+1; i++ {
		program = append(program, 0x22, 0x00) // CALL self
	}
	require.NoError(t, c.LoadROM(program, ""))

	for i := 0; i < StackMaxSize; i++ {
		require.True(t, c.Step())
		require.False(t, c.Halted())
	}

	require.True(t, c.Step())
	require.True(t, c.Halted())
	require.Error(t, c.HaltReason())
	require.False(t, c.Step()) // no-op once halted
}

func TestReturnUnderflowHalts(t *testing.T) {
	c := newLoaded(t, []byte{0x00, 0xEE})
	require.True(t, c.Step())
	require.True(t, c.Halted())
	var target *StackUnderflowError
	require.ErrorAs(t, c.HaltReason(), &target)
}

func TestDrawGlyphAndCollision(t *testing.T) {
	c := New()
	// A2 10  60 00  61 00  D0 15  12 08   (with "0" glyph stored at I=0x210)
	program := []byte{
		0xA2, 0x10,
		0x60, 0x00,
		0x61, 0x00,
		0xD0, 0x15,
		0x12, 0x08,
	}
	require.NoError(t, c.LoadROM(program, ""))
	copy(c.memory[0x210:], []byte{0xF0, 0x90, 0x90, 0x90, 0xF0})

	for i := 0; i < 4; i++ {
		require.True(t, c.Step())
	}

	require.EqualValues(t, 0, c.v[0xF])
	frame := c.FramebufferSnapshot()
	require.True(t, frame.Dirty)
	require.Equal(t, byte(1), frame.Bits[0*frame.Width+0])
	require.Equal(t, byte(1), frame.Bits[0*frame.Width+1])
	require.Equal(t, byte(1), frame.Bits[0*frame.Width+2])
	require.Equal(t, byte(1), frame.Bits[0*frame.Width+3])
	require.Equal(t, byte(0), frame.Bits[1*frame.Width+1])

	// drawing the same glyph again must erase it and flag collision.
	c.TickTimers()           // release the display_wait stall left by the first DXYN
	c.pc = 0x206             // DXYN instruction, rather than stepping through the JP self-loop at 0x208
	require.True(t, c.Step())
	require.EqualValues(t, 1, c.v[0xF])
	frame2 := c.FramebufferSnapshot()
	require.Equal(t, byte(0), frame2.Bits[0])
}

func TestTimersDecrementAt60Hz(t *testing.T) {
	c := newLoaded(t, []byte{
		0x60, 0x0A, // v0 = 10
		0xF0, 0x15, // delay = v0
	})
	require.True(t, c.Step())
	require.True(t, c.Step())
	require.EqualValues(t, 10, c.DelayTimer())

	for i := 0; i < 10; i++ {
		c.TickTimers()
	}
	require.EqualValues(t, 0, c.DelayTimer())
}

func TestKeyWaitBlocksStepUntilPress(t *testing.T) {
	c := newLoaded(t, []byte{
		0xF0, 0x0A, // v0 = wait for key
		0x60, 0xAA,
	})
	require.True(t, c.Step())
	reg, waiting := c.WaitingForKey()
	require.True(t, waiting)
	require.EqualValues(t, 0, reg)

	require.False(t, c.Step()) // still blocked, no key pressed

	c.Press(0x7)
	require.EqualValues(t, 0x7, c.v[0])
	_, waiting = c.WaitingForKey()
	require.False(t, waiting)
	require.EqualValues(t, 0x202, c.pc)

	require.True(t, c.Step())
	require.EqualValues(t, 0xAA, c.v[0])
}

func TestPressReleaseWithNoStepLeavesKeysUnchanged(t *testing.T) {
	c := New()
	before := c.keys
	c.Press(0x3)
	c.Release(0x3)
	require.Equal(t, before, c.keys)
}

func TestKeyWaitOnlyFiresOnPressEdge(t *testing.T) {
	c := newLoaded(t, []byte{0xF0, 0x0A})
	require.True(t, c.Step())

	c.Press(0x1) // satisfies the wait
	_, waiting := c.WaitingForKey()
	require.False(t, waiting)

	c.Release(0x1)
	c.Press(0x1) // re-press with no new key-wait pending: should be a no-op
	require.EqualValues(t, 0x1, c.v[0])
}

func TestDrawClippingVsWrap(t *testing.T) {
	// v0 = 63, v1 = 31 in lo-res, n = 1: draw at the bottom-right corner.
	program := []byte{
		0x60, 63,
		0x61, 31,
		0xD0, 0x11,
	}

	t.Run("clipping stops at the edge", func(t *testing.T) {
		c := newLoaded(t, program)
		c.SetQuirks(QuirksCosmac) // Clipping: true
		copy(c.memory[0:], []byte{0xFF})
		for i := 0; i < 3; i++ {
			require.True(t, c.Step())
		}
		require.True(t, c.PixelAt(63, 31))
		require.False(t, c.PixelAt(0, 31)) // would have wrapped here if not clipped
	})

	t.Run("no clipping wraps", func(t *testing.T) {
		c := newLoaded(t, program)
		q := QuirksCosmac
		q.Clipping = false
		c.SetQuirks(q)
		copy(c.memory[0:], []byte{0xFF})
		for i := 0; i < 3; i++ {
			require.True(t, c.Step())
		}
		require.True(t, c.PixelAt(63, 31))
		require.True(t, c.PixelAt(0, 31))
	})
}

func TestUnknownOpcodeIsSoftError(t *testing.T) {
	c := newLoaded(t, []byte{0x5A, 0xB1}) // n=1, undefined for 5XY?
	pcBefore := c.pc
	require.True(t, c.Step())
	require.False(t, c.Halted())
	require.EqualValues(t, pcBefore+2, c.pc)
}

func TestResetClearsEverythingButRPLFlags(t *testing.T) {
	c := newLoaded(t, []byte{0x60, 0x09, 0xF0, 0x75}) // v0=9, save RPL[0]=9
	require.True(t, c.Step())
	require.True(t, c.Step())
	require.EqualValues(t, 9, c.rplFlags[0])

	c.Reset()
	require.EqualValues(t, 9, c.rplFlags[0])
	require.EqualValues(t, 0, c.v[0])
	require.EqualValues(t, EntryPoint, c.pc)
}

func TestLoadROMRejectsOversizedImage(t *testing.T) {
	c := New()
	huge := make([]byte, RomMaxSizeBytes+1)
	err := c.LoadROM(huge, "huge.ch8")
	require.Error(t, err)
	var target *RomTooLargeError
	require.ErrorAs(t, err, &target)
}
