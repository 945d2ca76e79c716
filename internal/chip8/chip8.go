// Package chip8 implements a cycle-accurate CHIP-8 / SUPER-CHIP / XO-CHIP
// virtual machine: memory, registers, the instruction decoder, the
// framebuffer blitter, the timer domain, and the input latch used for
// blocking key-wait. The package has no I/O: a host drives it through
// Step, TickTimers, Press/Release and reads frames through
// FramebufferSnapshot.
package chip8

import (
	v2 "math/rand/v2"
)

const (
	MemSizeBytes = 0x1000 // 4096
	EntryPoint   = 0x200  // 512

	// 0x000-0x1FF is reserved for the interpreter on real hardware; ROMs
	// are loaded starting at EntryPoint.
	//
	// see http://devernay.free.fr/hacks/chip8/C8TECH10.HTM#2.1
	RomMaxSizeBytes = MemSizeBytes - EntryPoint

	// The logical framebuffer is always 128x64; the active viewport is
	// either the low-res 64x32 window or the full high-res plane.
	FramebufferWidth  = 128
	FramebufferHeight = 64

	LoResWidth  = 64
	LoResHeight = 32
	HiResWidth  = 128
	HiResHeight = 64

	KeyPadSize = 0x10

	// Ticks per second for both the delay and sound timers.
	//
	// see http://devernay.free.fr/hacks/chip8/C8TECH10.HTM#2.5
	TimerHz = 60

	StackMaxSize = 16

	FontStart     = 0x050
	HiResFontStart = 0x0A0

	RplFlagsSize = 8
)

// State reports the coarse run state of a Chip8 for hosts that want to
// surface it (window titles, status lines) without inspecting internals.
type State int

const (
	StateRunning State = iota
	StateBlockedOnKey
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateBlockedOnKey:
		return "waiting for key"
	case StateHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// keyWait describes a pending FX0A: the machine is suspended until a key
// press arrives, at which point it is written into register.
type keyWait struct {
	register uint8
	pending  bool
}

// Chip8 is a single virtual machine instance. It owns all of its mutable
// state; nothing here is safe for concurrent use without an external lock
// (see internal/scheduler).
type Chip8 struct {
	memory [MemSizeBytes]byte

	romName string

	v [16]uint8
	i uint16
	pc uint16

	stack [StackMaxSize]uint16
	sp    uint8

	delayTimer uint8
	soundTimer uint8

	framebuffer [FramebufferHeight][FramebufferWidth]bool
	hiresMode   bool
	drawDirty   bool

	keys    uint16
	waiting keyWait

	// displayWaitPending implements the display_wait quirk: when set, a
	// DXYN just ran and the machine is suspended (like a real COSMAC VIP
	// waiting on the display interrupt) until the next timer tick, i.e.
	// the next frame boundary. Modeled at frame granularity, not
	// per-scanline, per the package's stated scope.
	displayWaitPending bool

	rplFlags [RplFlagsSize]uint8

	halted     bool
	haltReason error

	quirks Quirks
}

// New returns a machine at power-on with the default COSMAC VIP quirks
// profile. Call SetQuirks to switch dialects before loading a ROM.
func New() *Chip8 {
	c := &Chip8{quirks: QuirksCosmac}
	c.Reset()
	return c
}

// Reset restores power-on state: memory, registers, stack, timers,
// framebuffer, keys, key-wait, and halted are all cleared, and the fonts
// are installed. RPL flags are intentionally left untouched — they model
// SUPER-CHIP's persistent user flags, which survive a machine reset and
// are only cleared by process restart.
func (c *Chip8) Reset() {
	c.memory = [MemSizeBytes]byte{}
	copy(c.memory[FontStart:], lowResFont[:])
	copy(c.memory[HiResFontStart:], hiResFont[:])

	c.v = [16]uint8{}
	c.i = 0
	c.pc = EntryPoint

	c.stack = [StackMaxSize]uint16{}
	c.sp = 0

	c.delayTimer = 0
	c.soundTimer = 0

	c.framebuffer = [FramebufferHeight][FramebufferWidth]bool{}
	c.hiresMode = false
	c.drawDirty = true

	c.keys = 0
	c.waiting = keyWait{}
	c.displayWaitPending = false

	c.halted = false
	c.haltReason = nil
}

// SetQuirks installs a quirks profile. It does not reset the machine.
func (c *Chip8) SetQuirks(q Quirks) {
	c.quirks = q
}

// Quirks returns the quirks profile currently in effect.
func (c *Chip8) Quirks() Quirks {
	return c.quirks
}

// LoadROM resets the machine and copies data into memory starting at
// EntryPoint. It rejects ROMs that would not fit between EntryPoint and
// the end of memory at 0x1000, leaving the machine untouched.
func (c *Chip8) LoadROM(data []byte, name string) error {
	if len(data) > RomMaxSizeBytes {
		return &RomTooLargeError{Size: len(data), Max: RomMaxSizeBytes}
	}

	c.Reset()
	copy(c.memory[EntryPoint:], data)
	c.romName = name

	return nil
}

// RomName is cosmetic: whatever name LoadROM was given, usually a file's
// base name. Used for window titles and logs only.
func (c *Chip8) RomName() string {
	return c.romName
}

// State reports the coarse run state.
func (c *Chip8) State() State {
	switch {
	case c.halted:
		return StateHalted
	case c.waiting.pending:
		return StateBlockedOnKey
	default:
		return StateRunning
	}
}

// Halted reports whether the machine hit a hard fault or executed EXIT.
func (c *Chip8) Halted() bool {
	return c.halted
}

// HaltReason returns the error that caused a hard fault, or nil if the
// machine is not halted (or was halted by 00FD EXIT, which is not an
// error).
func (c *Chip8) HaltReason() error {
	return c.haltReason
}

// Register returns the current value of v[index]. index is masked to
// 0..15 so callers can't panic the machine by passing a bad register
// number.
func (c *Chip8) Register(index int) uint8 {
	return c.v[index&0x0F]
}

// IndexRegister returns the current value of the I register.
func (c *Chip8) IndexRegister() uint16 {
	return c.i
}

// ProgramCounter returns the current value of pc.
func (c *Chip8) ProgramCounter() uint16 {
	return c.pc
}

// ActiveViewport returns the currently addressable width and height:
// 64x32 in low-res, 128x64 in high-res.
func (c *Chip8) ActiveViewport() (width, height int) {
	if c.hiresMode {
		return HiResWidth, HiResHeight
	}
	return LoResWidth, LoResHeight
}

// HiResMode reports whether the machine is in SUPER-CHIP high-resolution
// mode.
func (c *Chip8) HiResMode() bool {
	return c.hiresMode
}

// Step fetches, decodes, and executes a single instruction if the machine
// is runnable. It reports whether an instruction was executed: false
// means the machine is halted, blocked on a pending key-wait, or stalled
// by the display_wait quirk until the next TickTimers call, in which
// case the caller should not expect pc to have advanced.
func (c *Chip8) Step() bool {
	if c.halted || c.waiting.pending || c.displayWaitPending {
		return false
	}

	if int(c.pc) >= MemSizeBytes-1 {
		c.fault(&PCOutOfRangeError{PC: c.pc})
		return false
	}

	op := uint16(c.memory[c.pc])<<8 | uint16(c.memory[c.pc+1])
	c.pc += 2
	c.execute(op)

	return true
}

// fault transitions the machine to halted with the given reason. Once
// halted, Step is a no-op until Reset or SetState clears it.
func (c *Chip8) fault(err error) {
	c.halted = true
	c.haltReason = err
}

func memAddr(addr uint16) int {
	return int(addr) % MemSizeBytes
}

// readByte and writeByte apply the out-of-range tolerance required by
// spec: an oversized I after FX1E/ANNN wrapping must not panic, so every
// memory access is modulo MemSizeBytes rather than a raw slice index.
func (c *Chip8) readByte(addr uint16) byte {
	return c.memory[memAddr(addr)]
}

func (c *Chip8) writeByte(addr uint16, v byte) {
	c.memory[memAddr(addr)] = v
}

func rand8() uint8 {
	return uint8(v2.IntN(0x100))
}
