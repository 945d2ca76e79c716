package chip8

import "encoding/binary"

// snapshotSize is the exact byte length of the encoding below: memory
// (4096) + 16 v registers + i (2) + pc (2) + 16 stack slots (32) + sp (1)
// + delay/sound timers (2) + hires flag (1) + 8 rpl flags + framebuffer
// packed 1bpp (128*64/8 = 1024) + key-wait tag (1) + key-wait register (1).
const snapshotSize = MemSizeBytes + 16 + 2 + 2 + StackMaxSize*2 + 1 + 2 + 1 + RplFlagsSize + (FramebufferWidth*FramebufferHeight)/8 + 1 + 1

// GetState serializes every piece of mutable machine state into an
// opaque byte string, in the field order documented in the package's
// host-facing contract. The encoding is canonical to this package; it is
// not meant to interoperate with any other CHIP-8 implementation's save
// format.
func (c *Chip8) GetState() []byte {
	buf := make([]byte, 0, snapshotSize)

	buf = append(buf, c.memory[:]...)
	buf = append(buf, c.v[:]...)
	buf = appendU16(buf, c.i)
	buf = appendU16(buf, c.pc)
	for _, addr := range c.stack {
		buf = appendU16(buf, addr)
	}
	buf = append(buf, c.sp, c.delayTimer, c.soundTimer, boolToFlag(c.hiresMode))
	buf = append(buf, c.rplFlags[:]...)
	buf = append(buf, c.packFramebuffer()...)

	if _, waiting := c.WaitingForKey(); waiting {
		buf = append(buf, 1, c.waiting.register)
	} else {
		buf = append(buf, 0, 0)
	}

	return buf
}

// SetState restores machine state from a byte string produced by
// GetState. On a malformed snapshot it returns an error and leaves the
// machine's state exactly as it was before the call.
func (c *Chip8) SetState(data []byte) error {
	if len(data) != snapshotSize {
		return &BadSnapshotError{Reason: "wrong length"}
	}

	var next Chip8
	next.quirks = c.quirks
	next.romName = c.romName

	off := 0
	copy(next.memory[:], data[off:off+MemSizeBytes])
	off += MemSizeBytes

	copy(next.v[:], data[off:off+16])
	off += 16

	next.i = readU16(data[off:])
	off += 2
	next.pc = readU16(data[off:])
	off += 2

	for k := range next.stack {
		next.stack[k] = readU16(data[off:])
		off += 2
	}

	next.sp = data[off]
	off++
	if next.sp > StackMaxSize {
		return &BadSnapshotError{Reason: "stack pointer out of range"}
	}

	next.delayTimer = data[off]
	off++
	next.soundTimer = data[off]
	off++

	next.hiresMode = data[off] != 0
	off++

	copy(next.rplFlags[:], data[off:off+RplFlagsSize])
	off += RplFlagsSize

	fbBytes := (FramebufferWidth * FramebufferHeight) / 8
	next.unpackFramebuffer(data[off : off+fbBytes])
	off += fbBytes

	waitingTag := data[off]
	off++
	waitingReg := data[off]
	off++
	if waitingTag != 0 && waitingTag != 1 {
		return &BadSnapshotError{Reason: "bad key-wait tag"}
	}
	if waitingReg >= 16 {
		return &BadSnapshotError{Reason: "key-wait register out of range"}
	}
	next.waiting = keyWait{register: waitingReg, pending: waitingTag == 1}

	next.drawDirty = true
	*c = next

	return nil
}

// packFramebuffer serializes the full 128x64 plane MSB-first, row-major,
// regardless of the active viewport — restoring a snapshot taken in
// high-res mode and then switching back to low-res should not lose the
// off-viewport rows if PreserveOnModeSwitch is in effect.
func (c *Chip8) packFramebuffer() []byte {
	out := make([]byte, (FramebufferWidth*FramebufferHeight)/8)
	for row := 0; row < FramebufferHeight; row++ {
		for col := 0; col < FramebufferWidth; col++ {
			if !c.framebuffer[row][col] {
				continue
			}
			bitIndex := row*FramebufferWidth + col
			out[bitIndex/8] |= 0x80 >> (bitIndex % 8)
		}
	}
	return out
}

func (c *Chip8) unpackFramebuffer(packed []byte) {
	for row := 0; row < FramebufferHeight; row++ {
		for col := 0; col < FramebufferWidth; col++ {
			bitIndex := row*FramebufferWidth + col
			bit := packed[bitIndex/8] & (0x80 >> (bitIndex % 8))
			c.framebuffer[row][col] = bit != 0
		}
	}
}

func appendU16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func readU16(data []byte) uint16 {
	return binary.LittleEndian.Uint16(data[:2])
}
