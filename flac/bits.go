package flac

// Bit/byte utilities shared by the frame, subframe, and metadata parsers:
// big-endian integer assembly, two's-complement sign extension, and an
// unary ("leading zeros") bit reader layered over a byte cursor.

// assembleBE builds an unsigned integer from 1..4 contiguous bytes,
// most-significant byte first. Passing more than 4 bytes is a programming
// error, not a data error, and panics.
func assembleBE(b []byte) uint32 {
	if len(b) == 0 || len(b) > 4 {
		panic("flac: assembleBE: length must be between 1 and 4")
	}
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

// signExtend interprets x as a two's-complement integer of width n (1..32)
// and widens it to a signed 32-bit value. For n >= 32, x passes through
// unchanged (reinterpreted as signed).
func signExtend(x uint32, n uint) int32 {
	if n >= 32 {
		return int32(x)
	}
	if x&(1<<(n-1)) == 0 {
		return int32(x)
	}
	return int32(x) - int32(1<<n)
}

// cursor is a bit-level read cursor over a byte slice, used across a whole
// frame body so that byte-aligned steps (the frame footer) can resume
// cleanly. It never blocks and never mutates its backing slice; running out
// of bits returns errShortBuffer-wrapping error instead of panicking, which
// is how the streaming driver's Incomplete signal is realized at the
// lowest level (see flac/buffer.go and flac/stream.go).
type cursor struct {
	buf    []byte
	bitPos int // absolute bit offset from buf[0], MSB-first within each byte
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// bitsLeft returns the number of unread bits currently buffered.
func (c *cursor) bitsLeft() int {
	return len(c.buf)*8 - c.bitPos
}

// bytePos returns the current byte offset; valid only when byte-aligned.
func (c *cursor) bytePos() int {
	return c.bitPos / 8
}

// aligned reports whether the cursor sits on a byte boundary.
func (c *cursor) aligned() bool {
	return c.bitPos%8 == 0
}

// readUint reads the next n bits (0 <= n <= 32) as an unsigned value,
// most-significant bit first.
func (c *cursor) readUint(n uint8) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if int(n) > c.bitsLeft() {
		needBits := int(n) - c.bitsLeft()
		needByteCount := (needBits + 7) / 8
		return 0, needBytes(needByteCount)
	}
	var v uint32
	remaining := int(n)
	for remaining > 0 {
		byteIdx := c.bitPos / 8
		bitOff := uint(c.bitPos % 8)
		bitsInByte := 8 - bitOff
		take := uint(remaining)
		if take > bitsInByte {
			take = bitsInByte
		}
		shift := bitsInByte - take
		mask := byte((1 << take) - 1)
		bits := (c.buf[byteIdx] >> shift) & mask
		v = v<<take | uint32(bits)
		c.bitPos += int(take)
		remaining -= int(take)
	}
	return v, nil
}

// readInt reads the next n bits and sign-extends them to a signed 32-bit
// value, per the two's-complement convention used throughout FLAC.
func (c *cursor) readInt(n uint8) (int32, error) {
	x, err := c.readUint(n)
	if err != nil {
		return 0, err
	}
	return signExtend(x, uint(n)), nil
}

// readUnary counts leading zero bits up to and including the terminating 1
// bit, returning the count of zeros (not counting the 1). It spans byte
// boundaries freely. If the buffer is exhausted while still inside a run of
// zeros, it reports Incomplete rather than guessing a count.
func (c *cursor) readUnary() (uint32, error) {
	var count uint32
	for {
		if c.bitsLeft() <= 0 {
			return 0, needBytes(1)
		}
		byteIdx := c.bitPos / 8
		bitOff := uint(c.bitPos % 8)
		b := c.buf[byteIdx]
		for bitOff < 8 {
			bit := (b >> (7 - bitOff)) & 1
			c.bitPos++
			bitOff++
			if bit == 1 {
				return count, nil
			}
			count++
		}
	}
}

// alignByte advances the cursor to the next byte boundary, returning the
// skipped bits (most-significant-bit first within the remainder of the
// current byte) so a caller can verify a required-zero pad, as in the frame
// footer.
func (c *cursor) alignByte() (skipped byte, nskipped uint, err error) {
	if c.aligned() {
		return 0, 0, nil
	}
	bitOff := uint(c.bitPos % 8)
	nskipped = 8 - bitOff
	skipped, err = func() (byte, error) {
		v, err := c.readUint(uint8(nskipped))
		return byte(v), err
	}()
	return skipped, nskipped, err
}
