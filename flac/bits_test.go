package flac

import (
	"errors"
	"testing"
)

func TestSignExtend(t *testing.T) {
	tests := []struct {
		x    uint32
		n    uint
		want int32
	}{
		{0x1, 1, -1},
		{0x0, 1, 0},
		{0x7, 3, -1},
		{0x3, 3, 3},
		{0x4, 3, -4},
		{0xFF, 8, -1},
		{0x7F, 8, 127},
		{0x80, 8, -128},
		{0xFFFFFFFF, 32, -1},
		{0x12345678, 32, 0x12345678},
	}
	for _, tt := range tests {
		if got := signExtend(tt.x, tt.n); got != tt.want {
			t.Errorf("signExtend(%#x, %d) = %d, want %d", tt.x, tt.n, got, tt.want)
		}
	}
}

func TestSignExtendAllWidths(t *testing.T) {
	for n := uint(1); n <= 31; n++ {
		maxNeg := uint32(1) << (n - 1)
		got := signExtend(maxNeg, n)
		want := -int32(maxNeg)
		if got != want {
			t.Errorf("signExtend(%#x, %d) = %d, want %d", maxNeg, n, got, want)
		}
	}
}

func TestCursorReadUint(t *testing.T) {
	c := newCursor([]byte{0b10110100, 0b11001010})
	v, err := c.readUint(4)
	if err != nil || v != 0b1011 {
		t.Fatalf("readUint(4) = %d, %v; want 0b1011, nil", v, err)
	}
	v, err = c.readUint(8)
	if err != nil || v != 0b01001100 {
		t.Fatalf("readUint(8) = %#b, %v; want 0b01001100, nil", v, err)
	}
	v, err = c.readUint(4)
	if err != nil || v != 0b1010 {
		t.Fatalf("readUint(4) = %#b, %v; want 0b1010, nil", v, err)
	}
}

func TestCursorReadUintShortBuffer(t *testing.T) {
	c := newCursor([]byte{0xFF})
	_, err := c.readUint(16)
	var sbe *shortBufferError
	if !errors.As(err, &sbe) {
		t.Fatalf("readUint(16) over 1 byte = %v, want a *shortBufferError", err)
	}
	if sbe.need != 1 {
		t.Errorf("shortBufferError.need = %d, want 1", sbe.need)
	}
}

func TestCursorReadUnary(t *testing.T) {
	c := newCursor([]byte{0b00001000})
	v, err := c.readUnary()
	if err != nil || v != 4 {
		t.Fatalf("readUnary() = %d, %v; want 4, nil", v, err)
	}
}

func TestCursorReadUnarySpansBytes(t *testing.T) {
	c := newCursor([]byte{0x00, 0x00, 0b00000001})
	v, err := c.readUnary()
	if err != nil || v != 23 {
		t.Fatalf("readUnary() across bytes = %d, %v; want 23, nil", v, err)
	}
}

func TestCursorAlignByte(t *testing.T) {
	c := newCursor([]byte{0xFF, 0x00})
	if _, err := c.readUint(3); err != nil {
		t.Fatal(err)
	}
	skipped, n, err := c.alignByte()
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("alignByte() nskipped = %d, want 5", n)
	}
	if skipped != 0b11111 {
		t.Errorf("alignByte() skipped = %#b, want 0b11111", skipped)
	}
	if !c.aligned() {
		t.Error("cursor should be byte-aligned after alignByte")
	}
}

func TestAssembleBE(t *testing.T) {
	if got := assembleBE([]byte{0x01, 0x02, 0x03}); got != 0x010203 {
		t.Errorf("assembleBE = %#x, want 0x010203", got)
	}
}
