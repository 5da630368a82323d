package flac

import (
	"encoding/binary"
	"errors"
	"testing"
)

func buildStreamInfoBody() []byte {
	body := make([]byte, 34)
	binary.BigEndian.PutUint16(body[0:2], 4096)
	binary.BigEndian.PutUint16(body[2:4], 4096)
	body[4], body[5], body[6] = 0x00, 0x10, 0x00 // min frame size
	body[7], body[8], body[9] = 0x00, 0x20, 0x00 // max frame size

	sampleRate := uint64(44100)
	channels := uint64(2 - 1)
	bps := uint64(16 - 1)
	totalSamples := uint64(123456)
	packed := sampleRate<<44 | channels<<41 | bps<<36 | totalSamples
	for i := 0; i < 8; i++ {
		body[10+i] = byte(packed >> uint(56-8*i))
	}
	for i := 0; i < 16; i++ {
		body[18+i] = byte(i)
	}
	return body
}

func TestParseStreamInfo(t *testing.T) {
	body := buildStreamInfoBody()
	si, err := parseStreamInfo(body)
	if err != nil {
		t.Fatalf("parseStreamInfo error: %v", err)
	}
	if si.MinBlockSize != 4096 || si.MaxBlockSize != 4096 {
		t.Errorf("block sizes = %d/%d, want 4096/4096", si.MinBlockSize, si.MaxBlockSize)
	}
	if si.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", si.SampleRate)
	}
	if si.Channels != 2 {
		t.Errorf("Channels = %d, want 2", si.Channels)
	}
	if si.BitsPerSample != 16 {
		t.Errorf("BitsPerSample = %d, want 16", si.BitsPerSample)
	}
	if si.TotalSamples != 123456 {
		t.Errorf("TotalSamples = %d, want 123456", si.TotalSamples)
	}
	for i := 0; i < 16; i++ {
		if si.MD5Sum[i] != byte(i) {
			t.Errorf("MD5Sum[%d] = %d, want %d", i, si.MD5Sum[i], i)
		}
	}
}

func TestParseStreamInfoBadLength(t *testing.T) {
	if _, err := parseStreamInfo(make([]byte, 10)); err == nil {
		t.Error("parseStreamInfo with short body should error")
	}
}

func TestVerifyPadding(t *testing.T) {
	if err := verifyPadding(make([]byte, 16)); err != nil {
		t.Errorf("all-zero padding should be valid, got %v", err)
	}
	bad := make([]byte, 16)
	bad[5] = 1
	if err := verifyPadding(bad); err != ErrBadPadding {
		t.Errorf("non-zero padding = %v, want ErrBadPadding", err)
	}
}

// leString builds a little-endian length-prefixed string, the encoding the
// Vorbis comment block uses for its vendor string and each comment line.
func leString(s string) []byte {
	buf := make([]byte, 4+len(s))
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(s)))
	copy(buf[4:], s)
	return buf
}

func TestParseVorbisComment(t *testing.T) {
	var body []byte
	body = append(body, leString("reference libFLAC 1.4.3")...)
	countBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(countBuf, 2)
	body = append(body, countBuf...)
	body = append(body, leString("ARTIST=Alice")...)
	body = append(body, leString("ARTIST=Bob")...)

	vc, err := parseVorbisComment(body)
	if err != nil {
		t.Fatalf("parseVorbisComment error: %v", err)
	}
	if vc.Vendor != "reference libFLAC 1.4.3" {
		t.Errorf("Vendor = %q", vc.Vendor)
	}
	if len(vc.Comments) != 2 {
		t.Fatalf("len(Comments) = %d, want 2", len(vc.Comments))
	}
	if vc.Comments[0].Name != "ARTIST" || vc.Comments[0].Value != "Alice" {
		t.Errorf("Comments[0] = %+v", vc.Comments[0])
	}
	if vc.Comments[1].Value != "Bob" {
		t.Errorf("second ARTIST entry lost: Comments[1] = %+v", vc.Comments[1])
	}
	if v, ok := vc.Get("artist"); !ok || v != "Alice" {
		t.Errorf("Get(\"artist\") = %q, %v, want Alice, true (case-insensitive, first match)", v, ok)
	}
}

func TestParseCueSheetRejectsReservedByte(t *testing.T) {
	body := make([]byte, cueSheetMediaCatalogLen+8+1+cueSheetReservedLen+1)
	off := cueSheetMediaCatalogLen + 8
	body[off] = 0 // flag byte, no reserved bits set
	body[off+1+5] = 0x01 // poison one reserved byte
	if _, err := parseCueSheet(body); !errors.Is(err, ErrBadCueSheet) {
		t.Errorf("parseCueSheet with poisoned reserved byte = %v, want ErrBadCueSheet", err)
	}
}

func TestParseCueSheetZeroTracks(t *testing.T) {
	body := make([]byte, cueSheetMediaCatalogLen+8+1+cueSheetReservedLen+1)
	cs, err := parseCueSheet(body)
	if err != nil {
		t.Fatalf("parseCueSheet error: %v", err)
	}
	if len(cs.Tracks) != 0 {
		t.Errorf("len(Tracks) = %d, want 0", len(cs.Tracks))
	}
}

func TestParseMetadataBlockDispatchesPadding(t *testing.T) {
	header := []byte{0x81, 0x00, 0x00, 0x04} // last block, type 1 (PADDING), length 4
	buf := append(append([]byte(nil), header...), make([]byte, 4)...)
	block, n, err := parseMetadataBlock(buf)
	if err != nil {
		t.Fatalf("parseMetadataBlock error: %v", err)
	}
	if n != len(buf) {
		t.Errorf("consumed = %d, want %d", n, len(buf))
	}
	if !block.IsLast || block.Type != BlockTypePadding || block.Padding == nil {
		t.Errorf("block = %+v, want IsLast padding block", block)
	}
}

func TestParseMetadataBlockIncomplete(t *testing.T) {
	header := []byte{0x81, 0x00, 0x00, 0x04}
	_, _, err := parseMetadataBlock(header) // body not yet present
	if _, ok := err.(*shortBufferError); !ok {
		t.Errorf("err = %v, want a *shortBufferError", err)
	}
}
