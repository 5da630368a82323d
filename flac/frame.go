package flac

import (
	"fmt"
	"log/slog"
)

// Frame is one decoded audio frame: blockSize samples across Channels
// channels, stored channel-major (all of channel 0, then channel 1, ...) in
// Samples, after decorrelation and wasted-bits restoration have already
// been applied.
type Frame struct {
	Header  FrameHeader
	Samples [][]int32 // one slice per channel, each of length Header.BlockSize
}

// parseFrame parses one complete frame (header, subframes, footer) out of
// buf, resolving any "use STREAMINFO value" escapes in the header against
// si. scratch, if non-nil and large enough, is reused as backing storage for
// Samples to avoid a per-frame allocation (spec §9's reuse guidance).
func parseFrame(buf []byte, si StreamInfo, scratch [][]int32) (*Frame, int, error) {
	header, headerLen, err := parseFrameHeader(buf)
	if err != nil {
		return nil, 0, err
	}
	if header.SampleRate == 0 {
		header.SampleRate = si.SampleRate
	}
	if header.BitsPerSample == 0 {
		header.BitsPerSample = si.BitsPerSample
	}

	blockSize := int(header.BlockSize)
	channels := int(header.Channels)

	samples := scratch
	if len(samples) < channels {
		samples = make([][]int32, channels)
	}
	for ch := 0; ch < channels; ch++ {
		if cap(samples[ch]) < blockSize {
			samples[ch] = make([]int32, blockSize)
		} else {
			samples[ch] = samples[ch][:blockSize]
		}
	}

	c := newCursor(buf[headerLen:])
	for ch := 0; ch < channels; ch++ {
		width := header.BitsPerSample
		if sideChannelIndex(header.ChannelAssignment, ch) {
			width++
		}
		if err := decodeSubframe(c, samples[ch], blockSize, width); err != nil {
			return nil, 0, err
		}
	}

	if header.ChannelAssignment != ChannelIndependent {
		undecorrelate(header.ChannelAssignment, samples[0], samples[1])
	}

	skipped, nskipped, err := c.alignByte()
	if err != nil {
		return nil, 0, err
	}
	if nskipped > 0 && skipped != 0 {
		return nil, 0, fmt.Errorf("flac: frame footer: non-zero padding bits")
	}

	footerStart := headerLen + c.bytePos()
	if c.bitsLeft() < 16 {
		return nil, 0, needBytes((16 - c.bitsLeft() + 7) / 8)
	}
	crcHi, _ := c.readUint(8)
	crcLo, _ := c.readUint(8)
	gotCRC := uint16(crcHi)<<8 | uint16(crcLo)

	total := headerLen + c.bytePos()
	wantCRC := crc16(buf[:footerStart])
	if gotCRC != wantCRC {
		slog.Debug("frame footer CRC-16 mismatch", "frame", header.Number, "got", gotCRC, "want", wantCRC)
		return nil, 0, ErrFrameCRCMismatch
	}

	return &Frame{Header: *header, Samples: samples[:channels]}, total, nil
}

// sideChannelIndex reports whether channel index ch is the "side" channel of
// a non-independent stereo assignment, which carries one extra bit of
// precision (spec §4.5 step 3, §9).
func sideChannelIndex(assignment ChannelAssignment, ch int) bool {
	switch assignment {
	case ChannelLeftSide:
		return ch == 1
	case ChannelSideRight:
		return ch == 0
	case ChannelMidSide:
		return ch == 1
	default:
		return false
	}
}
