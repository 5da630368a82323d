package flac

import "fmt"

// decodeBlockSizeCode, decodeSampleRateCode, and decodeSampleSizeCode
// implement the three coded tables the frame header packs into a handful of
// bits each, each with a
// small set of reserved codes and a "read more from the header" escape,
// exactly as laid out in spec §4.4.

// frameSyncCode is the 14-bit frame sync pattern that opens every frame,
// stored left-justified in the first two header bytes alongside the
// reserved bit and blocking-strategy bit.
const frameSyncCode = 0x3FFE // 0b11111111111110

// parseFrameHeader parses one frame header out of buf (which must be the
// start of a frame) up to and including its trailing CRC-8 byte. It does not
// consume the subframes or footer; callers re-slice buf[n:] for the rest of
// the frame.
func parseFrameHeader(buf []byte) (*FrameHeader, int, error) {
	c := newCursor(buf)

	sync, err := c.readUint(14)
	if err != nil {
		return nil, 0, err
	}
	if uint32(sync) != frameSyncCode {
		return nil, 0, ErrBadSyncCode
	}
	reserved, err := c.readUint(1)
	if err != nil {
		return nil, 0, err
	}
	if reserved != 0 {
		return nil, 0, ErrBadChannelAssignment
	}
	blockingStrategy, err := c.readUint(1)
	if err != nil {
		return nil, 0, err
	}

	blockSizeCode, err := c.readUint(4)
	if err != nil {
		return nil, 0, err
	}
	sampleRateCode, err := c.readUint(4)
	if err != nil {
		return nil, 0, err
	}
	channelCode, err := c.readUint(4)
	if err != nil {
		return nil, 0, err
	}
	sampleSizeCode, err := c.readUint(3)
	if err != nil {
		return nil, 0, err
	}
	sampleSizeReserved, err := c.readUint(1)
	if err != nil {
		return nil, 0, err
	}
	if sampleSizeReserved != 0 {
		return nil, 0, ErrBadSampleSize
	}

	number, err := decodeUTF8Uint64(c, blockingStrategy == 1)
	if err != nil {
		return nil, 0, err
	}

	blockSize, err := decodeBlockSizeCode(uint8(blockSizeCode), c)
	if err != nil {
		return nil, 0, err
	}

	sampleRate, err := decodeSampleRateCode(uint8(sampleRateCode), c)
	if err != nil {
		return nil, 0, err
	}

	channels, assignment, err := decodeChannelCode(uint8(channelCode))
	if err != nil {
		return nil, 0, err
	}

	bitsPerSample, err := decodeSampleSizeCode(uint8(sampleSizeCode))
	if err != nil {
		return nil, 0, err
	}

	if !c.aligned() {
		return nil, 0, fmt.Errorf("flac: frame header: not byte-aligned before CRC")
	}
	crcByte, err := c.readUint(8)
	if err != nil {
		return nil, 0, err
	}
	headerLen := c.bytePos()
	want := crc8(buf[:headerLen-1])
	if byte(crcByte) != want {
		return nil, 0, ErrHeaderCRCMismatch
	}

	h := &FrameHeader{
		BlockSize:         blockSize,
		SampleRate:        sampleRate,
		Channels:          channels,
		ChannelAssignment: assignment,
		BitsPerSample:     bitsPerSample,
		IsVariable:        blockingStrategy == 1,
		Number:            number,
	}
	return h, headerLen, nil
}

// decodeBlockSizeCode resolves the 4-bit block-size code, reading a trailing
// 8- or 16-bit explicit value from c when the code calls for one.
func decodeBlockSizeCode(code uint8, c *cursor) (uint16, error) {
	switch {
	case code == 0:
		return 0, ErrBadBlockSize
	case code == 1:
		return 192, nil
	case code >= 2 && code <= 5:
		return 576 << (code - 2), nil
	case code == 6:
		v, err := c.readUint(8)
		if err != nil {
			return 0, err
		}
		return uint16(v) + 1, nil
	case code == 7:
		v, err := c.readUint(16)
		if err != nil {
			return 0, err
		}
		return uint16(v) + 1, nil
	default: // 8..15
		return 256 << (code - 8), nil
	}
}

// decodeSampleRateCode resolves the 4-bit sample-rate code, reading a
// trailing explicit value from c when the code calls for one. Code 15 is
// invalid and rejected with ErrBadSampleRate.
func decodeSampleRateCode(code uint8, c *cursor) (uint32, error) {
	switch code {
	case 0:
		return 0, nil // "get from STREAMINFO", resolved by the caller
	case 1:
		return 88200, nil
	case 2:
		return 176400, nil
	case 3:
		return 192000, nil
	case 4:
		return 8000, nil
	case 5:
		return 16000, nil
	case 6:
		return 22050, nil
	case 7:
		return 24000, nil
	case 8:
		return 32000, nil
	case 9:
		return 44100, nil
	case 10:
		return 48000, nil
	case 11:
		return 96000, nil
	case 12:
		v, err := c.readUint(8)
		if err != nil {
			return 0, err
		}
		return v * 1000, nil
	case 13:
		v, err := c.readUint(16)
		if err != nil {
			return 0, err
		}
		return v, nil
	case 14:
		v, err := c.readUint(16)
		if err != nil {
			return 0, err
		}
		return v * 10, nil
	default: // 15
		return 0, ErrBadSampleRate
	}
}

// decodeChannelCode resolves the 4-bit channel/decorrelation code into a
// channel count and decorrelation mode. Codes 11..15 are reserved.
func decodeChannelCode(code uint8) (uint8, ChannelAssignment, error) {
	switch {
	case code <= 7:
		return code + 1, ChannelIndependent, nil
	case code == 8:
		return 2, ChannelLeftSide, nil
	case code == 9:
		return 2, ChannelSideRight, nil
	case code == 10:
		return 2, ChannelMidSide, nil
	default:
		return 0, 0, ErrBadChannelAssignment
	}
}

// decodeSampleSizeCode resolves the 3-bit sample-size code. Code 0 means
// "get from STREAMINFO" and is resolved by the caller; codes 3 and 7 are
// reserved.
func decodeSampleSizeCode(code uint8) (uint8, error) {
	switch code {
	case 0:
		return 0, nil
	case 1:
		return 8, nil
	case 2:
		return 12, nil
	case 4:
		return 16, nil
	case 5:
		return 20, nil
	case 6:
		return 24, nil
	default: // 3, 7
		return 0, ErrBadSampleSize
	}
}
