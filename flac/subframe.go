package flac

import "fmt"

// subframeKind identifies a subframe's body shape, decoded from the 6-bit
// subframe type code (spec §4.5 step 3).
type subframeKind uint8

const (
	subframeConstant subframeKind = iota
	subframeVerbatim
	subframeFixed
	subframeLPC
)

// decodeSubframe reads one subframe of blockSize samples into dst[:blockSize].
// sampleWidth already includes the side channel's extra bit (added by the
// caller); the wasted-bits count is read, subtracted from the width, and
// restored by left-shift here.
func decodeSubframe(c *cursor, dst []int32, blockSize int, sampleWidth uint8) error {
	headerByte, err := c.readUint(8)
	if err != nil {
		return err
	}
	if headerByte&0x80 != 0 {
		return ErrBadSubframeHeader
	}
	typeCode := uint8(headerByte>>1) & 0x3F
	hasWasted := headerByte&0x01 != 0

	var wasted uint
	if hasWasted {
		k, err := c.readUnary()
		if err != nil {
			return err
		}
		wasted = uint(k) + 1
	}
	effectiveWidth := sampleWidth
	if uint(effectiveWidth) <= wasted {
		return fmt.Errorf("%w: wasted bits %d >= sample width %d", ErrBadSubframeHeader, wasted, effectiveWidth)
	}
	effectiveWidth -= uint8(wasted)

	switch {
	case typeCode == 0:
		if err := decodeConstantSubframe(c, dst[:blockSize], effectiveWidth); err != nil {
			return err
		}
	case typeCode == 1:
		if err := decodeVerbatimSubframe(c, dst[:blockSize], effectiveWidth); err != nil {
			return err
		}
	case typeCode >= 8 && typeCode <= 12:
		order := int(typeCode - 8)
		if err := decodeFixedSubframe(c, dst[:blockSize], order, effectiveWidth); err != nil {
			return err
		}
	case typeCode >= 32 && typeCode <= 63:
		order := int(typeCode-32) + 1
		if err := decodeLPCSubframe(c, dst[:blockSize], order, effectiveWidth); err != nil {
			return err
		}
	default:
		return ErrBadSubframeHeader
	}

	restoreWastedBits(dst[:blockSize], wasted)
	return nil
}

func decodeConstantSubframe(c *cursor, dst []int32, width uint8) error {
	v, err := c.readInt(width)
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = v
	}
	return nil
}

func decodeVerbatimSubframe(c *cursor, dst []int32, width uint8) error {
	for i := range dst {
		v, err := c.readInt(width)
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func decodeFixedSubframe(c *cursor, dst []int32, order int, width uint8) error {
	if order > len(dst) {
		return fmt.Errorf("%w: fixed order %d exceeds block size %d", ErrBadSubframeHeader, order, len(dst))
	}
	for i := 0; i < order; i++ {
		v, err := c.readInt(width)
		if err != nil {
			return err
		}
		dst[i] = v
	}
	residual := dst[order:]
	if err := decodeResidual(c, residual, order); err != nil {
		return err
	}
	applyFixedPrediction(dst, order, residual)
	return nil
}

const lpcEscapePrecision = 0x0F

func decodeLPCSubframe(c *cursor, dst []int32, order int, width uint8) error {
	if order > len(dst) {
		return fmt.Errorf("%w: LPC order %d exceeds block size %d", ErrBadSubframeHeader, order, len(dst))
	}
	for i := 0; i < order; i++ {
		v, err := c.readInt(width)
		if err != nil {
			return err
		}
		dst[i] = v
	}

	precisionCode, err := c.readUint(4)
	if err != nil {
		return err
	}
	if precisionCode == lpcEscapePrecision {
		return ErrBadLPCPrecision
	}
	precision := uint8(precisionCode) + 1

	shiftRaw, err := c.readInt(5)
	if err != nil {
		return err
	}

	coeffs := make([]int32, order)
	for i := 0; i < order; i++ {
		v, err := c.readInt(precision)
		if err != nil {
			return err
		}
		coeffs[i] = v
	}

	residual := dst[order:]
	if err := decodeResidual(c, residual, order); err != nil {
		return err
	}
	applyLPCPrediction(dst, order, coeffs, shiftRaw, residual)
	return nil
}
