package flac

import "fmt"

// residualCodingMethod is the 2-bit coding-method code opening a residual
// partition table.
type residualCodingMethod uint8

const (
	residualRice  residualCodingMethod = 0 // 4-bit Rice parameters
	residualRice2 residualCodingMethod = 1 // 5-bit Rice parameters
)

// riceEscapeParam is the all-ones Rice parameter value, for each coding
// method, that signals an escape (raw, unencoded) partition.
const (
	riceEscapeParam  = 0x0F
	rice2EscapeParam = 0x1F
)

// decodeResidual reads a full residual partition table into dst[:n], where n
// is the number of residual values to produce (block size minus predictor
// order) and predictorOrder is that order, needed to size the shortened
// first partition.
func decodeResidual(c *cursor, dst []int32, predictorOrder int) error {
	methodCode, err := c.readUint(2)
	if err != nil {
		return err
	}
	method := residualCodingMethod(methodCode)
	if method != residualRice && method != residualRice2 {
		return ErrBadResidualCoding
	}
	paramBits := uint8(4)
	escapeParam := uint32(riceEscapeParam)
	if method == residualRice2 {
		paramBits = 5
		escapeParam = rice2EscapeParam
	}

	partitionOrderBits, err := c.readUint(4)
	if err != nil {
		return err
	}
	partitionOrder := uint(partitionOrderBits)
	numPartitions := 1 << partitionOrder

	total := len(dst)
	if total+predictorOrder <= 0 || (total+predictorOrder)%numPartitions != 0 {
		return fmt.Errorf("%w: block size not divisible by %d partitions", ErrBadResidualCoding, numPartitions)
	}
	partitionLen := (total + predictorOrder) / numPartitions
	if partitionLen < predictorOrder {
		return fmt.Errorf("%w: partition length %d shorter than predictor order %d", ErrBadResidualCoding, partitionLen, predictorOrder)
	}

	pos := 0
	for p := 0; p < numPartitions; p++ {
		n := partitionLen
		if p == 0 {
			n -= predictorOrder
		}
		param, err := c.readUint(paramBits)
		if err != nil {
			return err
		}
		if param == escapeParam {
			if err := decodeEscapePartition(c, dst[pos:pos+n]); err != nil {
				return err
			}
		} else {
			if err := decodeRicePartition(c, dst[pos:pos+n], uint8(param)); err != nil {
				return err
			}
		}
		pos += n
	}
	return nil
}

// decodeRicePartition fills dst with n Rice-coded residual values under
// parameter k: each value is a unary quotient (zero-run terminated by a 1)
// followed by a k-bit binary remainder, then zig-zag unfolded back to a
// signed integer.
func decodeRicePartition(c *cursor, dst []int32, k uint8) error {
	for i := range dst {
		q, err := c.readUnary()
		if err != nil {
			return err
		}
		var r uint32
		if k > 0 {
			r, err = c.readUint(k)
			if err != nil {
				return err
			}
		}
		folded := q<<k | r
		dst[i] = zigzagDecode(folded)
	}
	return nil
}

// decodeEscapePartition fills dst with n raw, sign-extended residual values
// of an explicit bit width (the escape case of a residual partition: the
// all-ones Rice parameter signals "read a 5-bit width, then that many signed
// bits per sample, unencoded").
func decodeEscapePartition(c *cursor, dst []int32) error {
	width, err := c.readUint(5)
	if err != nil {
		return err
	}
	for i := range dst {
		if width == 0 {
			dst[i] = 0
			continue
		}
		v, err := c.readInt(uint8(width))
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// zigzagDecode unfolds Rice coding's zig-zag mapping of signed integers onto
// non-negative ones: even values are non-negative halves, odd values are the
// bitwise complement of negative halves.
func zigzagDecode(v uint32) int32 {
	if v&1 == 0 {
		return int32(v >> 1)
	}
	return -int32(v>>1) - 1
}
