package flac

// fixedCoefficients holds the format-fixed polynomial-prediction
// coefficient vectors for orders 0..4 (spec §4.6). Order 0 predicts zero.
var fixedCoefficients = [5][]int64{
	{},
	{1},
	{-1, 2},
	{1, -3, 3},
	{-1, 4, -6, 4},
}

// applyFixedPrediction reconstructs samples in place: out[0:order] already
// holds the warm-up samples, out[order:] holds the residual, and this
// rewrites out[order:] to the predicted + residual signal.
func applyFixedPrediction(out []int32, order int, residual []int32) {
	coeffs := fixedCoefficients[order]
	for i, r := range residual {
		var pred int64
		for j, coef := range coeffs {
			pred += coef * int64(out[order+i-len(coeffs)+j])
		}
		out[order+i] = int32(pred + int64(r))
	}
}

// applyLPCPrediction reconstructs samples in place via the FIR inverse
// filter: out[0:order] holds the warm-up samples, out[order:] holds the
// residual. coeffs[order-1-j] pairs with out[i+j] for j in 0..order-1 (spec §4.6:
// prediction = sum coefficient[order-1-j] * output[i+j]), computed with a
// 64-bit accumulator to avoid overflow on wide coefficients and high bit
// depths, then arithmetic-shifted right by shift (or left, if shift is
// negative, per the bitstream's signed shift field).
func applyLPCPrediction(out []int32, order int, coeffs []int32, shift int32, residual []int32) {
	for i, r := range residual {
		var pred int64
		for j := 0; j < order; j++ {
			pred += int64(coeffs[order-1-j]) * int64(out[i+j])
		}
		var predicted int64
		if shift >= 0 {
			predicted = pred >> uint(shift)
		} else {
			predicted = pred << uint(-shift)
		}
		out[order+i] = int32(predicted + int64(r))
	}
}

// undecorrelate reverses one of the three non-independent stereo
// decorrelation modes in place, given the two raw decoded channel slices
// (spec §4.6). For left/side and side/right, one slice already holds the
// final output and the other holds the difference/sum counterpart; for
// mid/side both slices are transformed.
func undecorrelate(assignment ChannelAssignment, ch0, ch1 []int32) {
	switch assignment {
	case ChannelLeftSide:
		// ch0 = left, ch1 = side = left - right
		for i := range ch0 {
			ch1[i] = ch0[i] - ch1[i]
		}
	case ChannelSideRight:
		// ch0 = side = left - right, ch1 = right
		for i := range ch0 {
			ch0[i] = ch0[i] + ch1[i]
		}
	case ChannelMidSide:
		for i := range ch0 {
			mid := ch0[i]
			side := ch1[i]
			m2 := int32(uint32(mid)<<1) | (side & 1)
			ch0[i] = (m2 + side) >> 1
			ch1[i] = (m2 - side) >> 1
		}
	}
}

// restoreWastedBits left-shifts every sample of a subframe's output by the
// wasted-bits count stripped before coding (spec §4.5 step 6).
func restoreWastedBits(samples []int32, wasted uint) {
	if wasted == 0 {
		return
	}
	for i, v := range samples {
		samples[i] = v << wasted
	}
}
