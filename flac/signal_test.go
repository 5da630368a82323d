package flac

import "testing"

func TestApplyFixedPredictionOrder3(t *testing.T) {
	warmup := []int32{-729, -722, -667}
	residual := []int32{-19, -16, 17, -23, -7, 16, -16, -5, 3, -8, -13, -15, -1}
	out := make([]int32, len(warmup)+len(residual))
	copy(out, warmup)
	applyFixedPrediction(out, 3, residual)

	want := []int32{-729, -722, -667, -583, -486, -359, -225, -91, 59, 209, 354, 497, 630, 740, 812, 845}
	if len(out) != len(want) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestApplyLPCPredictionOrder7(t *testing.T) {
	warmup := []int32{-796, -547, -285, -32, 199, 443, 670}
	coeffs := []int32{1042, -399, -75, -269, 121, 166, -75}
	const shift = 9
	residual := []int32{-2, -23, 14, 6, 3, -4, 12, -2, 10}
	out := make([]int32, len(warmup)+len(residual))
	copy(out, warmup)
	applyLPCPrediction(out, 7, coeffs, shift, residual)

	want := []int32{-796, -547, -285, -32, 199, 443, 670, 875, 1046, 1208, 1343, 1454, 1541, 1616, 1663, 1701}
	if len(out) != len(want) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestUndecorrelateLeftSide(t *testing.T) {
	left := []int32{100, 200, 300}
	side := []int32{10, -20, 30} // left - right
	right := make([]int32, len(left))
	for i := range right {
		right[i] = left[i] - side[i]
	}
	ch0 := append([]int32(nil), left...)
	ch1 := append([]int32(nil), side...)
	undecorrelate(ChannelLeftSide, ch0, ch1)
	for i := range left {
		if ch0[i] != left[i] {
			t.Errorf("left[%d] = %d, want %d", i, ch0[i], left[i])
		}
		if ch1[i] != right[i] {
			t.Errorf("right[%d] = %d, want %d", i, ch1[i], right[i])
		}
	}
}

func TestUndecorrelateSideRight(t *testing.T) {
	right := []int32{100, 200, 300}
	side := []int32{10, -20, 30} // left - right
	left := make([]int32, len(right))
	for i := range left {
		left[i] = side[i] + right[i]
	}
	ch0 := append([]int32(nil), side...)
	ch1 := append([]int32(nil), right...)
	undecorrelate(ChannelSideRight, ch0, ch1)
	for i := range right {
		if ch0[i] != left[i] {
			t.Errorf("left[%d] = %d, want %d", i, ch0[i], left[i])
		}
		if ch1[i] != right[i] {
			t.Errorf("right[%d] = %d, want %d", i, ch1[i], right[i])
		}
	}
}

func TestUndecorrelateMidSide(t *testing.T) {
	left := int32(1000)
	right := int32(994)
	mid := (left + right) >> 1
	side := left - right

	ch0 := []int32{mid}
	ch1 := []int32{side}
	undecorrelate(ChannelMidSide, ch0, ch1)
	if ch0[0] != left {
		t.Errorf("left = %d, want %d", ch0[0], left)
	}
	if ch1[0] != right {
		t.Errorf("right = %d, want %d", ch1[0], right)
	}
}

func TestUndecorrelateMidSideOddDifference(t *testing.T) {
	left := int32(1000)
	right := int32(993) // odd left-right difference exercises the parity bit
	mid := (left + right) >> 1
	side := left - right

	ch0 := []int32{mid}
	ch1 := []int32{side}
	undecorrelate(ChannelMidSide, ch0, ch1)
	if ch0[0] != left {
		t.Errorf("left = %d, want %d", ch0[0], left)
	}
	if ch1[0] != right {
		t.Errorf("right = %d, want %d", ch1[0], right)
	}
}

func TestRestoreWastedBits(t *testing.T) {
	samples := []int32{1, 1, 1, 1}
	restoreWastedBits(samples, 10)
	for i, v := range samples {
		if v != 1024 {
			t.Errorf("samples[%d] = %d, want 1024", i, v)
		}
	}
}
