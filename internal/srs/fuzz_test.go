package srs

import "testing"

// boundFuzz 固定返回 Intn 的最小或最大取值，用于覆盖扰动边界
type boundFuzz struct{ high bool }

func (b boundFuzz) Intn(n int) int {
	if b.high {
		return n - 1
	}
	return 0
}

func TestApplyFuzzSkipsShortIntervals(t *testing.T) {
	for _, d := range []int{0, 1} {
		if got := applyFuzz(d, NewRandFuzzSource(1)); got != d {
			t.Errorf("applyFuzz(%d) = %d, want unchanged", d, got)
		}
	}
}

func TestApplyFuzzZeroRange(t *testing.T) {
	// 5% 取整后为 0 的区间不产生偏移
	for _, d := range []int{2, 10, 19} {
		if got := applyFuzz(d, boundFuzz{high: true}); got != d {
			t.Errorf("applyFuzz(%d) = %d, want unchanged", d, got)
		}
	}
}

func TestApplyFuzzBounds(t *testing.T) {
	tests := []struct {
		interval int
		low      int
		high     int
	}{
		{20, 19, 21},
		{40, 38, 42},
		{100, 95, 105},
		{365, 347, 383},
	}
	for _, tt := range tests {
		if got := applyFuzz(tt.interval, boundFuzz{high: false}); got != tt.low {
			t.Errorf("applyFuzz(%d) low bound = %d, want %d", tt.interval, got, tt.low)
		}
		if got := applyFuzz(tt.interval, boundFuzz{high: true}); got != tt.high {
			t.Errorf("applyFuzz(%d) high bound = %d, want %d", tt.interval, got, tt.high)
		}
	}
}

func TestApplyFuzzNilSource(t *testing.T) {
	if got := applyFuzz(100, nil); got != 100 {
		t.Errorf("applyFuzz(100, nil) = %d, want 100", got)
	}
}

func TestNoFuzzIsZeroOffset(t *testing.T) {
	for _, d := range []int{2, 25, 100, 365} {
		if got := applyFuzz(d, NoFuzz{}); got != d {
			t.Errorf("applyFuzz(%d, NoFuzz) = %d, want %d", d, got, d)
		}
	}
}
