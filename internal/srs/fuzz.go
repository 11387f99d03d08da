package srs

import "math/rand"

// FuzzSource 为间隔模糊化提供随机数，测试时可替换为固定桩
type FuzzSource interface {
	Intn(n int) int
}

type mathRandSource struct {
	rng *rand.Rand
}

func (s mathRandSource) Intn(n int) int { return s.rng.Intn(n) }

// NewRandFuzzSource 基于 math/rand 的默认随机源
func NewRandFuzzSource(seed int64) FuzzSource {
	return mathRandSource{rng: rand.New(rand.NewSource(seed))}
}

// NoFuzz 永远返回零偏移，用于确定性测试
type NoFuzz struct{}

func (NoFuzz) Intn(n int) int { return n / 2 }

// applyFuzz 对候选间隔加入 ±5% 的随机扰动，防止同一天堆积到期
// 间隔小于 2 天时不做扰动。
func applyFuzz(intervalDays int, src FuzzSource) int {
	if intervalDays < 2 || src == nil {
		return intervalDays
	}
	fuzzRange := intervalDays * 5 / 100
	if fuzzRange == 0 {
		return intervalDays
	}
	// [-fuzzRange, +fuzzRange] 的均匀整数偏移
	offset := src.Intn(2*fuzzRange+1) - fuzzRange
	return intervalDays + offset
}
