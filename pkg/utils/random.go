package utils

import (
	"math/rand/v2"
)

// RandSource 随机数来源
//
// 粒子生成、火焰抖动等所有随机行为都通过该接口取值，
// 生产环境使用真实随机数，测试使用固定种子或脚本序列，保证结果可复现。
type RandSource interface {
	// Float64 返回 [0, 1) 区间内的伪随机数
	Float64() float64
}

// NewRand 创建基于 PCG 的随机数来源
// seed 为 0 时使用运行时随机种子
func NewRand(seed uint64) RandSource {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Fork 从 rng 派生一个独立的 PCG 随机数来源
//
// 派生时从 rng 取一个值作为种子，之后两个来源互不消耗对方的序列。
// 同一个种子派生出的子来源序列相同。
func Fork(rng RandSource) RandSource {
	seed := uint64(rng.Float64()*(1<<53)) + 1
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SequenceRand 按顺序循环返回预设值的随机数来源（测试用）
type SequenceRand struct {
	values []float64
	next   int
}

// NewSequenceRand 创建脚本化随机数来源
// values 为空时始终返回 0
func NewSequenceRand(values ...float64) *SequenceRand {
	return &SequenceRand{values: values}
}

// Float64 返回序列中的下一个值，到达末尾后从头开始
func (s *SequenceRand) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// RandomInRange 返回 [min, max) 区间内的随机数
func RandomInRange(rng RandSource, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// Chance 以概率 p 返回 true
func Chance(rng RandSource, p float64) bool {
	return rng.Float64() < p
}
