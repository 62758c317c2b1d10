package game

import "github.com/hajimehoshi/ebiten/v2"

// FrameClock 每帧回调调度原语
//
// RequestNextTick 注册的回调在下一帧被调用一次；回调内部可以再次注册，
// 新注册的回调属于再下一帧，不会在当前帧内被执行。
type FrameClock interface {
	RequestNextTick(cb func())
}

// tickQueue 两个 FrameClock 实现共用的回调队列
type tickQueue struct {
	pending []func()
	running []func()
}

func (q *tickQueue) RequestNextTick(cb func()) {
	if cb != nil {
		q.pending = append(q.pending, cb)
	}
}

// flush 执行当前帧的回调，返回执行数量
func (q *tickQueue) flush() int {
	q.running, q.pending = q.pending, q.running[:0]
	for _, cb := range q.running {
		cb()
	}
	n := len(q.running)
	clear(q.running)
	return n
}

// VirtualClock 手动推进的时钟，用于测试与无头模拟
type VirtualClock struct {
	tickQueue
	ticks int
}

// NewVirtualClock 创建虚拟时钟
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

// Step 推进一帧，返回本帧执行的回调数量
func (c *VirtualClock) Step() int {
	c.ticks++
	return c.flush()
}

// Advance 连续推进 n 帧
func (c *VirtualClock) Advance(n int) {
	for i := 0; i < n; i++ {
		c.Step()
	}
}

// Ticks 返回已推进的帧数
func (c *VirtualClock) Ticks() int {
	return c.ticks
}

// Pending 返回等待下一帧执行的回调数量
func (c *VirtualClock) Pending() int {
	return len(c.pending)
}

// EbitenClock 绑定到 ebiten 游戏循环的时钟
//
// ebiten 以固定 TPS 调用 Game.Update，App 在每次 Update 中调用 Tick，
// 因此回调与显示刷新同频执行。
type EbitenClock struct {
	tickQueue
	frames uint64
}

// NewEbitenClock 创建 ebiten 时钟，并将逻辑帧率设为 tps
func NewEbitenClock(tps int) *EbitenClock {
	if tps > 0 {
		ebiten.SetTPS(tps)
	}
	return &EbitenClock{}
}

// Tick 由 Game.Update 调用，执行本帧回调
func (c *EbitenClock) Tick() {
	c.frames++
	c.flush()
}

// Frames 返回已执行的帧数
func (c *EbitenClock) Frames() uint64 {
	return c.frames
}

// ActualTPS 返回 ebiten 实测的每秒帧数
func (c *EbitenClock) ActualTPS() float64 {
	return ebiten.ActualTPS()
}
