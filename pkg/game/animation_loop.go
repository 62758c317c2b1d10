package game

import (
	"fmt"

	"github.com/decker502/neonengine/pkg/canvas"
	"github.com/decker502/neonengine/pkg/components"
	"github.com/decker502/neonengine/pkg/config"
	"github.com/decker502/neonengine/pkg/kinematics"
	"github.com/decker502/neonengine/pkg/systems"
	"github.com/decker502/neonengine/pkg/utils"
	"github.com/decker502/neonengine/pkg/viewport"
)

// IgniteSoundPlayer 点火音效协作者
//
// PlayIgniteSound 必须立即返回，失败由实现自行吞掉。
type IgniteSoundPlayer interface {
	PlayIgniteSound()
}

// Snapshot 一帧模拟状态的只读快照
type Snapshot struct {
	Tick      uint64
	State     components.RevState
	RPM       components.RpmState
	Angle     float64
	Particles int
	Metrics   viewport.Metrics
	Layout    systems.EngineLayout
}

// AnimationLoop 每帧驱动器，持有一个引擎实例的全部模拟状态
//
// 每帧执行顺序：
//  1. 读取最新的视口参数（整体替换，帧内不变）
//  2. RevStateMachine.Tick 更新转速与曲轴角度
//  3. 需要时在曲轴中心与排气口喷出火花
//  4. ParticleSystem.Update 推进粒子
//
// Render 使用同一帧的快照绘制。输入事件（点火、松开、失焦）在帧之间到达，
// 只修改状态机，由下一帧读取。
type AnimationLoop struct {
	cfg     *config.EngineConfig
	geom    kinematics.Geometry
	tracker *viewport.Tracker
	rng     utils.RandSource
	sfx     IgniteSoundPlayer

	rev       *systems.RevStateMachine
	particles *systems.ParticleSystem
	renderer  *systems.SceneRenderer

	clock   FrameClock
	metrics viewport.Metrics
	ticks   uint64
	frameCb func()

	tickHandlers []func(Snapshot)
}

// NewAnimationLoop 创建动画循环
//
// 参数:
//   - cfg: 引擎配置（会先进行校验，几何约束不满足时返回错误）
//   - tracker: 视口参数来源
//   - rng: 粒子随机数源；火焰抖动使用从它派生的独立来源
//   - sfx: 点火音效，可为 nil
//
// 返回:
//   - *AnimationLoop: 动画循环实例
//   - error: 配置无效时返回错误
func NewAnimationLoop(cfg *config.EngineConfig, tracker *viewport.Tracker, rng utils.RandSource, sfx IgniteSoundPlayer) (*AnimationLoop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create animation loop: %w", err)
	}

	particles, err := systems.NewParticleSystem(cfg.Particles, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create animation loop: %w", err)
	}

	geom := cfg.Geometry.Kinematics()
	l := &AnimationLoop{
		cfg:       cfg,
		geom:      geom,
		tracker:   tracker,
		rng:       rng,
		sfx:       sfx,
		rev:       systems.NewRevStateMachine(cfg.Rev),
		particles: particles,
		renderer:  systems.NewSceneRenderer(geom, utils.Fork(rng)),
		metrics:   tracker.Current(),
	}
	l.particles.SetScale(l.metrics.Scale)
	l.rev.OnIgnite(l.onIgnite)
	l.frameCb = l.frame
	return l, nil
}

// onIgnite 进入 Revving：在活塞当前排气口爆发彩纸并播放点火音效
func (l *AnimationLoop) onIgnite() {
	m := l.tracker.Current()
	layout := systems.ComputeLayout(m, l.geom, l.rev.Angle())
	l.particles.SetScale(m.Scale)
	l.particles.SpawnBurst(layout.ExhaustX, layout.ExhaustY, l.cfg.Particles.Burst.Count)

	if l.sfx != nil {
		l.sfx.PlayIgniteSound()
	}
}

// Start 在给定时钟上启动循环；重复调用无效
//
// 循环没有停止操作，运行到宿主进程结束。
func (l *AnimationLoop) Start(clock FrameClock) {
	if l.clock != nil {
		return
	}
	l.clock = clock
	clock.RequestNextTick(l.frameCb)
}

// Running 循环是否已启动
func (l *AnimationLoop) Running() bool {
	return l.clock != nil
}

func (l *AnimationLoop) frame() {
	l.Tick()
	l.clock.RequestNextTick(l.frameCb)
}

// Tick 推进一帧模拟
func (l *AnimationLoop) Tick() {
	l.metrics = l.tracker.Current()
	l.particles.SetScale(l.metrics.Scale)

	l.rev.Tick()

	if l.rev.EmitsAmbient() {
		layout := systems.ComputeLayout(l.metrics, l.geom, l.rev.Angle())
		amb := l.cfg.Particles.Ambient
		if utils.Chance(l.rng, amb.CenterChance) {
			l.particles.SpawnAmbient(layout.AnchorX, layout.AnchorY)
		}
		if utils.Chance(l.rng, amb.ExhaustChance) {
			l.particles.SpawnAmbient(layout.ExhaustX, layout.ExhaustY)
		}
	}

	l.particles.Update(config.FrameDuration)
	l.ticks++

	if len(l.tickHandlers) > 0 {
		snap := l.Snapshot()
		for _, fn := range l.tickHandlers {
			fn(snap)
		}
	}
}

// Render 绘制当前帧
func (l *AnimationLoop) Render(surface canvas.Surface) {
	l.renderer.Draw(surface, systems.Frame{
		Metrics:   l.metrics,
		Angle:     l.rev.Angle(),
		RPM:       l.rev.RpmState(),
		State:     l.rev.State(),
		Particles: l.particles,
	})
}

// OnTick 注册每帧结束后调用的观察回调
func (l *AnimationLoop) OnTick(fn func(Snapshot)) {
	if fn != nil {
		l.tickHandlers = append(l.tickHandlers, fn)
	}
}

// IgniteStart 按下点火
func (l *AnimationLoop) IgniteStart() bool {
	return l.rev.IgniteStart()
}

// IgniteStop 松开点火
func (l *AnimationLoop) IgniteStop() bool {
	return l.rev.IgniteStop()
}

// LoseFocus 窗口失去焦点
func (l *AnimationLoop) LoseFocus() bool {
	return l.rev.LoseFocus()
}

// ResizeObserved 记录新的视口尺寸，下一帧生效
func (l *AnimationLoop) ResizeObserved(width, height, dpr float64) bool {
	return l.tracker.Observe(width, height, dpr)
}

// Snapshot 返回当前状态快照
func (l *AnimationLoop) Snapshot() Snapshot {
	return Snapshot{
		Tick:      l.ticks,
		State:     l.rev.State(),
		RPM:       l.rev.RpmState(),
		Angle:     l.rev.Angle(),
		Particles: l.particles.Len(),
		Metrics:   l.metrics,
		Layout:    systems.ComputeLayout(l.metrics, l.geom, l.rev.Angle()),
	}
}

// Rev 返回转速状态机
func (l *AnimationLoop) Rev() *systems.RevStateMachine {
	return l.rev
}

// Particles 返回粒子系统
func (l *AnimationLoop) Particles() *systems.ParticleSystem {
	return l.particles
}
