package systems

import (
	"fmt"
	"math"

	"github.com/decker502/neonengine/pkg/canvas"
	"github.com/decker502/neonengine/pkg/components"
	"github.com/decker502/neonengine/pkg/config"
	"github.com/decker502/neonengine/pkg/utils"
	"github.com/decker502/neonengine/pkg/utils/colorutil"
	"github.com/decker502/neonengine/pkg/viewport"
)

// ParticleSystem 管理火花与彩纸粒子的生成、更新和绘制
//
// 粒子由系统独占：只能通过 SpawnAmbient / SpawnBurst 创建，
// 在 Update 中积分并在生命耗尽的同一帧被移除。
// 所有随机数都来自注入的 RandSource，测试中可用固定种子复现。
type ParticleSystem struct {
	cfg     config.ParticleConfig
	ambient components.Palette
	burst   components.Palette
	rng     utils.RandSource

	// scale 当前视口缩放因子，由动画循环在每帧开始时设置
	scale float64

	particles []components.ParticleComponent
}

// NewParticleSystem 创建粒子系统
//
// 参数:
//   - cfg: 粒子配置（颜色表必须可解析）
//   - rng: 随机数源
//
// 返回:
//   - *ParticleSystem: 粒子系统实例
//   - error: 颜色表无效时返回错误
func NewParticleSystem(cfg config.ParticleConfig, rng utils.RandSource) (*ParticleSystem, error) {
	ambient, burst, err := cfg.Palettes()
	if err != nil {
		return nil, fmt.Errorf("failed to create particle system: %w", err)
	}
	return &ParticleSystem{
		cfg:       cfg,
		ambient:   ambient,
		burst:     burst,
		rng:       rng,
		scale:     1,
		particles: make([]components.ParticleComponent, 0, cfg.Burst.Count*2),
	}, nil
}

// SetScale 设置视口缩放因子，影响之后生成的粒子速度与无重力粒子的下坠
func (s *ParticleSystem) SetScale(scale float64) {
	if scale > 0 {
		s.scale = scale
	}
}

// Scale 返回当前缩放因子
func (s *ParticleSystem) Scale() float64 {
	return s.scale
}

// SpawnAmbient 在 (x, y) 生成一个火花粒子
//
// 火花：小范围水平速度、向上偏置的垂直速度、固定寿命、不受重力。
func (s *ParticleSystem) SpawnAmbient(x, y float64) {
	a := s.cfg.Ambient
	vx := (s.rng.Float64() - 0.5) * a.SpreadX * s.scale
	vy := (s.rng.Float64() - a.BiasY) * a.SpeedY * s.scale
	c := s.ambient.Pick(s.rng.Float64())
	size := int(math.Floor(s.rng.Float64()*float64(a.SizeRange))) + a.SizeMin

	s.particles = append(s.particles, components.ParticleComponent{
		X:         x,
		Y:         y,
		VelocityX: vx,
		VelocityY: vy,
		Life:      a.Life,
		Color:     c,
		Size:      size,
		Drag:      a.Drag,
	})
}

// SpawnBurst 在 (x, y) 一次性生成 count 个彩纸粒子
//
// 彩纸：较大的速度范围、受重力和阻尼影响、寿命 ∈ [LifeMin, LifeMin+LifeSpread)。
// count <= 0 时不生成任何粒子。
func (s *ParticleSystem) SpawnBurst(x, y float64, count int) {
	b := s.cfg.Burst
	for i := 0; i < count; i++ {
		vx := (s.rng.Float64() - 0.5) * b.SpreadX * s.scale
		vy := (s.rng.Float64() - b.BiasY) * b.SpeedY * s.scale
		life := b.LifeMin + s.rng.Float64()*b.LifeSpread
		c := s.burst.Pick(s.rng.Float64())
		size := int(math.Floor(s.rng.Float64()*float64(b.SizeRange))) + b.SizeMin

		s.particles = append(s.particles, components.ParticleComponent{
			X:         x,
			Y:         y,
			VelocityX: vx,
			VelocityY: vy,
			Life:      life,
			Color:     c,
			Size:      size,
			Drag:      b.Drag,
			Gravity:   b.Gravity * s.scale,
		})
	}
}

// Update 推进所有粒子 dt 秒
//
// 每帧（dt = config.FrameDuration）的处理顺序：
//  1. 位置按速度积分
//  2. 受重力粒子：速度加上重力，再对两个轴乘以阻尼
//     无重力粒子：速度加上固定下坠量，不施加阻尼
//  3. 生命减去 LifeDecay，<= 0 的粒子立即移除
//
// dt 不是整帧时按帧数比例缩放，阻尼按 drag^k 处理。
// 移除使用交换删除，不保证粒子顺序（绘制与顺序无关）。
func (s *ParticleSystem) Update(dt float64) {
	if dt <= 0 {
		return
	}
	k := dt / config.FrameDuration
	fall := s.cfg.Ambient.Fall * s.scale * k
	decay := s.cfg.LifeDecay * k

	for i := 0; i < len(s.particles); {
		p := &s.particles[i]

		p.X += p.VelocityX * k
		p.Y += p.VelocityY * k

		if p.HasGravity() {
			p.VelocityY += p.Gravity * k
			drag := p.Drag
			if k != 1 {
				drag = math.Pow(drag, k)
			}
			p.VelocityX *= drag
			p.VelocityY *= drag
		} else {
			p.VelocityY += fall
		}

		p.Life -= decay
		if p.Life <= 0 {
			last := len(s.particles) - 1
			s.particles[i] = s.particles[last]
			s.particles = s.particles[:last]
			continue
		}
		i++
	}
}

// Draw 以加法混合绘制所有粒子
//
// 每个粒子绘制为左上角位于截断后整数坐标、边长 int(size*scale) 的方块，
// 透明度为颜色自身透明度乘以 min(life, 1)。绘制结束后合成模式恢复为 source-over。
//
// 参数:
//   - surface: 绘图表面
//   - metrics: 当前视口参数
func (s *ParticleSystem) Draw(surface canvas.Surface, metrics viewport.Metrics) {
	if len(s.particles) == 0 {
		return
	}

	surface.SetComposite(canvas.CompositeLighter)
	for i := range s.particles {
		p := &s.particles[i]
		size := math.Trunc(float64(p.Size) * metrics.Scale)
		if size <= 0 {
			continue
		}
		alpha := float64(p.Color.A) / 255 * math.Min(p.Life, 1)
		c := colorutil.WithAlpha(p.Color, alpha)
		surface.FillRect(math.Trunc(p.X), math.Trunc(p.Y), size, size, canvas.Solid{Color: c})
	}
	surface.SetComposite(canvas.CompositeSourceOver)
}

// Len 返回存活粒子数量
func (s *ParticleSystem) Len() int {
	return len(s.particles)
}

// Particles 返回存活粒子（只读视图，下一次 Spawn/Update 后失效）
func (s *ParticleSystem) Particles() []components.ParticleComponent {
	return s.particles
}

// Clear 移除所有粒子
func (s *ParticleSystem) Clear() {
	s.particles = s.particles[:0]
}
