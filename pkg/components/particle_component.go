package components

import (
	"image/color"
)

// ParticleComponent is a single spark or confetti square.
//
// Particles are created and owned exclusively by the ParticleSystem, which
// integrates them each tick and removes them once Life drops to zero or below.
// This is a pure data component - it contains no behaviour.
type ParticleComponent struct {
	// Position (CSS 像素)
	X, Y float64

	// Velocity (像素/帧)
	VelocityX float64
	VelocityY float64

	// Life 剩余生命，>0 时存活；绘制透明度为 min(Life, 1)
	Life float64

	// Color 粒子颜色（来自调色板）
	Color color.NRGBA

	// Size 边长（参考单位，绘制时乘以 scale 后取整）
	Size int

	// Drag 速度阻尼，仅受重力影响的粒子使用
	Drag float64

	// Gravity 每帧重力加速度（已按 scale 缩放）；0 表示不受重力
	Gravity float64
}

// HasGravity 报告粒子是否受重力和阻尼影响
func (p *ParticleComponent) HasGravity() bool {
	return p.Gravity != 0
}

// Palette 粒子颜色表
type Palette []color.NRGBA

// Pick 按 [0, 1) 的随机值均匀选取颜色
func (p Palette) Pick(r float64) color.NRGBA {
	if len(p) == 0 {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	i := int(r * float64(len(p)))
	if i >= len(p) {
		i = len(p) - 1
	}
	if i < 0 {
		i = 0
	}
	return p[i]
}
