package systems

import (
	"github.com/decker502/neonengine/pkg/config"
	"github.com/decker502/neonengine/pkg/kinematics"
	"github.com/decker502/neonengine/pkg/viewport"
)

// EngineLayout 某一帧引擎各部件在画布上的位置（CSS 像素）
//
// 由视口参数、几何尺寸和曲轴角度完全决定，渲染与粒子发射共用同一份结果。
type EngineLayout struct {
	Scale float64

	// 曲轴中心（飞轮与活塞组件的锚点）
	AnchorX, AnchorY float64

	// 齿轮
	GearX, GearY float64
	GearRadius   float64
	GearAngle    float64

	// 飞轮
	FlywheelRadius float64
	CrankAngle     float64

	// Geometry 已按 Scale 缩放的几何尺寸
	Geometry kinematics.Geometry
	// Linkage 缩放后的曲柄销与活塞偏移（相对锚点）
	Linkage kinematics.Linkage

	// 缸体尺寸
	CylinderWidth, CylinderHeight float64

	// 排气口（活塞顶中心）
	ExhaustX, ExhaustY float64
}

// ComputeLayout 计算一帧的引擎布局
//
// 参数:
//   - m: 视口参数
//   - geom: 参考单位的几何尺寸
//   - angle: 曲轴角度（弧度）
//
// 返回:
//   - EngineLayout: 画布坐标下的布局
func ComputeLayout(m viewport.Metrics, geom kinematics.Geometry, angle float64) EngineLayout {
	s := m.Scale
	ax, ay := m.EngineAnchor()
	g := geom.Scaled(s)
	link := g.Solve(angle)

	return EngineLayout{
		Scale:          s,
		AnchorX:        ax,
		AnchorY:        ay,
		GearX:          ax + config.GearOffsetX*s,
		GearY:          ay + config.GearOffsetY*s,
		GearRadius:     config.GearRadius * s,
		GearAngle:      angle * config.GearSpeedRatio,
		FlywheelRadius: g.FlywheelRadius,
		CrankAngle:     angle,
		Geometry:       g,
		Linkage:        link,
		CylinderWidth:  (geom.PistonWidth + config.CylinderPadding) * s,
		CylinderHeight: (geom.PistonHeight + geom.CrankRadius*2 + config.CylinderPadding) * s,
		ExhaustX:       ax,
		ExhaustY:       ay + link.PistonOffsetY,
	}
}

// CylinderTop 返回缸体顶部相对锚点的 Y 偏移
func (l EngineLayout) CylinderTop() float64 {
	return -l.CylinderHeight - config.CylinderTopGap*l.Scale
}
