package systems

import (
	"image/color"
	"math"

	"github.com/decker502/neonengine/pkg/canvas"
	"github.com/decker502/neonengine/pkg/components"
	"github.com/decker502/neonengine/pkg/config"
	"github.com/decker502/neonengine/pkg/kinematics"
	"github.com/decker502/neonengine/pkg/utils"
	"github.com/decker502/neonengine/pkg/utils/colorutil"
	"github.com/decker502/neonengine/pkg/viewport"
)

// 场景配色
var (
	backgroundColor = colorutil.MustParseHexColor("#0b0b15")
	linkageColor    = colorutil.MustParseHexColor("#333333")
	neonCyan        = colorutil.MustParseHexColor("#00f2ea")
	neonPink        = colorutil.MustParseHexColor("#ff0050")
	rodColor        = colorutil.MustParseHexColor("#555555")
	opaqueBlack     = color.NRGBA{A: 255}

	gearGlow      = colorutil.RGBA(0, 242, 234, 0.4)
	flywheelRing  = colorutil.RGBA(0, 0, 0, 0.3)
	cylinderColor = colorutil.RGBA(30, 30, 40, 0.8)
	rodHighlight  = colorutil.RGBA(255, 255, 255, 0.3)
)

// MetalKind 金属着色类型
type MetalKind int

const (
	MetalSteel MetalKind = iota
	MetalGold
	MetalCyan
)

var metalStops = map[MetalKind][]canvas.ColorStop{
	MetalGold: {
		{Offset: 0, Color: colorutil.MustParseHexColor("#bf953f")},
		{Offset: 0.3, Color: colorutil.MustParseHexColor("#fcf6ba")},
		{Offset: 0.6, Color: colorutil.MustParseHexColor("#b38728")},
		{Offset: 1, Color: colorutil.MustParseHexColor("#aa771c")},
	},
	MetalCyan: {
		{Offset: 0, Color: colorutil.MustParseHexColor("#005f6b")},
		{Offset: 0.4, Color: colorutil.MustParseHexColor("#00f2ea")},
		{Offset: 0.6, Color: colorutil.MustParseHexColor("#008c99")},
		{Offset: 1, Color: colorutil.MustParseHexColor("#00353f")},
	},
	MetalSteel: {
		{Offset: 0, Color: colorutil.MustParseHexColor("#2b323c")},
		{Offset: 0.5, Color: colorutil.MustParseHexColor("#485563")},
		{Offset: 1, Color: colorutil.MustParseHexColor("#1e2329")},
	},
}

var (
	flameStops = canvas.NewGradient(
		canvas.ColorStop{Offset: 0, Color: colorutil.RGBA(255, 255, 200, 1)},
		canvas.ColorStop{Offset: 0.3, Color: colorutil.RGBA(255, 150, 0, 0.8)},
		canvas.ColorStop{Offset: 0.7, Color: colorutil.RGBA(255, 50, 0, 0.5)},
		canvas.ColorStop{Offset: 1, Color: color.NRGBA{}},
	)
	vignetteStops = canvas.NewGradient(
		canvas.ColorStop{Offset: 0, Color: color.NRGBA{}},
		canvas.ColorStop{Offset: 1, Color: colorutil.RGBA(0, 0, 0, 0.5)},
	)
)

// Metal 返回沿局部 y 轴从 y0 到 y0+h 的金属渐变
func Metal(kind MetalKind, y0, h float64) canvas.LinearGradient {
	return canvas.VerticalGradient(y0, h, metalStops[kind]...)
}

// Frame 渲染一帧所需的全部状态
type Frame struct {
	Metrics   viewport.Metrics
	Angle     float64
	RPM       components.RpmState
	State     components.RevState
	Particles *ParticleSystem
}

// SceneRenderer 引擎场景渲染器
//
// 每次 Draw 都完整重绘整个画布，绘制顺序（从后到前）：
// 背景 → 连接杆 → 齿轮 → 飞轮 → 缸体/活塞（轰油门时带火焰） → 粒子 → 暗角。
// 所有长度都乘以视口缩放因子，画面在任意宽高比下保持比例。
//
// 渲染器不持有动画状态，只持有几何尺寸和火焰抖动用的随机数源。
type SceneRenderer struct {
	geom kinematics.Geometry
	rng  utils.RandSource
}

// NewSceneRenderer 创建场景渲染器
//
// 参数:
//   - geom: 参考单位的几何尺寸
//   - rng: 火焰抖动使用的随机数源
func NewSceneRenderer(geom kinematics.Geometry, rng utils.RandSource) *SceneRenderer {
	return &SceneRenderer{geom: geom, rng: rng}
}

// Draw 绘制完整的一帧
func (r *SceneRenderer) Draw(s canvas.Surface, f Frame) {
	l := ComputeLayout(f.Metrics, r.geom, f.Angle)

	w, h := s.Size()
	s.SetComposite(canvas.CompositeSourceOver)
	s.Clear(backgroundColor)

	NeonLine(s, canvas.Identity(), l.GearX, l.GearY, l.AnchorX, l.AnchorY, linkageColor, 10*l.Scale, l.Scale)

	r.drawGear(s, l)
	r.drawFlywheel(s, l)
	r.drawPiston(s, l, f.State == components.RevRevving)

	if f.Particles != nil {
		f.Particles.Draw(s, f.Metrics)
	}

	r.drawVignette(s, w, h)
}

// drawGear 齿轮：带齿轮廓、中心凹槽和三个扇形镂空
func (r *SceneRenderer) drawGear(s canvas.Surface, l EngineLayout) {
	radius := l.GearRadius
	m := canvas.Identity().Translate(l.GearX, l.GearY).Rotate(l.GearAngle)

	s.BeginLayer()
	s.SetGlow(15*l.Scale, gearGlow)

	teeth := config.GearTeeth
	toothDepth := radius * 0.15
	step := 2 * math.Pi / float64(teeth)
	outline := canvas.NewPath(m)
	for i := 0; i < teeth; i++ {
		a := float64(i) * step
		outline.LineTo(math.Cos(a)*(radius-toothDepth), math.Sin(a)*(radius-toothDepth))
		outline.LineTo(math.Cos(a+step*0.2)*radius, math.Sin(a+step*0.2)*radius)
		outline.LineTo(math.Cos(a+step*0.8)*radius, math.Sin(a+step*0.8)*radius)
		outline.LineTo(math.Cos(a+step)*(radius-toothDepth), math.Sin(a+step)*(radius-toothDepth))
	}
	outline.Close()

	s.FillPath(outline, Metal(MetalCyan, -radius, radius*2))
	s.StrokePath(outline, canvas.Stroke{Width: 1, Color: color.NRGBA{255, 255, 255, 255}})

	hub := canvas.NewPath(m)
	hub.Circle(0, 0, radius*0.7)
	s.SetComposite(canvas.CompositeDestinationOut)
	s.FillPath(hub, canvas.Solid{Color: opaqueBlack})
	s.SetComposite(canvas.CompositeSourceOver)
	s.FillPath(hub, Metal(MetalCyan, -radius*0.7, radius*1.4))

	spokes := canvas.NewPath(m)
	for i := 0; i < 3; i++ {
		a := float64(i) / 3 * 2 * math.Pi
		spokes.MoveTo(0, 0)
		spokes.Arc(0, 0, radius*0.6, a-0.2, a+0.2)
		spokes.LineTo(0, 0)
	}
	s.SetComposite(canvas.CompositeDestinationOut)
	s.FillPath(spokes, canvas.Solid{Color: opaqueBlack})
	s.SetComposite(canvas.CompositeSourceOver)

	s.SetGlow(0, color.NRGBA{})
	s.EndLayer()
}

// drawFlywheel 飞轮：金色圆盘、内圈描边和四个圆形镂空
func (r *SceneRenderer) drawFlywheel(s canvas.Surface, l EngineLayout) {
	radius := l.FlywheelRadius
	m := canvas.Identity().Translate(l.AnchorX, l.AnchorY).Rotate(l.CrankAngle)

	s.BeginLayer()

	disc := canvas.NewPath(m)
	disc.Circle(0, 0, radius)
	s.FillPath(disc, Metal(MetalGold, -radius, radius*2))

	ring := canvas.NewPath(m)
	ring.Circle(0, 0, radius*0.9)
	s.StrokePath(ring, canvas.Stroke{Width: 2, Color: flywheelRing})

	holes := canvas.NewPath(m)
	dist := radius * 0.55
	for i := 0; i < config.FlywheelCutouts; i++ {
		a := float64(i) / config.FlywheelCutouts * 2 * math.Pi
		holes.Circle(math.Cos(a)*dist, math.Sin(a)*dist, radius*0.25)
	}
	s.SetComposite(canvas.CompositeDestinationOut)
	s.FillPath(holes, canvas.Solid{Color: opaqueBlack})
	s.SetComposite(canvas.CompositeSourceOver)

	s.EndLayer()
}

// drawPiston 缸体、火焰、缸壁、连杆和活塞头
func (r *SceneRenderer) drawPiston(s canvas.Surface, l EngineLayout, revving bool) {
	sc := l.Scale
	m := canvas.Identity().Translate(l.AnchorX, l.AnchorY)
	cylW, cylH := l.CylinderWidth, l.CylinderHeight
	top := l.CylinderTop()
	link := l.Linkage

	cylinder := canvas.NewPath(m)
	cylinder.Rect(-cylW/2, top, cylW, cylH)
	s.FillPath(cylinder, canvas.Solid{Color: cylinderColor})

	if revving {
		r.drawFlame(s, m, l)
	}

	NeonLine(s, m, -cylW/2, top, -cylW/2, 0, neonCyan, 2*sc, sc)
	NeonLine(s, m, cylW/2, top, cylW/2, 0, neonCyan, 2*sc, sc)

	rod := canvas.NewPath(m)
	rod.MoveTo(link.PinX, link.PinY)
	rod.LineTo(0, link.PistonOffsetY)
	s.StrokePath(rod, canvas.Stroke{Width: 12 * sc, Color: rodColor, Cap: canvas.CapRound})
	NeonLine(s, m, link.PinX, link.PinY, 0, link.PistonOffsetY, rodHighlight, 4*sc, sc)

	pW, pH := l.Geometry.PistonWidth, l.Geometry.PistonHeight
	hm := m.Translate(0, link.PistonOffsetY)

	head := canvas.NewPath(hm)
	head.Rect(-pW/2, -pH/2, pW, pH)
	s.FillPath(head, Metal(MetalSteel, -pH/2, pH))

	upper := canvas.NewPath(hm)
	upper.Rect(-pW/2, -pH/4, pW, 2*sc)
	s.FillPath(upper, canvas.Solid{Color: neonCyan})

	lower := canvas.NewPath(hm)
	lower.Rect(-pW/2, 0, pW, 2*sc)
	s.FillPath(lower, canvas.Solid{Color: neonPink})
}

// drawFlame 在活塞上方绘制随机抖动的加法混合火焰
//
// 渐变定义在火焰自身的局部坐标中，随抖动缩放一起变形。
func (r *SceneRenderer) drawFlame(s canvas.Surface, m canvas.Matrix, l EngineLayout) {
	sc := l.Scale
	fireY := l.Linkage.PistonOffsetY - config.FlameLift*sc
	scaleX := (r.rng.Float64()*0.2 + 0.9) * (l.CylinderWidth / 100)
	scaleY := r.rng.Float64()*0.5 + 0.8

	fm := m.Translate(0, fireY).Scale(scaleX, scaleY)
	g := canvas.RadialGradient{
		X0: 0, Y0: -30 * sc, R0: 5 * sc,
		X1: 0, Y1: 0, R1: 50 * sc,
		Stops: flameStops,
	}

	s.SetComposite(canvas.CompositeLighter)
	s.FillRadial(g, fm, 60*sc)
	s.SetComposite(canvas.CompositeSourceOver)
}

// drawVignette 径向暗角
func (r *SceneRenderer) drawVignette(s canvas.Surface, w, h float64) {
	g := canvas.RadialGradient{
		X0: w / 2, Y0: h / 2, R0: w / 4,
		X1: w / 2, Y1: h / 2, R1: w,
		Stops: vignetteStops,
	}
	s.FillRadial(g, canvas.Identity(), math.Hypot(w, h))
}

// NeonLine 绘制带同色光晕的圆头线段，绘制后关闭光晕
//
// 参数:
//   - s: 绘图表面
//   - m: 线段端点所在的局部坐标变换
//   - x1, y1, x2, y2: 端点
//   - c: 线条与光晕颜色
//   - width: 线宽（局部单位）
//   - scale: 视口缩放因子，光晕半径为 10*scale
func NeonLine(s canvas.Surface, m canvas.Matrix, x1, y1, x2, y2 float64, c color.NRGBA, width, scale float64) {
	p := canvas.NewPath(m)
	p.MoveTo(x1, y1)
	p.LineTo(x2, y2)

	s.SetGlow(10*scale, c)
	s.StrokePath(p, canvas.Stroke{Width: width, Color: c, Cap: canvas.CapRound})
	s.SetGlow(0, color.NRGBA{})
}
