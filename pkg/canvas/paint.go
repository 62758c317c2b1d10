package canvas

import (
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Composite 合成模式
type Composite int

const (
	// CompositeSourceOver 普通 alpha 混合
	CompositeSourceOver Composite = iota
	// CompositeLighter 加法混合，用于火花和火焰
	CompositeLighter
	// CompositeDestinationOut 按源 alpha 擦除目标，用于镂空
	CompositeDestinationOut
)

// String 返回与 Canvas 2D globalCompositeOperation 一致的名称
func (c Composite) String() string {
	switch c {
	case CompositeSourceOver:
		return "source-over"
	case CompositeLighter:
		return "lighter"
	case CompositeDestinationOut:
		return "destination-out"
	default:
		return "unknown"
	}
}

// LineCap 线帽样式
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
)

// Stroke 描边样式，Width 为局部坐标单位
type Stroke struct {
	Width float64
	Color color.NRGBA
	Cap   LineCap
}

// Paint 路径填充样式：Solid 或 LinearGradient
// 径向渐变只能通过 Surface.FillRadial 绘制
type Paint interface {
	isPaint()
}

// Solid 纯色填充
type Solid struct {
	Color color.NRGBA
}

// ColorStop 渐变色标
type ColorStop struct {
	Offset float64
	Color  color.NRGBA
}

// Gradient 按 Offset 升序排列的色标
type Gradient []ColorStop

// NewGradient 复制并排序色标，Offset 被限制在 [0, 1]
func NewGradient(stops ...ColorStop) Gradient {
	g := make(Gradient, len(stops))
	copy(g, stops)
	for i := range g {
		g[i].Offset = math.Max(0, math.Min(1, g[i].Offset))
	}
	sort.SliceStable(g, func(i, j int) bool { return g[i].Offset < g[j].Offset })
	return g
}

// At 返回偏移 t 处的预乘颜色
//
// t 超出 [0, 1] 时取两端色标（pad 扩展）。颜色在预乘空间插值，
// 因此向透明色过渡时不会出现灰边。
func (g Gradient) At(t float64) color.RGBA {
	if len(g) == 0 {
		return color.RGBA{}
	}
	if t <= g[0].Offset {
		return premultiply(g[0].Color)
	}
	last := g[len(g)-1]
	if t >= last.Offset {
		return premultiply(last.Color)
	}
	for i := 1; i < len(g); i++ {
		b := g[i]
		if t > b.Offset {
			continue
		}
		a := g[i-1]
		span := b.Offset - a.Offset
		if span <= 0 {
			return premultiply(b.Color)
		}
		return lerpRGBA(premultiply(a.Color), premultiply(b.Color), (t-a.Offset)/span)
	}
	return premultiply(last.Color)
}

// key 返回渐变的缓存键
func (g Gradient) key() string {
	var sb strings.Builder
	for _, s := range g {
		sb.WriteString(strconv.FormatFloat(s.Offset, 'g', 6, 64))
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(uint64(s.Color.R)<<24|uint64(s.Color.G)<<16|uint64(s.Color.B)<<8|uint64(s.Color.A), 16))
		sb.WriteByte(';')
	}
	return sb.String()
}

// LinearGradient 线性渐变，端点位于被填充路径的局部坐标系
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          Gradient
}

// Offset 返回局部点 (x, y) 在渐变轴上的投影参数（未截断）
func (g LinearGradient) Offset(x, y float64) float64 {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return 0
	}
	return ((x-g.X0)*dx + (y-g.Y0)*dy) / l2
}

// RadialGradient 双圆径向渐变，圆位于填充变换的局部坐标系
type RadialGradient struct {
	X0, Y0, R0 float64
	X1, Y1, R1 float64
	Stops      Gradient
}

// circle 返回插值参数 t 处的圆
func (g RadialGradient) circle(t float64) (cx, cy, r float64) {
	return g.X0 + (g.X1-g.X0)*t, g.Y0 + (g.Y1-g.Y0)*t, g.R0 + (g.R1-g.R0)*t
}

func (Solid) isPaint()          {}
func (LinearGradient) isPaint() {}

// VerticalGradient 沿 y 轴从 y0 到 y0+h 的线性渐变
func VerticalGradient(y0, h float64, stops ...ColorStop) LinearGradient {
	return LinearGradient{X0: 0, Y0: y0, X1: 0, Y1: y0 + h, Stops: NewGradient(stops...)}
}

func premultiply(c color.NRGBA) color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8((uint32(c.R)*a + 127) / 255),
		G: uint8((uint32(c.G)*a + 127) / 255),
		B: uint8((uint32(c.B)*a + 127) / 255),
		A: c.A,
	}
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
