package canvas

import (
	"image/color"
	"math"
)

// Surface 二维绘图表面
//
// 坐标单位为 CSS 像素；设备像素比由实现内部处理。
// 合成模式与发光（shadow blur）是表面状态，调用方负责在使用后恢复。
type Surface interface {
	// Size 返回 CSS 像素尺寸
	Size() (width, height float64)
	// Clear 用不透明颜色铺满整个表面
	Clear(c color.NRGBA)
	// FillRect 在画布坐标中填充轴对齐矩形
	FillRect(x, y, w, h float64, paint Paint)
	// FillPath 以 non-zero 规则填充路径
	FillPath(p *Path, paint Paint)
	// StrokePath 描边路径
	StrokePath(p *Path, s Stroke)
	// FillRadial 在变换 m 下绘制径向渐变，覆盖以外圆圆心为中心、半径 reach 的圆盘
	FillRadial(g RadialGradient, m Matrix, reach float64)

	SetComposite(c Composite)
	Composite() Composite

	// SetGlow 设置后续填充/描边的发光半径与颜色，blur<=0 关闭发光
	SetGlow(blur float64, c color.NRGBA)
	Glow() (blur float64, c color.NRGBA)

	// BeginLayer 开始离屏图层，之后的绘制（包括 destination-out 擦除）只作用于该图层
	BeginLayer()
	// EndLayer 将图层以 source-over 合成回下层
	EndLayer()
}

// MeshVertex 径向渐变网格顶点（局部坐标，预乘颜色）
type MeshVertex struct {
	X, Y  float64
	Color color.RGBA
}

// RadialMesh 将径向渐变展开为三角网格
//
// 网格由三部分组成：
//  1. 起始圆内部的圆盘，使用第一个色标的颜色
//  2. 起始圆到结束圆之间按 rings 等分的圆环，顶点颜色为对应 t 的渐变色
//  3. 结束圆到半径 reach 的外圈，使用最后一个色标的颜色
//
// 参数:
//   - g: 径向渐变
//   - reach: 外圈半径（以结束圆圆心为中心），不大于 R1 时省略外圈
//   - rings: 渐变区段数
//   - segments: 每圈的角度分段数
//
// 返回:
//   - 顶点与三角形索引
func RadialMesh(g RadialGradient, reach float64, rings, segments int) ([]MeshVertex, []int) {
	if rings < 1 {
		rings = 1
	}
	if segments < 3 {
		segments = 3
	}

	var vs []MeshVertex
	var is []int

	ring := func(cx, cy, r float64, c color.RGBA) int {
		base := len(vs)
		for k := 0; k < segments; k++ {
			a := 2 * math.Pi * float64(k) / float64(segments)
			vs = append(vs, MeshVertex{X: cx + math.Cos(a)*r, Y: cy + math.Sin(a)*r, Color: c})
		}
		return base
	}
	band := func(inner, outer int) {
		for k := 0; k < segments; k++ {
			k1 := (k + 1) % segments
			is = append(is,
				inner+k, outer+k, outer+k1,
				inner+k, outer+k1, inner+k1,
			)
		}
	}

	// 起始圆内部
	first := g.Stops.At(0)
	cx, cy, r := g.circle(0)
	center := len(vs)
	vs = append(vs, MeshVertex{X: cx, Y: cy, Color: first})
	prev := ring(cx, cy, math.Max(r, 0), first)
	for k := 0; k < segments; k++ {
		is = append(is, center, prev+k, prev+(k+1)%segments)
	}

	// 渐变圆环
	for i := 1; i <= rings; i++ {
		t := float64(i) / float64(rings)
		cx, cy, r := g.circle(t)
		cur := ring(cx, cy, math.Max(r, 0), g.Stops.At(t))
		band(prev, cur)
		prev = cur
	}

	// 外圈
	if reach > g.R1 {
		outer := ring(g.X1, g.Y1, reach, g.Stops.At(1))
		band(prev, outer)
	}

	return vs, is
}
