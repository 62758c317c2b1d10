package canvas

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Matrix 二维仿射变换
//
// 与 Canvas 2D 的 save/translate/rotate/scale 语义一致：每次 Translate/Rotate/Scale
// 都作用在局部坐标系上（新变换先作用于点，再应用已有变换）。
// Matrix 是值类型，派生变换不会修改原矩阵，天然具备 save/restore 效果。
type Matrix struct {
	geom ebiten.GeoM
}

// Identity 返回单位矩阵
func Identity() Matrix {
	return Matrix{}
}

// Translate 在局部坐标系中平移
func (m Matrix) Translate(x, y float64) Matrix {
	var g ebiten.GeoM
	g.Translate(x, y)
	g.Concat(m.geom)
	return Matrix{geom: g}
}

// Rotate 在局部坐标系中旋转（弧度，y 轴向下时为顺时针）
func (m Matrix) Rotate(theta float64) Matrix {
	var g ebiten.GeoM
	g.Rotate(theta)
	g.Concat(m.geom)
	return Matrix{geom: g}
}

// Scale 在局部坐标系中缩放
func (m Matrix) Scale(sx, sy float64) Matrix {
	var g ebiten.GeoM
	g.Scale(sx, sy)
	g.Concat(m.geom)
	return Matrix{geom: g}
}

// Then 返回先应用 m 再应用 next 的矩阵
func (m Matrix) Then(next Matrix) Matrix {
	g := m.geom
	g.Concat(next.geom)
	return Matrix{geom: g}
}

// Apply 将局部坐标变换为外部坐标
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.geom.Apply(x, y)
}

// Invert 返回逆矩阵；奇异矩阵返回 false
func (m Matrix) Invert() (Matrix, bool) {
	if !m.geom.IsInvertible() {
		return Matrix{}, false
	}
	g := m.geom
	g.Invert()
	return Matrix{geom: g}, true
}

// LineScale 返回线宽在该变换下的近似缩放系数 sqrt(|det|)
func (m Matrix) LineScale() float64 {
	a := m.geom.Element(0, 0)
	b := m.geom.Element(0, 1)
	c := m.geom.Element(1, 0)
	d := m.geom.Element(1, 1)
	return math.Sqrt(math.Abs(a*d - b*c))
}

// GeoM 返回底层 ebiten.GeoM
func (m Matrix) GeoM() ebiten.GeoM {
	return m.geom
}
