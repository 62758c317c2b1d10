package canvas

import "math"

// Point 二维点
type Point struct {
	X, Y float64
}

// Path 由若干子路径组成的折线路径
//
// 坐标在路径自身的局部坐标系中记录，Matrix 给出局部到画布 CSS 像素的变换。
// 圆弧在添加时即被展开为折线，因此表面实现只需要处理多边形。
type Path struct {
	m        Matrix
	subpaths [][]Point
	closed   []bool
}

// NewPath 创建使用给定变换的空路径
func NewPath(m Matrix) *Path {
	return &Path{m: m}
}

// Matrix 返回路径的局部到画布变换
func (p *Path) Matrix() Matrix {
	return p.m
}

// MoveTo 开始新的子路径
func (p *Path) MoveTo(x, y float64) {
	p.subpaths = append(p.subpaths, []Point{{x, y}})
	p.closed = append(p.closed, false)
}

// LineTo 向当前子路径追加一个点；没有当前子路径时等价于 MoveTo
func (p *Path) LineTo(x, y float64) {
	n := len(p.subpaths)
	if n == 0 || p.closed[n-1] {
		p.MoveTo(x, y)
		return
	}
	p.subpaths[n-1] = append(p.subpaths[n-1], Point{x, y})
}

// Arc 以 (cx, cy) 为圆心、r 为半径，从 start 到 end（弧度，角度递增方向）追加圆弧
// 若存在当前子路径，先以直线连接到圆弧起点
func (p *Path) Arc(cx, cy, r, start, end float64) {
	sweep := end - start
	if r <= 0 || sweep == 0 {
		p.LineTo(cx, cy)
		return
	}

	segments := arcSegments(r*p.m.LineScale(), math.Abs(sweep))
	for i := 0; i <= segments; i++ {
		a := start + sweep*float64(i)/float64(segments)
		p.LineTo(cx+math.Cos(a)*r, cy+math.Sin(a)*r)
	}
}

// Circle 追加一个独立的闭合圆形子路径
func (p *Path) Circle(cx, cy, r float64) {
	p.MoveTo(cx+r, cy)
	p.Arc(cx, cy, r, 0, 2*math.Pi)
	p.Close()
}

// Rect 追加一个独立的闭合矩形子路径
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Close 闭合当前子路径
func (p *Path) Close() {
	if n := len(p.closed); n > 0 {
		p.closed[n-1] = true
	}
}

// Empty 路径是否没有任何点
func (p *Path) Empty() bool {
	return len(p.subpaths) == 0
}

// Len 返回子路径数量
func (p *Path) Len() int {
	return len(p.subpaths)
}

// Closed 报告第 i 条子路径是否闭合
func (p *Path) Closed(i int) bool {
	return p.closed[i]
}

// Local 返回局部坐标下的子路径（只读）
func (p *Path) Local() [][]Point {
	return p.subpaths
}

// World 返回变换到画布 CSS 像素后的子路径
func (p *Path) World() [][]Point {
	out := make([][]Point, len(p.subpaths))
	for i, sp := range p.subpaths {
		pts := make([]Point, len(sp))
		for j, pt := range sp {
			x, y := p.m.Apply(pt.X, pt.Y)
			pts[j] = Point{x, y}
		}
		out[i] = pts
	}
	return out
}

// Bounds 返回画布坐标下的包围盒
func (p *Path) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, sp := range p.World() {
		for _, pt := range sp {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	return minX, minY, maxX, maxY
}

// arcSegments 根据屏幕半径选择分段数，保证弦高误差约在半像素以内
func arcSegments(screenRadius, sweep float64) int {
	n := int(math.Ceil(sweep * math.Sqrt(math.Max(screenRadius, 1)) * 1.5))
	if n < 4 {
		n = 4
	}
	if n > 256 {
		n = 256
	}
	return n
}
