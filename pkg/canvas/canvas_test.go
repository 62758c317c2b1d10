package canvas

import (
	"image/color"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestMatrixLocalSpace(t *testing.T) {
	// translate(100, 50) 后 rotate(π/2)：局部 (10, 0) → 旋转为 (0, 10) → 平移为 (100, 60)
	m := Identity().Translate(100, 50).Rotate(math.Pi / 2)
	x, y := m.Apply(10, 0)
	if !near(x, 100) || !near(y, 60) {
		t.Errorf("Apply = (%v, %v), want (100, 60)", x, y)
	}

	// 派生矩阵不修改原矩阵
	base := Identity().Translate(5, 5)
	_ = base.Scale(3, 3)
	x, y = base.Apply(1, 1)
	if !near(x, 6) || !near(y, 6) {
		t.Errorf("base changed: (%v, %v)", x, y)
	}

	s := Identity().Translate(10, 0).Scale(2, 3)
	x, y = s.Apply(1, 1)
	if !near(x, 12) || !near(y, 3) {
		t.Errorf("scale Apply = (%v, %v), want (12, 3)", x, y)
	}
	if !near(s.LineScale(), math.Sqrt(6)) {
		t.Errorf("LineScale = %v, want sqrt(6)", s.LineScale())
	}
}

func TestMatrixThenAndInvert(t *testing.T) {
	m := Identity().Translate(3, 4).Rotate(0.7).Scale(2, 0.5)
	dev := m.Then(Identity().Scale(2, 2))

	x, y := m.Apply(5, -2)
	dx, dy := dev.Apply(5, -2)
	if !near(dx, 2*x) || !near(dy, 2*y) {
		t.Errorf("Then mismatch: (%v, %v) vs (%v, %v)", dx, dy, x, y)
	}

	inv, ok := dev.Invert()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	lx, ly := inv.Apply(dx, dy)
	if !near(lx, 5) || !near(ly, -2) {
		t.Errorf("inverse round trip = (%v, %v), want (5, -2)", lx, ly)
	}

	if _, ok := Identity().Scale(0, 1).Invert(); ok {
		t.Error("singular matrix reported invertible")
	}
}

func TestPathArcOnCircle(t *testing.T) {
	p := NewPath(Identity())
	p.Arc(10, 20, 30, 0, math.Pi)
	if p.Len() != 1 {
		t.Fatalf("Len = %d, want 1", p.Len())
	}
	pts := p.Local()[0]
	if len(pts) < 5 {
		t.Fatalf("arc flattened into %d points", len(pts))
	}
	for _, pt := range pts {
		if d := math.Hypot(pt.X-10, pt.Y-20); math.Abs(d-30) > eps {
			t.Errorf("point %v off circle: distance %v", pt, d)
		}
	}
	first, last := pts[0], pts[len(pts)-1]
	if !near(first.X, 40) || !near(first.Y, 20) || !near(last.X, -20) || !near(last.Y, 20) {
		t.Errorf("arc endpoints %v .. %v", first, last)
	}
}

func TestPathSubpaths(t *testing.T) {
	p := NewPath(Identity().Translate(1, 2))
	if !p.Empty() {
		t.Fatal("new path not empty")
	}

	// 无当前子路径时 LineTo 等价于 MoveTo
	p.LineTo(0, 0)
	p.LineTo(10, 0)
	p.Close()
	p.LineTo(5, 5) // 闭合后开始新子路径
	p.Rect(0, 0, 4, 3)

	if p.Len() != 3 {
		t.Fatalf("Len = %d, want 3", p.Len())
	}
	if !p.Closed(0) || p.Closed(1) || !p.Closed(2) {
		t.Errorf("closed flags = %v %v %v", p.Closed(0), p.Closed(1), p.Closed(2))
	}

	w := p.World()
	if w[0][1] != (Point{11, 2}) {
		t.Errorf("world point = %v, want {11 2}", w[0][1])
	}
	minX, minY, maxX, maxY := p.Bounds()
	if minX != 1 || minY != 2 || maxX != 11 || maxY != 7 {
		t.Errorf("Bounds = %v %v %v %v", minX, minY, maxX, maxY)
	}
}

func TestPathSpokeSectors(t *testing.T) {
	// 三个扇形：每个 MoveTo 开始独立子路径
	p := NewPath(Identity())
	for i := 0; i < 3; i++ {
		a := float64(i) / 3 * 2 * math.Pi
		p.MoveTo(0, 0)
		p.Arc(0, 0, 10, a-0.2, a+0.2)
		p.LineTo(0, 0)
	}
	if p.Len() != 3 {
		t.Fatalf("Len = %d, want 3", p.Len())
	}
	for i, sp := range p.Local() {
		if sp[0] != (Point{}) || sp[len(sp)-1] != (Point{}) {
			t.Errorf("sector %d does not start and end at the center", i)
		}
	}
}

func TestGradientAt(t *testing.T) {
	g := NewGradient(
		ColorStop{Offset: 1, Color: color.NRGBA{0, 0, 0, 0}},
		ColorStop{Offset: 0, Color: color.NRGBA{255, 0, 0, 255}},
	)
	if g[0].Offset != 0 {
		t.Fatalf("stops not sorted: %v", g)
	}

	tests := []struct {
		name string
		t    float64
		want color.RGBA
	}{
		{"start", 0, color.RGBA{255, 0, 0, 255}},
		{"pad before", -1, color.RGBA{255, 0, 0, 255}},
		{"end", 1, color.RGBA{}},
		{"pad after", 2, color.RGBA{}},
		{"middle", 0.5, color.RGBA{128, 0, 0, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.At(tt.t); got != tt.want {
				t.Errorf("At(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}

	if (Gradient{}).At(0.3) != (color.RGBA{}) {
		t.Error("empty gradient should be transparent")
	}
}

func TestGradientPremultipliedStops(t *testing.T) {
	g := NewGradient(ColorStop{Offset: 0.3, Color: color.NRGBA{255, 150, 0, 204}})
	got := g.At(0.3)
	want := color.RGBA{204, 120, 0, 204}
	if got != want {
		t.Errorf("At = %v, want %v", got, want)
	}
}

func TestLinearGradientOffset(t *testing.T) {
	g := VerticalGradient(-50, 100)
	tests := []struct {
		x, y, want float64
	}{
		{0, -50, 0},
		{0, 50, 1},
		{123, 0, 0.5},
		{0, 100, 1.5},
	}
	for _, tt := range tests {
		if got := g.Offset(tt.x, tt.y); !near(got, tt.want) {
			t.Errorf("Offset(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if (LinearGradient{}).Offset(3, 4) != 0 {
		t.Error("degenerate axis should yield 0")
	}
}

func TestRadialMesh(t *testing.T) {
	inner := color.NRGBA{255, 255, 200, 255}
	g := RadialGradient{
		X0: 0, Y0: -30, R0: 5,
		X1: 0, Y1: 0, R1: 50,
		Stops: NewGradient(
			ColorStop{Offset: 0, Color: inner},
			ColorStop{Offset: 1, Color: color.NRGBA{}},
		),
	}
	const rings, segments = 4, 16
	vs, is := RadialMesh(g, 60, rings, segments)

	// 中心点 + (rings+1) 个渐变圆 + 外圈
	wantVerts := 1 + (rings+1)*segments + segments
	if len(vs) != wantVerts {
		t.Fatalf("vertices = %d, want %d", len(vs), wantVerts)
	}
	wantIdx := 3*segments + rings*6*segments + 6*segments
	if len(is) != wantIdx {
		t.Fatalf("indices = %d, want %d", len(is), wantIdx)
	}
	for _, i := range is {
		if i < 0 || i >= len(vs) {
			t.Fatalf("index %d out of range", i)
		}
	}

	if vs[0].X != 0 || vs[0].Y != -30 || vs[0].Color != g.Stops.At(0) {
		t.Errorf("center vertex = %+v", vs[0])
	}
	outer := vs[len(vs)-segments:]
	for _, v := range outer {
		if d := math.Hypot(v.X, v.Y); !near(d, 60) {
			t.Errorf("outer vertex distance %v, want 60", d)
		}
		if v.Color != (color.RGBA{}) {
			t.Errorf("outer vertex color %v, want transparent", v.Color)
		}
	}

	// reach 不超过外圆时省略外圈
	vs2, _ := RadialMesh(g, 50, rings, segments)
	if len(vs2) != wantVerts-segments {
		t.Errorf("vertices without pad ring = %d", len(vs2))
	}
}

func TestRecorderCapturesState(t *testing.T) {
	r := NewRecorder(800, 600)
	w, h := r.Size()
	if w != 800 || h != 600 {
		t.Fatalf("Size = %v x %v", w, h)
	}

	cyan := color.NRGBA{0, 242, 234, 255}
	r.Clear(color.NRGBA{11, 11, 21, 255})
	r.SetGlow(10, cyan)
	r.StrokePath(NewPath(Identity()), Stroke{Width: 2, Color: cyan})
	r.SetGlow(0, color.NRGBA{})
	r.BeginLayer()
	r.SetComposite(CompositeDestinationOut)
	r.FillPath(NewPath(Identity()), Solid{})
	r.SetComposite(CompositeSourceOver)
	r.EndLayer()
	r.EndLayer() // 多余的 EndLayer 被忽略

	kinds := []OpKind{OpClear, OpStrokePath, OpBeginLayer, OpFillPath, OpEndLayer}
	if len(r.Ops) != len(kinds) {
		t.Fatalf("recorded %d ops, want %d", len(r.Ops), len(kinds))
	}
	for i, k := range kinds {
		if r.Ops[i].Kind != k {
			t.Errorf("op %d = %v, want %v", i, r.Ops[i].Kind, k)
		}
	}
	if r.Ops[1].GlowBlur != 10 || r.Ops[1].GlowColor != cyan {
		t.Errorf("stroke glow = %v %v", r.Ops[1].GlowBlur, r.Ops[1].GlowColor)
	}
	if r.Ops[3].Composite != CompositeDestinationOut || r.Ops[3].Depth != 1 {
		t.Errorf("fill op = %v depth %d", r.Ops[3].Composite, r.Ops[3].Depth)
	}
	if r.Depth() != 0 {
		t.Errorf("depth = %d after balanced layers", r.Depth())
	}
	if got := len(r.Filter(OpFillPath)); got != 1 {
		t.Errorf("Filter(FillPath) = %d", got)
	}

	r.Reset()
	if len(r.Ops) != 0 {
		t.Error("Reset did not clear ops")
	}
}

func TestCompositeString(t *testing.T) {
	if CompositeLighter.String() != "lighter" || CompositeDestinationOut.String() != "destination-out" {
		t.Error("unexpected composite names")
	}
}
