package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	stripWidth     = 256 // 线性渐变色带纹理宽度
	radialRings    = 32  // 径向渐变圆环数
	maxStripCached = 64
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// glowPasses 用逐渐收窄的半透明描边近似 shadowBlur 光晕
var glowPasses = [...]struct{ spread, alpha float64 }{
	{1.0, 0.12},
	{0.6, 0.18},
	{0.3, 0.25},
}

// EbitenSurface 基于 ebiten.Image 的 Surface 实现
//
// 所有坐标按设备像素比缩放后写入目标图像。
// 路径通过 vector.Path 三角化后使用 DrawTriangles 绘制：
//   - 线性渐变：按渐变生成 256x1 色带纹理，顶点纹理坐标为渐变轴上的投影
//   - 径向渐变：RadialMesh 生成的逐顶点着色网格
//   - 发光：在图形下方叠加若干层加宽的半透明描边
//
// 复用顶点/索引数组，避免每帧分配。
type EbitenSurface struct {
	target *ebiten.Image
	dpr    float64

	layers []*ebiten.Image
	depth  int

	composite Composite
	glowBlur  float64
	glowColor color.NRGBA

	strips map[string]*ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewEbitenSurface 创建 ebiten 绘图表面，需在每帧绘制前调用 Begin 绑定目标
func NewEbitenSurface() *EbitenSurface {
	return &EbitenSurface{
		dpr:      1,
		strips:   make(map[string]*ebiten.Image),
		vertices: make([]ebiten.Vertex, 0, 4096),
		indices:  make([]uint16, 0, 8192),
	}
}

// Begin 绑定本帧的目标图像并重置表面状态
//
// 参数:
//   - target: 设备像素尺寸的目标图像
//   - dpr: 设备像素比，<=0 时按 1 处理
func (s *EbitenSurface) Begin(target *ebiten.Image, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	s.target = target
	s.dpr = dpr
	s.depth = 0
	s.composite = CompositeSourceOver
	s.glowBlur = 0
	s.glowColor = color.NRGBA{}
}

func (s *EbitenSurface) Size() (float64, float64) {
	b := s.target.Bounds()
	return float64(b.Dx()) / s.dpr, float64(b.Dy()) / s.dpr
}

func (s *EbitenSurface) Clear(c color.NRGBA) {
	s.dst().Fill(c)
}

func (s *EbitenSurface) SetComposite(c Composite) {
	s.composite = c
}

func (s *EbitenSurface) Composite() Composite {
	return s.composite
}

func (s *EbitenSurface) SetGlow(blur float64, c color.NRGBA) {
	if blur < 0 {
		blur = 0
	}
	s.glowBlur = blur
	s.glowColor = c
}

func (s *EbitenSurface) Glow() (float64, color.NRGBA) {
	return s.glowBlur, s.glowColor
}

func (s *EbitenSurface) BeginLayer() {
	s.depth++
	b := s.target.Bounds()
	if len(s.layers) < s.depth {
		s.layers = append(s.layers, ebiten.NewImage(b.Dx(), b.Dy()))
	}
	layer := s.layers[s.depth-1]
	if layer.Bounds().Size() != b.Size() {
		layer.Deallocate()
		layer = ebiten.NewImage(b.Dx(), b.Dy())
		s.layers[s.depth-1] = layer
	}
	layer.Clear()
}

func (s *EbitenSurface) EndLayer() {
	if s.depth == 0 {
		return
	}
	layer := s.layers[s.depth-1]
	s.depth--
	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendSourceOver
	s.dst().DrawImage(layer, op)
}

func (s *EbitenSurface) FillRect(x, y, w, h float64, paint Paint) {
	x0, y0 := float32(x*s.dpr), float32(y*s.dpr)
	x1, y1 := float32((x+w)*s.dpr), float32((y+h)*s.dpr)

	s.vertices = append(s.vertices[:0],
		ebiten.Vertex{DstX: x0, DstY: y0},
		ebiten.Vertex{DstX: x1, DstY: y0},
		ebiten.Vertex{DstX: x0, DstY: y1},
		ebiten.Vertex{DstX: x1, DstY: y1},
	)
	s.indices = append(s.indices[:0], 0, 1, 2, 1, 3, 2)

	src := s.shade(s.vertices, paint, s.deviceInverse(Identity()))
	op := &ebiten.DrawTrianglesOptions{}
	op.Blend = s.blend()
	s.dst().DrawTriangles(s.vertices, s.indices, src, op)
}

func (s *EbitenSurface) FillPath(p *Path, paint Paint) {
	if p.Empty() {
		return
	}
	if s.glowBlur > 0 && s.composite != CompositeDestinationOut {
		s.drawGlow(p, 0, true)
	}

	var vp vector.Path
	s.buildVectorPath(&vp, p, true)
	s.vertices, s.indices = vp.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])

	src := s.shade(s.vertices, paint, s.deviceInverse(p.Matrix()))
	op := &ebiten.DrawTrianglesOptions{}
	op.FillRule = ebiten.FillRuleNonZero
	op.AntiAlias = true
	op.Blend = s.blend()
	if _, ok := paint.(LinearGradient); ok {
		op.Filter = ebiten.FilterLinear
	}
	s.dst().DrawTriangles(s.vertices, s.indices, src, op)
}

func (s *EbitenSurface) StrokePath(p *Path, st Stroke) {
	if p.Empty() || st.Width <= 0 {
		return
	}
	width := st.Width * p.Matrix().LineScale() * s.dpr
	if s.glowBlur > 0 && s.composite != CompositeDestinationOut {
		s.drawGlow(p, width, false)
	}
	s.strokeDevice(p, width, st.Color, st.Cap, false)
}

func (s *EbitenSurface) FillRadial(g RadialGradient, m Matrix, reach float64) {
	segments := arcSegments(math.Max(reach, g.R1)*m.LineScale()*s.dpr, 2*math.Pi)
	mesh, tris := RadialMesh(g, reach, radialRings, segments)
	if len(mesh) > math.MaxUint16 {
		return
	}

	s.vertices = s.vertices[:0]
	for _, v := range mesh {
		x, y := m.Apply(v.X, v.Y)
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX:   float32(x * s.dpr),
			DstY:   float32(y * s.dpr),
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(v.Color.R) / 255,
			ColorG: float32(v.Color.G) / 255,
			ColorB: float32(v.Color.B) / 255,
			ColorA: float32(v.Color.A) / 255,
		})
	}
	s.indices = s.indices[:0]
	for _, i := range tris {
		s.indices = append(s.indices, uint16(i))
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	op.Blend = s.blend()
	s.dst().DrawTriangles(s.vertices, s.indices, whiteSubImage, op)
}

// drawGlow 在路径下方绘制光晕
//
// 参数:
//   - p: 路径
//   - baseWidth: 描边的设备像素宽度，填充时为 0
//   - closed: 是否按闭合轮廓处理（填充）
func (s *EbitenSurface) drawGlow(p *Path, baseWidth float64, closed bool) {
	blur := s.glowBlur * s.dpr
	for _, pass := range glowPasses {
		c := s.glowColor
		c.A = uint8(math.Round(float64(c.A) * pass.alpha))
		if c.A == 0 {
			continue
		}
		s.strokeDevice(p, baseWidth+2*blur*pass.spread, c, CapRound, closed)
	}
}

func (s *EbitenSurface) strokeDevice(p *Path, width float64, c color.NRGBA, lineCap LineCap, forceClose bool) {
	var vp vector.Path
	s.buildVectorPath(&vp, p, forceClose)

	sop := &vector.StrokeOptions{
		Width:    float32(width),
		LineJoin: vector.LineJoinRound,
	}
	if lineCap == CapRound {
		sop.LineCap = vector.LineCapRound
	}
	s.vertices, s.indices = vp.AppendVerticesAndIndicesForStroke(s.vertices[:0], s.indices[:0], sop)
	setSolid(s.vertices, c)

	op := &ebiten.DrawTrianglesOptions{}
	op.FillRule = ebiten.FillRuleNonZero
	op.AntiAlias = true
	op.Blend = s.blend()
	s.dst().DrawTriangles(s.vertices, s.indices, whiteSubImage, op)
}

// buildVectorPath 将路径转换为设备像素坐标的 vector.Path
func (s *EbitenSurface) buildVectorPath(vp *vector.Path, p *Path, forceClose bool) {
	m := p.Matrix()
	for i, sp := range p.Local() {
		for j, pt := range sp {
			x, y := m.Apply(pt.X, pt.Y)
			fx, fy := float32(x*s.dpr), float32(y*s.dpr)
			if j == 0 {
				vp.MoveTo(fx, fy)
			} else {
				vp.LineTo(fx, fy)
			}
		}
		if forceClose || p.Closed(i) {
			vp.Close()
		}
	}
}

// shade 为顶点设置纹理坐标与颜色，返回应使用的源图像
//
// 参数:
//   - vs: 设备坐标顶点
//   - paint: 填充样式
//   - inv: 设备坐标到渐变局部坐标的逆变换
func (s *EbitenSurface) shade(vs []ebiten.Vertex, paint Paint, inv Matrix) *ebiten.Image {
	switch p := paint.(type) {
	case LinearGradient:
		strip := s.strip(p.Stops)
		for i := range vs {
			lx, ly := inv.Apply(float64(vs[i].DstX), float64(vs[i].DstY))
			t := math.Max(0, math.Min(1, p.Offset(lx, ly)))
			vs[i].SrcX = float32(0.5 + t*(stripWidth-1))
			vs[i].SrcY = 0.5
			vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = 1, 1, 1, 1
		}
		return strip
	case Solid:
		setSolid(vs, p.Color)
	default:
		setSolid(vs, color.NRGBA{})
	}
	return whiteSubImage
}

// strip 返回渐变对应的色带纹理（预乘像素），按色标缓存
func (s *EbitenSurface) strip(g Gradient) *ebiten.Image {
	key := g.key()
	if img, ok := s.strips[key]; ok {
		return img
	}
	if len(s.strips) >= maxStripCached {
		for k, img := range s.strips {
			img.Deallocate()
			delete(s.strips, k)
		}
	}

	pix := make([]byte, stripWidth*4)
	for i := 0; i < stripWidth; i++ {
		c := g.At(float64(i) / (stripWidth - 1))
		pix[i*4+0] = c.R
		pix[i*4+1] = c.G
		pix[i*4+2] = c.B
		pix[i*4+3] = c.A
	}
	img := ebiten.NewImage(stripWidth, 1)
	img.WritePixels(pix)
	s.strips[key] = img
	return img
}

// deviceInverse 返回设备像素到局部坐标的逆变换
func (s *EbitenSurface) deviceInverse(m Matrix) Matrix {
	inv, ok := m.Then(Identity().Scale(s.dpr, s.dpr)).Invert()
	if !ok {
		return Identity()
	}
	return inv
}

func (s *EbitenSurface) dst() *ebiten.Image {
	if s.depth == 0 {
		return s.target
	}
	return s.layers[s.depth-1]
}

func (s *EbitenSurface) blend() ebiten.Blend {
	switch s.composite {
	case CompositeLighter:
		return ebiten.BlendLighter
	case CompositeDestinationOut:
		return ebiten.BlendDestinationOut
	default:
		return ebiten.BlendSourceOver
	}
}

func setSolid(vs []ebiten.Vertex, c color.NRGBA) {
	r := float32(c.R) / 255
	g := float32(c.G) / 255
	b := float32(c.B) / 255
	a := float32(c.A) / 255
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = r
		vs[i].ColorG = g
		vs[i].ColorB = b
		vs[i].ColorA = a
	}
}
