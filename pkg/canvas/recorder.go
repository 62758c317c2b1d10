package canvas

import "image/color"

// OpKind 记录的绘制操作类型
type OpKind int

const (
	OpClear OpKind = iota
	OpFillRect
	OpFillPath
	OpStrokePath
	OpFillRadial
	OpBeginLayer
	OpEndLayer
)

// String 返回操作名称
func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "Clear"
	case OpFillRect:
		return "FillRect"
	case OpFillPath:
		return "FillPath"
	case OpStrokePath:
		return "StrokePath"
	case OpFillRadial:
		return "FillRadial"
	case OpBeginLayer:
		return "BeginLayer"
	case OpEndLayer:
		return "EndLayer"
	default:
		return "Unknown"
	}
}

// Op 一次绘制调用及其发生时的表面状态
type Op struct {
	Kind      OpKind
	Composite Composite
	GlowBlur  float64
	GlowColor color.NRGBA
	Depth     int // 图层深度，0 为主表面

	Color  color.NRGBA    // Clear
	Rect   [4]float64     // FillRect: x, y, w, h
	Paint  Paint          // FillRect / FillPath
	Stroke Stroke         // StrokePath
	Path   *Path          // FillPath / StrokePath
	Radial RadialGradient // FillRadial
	Matrix Matrix         // FillRadial
	Reach  float64        // FillRadial
}

// Recorder 记录所有绘制调用而不产生像素的 Surface
type Recorder struct {
	Width, Height float64
	Ops           []Op

	composite Composite
	glowBlur  float64
	glowColor color.NRGBA
	depth     int
}

// NewRecorder 创建给定 CSS 尺寸的记录表面
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

// Reset 清空已记录的操作，保留当前状态
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Filter 返回指定类型的操作
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Depth 返回当前图层深度
func (r *Recorder) Depth() int {
	return r.depth
}

func (r *Recorder) record(op Op) {
	op.Composite = r.composite
	op.GlowBlur = r.glowBlur
	op.GlowColor = r.glowColor
	op.Depth = r.depth
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) Size() (float64, float64) {
	return r.Width, r.Height
}

func (r *Recorder) Clear(c color.NRGBA) {
	r.record(Op{Kind: OpClear, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h float64, paint Paint) {
	r.record(Op{Kind: OpFillRect, Rect: [4]float64{x, y, w, h}, Paint: paint})
}

func (r *Recorder) FillPath(p *Path, paint Paint) {
	r.record(Op{Kind: OpFillPath, Path: p, Paint: paint})
}

func (r *Recorder) StrokePath(p *Path, s Stroke) {
	r.record(Op{Kind: OpStrokePath, Path: p, Stroke: s})
}

func (r *Recorder) FillRadial(g RadialGradient, m Matrix, reach float64) {
	r.record(Op{Kind: OpFillRadial, Radial: g, Matrix: m, Reach: reach})
}

func (r *Recorder) SetComposite(c Composite) {
	r.composite = c
}

func (r *Recorder) Composite() Composite {
	return r.composite
}

func (r *Recorder) SetGlow(blur float64, c color.NRGBA) {
	if blur <= 0 {
		blur = 0
	}
	r.glowBlur = blur
	r.glowColor = c
}

func (r *Recorder) Glow() (float64, color.NRGBA) {
	return r.glowBlur, r.glowColor
}

func (r *Recorder) BeginLayer() {
	r.record(Op{Kind: OpBeginLayer})
	r.depth++
}

func (r *Recorder) EndLayer() {
	if r.depth == 0 {
		return
	}
	r.depth--
	r.record(Op{Kind: OpEndLayer})
}
