package scenes

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/decker502/neonengine/pkg/canvas"
	"github.com/decker502/neonengine/pkg/components"
	"github.com/decker502/neonengine/pkg/config"
	"github.com/decker502/neonengine/pkg/game"
	"github.com/decker502/neonengine/pkg/utils"
	"github.com/decker502/neonengine/pkg/utils/colorutil"
	"github.com/decker502/neonengine/pkg/viewport"
)

// 按钮配色
var (
	buttonFill    = colorutil.RGBA(0, 0, 0, 0.6)
	buttonIdle    = colorutil.MustParseHexColor("#00f2ea")
	buttonRevving = colorutil.MustParseHexColor("#ff0050")
)

// volumeStep +/- 键每次调整的音量
const volumeStep = 0.1

// debugGlyphWidth ebitenutil 调试字体单个字符宽度（设备像素）
const debugGlyphWidth = 6

// MusicController 场景需要的音频操作，*game.AudioManager 满足该接口
type MusicController interface {
	RetryOnGesture()
	PauseMusic()
	ResumeMusic()
	ToggleMute() bool
	AdjustVolume(delta float64)
}

// InputFrame 一帧内与点火相关的输入
type InputFrame struct {
	Hold    utils.HoldState
	Pointer utils.HoldInfo // 设备像素坐标
	KeyDown bool           // Space/Enter 刚按下
	KeyUp   bool           // Space/Enter 刚松开
	Gesture bool           // 任意点击、触摸或按键
	Mute    bool           // M 刚按下
	Volume  float64        // +/- 刚按下时为 ±volumeStep
}

// EngineScene 引擎主场景
//
// 负责把输入映射为点火事件、把焦点变化映射为背景音乐暂停与恢复，
// 并在引擎画面之上绘制点火按钮。模拟本身由 AnimationLoop 在时钟上推进。
type EngineScene struct {
	loop    *game.AnimationLoop
	tracker *viewport.Tracker
	music   MusicController

	surface *canvas.EbitenSurface
	hold    *utils.HoldTracker

	pointerIgnite bool // 当前点火由指针按住按钮触发
}

// NewEngineScene 创建引擎场景
//
// 参数:
//   - loop: 动画循环
//   - tracker: 视口参数来源，用于按钮布局与坐标换算
//   - music: 背景音乐控制，可为 nil
func NewEngineScene(loop *game.AnimationLoop, tracker *viewport.Tracker, music MusicController) *EngineScene {
	return &EngineScene{
		loop:    loop,
		tracker: tracker,
		music:   music,
		surface: canvas.NewEbitenSurface(),
		hold:    utils.NewHoldTracker(),
	}
}

// ButtonRect 点火按钮矩形（CSS 像素），底部居中
func ButtonRect(m viewport.Metrics) (x, y, w, h float64) {
	w, h = config.ButtonWidth, config.ButtonHeight
	x = (m.Width - w) / 2
	y = m.Height - config.ButtonMarginBottom - h
	return x, y, w, h
}

// ButtonContains 判断 CSS 像素坐标是否落在按钮内
func ButtonContains(m viewport.Metrics, px, py float64) bool {
	x, y, w, h := ButtonRect(m)
	return px >= x && px <= x+w && py >= y && py <= y+h
}

// ButtonLabel 按钮文字
func ButtonLabel(state components.RevState) string {
	if state == components.RevRevving {
		return "MAX_RPM"
	}
	return "IGNITE"
}

// Update 读取本帧输入并转换为点火事件
func (s *EngineScene) Update(deltaTime float64) {
	state := s.hold.Update()
	s.HandleInput(InputFrame{
		Hold:    state,
		Pointer: s.hold.Info(),
		KeyDown: utils.IsAnyKeyJustPressed(ebiten.KeySpace, ebiten.KeyEnter),
		KeyUp:   utils.IsAnyKeyJustReleased(ebiten.KeySpace, ebiten.KeyEnter),
		Gesture: utils.IsGesture(),
		Mute:    utils.IsAnyKeyJustPressed(ebiten.KeyM),
		Volume:  volumeInput(),
	})
}

// volumeInput 读取音量键：= / 小键盘 + 增大，- / 小键盘 - 减小
func volumeInput() float64 {
	var delta float64
	if utils.IsAnyKeyJustPressed(ebiten.KeyEqual, ebiten.KeyNumpadAdd) {
		delta += volumeStep
	}
	if utils.IsAnyKeyJustPressed(ebiten.KeyMinus, ebiten.KeyNumpadSubtract) {
		delta -= volumeStep
	}
	return delta
}

// HandleInput 把一帧输入映射为 IgniteStart / IgniteStop
//
// 指针在按钮内按下开始点火；松开或移出按钮时停止。
// 键盘 Space/Enter 按下开始、松开停止。M 切换静音，+/- 调整音量。
func (s *EngineScene) HandleInput(in InputFrame) {
	if s.music != nil {
		if in.Gesture {
			s.music.RetryOnGesture()
		}
		if in.Mute {
			s.music.ToggleMute()
		}
		if in.Volume != 0 {
			s.music.AdjustVolume(in.Volume)
		}
	}

	m := s.tracker.Current()
	dpr := m.DevicePixelRatio
	cx := float64(in.Pointer.CurrentX) / dpr
	cy := float64(in.Pointer.CurrentY) / dpr

	switch in.Hold {
	case utils.HoldStarted:
		if ButtonContains(m, cx, cy) {
			s.pointerIgnite = true
			s.loop.IgniteStart()
		}
	case utils.HoldHolding:
		if s.pointerIgnite && !ButtonContains(m, cx, cy) {
			s.pointerIgnite = false
			s.loop.IgniteStop()
		}
	case utils.HoldEnded:
		if s.pointerIgnite {
			s.pointerIgnite = false
			s.loop.IgniteStop()
		}
	}

	if in.KeyDown {
		s.loop.IgniteStart()
	}
	if in.KeyUp {
		s.loop.IgniteStop()
	}
}

// FocusChanged 失焦时强制回到怠速并暂停音乐，恢复时继续播放
func (s *EngineScene) FocusChanged(focused bool) {
	if focused {
		log.Printf("[EngineScene] Focus regained")
		if s.music != nil {
			s.music.ResumeMusic()
		}
		return
	}

	log.Printf("[EngineScene] Focus lost")
	s.pointerIgnite = false
	s.hold.Reset()
	s.loop.LoseFocus()
	if s.music != nil {
		s.music.PauseMusic()
	}
}

// OnExit 场景退出时暂停音乐
func (s *EngineScene) OnExit() {
	if s.music != nil {
		s.music.PauseMusic()
	}
}

// Draw 绘制引擎与点火按钮
func (s *EngineScene) Draw(screen *ebiten.Image) {
	m := s.tracker.Current()
	s.surface.Begin(screen, m.DevicePixelRatio)

	s.Render(s.surface)

	state := s.loop.Rev().State()
	label := ButtonLabel(state)
	x, y, w, h := ButtonRect(m)
	dpr := m.DevicePixelRatio
	tx := int((x+w/2)*dpr) - len(label)*debugGlyphWidth/2
	ty := int((y+h/2)*dpr) - 8
	ebitenutil.DebugPrintAt(screen, label, tx, ty)
}

// Render 在 surface 上绘制引擎画面与按钮外框
func (s *EngineScene) Render(surface canvas.Surface) {
	s.loop.Render(surface)
	DrawIgniteButton(surface, s.tracker.Current(), s.loop.Rev().State())
}

// DrawIgniteButton 绘制按钮底色与霓虹边框，怠速青色、轰油门时粉色
func DrawIgniteButton(surface canvas.Surface, m viewport.Metrics, state components.RevState) {
	x, y, w, h := ButtonRect(m)

	border := buttonIdle
	if state == components.RevRevving {
		border = buttonRevving
	}

	p := canvas.NewPath(canvas.Identity())
	p.Rect(x, y, w, h)

	surface.FillPath(p, canvas.Solid{Color: buttonFill})
	surface.SetGlow(10, border)
	surface.StrokePath(p, canvas.Stroke{Width: 2, Color: border, Cap: canvas.CapButt})
	surface.SetGlow(0, color.NRGBA{})
}
