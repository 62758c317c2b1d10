// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerSample 一帧的指针原始输入（鼠标左键或第一个触摸点）
type PointerSample struct {
	Down    bool
	X, Y    int
	Touch   bool
	TouchID ebiten.TouchID // 鼠标为 -1
}

// SamplePointer 读取当前帧的指针状态，优先触摸
func SamplePointer() PointerSample {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return PointerSample{Down: true, X: x, Y: y, Touch: true, TouchID: touchIDs[0]}
	}

	x, y := ebiten.CursorPosition()
	return PointerSample{
		Down:    ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		X:       x,
		Y:       y,
		TouchID: -1,
	}
}

// IsAnyKeyJustPressed 任一按键本帧刚按下
func IsAnyKeyJustPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// IsAnyKeyJustReleased 任一按键本帧刚松开
func IsAnyKeyJustReleased(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustReleased(k) {
			return true
		}
	}
	return false
}

// IsGesture 本帧是否有用户操作（点击、触摸或任意按键），用于解锁音频
func IsGesture() bool {
	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	return len(inpututil.AppendJustPressedKeys(nil)) > 0
}

// HoldState 按住状态
type HoldState int

const (
	// HoldNone 没有按住
	HoldNone HoldState = iota
	// HoldStarted 本帧刚按下
	HoldStarted
	// HoldHolding 持续按住
	HoldHolding
	// HoldEnded 本帧刚松开，只持续一帧
	HoldEnded
)

// String 返回状态名
func (s HoldState) String() string {
	switch s {
	case HoldNone:
		return "None"
	case HoldStarted:
		return "Started"
	case HoldHolding:
		return "Holding"
	case HoldEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// HoldInfo 按住信息
type HoldInfo struct {
	State              HoldState
	StartX, StartY     int
	CurrentX, CurrentY int
	TouchID            ebiten.TouchID // 鼠标为 -1
	IsTouchInput       bool
}

// HoldTracker 跟踪一次“按下 → 按住 → 松开”
//
// 触摸时只跟踪按下时的那个触摸点，其他手指不影响状态。
type HoldTracker struct {
	info HoldInfo
}

// NewHoldTracker 创建按住跟踪器
func NewHoldTracker() *HoldTracker {
	return &HoldTracker{info: HoldInfo{TouchID: -1}}
}

// Update 从 ebiten 采样并推进状态（每帧调用一次）
func (h *HoldTracker) Update() HoldState {
	return h.Feed(SamplePointer())
}

// Feed 用一帧采样推进状态
func (h *HoldTracker) Feed(s PointerSample) HoldState {
	if h.info.State == HoldEnded {
		h.Reset()
	}

	switch h.info.State {
	case HoldNone:
		if s.Down {
			h.info = HoldInfo{
				State:        HoldStarted,
				StartX:       s.X,
				StartY:       s.Y,
				CurrentX:     s.X,
				CurrentY:     s.Y,
				TouchID:      s.TouchID,
				IsTouchInput: s.Touch,
			}
		}

	case HoldStarted, HoldHolding:
		if !s.Down || s.Touch != h.info.IsTouchInput || (s.Touch && s.TouchID != h.info.TouchID) {
			h.info.State = HoldEnded
			break
		}
		h.info.State = HoldHolding
		h.info.CurrentX, h.info.CurrentY = s.X, s.Y
	}

	return h.info.State
}

// Reset 重置为未按住
func (h *HoldTracker) Reset() {
	h.info = HoldInfo{State: HoldNone, TouchID: -1}
}

// State 当前状态
func (h *HoldTracker) State() HoldState {
	return h.info.State
}

// Info 完整信息
func (h *HoldTracker) Info() HoldInfo {
	return h.info
}
