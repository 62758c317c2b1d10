package scenes

import (
	"math"
	"testing"

	"github.com/decker502/neonengine/pkg/canvas"
	"github.com/decker502/neonengine/pkg/components"
	"github.com/decker502/neonengine/pkg/config"
	"github.com/decker502/neonengine/pkg/game"
	"github.com/decker502/neonengine/pkg/utils"
	"github.com/decker502/neonengine/pkg/utils/colorutil"
	"github.com/decker502/neonengine/pkg/viewport"
)

// fakeMusic 记录背景音乐调用
type fakeMusic struct {
	retries, pauses, resumes int
	muted                    bool
	volume                   float64
}

func (f *fakeMusic) RetryOnGesture() { f.retries++ }
func (f *fakeMusic) PauseMusic()     { f.pauses++ }
func (f *fakeMusic) ResumeMusic()    { f.resumes++ }

func (f *fakeMusic) ToggleMute() bool {
	f.muted = !f.muted
	return f.muted
}

func (f *fakeMusic) AdjustVolume(delta float64) { f.volume += delta }

var _ MusicController = (*game.AudioManager)(nil)

func newTestScene(t *testing.T, dpr float64) (*EngineScene, *game.AnimationLoop, *fakeMusic) {
	t.Helper()
	tracker := viewport.NewTracker(500, 500, dpr)
	loop, err := game.NewAnimationLoop(config.DefaultEngineConfig(), tracker, utils.NewRand(7), nil)
	if err != nil {
		t.Fatalf("NewAnimationLoop failed: %v", err)
	}
	music := &fakeMusic{}
	return NewEngineScene(loop, tracker, music), loop, music
}

// pointer 构造设备像素坐标下的指针输入
func pointer(state utils.HoldState, x, y int) InputFrame {
	return InputFrame{Hold: state, Pointer: utils.HoldInfo{State: state, CurrentX: x, CurrentY: y}}
}

func TestButtonRect(t *testing.T) {
	m, _ := viewport.NewMetrics(500, 500, 1)
	x, y, w, h := ButtonRect(m)
	if x != 170 || y != 420 || w != 160 || h != 44 {
		t.Errorf("ButtonRect = (%v, %v, %v, %v), want (170, 420, 160, 44)", x, y, w, h)
	}

	tests := []struct {
		px, py float64
		want   bool
	}{
		{250, 440, true},
		{170, 420, true},
		{330, 464, true},
		{169, 440, false},
		{250, 465, false},
	}
	for _, tt := range tests {
		if got := ButtonContains(m, tt.px, tt.py); got != tt.want {
			t.Errorf("ButtonContains(%v, %v) = %v, want %v", tt.px, tt.py, got, tt.want)
		}
	}
}

func TestButtonLabel(t *testing.T) {
	if ButtonLabel(components.RevIdle) != "IGNITE" {
		t.Error("idle label should be IGNITE")
	}
	if ButtonLabel(components.RevRevving) != "MAX_RPM" {
		t.Error("revving label should be MAX_RPM")
	}
}

func TestEngineScene_PointerPressAndRelease(t *testing.T) {
	scene, loop, _ := newTestScene(t, 1)

	scene.HandleInput(pointer(utils.HoldStarted, 250, 440))
	if !loop.Rev().Revving() {
		t.Fatal("press inside the button should ignite")
	}

	scene.HandleInput(pointer(utils.HoldHolding, 252, 441))
	if !loop.Rev().Revving() {
		t.Fatal("holding inside the button keeps revving")
	}

	scene.HandleInput(pointer(utils.HoldEnded, 252, 441))
	if loop.Rev().Revving() {
		t.Error("release should stop revving")
	}
}

func TestEngineScene_PointerLeavesButton(t *testing.T) {
	scene, loop, _ := newTestScene(t, 1)

	scene.HandleInput(pointer(utils.HoldStarted, 250, 440))
	scene.HandleInput(pointer(utils.HoldHolding, 250, 200))
	if loop.Rev().Revving() {
		t.Error("leaving the button should stop revving")
	}

	// 回到按钮内不会重新点火
	scene.HandleInput(pointer(utils.HoldHolding, 250, 440))
	if loop.Rev().Revving() {
		t.Error("re-entering without a new press must not ignite")
	}
}

func TestEngineScene_PressOutsideIgnored(t *testing.T) {
	scene, loop, _ := newTestScene(t, 1)

	scene.HandleInput(pointer(utils.HoldStarted, 10, 10))
	if loop.Rev().Revving() {
		t.Error("press outside the button must not ignite")
	}
}

func TestEngineScene_PointerUsesDevicePixels(t *testing.T) {
	scene, loop, _ := newTestScene(t, 2)

	// CSS (250, 440) 在 DPR 2 下对应设备像素 (500, 880)
	scene.HandleInput(pointer(utils.HoldStarted, 500, 880))
	if !loop.Rev().Revving() {
		t.Error("device coordinates should be divided by DPR")
	}
}

func TestEngineScene_Keyboard(t *testing.T) {
	scene, loop, _ := newTestScene(t, 1)

	scene.HandleInput(InputFrame{KeyDown: true})
	if !loop.Rev().Revving() {
		t.Fatal("Space/Enter press should ignite")
	}
	scene.HandleInput(InputFrame{KeyUp: true})
	if loop.Rev().Revving() {
		t.Error("Space/Enter release should stop revving")
	}
}

func TestEngineScene_GestureRetriesMusic(t *testing.T) {
	scene, _, music := newTestScene(t, 1)

	scene.HandleInput(InputFrame{})
	scene.HandleInput(InputFrame{Gesture: true})
	if music.retries != 1 {
		t.Errorf("retries = %d, want 1", music.retries)
	}
}

func TestEngineScene_AudioKeys(t *testing.T) {
	scene, loop, music := newTestScene(t, 1)

	scene.HandleInput(InputFrame{Mute: true, Gesture: true})
	if !music.muted {
		t.Error("M should toggle mute")
	}
	scene.HandleInput(InputFrame{Volume: volumeStep})
	scene.HandleInput(InputFrame{Volume: volumeStep})
	scene.HandleInput(InputFrame{Volume: -volumeStep})
	if math.Abs(music.volume-volumeStep) > 1e-9 {
		t.Errorf("volume delta = %v, want %v", music.volume, volumeStep)
	}
	scene.HandleInput(InputFrame{Mute: true})
	if music.muted {
		t.Error("second M should unmute")
	}
	if loop.Rev().State() != components.RevIdle {
		t.Error("audio keys must not ignite")
	}
}

func TestEngineScene_FocusLoss(t *testing.T) {
	scene, loop, music := newTestScene(t, 1)

	scene.HandleInput(pointer(utils.HoldStarted, 250, 440))
	scene.FocusChanged(false)
	if loop.Rev().Revving() {
		t.Error("focus loss should force Idle")
	}
	if music.pauses != 1 {
		t.Errorf("pauses = %d, want 1", music.pauses)
	}

	// 失焦后残留的松开事件不再触发 IgniteStop 之外的变化
	scene.HandleInput(pointer(utils.HoldEnded, 250, 440))
	if loop.Rev().Revving() {
		t.Error("state should stay Idle")
	}

	scene.FocusChanged(true)
	if music.resumes != 1 {
		t.Errorf("resumes = %d, want 1", music.resumes)
	}
}

func TestEngineScene_NilMusic(t *testing.T) {
	tracker := viewport.NewTracker(500, 500, 1)
	loop, err := game.NewAnimationLoop(config.DefaultEngineConfig(), tracker, utils.NewRand(1), nil)
	if err != nil {
		t.Fatalf("NewAnimationLoop failed: %v", err)
	}
	scene := NewEngineScene(loop, tracker, nil)

	scene.HandleInput(InputFrame{Gesture: true, KeyDown: true})
	scene.FocusChanged(false)
	scene.FocusChanged(true)
	scene.OnExit()
}

func TestDrawIgniteButton(t *testing.T) {
	m, _ := viewport.NewMetrics(500, 500, 1)

	tests := []struct {
		state components.RevState
		want  string
	}{
		{components.RevIdle, "#00f2ea"},
		{components.RevRevving, "#ff0050"},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			rec := canvas.NewRecorder(500, 500)
			DrawIgniteButton(rec, m, tt.state)

			strokes := rec.Filter(canvas.OpStrokePath)
			if len(rec.Filter(canvas.OpFillPath)) != 1 || len(strokes) != 1 {
				t.Fatalf("ops = %d, want one fill and one stroke", len(rec.Ops))
			}
			if strokes[0].Stroke.Color != colorutil.MustParseHexColor(tt.want) {
				t.Errorf("border = %v, want %s", strokes[0].Stroke.Color, tt.want)
			}
			if strokes[0].GlowBlur != 10 {
				t.Errorf("glow = %v, want 10", strokes[0].GlowBlur)
			}
			if blur, _ := rec.Glow(); blur != 0 {
				t.Error("glow should be reset after the border")
			}
		})
	}
}

func TestEngineScene_RenderDrawsButtonLast(t *testing.T) {
	scene, _, _ := newTestScene(t, 1)
	rec := canvas.NewRecorder(500, 500)

	scene.Render(rec)

	if len(rec.Ops) < 3 {
		t.Fatalf("too few ops: %d", len(rec.Ops))
	}
	if rec.Ops[0].Kind != canvas.OpClear {
		t.Errorf("first op = %v, want Clear", rec.Ops[0].Kind)
	}
	if last := rec.Ops[len(rec.Ops)-1]; last.Kind != canvas.OpStrokePath {
		t.Errorf("last op = %v, want the button border", last.Kind)
	}
}
