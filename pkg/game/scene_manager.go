package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager controls which scene is active.
// Only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	focused      bool
}

// NewSceneManager creates a SceneManager with no active scene.
// The window is assumed to be focused at start.
func NewSceneManager() *SceneManager {
	return &SceneManager{focused: true}
}

// SwitchTo replaces the active scene.
// The previous scene receives OnExit if it implements Exiter.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	sm.exitCurrent()
	sm.currentScene = scene
	log.Printf("[SceneManager] Switched to %T", scene)
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// SetFocused 通知窗口焦点状态；只有状态变化时才转发给场景
func (sm *SceneManager) SetFocused(focused bool) {
	if sm.focused == focused {
		return
	}
	sm.focused = focused
	if fa, ok := sm.currentScene.(FocusAware); ok {
		fa.FocusChanged(focused)
	}
}

// Focused 窗口当前是否有焦点
func (sm *SceneManager) Focused() bool {
	return sm.focused
}

// Shutdown 程序关闭前调用，当前场景收到 OnExit
func (sm *SceneManager) Shutdown() {
	sm.exitCurrent()
	sm.currentScene = nil
}

func (sm *SceneManager) exitCurrent() {
	if ex, ok := sm.currentScene.(Exiter); ok {
		ex.OnExit()
	}
}

// Update updates the active scene, if any.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the active scene, if any.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
