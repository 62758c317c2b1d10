package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is one screen of the application driven by the ebiten game loop.
type Scene interface {
	// Update advances the scene by one ebiten tick.
	// deltaTime is the nominal tick length in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// FocusAware 可选接口：场景需要感知窗口焦点变化时实现
type FocusAware interface {
	// FocusChanged 在窗口获得或失去焦点时调用
	FocusChanged(focused bool)
}

// Exiter 可选接口：场景被替换或程序关闭时调用 OnExit 释放资源、保存偏好
type Exiter interface {
	OnExit()
}
