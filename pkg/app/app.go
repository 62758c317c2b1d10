// Package app 提供引擎应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/neonengine/pkg/config"
	"github.com/decker502/neonengine/pkg/game"
	"github.com/decker502/neonengine/pkg/scenes"
	"github.com/decker502/neonengine/pkg/utils"
	"github.com/decker502/neonengine/pkg/viewport"
)

// SampleRate 音频上下文采样率
const SampleRate = 48000

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Engine 引擎配置，为 nil 时使用默认配置
	Engine *config.EngineConfig
	// Seed 随机种子，0 表示使用当前时间
	Seed uint64
	// Assets 音频资源目录，为 nil 时静音运行
	Assets fs.FS
	// Fullscreen 启动时全屏（与已保存的偏好取或）
	Fullscreen bool
	// AppName gdata 存储使用的应用名，为空时使用 "neonengine"
	AppName string
}

// App 是引擎应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	engine       *config.EngineConfig
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	audio        *game.AudioManager
	loop         *game.AnimationLoop
	clock        *game.EbitenClock
	tracker      *viewport.Tracker
	verbose      bool

	// forceFullscreen 命令行要求本次全屏启动，不写入设置
	forceFullscreen bool

	// 最近一次 Layout 观察到的窗口尺寸（CSS 像素）与 DPR
	outsideWidth  int
	outsideHeight int
	dpr           float64

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化引擎应用
//
// 初始化顺序：音频上下文 → 资源与设置 → 音频管理器 → 动画循环 → 场景。
// 几何约束不满足时返回错误，其他子系统失败只降级。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	engineCfg := cfg.Engine
	if engineCfg == nil {
		engineCfg = config.DefaultEngineConfig()
	}
	if err := engineCfg.Validate(); err != nil {
		return nil, fmt.Errorf("引擎配置无效: %w", err)
	}

	audioContext := audio.NewContext(SampleRate)
	resourceManager := game.NewResourceManager(cfg.Assets, audioContext)

	settingsManager := game.NewSettingsManager(openPreferenceStore(cfg.AppName))
	audioManager := game.NewAudioManager(resourceManager, settingsManager, engineCfg.Audio)
	log.Printf("[App] AudioManager initialized")

	w, h := engineCfg.Window.Width, engineCfg.Window.Height
	dpr := deviceScaleFactor()
	tracker := viewport.NewTracker(float64(w), float64(h), dpr)

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Printf("[App] Random seed: %d", seed)

	loop, err := game.NewAnimationLoop(engineCfg, tracker, utils.NewRand(seed), audioManager)
	if err != nil {
		return nil, fmt.Errorf("动画循环创建失败: %w", err)
	}

	clock := game.NewEbitenClock(config.TicksPerSecond)
	loop.Start(clock)

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scenes.NewEngineScene(loop, tracker, audioManager))

	audioManager.StartMusic()

	return &App{
		engine:          engineCfg,
		sceneManager:    sceneManager,
		settings:        settingsManager,
		audio:           audioManager,
		loop:            loop,
		clock:           clock,
		tracker:         tracker,
		verbose:         cfg.Verbose,
		forceFullscreen: cfg.Fullscreen,
		outsideWidth:    w,
		outsideHeight:   h,
		dpr:             dpr,
	}, nil
}

// openPreferenceStore 打开 gdata 存储；失败时返回 nil 接口（仅内存设置）
func openPreferenceStore(appName string) game.PreferenceStore {
	if appName == "" {
		appName = "neonengine"
	}
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		return nil
	}
	return manager
}

// deviceScaleFactor 当前显示器的 DPR，无法获取时为 1
func deviceScaleFactor() float64 {
	if m := ebiten.Monitor(); m != nil {
		if f := m.DeviceScaleFactor(); f > 0 {
			return f
		}
	}
	return 1
}

// ConfigureWindow 设置窗口属性，在 ebiten.RunGame 之前调用
func (a *App) ConfigureWindow() {
	if utils.IsMobile() {
		return
	}
	ebiten.SetWindowSize(a.engine.Window.Width, a.engine.Window.Height)
	ebiten.SetWindowTitle(a.engine.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
	if a.startFullscreen() {
		ebiten.SetFullscreen(true)
	}
}

// startFullscreen 启动时是否全屏：命令行参数与已保存的偏好取或
func (a *App) startFullscreen() bool {
	return a.forceFullscreen || a.settings.GetSettings().Fullscreen
}

// Run 配置窗口并进入 ebiten 主循环，窗口关闭后返回
func (a *App) Run() error {
	a.ConfigureWindow()
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("游戏循环异常退出: %w", err)
	}
	return nil
}

// Update 更新逻辑
// 每个 tick 调用一次（每秒 60 次）
//
// 顺序：视口观察 → 焦点 → 输入（场景）→ 时钟推进动画循环
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Shutdown()
		return ebiten.Termination
	}

	a.tracker.Observe(float64(a.outsideWidth), float64(a.outsideHeight), a.dpr)
	a.sceneManager.SetFocused(ebiten.IsFocused())

	a.updateFullscreen()

	a.sceneManager.Update(config.FrameDuration)
	a.clock.Tick()
	return nil
}

// updateFullscreen F11 切换全屏，并记住偏好
func (a *App) updateFullscreen() {
	// 退出全屏后需要等待几帧才能正确设置窗口大小
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.engine.Window.Width, a.engine.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	if utils.IsMobile() || !inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		return
	}

	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settings.SetFullscreen(false)
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
		a.settings.SetFullscreen(true)
		log.Printf("[App] Enter fullscreen")
	}
}

// Draw 绘制当前场景
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout 记录窗口尺寸，返回设备像素尺寸，使画面在任意窗口下按 DPR 清晰绘制
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.outsideWidth, a.outsideHeight = outsideWidth, outsideHeight
	a.dpr = deviceScaleFactor()

	m, ok := viewport.NewMetrics(float64(outsideWidth), float64(outsideHeight), a.dpr)
	if !ok {
		m = a.tracker.Current()
	}
	return m.DeviceSize()
}

// Shutdown 保存偏好并退出当前场景
func (a *App) Shutdown() {
	a.sceneManager.Shutdown()
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	log.Printf("[App] Shutdown complete after %d frames", a.clock.Frames())
}

// Loop 返回动画循环
func (a *App) Loop() *game.AnimationLoop {
	return a.loop
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
