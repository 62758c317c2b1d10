package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/decker502/neonengine/pkg/config"
)

// AudioManager 音频管理器
//
// 职责：
//   - 背景音乐的启动、失焦暂停与恢复
//   - 点火音效的即发即弃播放（实现 IgniteSoundPlayer）
//   - 从 SettingsManager 读取音量与开关
//
// 所有播放失败都只记录日志，不向调用方返回错误。
// 音频上下文尚未就绪时（例如浏览器要求先有用户交互），
// 背景音乐进入待重试状态，在下一次用户操作时由 RetryOnGesture 重新启动。
type AudioManager struct {
	resources *ResourceManager
	settings  *SettingsManager
	paths     config.AudioConfig

	music      *audio.Player
	musicRetry bool // 等待用户操作后重试
	musicPause bool // 因失焦暂停
}

// NewAudioManager 创建音频管理器
//
// 参数：
//   - rm: 资源管理器，可为 nil（静音）
//   - sm: 设置管理器，可为 nil（使用默认音量）
//   - paths: 音频资源路径
func NewAudioManager(rm *ResourceManager, sm *SettingsManager, paths config.AudioConfig) *AudioManager {
	return &AudioManager{
		resources: rm,
		settings:  sm,
		paths:     paths,
	}
}

// StartMusic 开始播放背景音乐
//
// 返回：
//   - bool: 是否已开始播放；上下文未就绪时返回 false 并等待重试
func (am *AudioManager) StartMusic() bool {
	if am.resources == nil || am.paths.Music == "" || !am.musicEnabled() {
		return false
	}

	player, err := am.resources.LoadMusic(am.paths.Music)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to load music %s: %v", am.paths.Music, err)
		return false
	}
	am.music = player

	if ctx := am.resources.AudioContext(); ctx == nil || !ctx.IsReady() {
		log.Printf("[AudioManager] Audio not ready, waiting for user interaction")
		am.musicRetry = true
		return false
	}

	am.musicRetry = false
	player.SetVolume(am.musicVolume())
	if !am.musicPause {
		player.Play()
	}
	log.Printf("[AudioManager] Playing music: %s (volume: %.2f)", am.paths.Music, am.musicVolume())
	return true
}

// RetryOnGesture 用户点击、触摸或按键时调用，重试之前未能启动的背景音乐
func (am *AudioManager) RetryOnGesture() {
	if !am.musicRetry {
		return
	}
	am.StartMusic()
}

// MusicPending 背景音乐是否在等待用户操作后重试
func (am *AudioManager) MusicPending() bool {
	return am.musicRetry
}

// PauseMusic 窗口隐藏或失焦时暂停背景音乐
func (am *AudioManager) PauseMusic() {
	am.musicPause = true
	if am.music != nil {
		am.music.Pause()
	}
}

// ResumeMusic 窗口恢复时继续播放背景音乐
func (am *AudioManager) ResumeMusic() {
	am.musicPause = false
	if am.music == nil || am.musicRetry || !am.musicEnabled() {
		return
	}
	am.music.Play()
}

// PlayIgniteSound 从头播放点火音效
//
// 即发即弃：失败只记录日志。
func (am *AudioManager) PlayIgniteSound() {
	if am.resources == nil || am.paths.IgniteSound == "" || !am.soundEnabled() {
		return
	}

	player, err := am.resources.LoadSoundEffect(am.paths.IgniteSound)
	if err != nil {
		log.Printf("[AudioManager] Failed to load ignite sound: %v", err)
		return
	}
	if ctx := am.resources.AudioContext(); ctx == nil || !ctx.IsReady() {
		return
	}

	player.SetVolume(am.soundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind ignite sound: %v", err)
	}
	player.Play()
}

// SetMusicVolume 设置音乐音量并立即应用
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)
func (am *AudioManager) SetMusicVolume(volume float64) {
	if am.settings != nil {
		am.settings.SetMusicVolume(volume)
	}
	if am.music != nil {
		am.music.SetVolume(am.musicVolume())
	}
}

// SetSoundVolume 设置音效音量，影响之后播放的音效
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settings != nil {
		am.settings.SetSoundVolume(volume)
	}
}

// AdjustVolume 同时调整音乐与音效音量，结果限制在 0.0 ~ 1.0
func (am *AudioManager) AdjustVolume(delta float64) {
	am.SetMusicVolume(am.musicVolume() + delta)
	am.SetSoundVolume(am.soundVolume() + delta)
	log.Printf("[AudioManager] Volume: music %.2f, sound %.2f", am.musicVolume(), am.soundVolume())
}

// ToggleMute 切换静音：音乐或音效任一开启时全部关闭，否则全部开启
//
// 返回：
//   - bool: 切换后是否处于静音状态；没有设置管理器时始终为 false
func (am *AudioManager) ToggleMute() bool {
	if am.settings == nil {
		return false
	}

	mute := am.musicEnabled() || am.soundEnabled()
	am.settings.SetMusicEnabled(!mute)
	am.settings.SetSoundEnabled(!mute)

	if mute {
		if am.music != nil {
			am.music.Pause()
		}
		log.Printf("[AudioManager] Muted")
		return true
	}

	log.Printf("[AudioManager] Unmuted")
	switch {
	case am.music == nil:
		am.StartMusic()
	case !am.musicPause && !am.musicRetry:
		am.music.SetVolume(am.musicVolume())
		am.music.Play()
	}
	return false
}

// MusicVolume 当前音乐音量
func (am *AudioManager) MusicVolume() float64 {
	return am.musicVolume()
}

// SoundVolume 当前音效音量
func (am *AudioManager) SoundVolume() float64 {
	return am.soundVolume()
}

func (am *AudioManager) musicEnabled() bool {
	return am.settings == nil || am.settings.GetSettings().MusicEnabled
}

func (am *AudioManager) soundEnabled() bool {
	return am.settings == nil || am.settings.GetSettings().SoundEnabled
}

func (am *AudioManager) musicVolume() float64 {
	if am.settings != nil {
		return am.settings.GetSettings().MusicVolume
	}
	return DefaultSettings().MusicVolume
}

func (am *AudioManager) soundVolume() float64 {
	if am.settings != nil {
		return am.settings.GetSettings().SoundVolume
	}
	return DefaultSettings().SoundVolume
}
