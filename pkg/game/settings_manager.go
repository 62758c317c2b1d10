package game

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v3"
)

// Settings 用户偏好设置
// 只保存音频与窗口偏好，不保存任何动画状态
type Settings struct {
	MusicVolume  float64 `yaml:"musicVolume"`  // 背景音乐音量 0.0 ~ 1.0
	SoundVolume  float64 `yaml:"soundVolume"`  // 点火音效音量 0.0 ~ 1.0
	MusicEnabled bool    `yaml:"musicEnabled"` // 背景音乐开关
	SoundEnabled bool    `yaml:"soundEnabled"` // 音效开关
	Fullscreen   bool    `yaml:"fullscreen"`   // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{
		MusicVolume:  0.7,
		SoundVolume:  0.8,
		MusicEnabled: true,
		SoundEnabled: true,
	}
}

// PreferenceStore 设置的持久化后端
// *gdata.Manager 满足该接口
type PreferenceStore interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

// 存储路径常量
const (
	preferencesObject = "preferences"
	preferencesProp   = "engine"
)

// SettingsManager 设置管理器
// 负责偏好设置的加载、保存；store 为 nil 时仅在内存中生效
type SettingsManager struct {
	store    PreferenceStore
	settings *Settings
}

// NewSettingsManager 创建设置管理器并尝试加载已保存的设置
//
// 参数：
//   - store: 持久化后端，可为 nil（降级模式）
//
// 加载失败只记录日志，返回的管理器使用默认设置。
func NewSettingsManager(store PreferenceStore) *SettingsManager {
	sm := &SettingsManager{
		store:    store,
		settings: DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: %v (using defaults)", err)
	}
	return sm
}

// Load 从持久化后端加载设置
//
// 返回：
//   - error: 读取或反序列化失败；此时设置回退为默认值
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings()
	if sm.store == nil || !sm.store.ObjectPropExists(preferencesObject, preferencesProp) {
		return nil
	}

	data, err := sm.store.LoadObjectProp(preferencesObject, preferencesProp)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 缺失字段保留默认值
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.MusicVolume = clampVolume(loaded.MusicVolume)
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded")
	return nil
}

// Save 保存设置；降级模式下直接返回 nil
func (sm *SettingsManager) Save() error {
	if sm.store == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.store.SaveObjectProp(preferencesObject, preferencesProp, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved")
	return nil
}

// Persistent 设置是否会被持久化
func (sm *SettingsManager) Persistent() bool {
	return sm.store != nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *Settings {
	return sm.settings
}

// SetMusicVolume 设置音乐音量，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = clampVolume(volume)
}

// SetSoundVolume 设置音效音量，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetMusicEnabled 设置音乐开关
func (sm *SettingsManager) SetMusicEnabled(enabled bool) {
	sm.settings.MusicEnabled = enabled
}

// SetSoundEnabled 设置音效开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetFullscreen 设置全屏偏好
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
