package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/neonengine/pkg/components"
	"github.com/decker502/neonengine/pkg/kinematics"
	"github.com/decker502/neonengine/pkg/utils/colorutil"
)

// ErrInvalidConfig 配置校验失败时返回的哨兵错误
var ErrInvalidConfig = errors.New("invalid engine config")

// EngineConfig 引擎配置
//
// 描述引擎几何尺寸、转速状态机参数、粒子参数、音频资源和窗口。
// 默认值见 DefaultEngineConfig()，配置文件中未出现的字段保留默认值。
//
// 配置文件位置: data/engine.yaml
type EngineConfig struct {
	Geometry  GeometryConfig `yaml:"geometry"`
	Rev       RevConfig      `yaml:"rev"`
	Particles ParticleConfig `yaml:"particles"`
	Audio     AudioConfig    `yaml:"audio"`
	Window    WindowConfig   `yaml:"window"`
}

// GeometryConfig 引擎几何尺寸（参考单位）
type GeometryConfig struct {
	CrankRadius    float64 `yaml:"crankRadius"`    // 曲柄半径
	RodLength      float64 `yaml:"rodLength"`      // 连杆长度，必须大于曲柄半径
	PistonWidth    float64 `yaml:"pistonWidth"`    // 活塞宽度
	PistonHeight   float64 `yaml:"pistonHeight"`   // 活塞高度
	FlywheelRadius float64 `yaml:"flywheelRadius"` // 飞轮半径
}

// RevConfig 转速状态机参数
type RevConfig struct {
	IdleRPM          float64 `yaml:"idleRPM"`          // 怠速目标转速
	MaxRPM           float64 `yaml:"maxRPM"`           // 轰油门目标转速
	Smoothing        float64 `yaml:"smoothing"`        // 指数逼近系数，取值 (0, 1)
	AngleScale       float64 `yaml:"angleScale"`       // 每帧角度增量 = rpm/60 * angleScale
	AmbientThreshold float64 `yaml:"ambientThreshold"` // 松开油门后仍持续冒火花的转速阈值
}

// ParticleConfig 粒子系统参数
type ParticleConfig struct {
	LifeDecay float64       `yaml:"lifeDecay"` // 每帧生命衰减
	Ambient   AmbientConfig `yaml:"ambient"`
	Burst     BurstConfig   `yaml:"burst"`
}

// AmbientConfig 运转时持续喷出的火花
type AmbientConfig struct {
	Palette       []string `yaml:"palette"`       // 颜色表（#rrggbb）
	Life          float64  `yaml:"life"`          // 固定寿命
	Drag          float64  `yaml:"drag"`          // 阻尼
	Fall          float64  `yaml:"fall"`          // 无重力粒子每帧下坠加速度（参考单位）
	SpreadX       float64  `yaml:"spreadX"`       // 水平速度范围 ±spreadX/2
	SpeedY        float64  `yaml:"speedY"`        // 垂直速度幅度
	BiasY         float64  `yaml:"biasY"`         // 垂直速度偏置：vy = (r - biasY) * speedY
	SizeMin       int      `yaml:"sizeMin"`       // 最小尺寸
	SizeRange     int      `yaml:"sizeRange"`     // 尺寸随机范围
	CenterChance  float64  `yaml:"centerChance"`  // 曲轴中心每帧喷出概率
	ExhaustChance float64  `yaml:"exhaustChance"` // 排气口每帧喷出概率
}

// BurstConfig 点火瞬间的彩纸爆发
type BurstConfig struct {
	Count      int      `yaml:"count"`      // 粒子数量
	Palette    []string `yaml:"palette"`    // 颜色表
	LifeMin    float64  `yaml:"lifeMin"`    // 最短寿命
	LifeSpread float64  `yaml:"lifeSpread"` // 寿命随机范围，寿命 ∈ [lifeMin, lifeMin+lifeSpread)
	Drag       float64  `yaml:"drag"`       // 阻尼
	Gravity    float64  `yaml:"gravity"`    // 重力加速度（参考单位）
	SpreadX    float64  `yaml:"spreadX"`    // 水平速度范围
	SpeedY     float64  `yaml:"speedY"`     // 垂直速度幅度
	BiasY      float64  `yaml:"biasY"`      // 垂直速度偏置
	SizeMin    int      `yaml:"sizeMin"`    // 最小尺寸
	SizeRange  int      `yaml:"sizeRange"`  // 尺寸随机范围
}

// AudioConfig 音频资源（相对 assets 目录的路径，为空表示不播放）
type AudioConfig struct {
	IgniteSound string `yaml:"igniteSound"`
	Music       string `yaml:"music"`
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// DefaultEngineConfig 返回默认配置
func DefaultEngineConfig() *EngineConfig {
	g := kinematics.DefaultGeometry()
	return &EngineConfig{
		Geometry: GeometryConfig{
			CrankRadius:    g.CrankRadius,
			RodLength:      g.RodLength,
			PistonWidth:    g.PistonWidth,
			PistonHeight:   g.PistonHeight,
			FlywheelRadius: g.FlywheelRadius,
		},
		Rev: RevConfig{
			IdleRPM:          60,
			MaxRPM:           800,
			Smoothing:        0.05,
			AngleScale:       0.2,
			AmbientThreshold: 300,
		},
		Particles: ParticleConfig{
			LifeDecay: 0.015,
			Ambient: AmbientConfig{
				Palette:       []string{"#00f2ea", "#ffd700"},
				Life:          1.0,
				Drag:          0.98,
				Fall:          0.5,
				SpreadX:       10,
				SpeedY:        10,
				BiasY:         2,
				SizeMin:       2,
				SizeRange:     3,
				CenterChance:  0.6,
				ExhaustChance: 0.4,
			},
			Burst: BurstConfig{
				Count:      200,
				Palette:    []string{"#00f2ea", "#ffd700", "#ff0050", "#ffffff", "#00ff00"},
				LifeMin:    1.0,
				LifeSpread: 1.5,
				Drag:       0.96,
				Gravity:    0.5,
				SpreadX:    40,
				SpeedY:     50,
				BiasY:      1.2,
				SizeMin:    4,
				SizeRange:  8,
			},
		},
		Audio: AudioConfig{
			IgniteSound: "audio/ignite.ogg",
			Music:       "audio/bgm.mp3",
		},
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
			Title:  DefaultWindowTitle,
		},
	}
}

// ParseEngineConfig 解析 YAML 配置，未出现的字段保留默认值
func ParseEngineConfig(data []byte) (*EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEngineConfig 从指定路径加载引擎配置
//
// 参数:
//   - path: 配置文件路径（如 "data/engine.yaml"）
//
// 返回:
//   - *EngineConfig: 加载成功后的配置结构
//   - error: 读取、解析或校验失败时返回错误
func LoadEngineConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config: %w", err)
	}
	return ParseEngineConfig(data)
}

// Kinematics 转换为运动学求解使用的几何结构
func (g GeometryConfig) Kinematics() kinematics.Geometry {
	return kinematics.Geometry{
		CrankRadius:    g.CrankRadius,
		RodLength:      g.RodLength,
		PistonWidth:    g.PistonWidth,
		PistonHeight:   g.PistonHeight,
		FlywheelRadius: g.FlywheelRadius,
	}
}

// Validate 验证配置有效性
//
// 检查项：
//   - 几何约束：连杆长度必须大于曲柄半径，其余尺寸为正
//   - 转速：怠速与最高转速非负，平滑系数在 (0, 1) 内
//   - 粒子：颜色表非空且可解析，寿命、阻尼、概率在合理范围
//
// 返回:
//   - error: 包装 ErrInvalidConfig 的错误，成功返回 nil
func (c *EngineConfig) Validate() error {
	if err := c.Geometry.Kinematics().Validate(); err != nil {
		return fmt.Errorf("%w: geometry: %w", ErrInvalidConfig, err)
	}

	r := c.Rev
	if r.IdleRPM < 0 || r.MaxRPM < 0 {
		return fmt.Errorf("%w: rpm set points must be >= 0, got idle=%.1f max=%.1f", ErrInvalidConfig, r.IdleRPM, r.MaxRPM)
	}
	if !(r.Smoothing > 0 && r.Smoothing < 1) {
		return fmt.Errorf("%w: smoothing must be in (0, 1), got %.3f", ErrInvalidConfig, r.Smoothing)
	}
	if r.AngleScale <= 0 {
		return fmt.Errorf("%w: angleScale must be > 0, got %.3f", ErrInvalidConfig, r.AngleScale)
	}

	p := c.Particles
	if p.LifeDecay <= 0 {
		return fmt.Errorf("%w: lifeDecay must be > 0, got %.4f", ErrInvalidConfig, p.LifeDecay)
	}
	if _, _, err := p.Palettes(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if p.Ambient.Life <= 0 {
		return fmt.Errorf("%w: ambient life must be > 0, got %.2f", ErrInvalidConfig, p.Ambient.Life)
	}
	if !validDrag(p.Ambient.Drag) || !validDrag(p.Burst.Drag) {
		return fmt.Errorf("%w: drag must be in (0, 1], got ambient=%.2f burst=%.2f", ErrInvalidConfig, p.Ambient.Drag, p.Burst.Drag)
	}
	if p.Ambient.SizeMin <= 0 || p.Burst.SizeMin <= 0 || p.Ambient.SizeRange < 0 || p.Burst.SizeRange < 0 {
		return fmt.Errorf("%w: particle sizes must be positive", ErrInvalidConfig)
	}
	if !validChance(p.Ambient.CenterChance) || !validChance(p.Ambient.ExhaustChance) {
		return fmt.Errorf("%w: emission chances must be in [0, 1]", ErrInvalidConfig)
	}
	if p.Burst.Count < 0 {
		return fmt.Errorf("%w: burst count must be >= 0, got %d", ErrInvalidConfig, p.Burst.Count)
	}
	if p.Burst.LifeMin <= 0 || p.Burst.LifeSpread < 0 {
		return fmt.Errorf("%w: burst life range invalid: min=%.2f spread=%.2f", ErrInvalidConfig, p.Burst.LifeMin, p.Burst.LifeSpread)
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	return nil
}

// Palettes 解析火花与爆发两套颜色表
func (p ParticleConfig) Palettes() (ambient, burst components.Palette, err error) {
	ambient, err = parsePalette("ambient", p.Ambient.Palette)
	if err != nil {
		return nil, nil, err
	}
	burst, err = parsePalette("burst", p.Burst.Palette)
	if err != nil {
		return nil, nil, err
	}
	return ambient, burst, nil
}

func parsePalette(name string, hex []string) (components.Palette, error) {
	if len(hex) == 0 {
		return nil, fmt.Errorf("%s palette is empty", name)
	}
	palette := make(components.Palette, 0, len(hex))
	for _, h := range hex {
		c, err := colorutil.ParseHexColor(h)
		if err != nil {
			return nil, fmt.Errorf("%s palette: %w", name, err)
		}
		palette = append(palette, c)
	}
	return palette, nil
}

func validDrag(d float64) bool {
	return d > 0 && d <= 1
}

func validChance(p float64) bool {
	return p >= 0 && p <= 1
}
