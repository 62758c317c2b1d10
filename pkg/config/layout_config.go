package config

// 布局配置常量
// 本文件定义了窗口尺寸、参考尺寸以及引擎各部件相对锚点的偏移量
// 所有偏移量都是"参考单位"，绘制时需乘以视口缩放因子 scale

const (
	// DefaultWindowWidth 默认窗口宽度（CSS 像素）
	DefaultWindowWidth = 960

	// DefaultWindowHeight 默认窗口高度（CSS 像素）
	DefaultWindowHeight = 640

	// DefaultWindowTitle 默认窗口标题
	DefaultWindowTitle = "NEON ENGINE"

	// TicksPerSecond 逻辑帧率，与显示器刷新率对齐
	TicksPerSecond = 60

	// FrameDuration 单帧时长（秒）
	FrameDuration = 1.0 / TicksPerSecond
)

// 引擎部件布局（参考单位）
const (
	// GearOffsetX 齿轮中心相对曲轴中心的 X 偏移
	GearOffsetX = -120.0

	// GearOffsetY 齿轮中心相对曲轴中心的 Y 偏移
	GearOffsetY = 50.0

	// GearRadius 齿轮外半径
	GearRadius = 60.0

	// GearTeeth 齿轮齿数
	GearTeeth = 24

	// GearSpeedRatio 齿轮相对曲轴的角速度比（负号表示反向旋转）
	GearSpeedRatio = -0.5

	// FlywheelCutouts 飞轮镂空孔数量
	FlywheelCutouts = 4

	// CylinderPadding 缸体比活塞宽出的余量
	CylinderPadding = 20.0

	// CylinderTopGap 缸体顶部额外高度
	CylinderTopGap = 50.0

	// FlameLift 火焰中心相对活塞顶的上移量
	FlameLift = 40.0

	// ButtonWidth 点火按钮宽度（CSS 像素，不随 scale 缩放）
	ButtonWidth = 160.0

	// ButtonHeight 点火按钮高度
	ButtonHeight = 44.0

	// ButtonMarginBottom 点火按钮距窗口底边距离
	ButtonMarginBottom = 36.0
)
