package systems

import (
	"math"

	"github.com/decker502/neonengine/pkg/components"
	"github.com/decker502/neonengine/pkg/config"
)

// RevStateMachine 油门状态机
//
// 两个状态：Idle（初始）与 Revving，只由外部输入事件切换：
//   - IgniteStart：Idle → Revving，目标转速设为最高转速并通知点火回调
//   - IgniteStop / LoseFocus：Revving → Idle，目标转速设为怠速
//   - 其他组合为空操作（幂等）
//
// Tick 每帧执行，与状态无关：
//
//	current += (target - current) * smoothing
//	angle   += current / 60 * angleScale
//
// current 在每次平滑后被限制在 [0, max(idle, max)]。
type RevStateMachine struct {
	cfg   config.RevConfig
	state components.RevState
	rpm   components.RpmState
	angle float64

	igniteHandlers []func()
}

// NewRevStateMachine 创建状态机
//
// 初始状态为 Idle，转速从 0 开始向怠速爬升，曲轴角度为 0。
func NewRevStateMachine(cfg config.RevConfig) *RevStateMachine {
	return &RevStateMachine{
		cfg:   cfg,
		state: components.RevIdle,
		rpm:   components.RpmState{Current: 0, Target: cfg.IdleRPM},
	}
}

// OnIgnite 注册进入 Revving 时调用的回调（按注册顺序同步调用）
func (m *RevStateMachine) OnIgnite(fn func()) {
	if fn != nil {
		m.igniteHandlers = append(m.igniteHandlers, fn)
	}
}

// IgniteStart 按下点火
//
// 返回:
//   - bool: 是否发生了状态转换
func (m *RevStateMachine) IgniteStart() bool {
	if m.state == components.RevRevving {
		return false
	}
	m.state = components.RevRevving
	m.rpm.Target = m.cfg.MaxRPM
	for _, fn := range m.igniteHandlers {
		fn()
	}
	return true
}

// IgniteStop 松开点火
func (m *RevStateMachine) IgniteStop() bool {
	return m.release()
}

// LoseFocus 窗口失去焦点，与松开点火等效
func (m *RevStateMachine) LoseFocus() bool {
	return m.release()
}

func (m *RevStateMachine) release() bool {
	if m.state == components.RevIdle {
		return false
	}
	m.state = components.RevIdle
	m.rpm.Target = m.cfg.IdleRPM
	return true
}

// Tick 推进一帧：平滑转速并累加曲轴角度
func (m *RevStateMachine) Tick() {
	m.rpm.Current += (m.rpm.Target - m.rpm.Current) * m.cfg.Smoothing
	m.rpm.Current = math.Max(0, math.Min(m.rpm.Current, m.ceiling()))
	m.angle += m.rpm.Current / 60 * m.cfg.AngleScale
}

func (m *RevStateMachine) ceiling() float64 {
	return math.Max(m.cfg.IdleRPM, m.cfg.MaxRPM)
}

// State 返回当前状态
func (m *RevStateMachine) State() components.RevState {
	return m.state
}

// Revving 是否处于轰油门状态
func (m *RevStateMachine) Revving() bool {
	return m.state == components.RevRevving
}

// RPM 返回当前转速
func (m *RevStateMachine) RPM() float64 {
	return m.rpm.Current
}

// RpmState 返回当前与目标转速
func (m *RevStateMachine) RpmState() components.RpmState {
	return m.rpm
}

// Angle 返回累计曲轴角度（弧度，不取模）
func (m *RevStateMachine) Angle() float64 {
	return m.angle
}

// EmitsAmbient 本帧是否应喷出火花
//
// 轰油门期间持续喷出；松开后转速仍高于阈值时继续喷出直到减速。
func (m *RevStateMachine) EmitsAmbient() bool {
	return m.state == components.RevRevving || m.rpm.Current > m.cfg.AmbientThreshold
}
