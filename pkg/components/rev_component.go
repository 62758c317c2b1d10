package components

// RevState 引擎油门状态
type RevState int

const (
	// RevIdle 怠速（初始状态）
	RevIdle RevState = iota
	// RevRevving 轰油门
	RevRevving
)

// String 返回状态名称
func (s RevState) String() string {
	switch s {
	case RevIdle:
		return "Idle"
	case RevRevving:
		return "Revving"
	default:
		return "Unknown"
	}
}

// RpmState 当前转速与目标转速
//
// Current 每帧以指数方式逼近 Target，Target 只会是怠速或最高转速两个设定值之一
type RpmState struct {
	Current float64
	Target  float64
}
