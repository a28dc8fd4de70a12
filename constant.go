// Copyright (c) 2024 wetrycode
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package feedgen

// Version feedgen release version
const Version string = "v0.1.0"

// StatusType 当前引擎的状态
type StatusType uint

const (
	// ON_IDLE 空闲状态，引擎尚未启动
	ON_IDLE StatusType = iota
	// ON_CONFIGURING 配置校验状态
	ON_CONFIGURING
	// ON_RUNNING 运行状态
	ON_RUNNING
	// ON_COMPLETED 所有条目处理完成
	ON_COMPLETED
	// ON_FAILED 运行失败
	ON_FAILED
)

// GetTypeName 获取引擎状态的字符串形式
func (p StatusType) GetTypeName() string {
	switch p {
	case ON_IDLE:
		return "idle"
	case ON_CONFIGURING:
		return "configuring"
	case ON_RUNNING:
		return "running"
	case ON_COMPLETED:
		return "completed"
	case ON_FAILED:
		return "failed"
	}
	return "unknown"
}
