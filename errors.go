package feedgen

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFeedName     error = errors.New("register an empty feed name error")
	ErrDuplicateFeedName error = errors.New("register a duplicate feed name error")
	ErrFeedNotExist      error = errors.New("not found feed")
	ErrNilProcessorItem  error = errors.New("processor stage did not return an item")
	ErrEngineRunning     error = errors.New("engine is already running")
)

// ConfigurationError feed配置错误
// 在拉取任何条目之前的配置校验阶段抛出
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid feed configuration %s: %s", e.Field, e.Reason)
}

// ValidationError product必填字段校验错误
// Field 缺失或者非法的字段名
// Ordinal 条目在数据源中的序号
type ValidationError struct {
	Field   string
	Ordinal int
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("product of item %d is invalid, field %q %s", e.Ordinal, e.Field, e.Reason)
}

// PipelineStageError stage执行错误
// 记录stage的类型、注册序号和条目序号
type PipelineStageError struct {
	Kind    StageKind
	Index   int
	Ordinal int
	Err     error
}

func (e *PipelineStageError) Error() string {
	return fmt.Sprintf("%s stage %d failed on item %d: %s", e.Kind.GetKindName(), e.Index, e.Ordinal, e.Err.Error())
}

func (e *PipelineStageError) Unwrap() error {
	return e.Err
}

// SinkError 输出目标读写错误
// Op 为open、write、flush、close、remove之一
type SinkError struct {
	Op  string
	URI string
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s error on %q: %s", e.Op, e.URI, e.Err.Error())
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// IsItemError 判断错误是否为单条目级别错误
// 只有ValidationError和PipelineStageError在skip策略下可以跳过
func IsItemError(err error) bool {
	var v *ValidationError
	var s *PipelineStageError
	return errors.As(err, &v) || errors.As(err, &s)
}
