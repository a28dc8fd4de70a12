// MIT License

// Copyright (c) 2024 wetrycode

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package feedgen

// StageKind stage的类型标签
type StageKind uint

const (
	// ProcessorStage 条目转换stage
	ProcessorStage StageKind = iota
	// FilterStage 条目过滤stage
	FilterStage
	// MapperStage product填充stage
	MapperStage
)

// GetKindName 获取stage类型的字符串形式
func (k StageKind) GetKindName() string {
	switch k {
	case ProcessorStage:
		return "processor"
	case FilterStage:
		return "filter"
	case MapperStage:
		return "mapper"
	}
	return "unknown"
}

// ProcessorFunc 条目转换函数
// 返回的新条目会替换旧条目进入后续stage
// 返回nil条目视为stage错误
type ProcessorFunc func(item ItemInterface) (ItemInterface, error)

// FilterFunc 条目过滤函数
// 返回false则丢弃该条目，跳过剩余的filter和全部mapper
type FilterFunc func(item ItemInterface) (bool, error)

// MapperFunc product填充函数
// 同一个条目的所有mapper共享一个product实例
type MapperFunc func(item ItemInterface, product *Product) error

// StageRegistry stage注册表
// 三类stage各自维护一个追加序列，注册顺序即执行顺序
// 不支持移除和重排
type StageRegistry struct {
	processors []ProcessorFunc
	filters    []FilterFunc
	mappers    []MapperFunc
}

// NewStageRegistry 构建空的stage注册表
func NewStageRegistry() *StageRegistry {
	return &StageRegistry{
		processors: make([]ProcessorFunc, 0),
		filters:    make([]FilterFunc, 0),
		mappers:    make([]MapperFunc, 0),
	}
}

// AddProcessor 追加一个processor stage
func (r *StageRegistry) AddProcessor(fn ProcessorFunc) {
	r.processors = append(r.processors, fn)
}

// AddFilter 追加一个filter stage
func (r *StageRegistry) AddFilter(fn FilterFunc) {
	r.filters = append(r.filters, fn)
}

// AddMapper 追加一个mapper stage
func (r *StageRegistry) AddMapper(fn MapperFunc) {
	r.mappers = append(r.mappers, fn)
}

// Processors 按注册顺序返回所有processor
func (r *StageRegistry) Processors() []ProcessorFunc {
	return r.processors
}

// Filters 按注册顺序返回所有filter
func (r *StageRegistry) Filters() []FilterFunc {
	return r.filters
}

// Mappers 按注册顺序返回所有mapper
func (r *StageRegistry) Mappers() []MapperFunc {
	return r.mappers
}
