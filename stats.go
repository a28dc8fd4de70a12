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

import (
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

const (
	// ItemsPulledStats 从数据源拉取的条目总数
	ItemsPulledStats string = "items_pulled"
	// ItemsFilteredStats 被filter丢弃的条目总数
	ItemsFilteredStats string = "items_filtered"
	// ProductsExportedStats 已经写出的product总数
	ProductsExportedStats string = "products_exported"
	// DuplicateRefStats 被去重组件跳过的product总数
	DuplicateRefStats string = "duplicate_references"
	// ErrorsStats 错误总数
	ErrorsStats string = "errors"
)

// RuntimeStatus 引擎运行状态
type RuntimeStatus struct {
	StartAt  int64
	Duration float64
	StopAt   int64
	// StatusOn 当前引擎的状态
	StatusOn StatusType
}

func NewRuntimeStatus() *RuntimeStatus {
	return &RuntimeStatus{
		StartAt:  0,
		Duration: 0,
		StopAt:   0,
		StatusOn: ON_IDLE,
	}
}

// SetStatus 设置引擎状态
func (r *RuntimeStatus) SetStatus(status StatusType) {
	r.StatusOn = status
}

// GetStatusOn 获取引擎的状态
func (r *RuntimeStatus) GetStatusOn() StatusType {
	return r.StatusOn
}
func (r *RuntimeStatus) SetStartAt(startAt int64) {
	r.StartAt = startAt
}

// GetStartAt 获取引擎启动的时间戳
func (r *RuntimeStatus) GetStartAt() int64 {
	return r.StartAt
}
func (r *RuntimeStatus) SetStopAt(stopAt int64) {
	r.StopAt = stopAt
}

// GetStopAt 引擎停止的时间戳
func (r *RuntimeStatus) GetStopAt() int64 {
	return r.StopAt
}
func (r *RuntimeStatus) SetDuration(duration float64) {
	r.Duration = duration
}

// GetDuration 引擎运行时长
func (r *RuntimeStatus) GetDuration() float64 {
	return decimal.NewFromFloat(r.Duration).Round(2).InexactFloat64()
}

// StatisticInterface 数据统计组件接口
type StatisticInterface interface {
	GetAllStats() map[string]uint64
	Incr(metric string)
	Get(metric string) uint64
	SetCurrentFeed(feed FeedInterface)
}

// DefaultStatistic 默认的数据统计组件
type DefaultStatistic struct {
	Metrics  map[string]*uint64
	feed     FeedInterface
	register sync.Map
}

// NewDefaultStatistic 默认统计数据组件构造函数
func NewDefaultStatistic() *DefaultStatistic {
	m := map[string]*uint64{
		ItemsPulledStats:      new(uint64),
		ItemsFilteredStats:    new(uint64),
		ProductsExportedStats: new(uint64),
		DuplicateRefStats:     new(uint64),
		ErrorsStats:           new(uint64),
	}
	for _, v := range m {
		atomic.StoreUint64(v, 0)
	}
	s := &DefaultStatistic{
		Metrics:  m,
		register: sync.Map{},
	}
	return s
}

// SetCurrentFeed 设置当前的feed
func (s *DefaultStatistic) SetCurrentFeed(feed FeedInterface) {
	s.feed = feed
}

// Incr 新增一个指标值
func (s *DefaultStatistic) Incr(metric string) {
	atomic.AddUint64(s.Metrics[metric], 1)
	s.register.Store(metric, true)
}

// Get 获取某个指标的数值
func (s *DefaultStatistic) Get(metric string) uint64 {
	return atomic.LoadUint64(s.Metrics[metric])
}

// GetAllStats 格式化统计数据
func (s *DefaultStatistic) GetAllStats() map[string]uint64 {
	result := make(map[string]uint64)
	s.register.Range(func(key any, _ any) bool {
		k := key.(string)
		result[k] = s.Get(k)
		return true
	})
	return result
}
