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

// ComponentInterface 系统组件接口
// 包含了feed导出过程的支撑组件
type ComponentInterface interface {
	// GetDupeFilter 获取去重组件
	GetDupeFilter() DupeFilterInterface
	// GetLimiter 限速器组件
	GetLimiter() LimitInterface
	// GetStats 指标统计组件
	GetStats() StatisticInterface
	// GetEventHooks 事件监控组件
	GetEventHooks() EventHooksInterface
	// SetCurrentFeed 当前正在运行的feed实例
	SetCurrentFeed(feed FeedInterface)
}

type DefaultComponents struct {
	dupefilter DupeFilterInterface
	limiter    *DefaultLimiter
	statistic  *DefaultStatistic
	events     *DefaultHooks
	feed       FeedInterface
}

type DefaultComponentsOption func(d *DefaultComponents)

func NewDefaultComponents(opts ...DefaultComponentsOption) *DefaultComponents {
	d := &DefaultComponents{
		dupefilter: NewRefDupeFilter(0.001, 1024*1024),
		limiter:    NewDefaultLimiter(0),
		statistic:  NewDefaultStatistic(),
		events:     NewDefaultHooks(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *DefaultComponents) GetDupeFilter() DupeFilterInterface {
	return d.dupefilter
}
func (d *DefaultComponents) GetLimiter() LimitInterface {
	return d.limiter
}
func (d *DefaultComponents) GetStats() StatisticInterface {
	return d.statistic
}
func (d *DefaultComponents) GetEventHooks() EventHooksInterface {
	return d.events
}
func (d *DefaultComponents) SetCurrentFeed(feed FeedInterface) {
	d.feed = feed
	d.statistic.SetCurrentFeed(feed)
	d.limiter.SetCurrentFeed(feed)
}

// DefaultComponentsWithDupeFilter 替换去重组件
// 可以传入RedisDupeFilter实现跨run去重
func DefaultComponentsWithDupeFilter(dupefilter DupeFilterInterface) DefaultComponentsOption {
	return func(r *DefaultComponents) {
		r.dupefilter = dupefilter
	}
}

func DefaultComponentsWithDefaultLimiter(limiter *DefaultLimiter) DefaultComponentsOption {
	return func(r *DefaultComponents) {
		r.limiter = limiter
	}
}
func DefaultComponentsWithDefaultStatistic(statistic *DefaultStatistic) DefaultComponentsOption {
	return func(r *DefaultComponents) {
		r.statistic = statistic
	}
}
func DefaultComponentsWithDefaultHooks(events *DefaultHooks) DefaultComponentsOption {
	return func(r *DefaultComponents) {
		r.events = events
	}
}
