package feedgen

import (
	"go.uber.org/ratelimit"
)

// LimitInterface 限速器接口
// 对远程数据源的拉取节奏进行控制
type LimitInterface interface {
	// CheckAndWaitLimiterPass 检查当前拉取速率
	// 速率达到上限则阻塞等待
	CheckAndWaitLimiterPass() error
	// SetCurrentFeed 设置当前正在运行的feed
	SetCurrentFeed(feed FeedInterface)
}

// DefaultLimiter 默认的限速器
// limitRate小于等于0时不做任何限速
type DefaultLimiter struct {
	limiter ratelimit.Limiter
	feed    FeedInterface
}

// NewDefaultLimiter 创建一个新的限速器
// limitRate 每秒最大拉取条目数
func NewDefaultLimiter(limitRate int) *DefaultLimiter {
	d := &DefaultLimiter{}
	if limitRate > 0 {
		d.limiter = ratelimit.New(limitRate, ratelimit.WithoutSlack)
	}
	return d
}

// CheckAndWaitLimiterPass 检查当前拉取速率
// 速率过高则等待
func (d *DefaultLimiter) CheckAndWaitLimiterPass() error {
	if d.limiter != nil {
		d.limiter.Take()
	}
	return nil
}

// SetCurrentFeed 设置当前的feed
func (d *DefaultLimiter) SetCurrentFeed(feed FeedInterface) {
	d.feed = feed
}
