// Copyright 2024 wetrycode
// Licensed under the Apache License, Version 2.0 (the 'License');
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//    http://www.apache.org/licenses/LICENSE-2.0
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an 'AS IS' BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package feedgen

import "sync"

// FeedInterface feed定义接口
// 开发者自定义feed必须实现该接口，引擎按feed名调度
type FeedInterface interface {
	// GetName 获取feed名称
	GetName() string

	// GetConfig 获取feed的导出配置
	GetConfig() *FeedConfig

	// Open 打开数据源并返回driver
	// 每次run都会调用一次，返回的driver在run结束时被关闭
	Open() (DriverInterface, error)
}

// BaseFeed base feed
type BaseFeed struct {
	// Name feed name
	Name string
	// Config 导出配置
	Config *FeedConfig
}

// Feeds 全局feeds管理器
// 用于接收注册的FeedInterface实例
type Feeds struct {
	// FeedModules feed名称和feed实例的映射
	FeedModules map[string]FeedInterface
}

var FeedsList *Feeds
var onceFeeds sync.Once

func NewBaseFeed(name string, config *FeedConfig) *BaseFeed {
	return &BaseFeed{
		Name:   name,
		Config: config,
	}
}

// GetName 获取feed名称
func (f *BaseFeed) GetName() string {
	return f.Name
}

// GetConfig 获取feed的导出配置
func (f *BaseFeed) GetConfig() *FeedConfig {
	return f.Config
}

// NewFeeds 构建Feeds实例
func NewFeeds() *Feeds {
	onceFeeds.Do(func() {
		FeedsList = &Feeds{
			FeedModules: make(map[string]FeedInterface),
		}
	})
	return FeedsList
}

// Register feed实例注册到Feeds.FeedModules
func (s *Feeds) Register(feed FeedInterface) error {
	// feed名不能为空
	if len(feed.GetName()) == 0 {
		return ErrEmptyFeedName
	}
	// feed名不允许重复
	if _, ok := s.FeedModules[feed.GetName()]; ok {
		return ErrDuplicateFeedName
	}
	s.FeedModules[feed.GetName()] = feed
	return nil
}

// GetFeed 通过feed名获取feed实例
func (s *Feeds) GetFeed(name string) (FeedInterface, error) {
	if _, ok := s.FeedModules[name]; !ok {
		return nil, ErrFeedNotExist
	}
	return s.FeedModules[name], nil
}
