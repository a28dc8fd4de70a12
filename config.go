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
	"net/url"
	"strings"

	"github.com/spf13/cast"
)

// FeedConfig 单个feed的导出配置
// Destination 输出目标描述符，空值表示标准输出
// 支持file scheme和无scheme的本地路径
type FeedConfig struct {
	Destination     string
	PlatformName    string
	PlatformVersion string

	// RemoveOnAbort 运行失败时是否删除残留的输出文件
	// 只对文件类型的输出目标生效
	RemoveOnAbort bool

	attrs    map[string]string
	attrKeys []string
}

// NewFeedConfig 构建feed配置
func NewFeedConfig(destination string) *FeedConfig {
	return &FeedConfig{
		Destination: destination,
		attrs:       make(map[string]string),
		attrKeys:    make([]string, 0),
	}
}

// SetPlatform 设置平台名称和版本，作为feed级别的诊断元数据
func (c *FeedConfig) SetPlatform(name string, version string) *FeedConfig {
	c.PlatformName = name
	c.PlatformVersion = version
	return c
}

// SetAttribute 写入一个feed级别属性
// 语义与Product.SetAttribute一致，后写覆盖
func (c *FeedConfig) SetAttribute(key string, value interface{}) *FeedConfig {
	if _, ok := c.attrs[key]; !ok {
		c.attrKeys = append(c.attrKeys, key)
	}
	c.attrs[key] = cast.ToString(value)
	return c
}

// AttributeKeys 按照首次写入顺序返回所有属性key
func (c *FeedConfig) AttributeKeys() []string {
	return c.attrKeys
}

// Attribute 获取指定的feed属性
func (c *FeedConfig) Attribute(key string) (string, bool) {
	value, ok := c.attrs[key]
	return value, ok
}

// Check 配置校验，失败即终止，任何条目都不会被拉取
func (c *FeedConfig) Check() error {
	if c == nil {
		return &ConfigurationError{Field: "config", Reason: "feed config is nil"}
	}
	if c.PlatformVersion != "" && c.PlatformName == "" {
		return &ConfigurationError{Field: "platform", Reason: "version is set but name is empty"}
	}
	destination := strings.TrimSpace(c.Destination)
	if destination == "" || destination == "-" {
		return nil
	}
	u, err := url.Parse(destination)
	if err != nil {
		return &ConfigurationError{Field: "destination", Reason: err.Error()}
	}
	switch u.Scheme {
	case "", "file", "stdout":
		return nil
	default:
		return &ConfigurationError{Field: "destination", Reason: "unsupported scheme " + u.Scheme}
	}
}
