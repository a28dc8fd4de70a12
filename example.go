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
	"bytes"
)

// TestFeed 测试用的feed实现，数据源为内存切片
type TestFeed struct {
	*BaseFeed
	Rows []ItemInterface
}

func (f *TestFeed) Open() (DriverInterface, error) {
	return NewSliceDriver(f.Rows), nil
}

// NewTestFeed 构建测试feed，输出目标默认为标准输出
func NewTestFeed(name string, rows ...ItemInterface) *TestFeed {
	return &TestFeed{
		BaseFeed: NewBaseFeed(name, NewFeedConfig("")),
		Rows:     rows,
	}
}

// TestCatalogRows 三条测试商品数据
func TestCatalogRows() []ItemInterface {
	return []ItemInterface{
		map[string]interface{}{
			"reference": "SKU-001",
			"name":      "Wool Sweater",
			"price":     49.9,
			"quantity":  12,
		},
		map[string]interface{}{
			"reference": "SKU-002",
			"name":      "Leather Belt",
			"price":     19.5,
			"quantity":  0,
		},
		map[string]interface{}{
			"reference": "SKU-003",
			"name":      "Canvas Bag",
			"price":     23.0,
			"quantity":  30,
		},
	}
}

// CaptureSink 测试用的内存sink，记录各个生命周期方法的调用次数
type CaptureSink struct {
	Buffer     bytes.Buffer
	FlushCount int
	CloseCount int
	AbortCount int
}

func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

func (s *CaptureSink) Write(p []byte) (int, error) {
	return s.Buffer.Write(p)
}

func (s *CaptureSink) Flush() error {
	s.FlushCount++
	return nil
}

func (s *CaptureSink) Close() error {
	s.CloseCount++
	return nil
}

func (s *CaptureSink) Abort() error {
	s.AbortCount++
	return nil
}

func (s *CaptureSink) String() string {
	return s.Buffer.String()
}

// NewTestEngine 构建测试引擎
// 注册一个以TestCatalogRows为数据源的feed和默认的字段mapper
func NewTestEngine(feedName string, opts ...EngineOption) *FeedEngine {
	engine := NewEngine(opts...)
	engine.RegisterFeeds(NewTestFeed(feedName, TestCatalogRows()...))
	engine.AddMapper(FieldMapper())
	return engine
}
