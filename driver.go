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
	"bufio"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// DriverInterface 数据源驱动
// 将外部数据源包装为惰性、有限、不可重置的条目序列
// 引擎每次只拉取一个条目，数据源不会被整体载入内存
type DriverInterface interface {
	// Next 拉取下一个条目
	// 序列耗尽时返回(nil, false, nil)
	Next() (ItemInterface, bool, error)
	// Close 释放数据源持有的资源
	Close() error
}

// SliceDriver 内存切片数据源
// 主要用于测试和小批量导出
type SliceDriver struct {
	items []ItemInterface
	index int
}

// NewSliceDriver 从切片构建driver
func NewSliceDriver(items []ItemInterface) *SliceDriver {
	return &SliceDriver{items: items}
}

func (d *SliceDriver) Next() (ItemInterface, bool, error) {
	if d.index >= len(d.items) {
		return nil, false, nil
	}
	item := d.items[d.index]
	d.index++
	return item, true, nil
}

func (d *SliceDriver) Close() error {
	return nil
}

// FuncDriver 函数数据源
// 适配游标、分页接口等任意惰性拉取逻辑
type FuncDriver struct {
	next   func() (ItemInterface, bool, error)
	closer func() error
}

// NewFuncDriver 从拉取函数构建driver
// closer可以为nil
func NewFuncDriver(next func() (ItemInterface, bool, error), closer func() error) *FuncDriver {
	return &FuncDriver{next: next, closer: closer}
}

func (d *FuncDriver) Next() (ItemInterface, bool, error) {
	return d.next()
}

func (d *FuncDriver) Close() error {
	if d.closer != nil {
		return d.closer()
	}
	return nil
}

// JSONLinesDriver 按行读取json条目的数据源
// 每一行反序列化为map[string]interface{}
// 逐行消费reader，不会一次性读入全部内容
type JSONLinesDriver struct {
	scanner *bufio.Scanner
	source  io.Reader
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewJSONLinesDriver 从reader构建json lines driver
func NewJSONLinesDriver(source io.Reader) *JSONLinesDriver {
	return &JSONLinesDriver{
		scanner: bufio.NewScanner(source),
		source:  source,
	}
}

func (d *JSONLinesDriver) Next() (ItemInterface, bool, error) {
	for d.scanner.Scan() {
		line := d.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		item := make(map[string]interface{})
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, false, err
		}
		return item, true, nil
	}
	if err := d.scanner.Err(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (d *JSONLinesDriver) Close() error {
	if closer, ok := d.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
