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

import "github.com/spf13/afero"

// EngineOption 引擎构造过程中的可选参数
type EngineOption func(r *FeedEngine)

// EngineWithConfig 引擎使用的导出配置
func EngineWithConfig(config *FeedConfig) EngineOption {
	return func(r *FeedEngine) {
		r.config = config
	}
}

// EngineWithComponents 引擎使用的组件集合
func EngineWithComponents(components ComponentInterface) EngineOption {
	return func(r *FeedEngine) {
		r.components = components
	}
}

// EngineWithUniqueRef 是否对product reference去重
func EngineWithUniqueRef(uniqueRef bool) EngineOption {
	return func(r *FeedEngine) {
		r.filterDuplicateRef = uniqueRef
	}
}

// EngineWithErrorPolicy 单条目错误处理策略
func EngineWithErrorPolicy(policy ErrorPolicy) EngineOption {
	return func(r *FeedEngine) {
		r.errorPolicy = policy
	}
}

// EngineWithExporterFactory 替换默认的xml序列化器
func EngineWithExporterFactory(factory ExporterFactory) EngineOption {
	return func(r *FeedEngine) {
		r.exporterFactory = factory
	}
}

// EngineWithSink 注入输出目标，跳过Destination解析
// 注入的sink只用于接下来的一次run
func EngineWithSink(sink SinkInterface) EngineOption {
	return func(r *FeedEngine) {
		r.sink = sink
	}
}

// EngineWithSinkFs 文件sink使用的文件系统
// 测试时可以传入afero.NewMemMapFs()
func EngineWithSinkFs(fs afero.Fs) EngineOption {
	return func(r *FeedEngine) {
		r.sinkFs = fs
	}
}
