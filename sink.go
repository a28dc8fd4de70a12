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
	"os"
	"strings"

	"github.com/spf13/afero"
)

// SinkInterface 输出目标
// 在整个run期间由引擎独占，Close和Abort都必须幂等
// 每个product写出之后引擎都会调用一次Flush
type SinkInterface interface {
	io.Writer
	// Flush 将缓冲数据提交到目标
	Flush() error
	// Close 正常结束时关闭目标
	Close() error
	// Abort 运行失败时尽力关闭目标并执行清理策略
	Abort() error
}

// SinkOption sink构建过程中的可选参数
type SinkOption func(o *sinkOptions)

type sinkOptions struct {
	fs            afero.Fs
	removeOnAbort bool
}

// SinkWithFs 指定文件sink使用的文件系统
// 测试时可以传入afero.NewMemMapFs()
func SinkWithFs(fs afero.Fs) SinkOption {
	return func(o *sinkOptions) {
		o.fs = fs
	}
}

// SinkWithRemoveOnAbort 运行失败时删除残留的输出文件
func SinkWithRemoveOnAbort(remove bool) SinkOption {
	return func(o *sinkOptions) {
		o.removeOnAbort = remove
	}
}

// OpenSink 通过目标描述符构建sink
// 空值、"-"和stdout scheme指向标准输出
// file scheme和裸路径指向本地文件
func OpenSink(destination string, opts ...SinkOption) (SinkInterface, error) {
	options := &sinkOptions{fs: afero.NewOsFs()}
	for _, o := range opts {
		o(options)
	}
	destination = strings.TrimSpace(destination)
	if destination == "" || destination == "-" || destination == "stdout://" {
		return NewWriterSink(os.Stdout), nil
	}
	path := destination
	if strings.HasPrefix(destination, "file://") {
		path = strings.TrimPrefix(destination, "file://")
	}
	return NewFileSink(options.fs, path, options.removeOnAbort)
}

// FileSink 本地文件输出目标
// 底层文件系统通过afero注入
type FileSink struct {
	fs            afero.Fs
	file          afero.File
	buf           *bufio.Writer
	path          string
	removeOnAbort bool
	closed        bool
}

// NewFileSink 创建文件sink，目标文件被截断重写
func NewFileSink(fs afero.Fs, path string, removeOnAbort bool) (*FileSink, error) {
	file, err := fs.Create(path)
	if err != nil {
		return nil, &SinkError{Op: "open", URI: path, Err: err}
	}
	return &FileSink{
		fs:            fs,
		file:          file,
		buf:           bufio.NewWriter(file),
		path:          path,
		removeOnAbort: removeOnAbort,
	}, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	n, err := s.buf.Write(p)
	if err != nil {
		return n, &SinkError{Op: "write", URI: s.path, Err: err}
	}
	return n, nil
}

func (s *FileSink) Flush() error {
	if err := s.buf.Flush(); err != nil {
		return &SinkError{Op: "flush", URI: s.path, Err: err}
	}
	return nil
}

func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.buf.Flush(); err != nil {
		s.file.Close()
		return &SinkError{Op: "flush", URI: s.path, Err: err}
	}
	if err := s.file.Close(); err != nil {
		return &SinkError{Op: "close", URI: s.path, Err: err}
	}
	return nil
}

// Abort 尽力关闭文件，按清理策略删除残留输出
// 文档结构可能不完整，是否使用由调用方决定
func (s *FileSink) Abort() error {
	var closeErr error
	if !s.closed {
		s.closed = true
		s.buf.Flush()
		closeErr = s.file.Close()
	}
	if s.removeOnAbort {
		if err := s.fs.Remove(s.path); err != nil {
			return &SinkError{Op: "remove", URI: s.path, Err: err}
		}
	}
	if closeErr != nil {
		return &SinkError{Op: "close", URI: s.path, Err: closeErr}
	}
	return nil
}

// WriterSink 包装任意io.Writer的输出目标
// 标准输出和测试buffer都通过该类型接入
type WriterSink struct {
	writer io.Writer
}

// NewWriterSink 从io.Writer构建sink
// writer的生命周期由调用方管理，Close不会关闭它
func NewWriterSink(writer io.Writer) *WriterSink {
	return &WriterSink{writer: writer}
}

func (s *WriterSink) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *WriterSink) Flush() error {
	return nil
}

func (s *WriterSink) Close() error {
	return nil
}

func (s *WriterSink) Abort() error {
	return nil
}
