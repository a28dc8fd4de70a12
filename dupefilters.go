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
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/spaolacci/murmur3"
)

// DupeFilterInterface reference指纹计算和去重
// 同一个reference的product在一次run中只会写出一次
type DupeFilterInterface interface {
	// Fingerprint reference指纹计算
	Fingerprint(reference string) []byte
	// DoDupeFilter reference去重
	// 已经出现过返回true
	DoDupeFilter(reference string) (bool, error)
}

// RefDupeFilter 基于布隆过滤器的去重组件
type RefDupeFilter struct {
	bloomFilter *bloom.BloomFilter
}

// NewRefDupeFilter 新建去重组件
// bloomP 容错率
// bloomN 数据规模
func NewRefDupeFilter(bloomP float64, bloomN uint) *RefDupeFilter {
	// 计算最佳的bit set大小
	bloomM := OptimalNumOfBits(int64(bloomN), bloomP)
	// 计算最佳的哈希函数个数
	bloomK := OptimalNumOfHashFunctions(int64(bloomN), bloomM)
	return &RefDupeFilter{
		bloomFilter: bloom.New(uint(bloomM), uint(bloomK)),
	}
}

// Fingerprint 计算reference的murmur3指纹
func (f *RefDupeFilter) Fingerprint(reference string) []byte {
	h := murmur3.New128()
	h.Write([]byte(reference))
	return h.Sum(nil)
}

// DoDupeFilter 对reference进行去重检查并记录
func (f *RefDupeFilter) DoDupeFilter(reference string) (bool, error) {
	fp := f.Fingerprint(reference)
	return f.bloomFilter.TestOrAdd(fp), nil
}
