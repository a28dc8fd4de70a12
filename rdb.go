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
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spaolacci/murmur3"
)

// RdbConfig redis连接配置
type RdbConfig struct {
	RedisAddr     string
	RedisPasswd   string
	RedisUsername string
	RedisDB       uint32
	RdbTimeout    time.Duration
}

// NewRdbConfig 构建redis连接配置
func NewRdbConfig(addr string, passwd string, username string, db uint32) *RdbConfig {
	return &RdbConfig{
		RedisAddr:     addr,
		RedisPasswd:   passwd,
		RedisUsername: username,
		RedisDB:       db,
		RdbTimeout:    5 * time.Second,
	}
}

// NewRdbClient 构建redis客户端
// 连接不可用时直接panic
func NewRdbClient(config *RdbConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         config.RedisAddr,
		Password:     config.RedisPasswd,
		Username:     config.RedisUsername,
		DB:           int(config.RedisDB),
		DialTimeout:  config.RdbTimeout,
		ReadTimeout:  config.RdbTimeout,
		WriteTimeout: config.RdbTimeout,
	})
	err := rdb.Ping(context.TODO()).Err()
	if err != nil {
		panic(err)
	}
	return rdb
}

// RedisDupeFilter 基于redis集合的去重组件
// 指纹集合跨run共享，可以在多次导出之间保持去重状态
type RedisDupeFilter struct {
	rdb redis.Cmdable
	// key 指纹集合的redis key
	key string
}

// NewRedisDupeFilter 构建redis去重组件
// feedName用于隔离不同feed的指纹集合
func NewRedisDupeFilter(rdb redis.Cmdable, feedName string) *RedisDupeFilter {
	return &RedisDupeFilter{
		rdb: rdb,
		key: fmt.Sprintf("feedgen:v1:refs:%s", feedName),
	}
}

// Fingerprint 计算reference的murmur3指纹
func (f *RedisDupeFilter) Fingerprint(reference string) []byte {
	h := murmur3.New128()
	h.Write([]byte(reference))
	return h.Sum(nil)
}

// DoDupeFilter 将指纹写入redis集合
// 指纹已经存在返回true
func (f *RedisDupeFilter) DoDupeFilter(reference string) (bool, error) {
	fp := f.Fingerprint(reference)
	added, err := f.rdb.SAdd(context.TODO(), f.key, fp).Result()
	if err != nil {
		return false, err
	}
	return added == 0, nil
}
