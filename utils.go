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

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
)

func GetUUID() string {
	u4 := uuid.New()
	uuid := u4.String()
	return uuid
}

// GoFunc 协程任务单元
type GoFunc func() error

// GoSyncWait 将一组任务提交到协程执行
// 调用方通过wg.Wait()等待所有任务结束
func GoSyncWait(wg *conc.WaitGroup, funcs ...GoFunc) {
	for _, readyFunc := range funcs {
		_func := readyFunc
		wg.Go(func() {
			err := _func()
			if err != nil {
				engineLog.Errorf("goroutine task execution error %s", err.Error())
			}
		})
	}
}

// Map2String 统计数据格式化
func Map2String(m map[string]uint64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(m))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(pairs, ", ")
}

// OptimalNumOfBits 计算布隆过滤器最佳的bit set大小
func OptimalNumOfBits(n int64, p float64) int64 {
	return int64(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2))
}

// OptimalNumOfHashFunctions 计算布隆过滤器最佳的哈希函数个数
func OptimalNumOfHashFunctions(n int64, m int64) int64 {
	return int64(math.Max(1, math.Round(float64(m)/float64(n)*math.Ln2)))
}
