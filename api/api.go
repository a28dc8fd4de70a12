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

package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wetrycode/feedgen"
)

var apiLog *logrus.Entry = feedgen.GetLogger("api") // apiLog api runtime logger

// FeedgenAPI 长时间导出任务的监控入口
// 提供启动feed、查询状态和统计指标的http接口
type FeedgenAPI struct {
	G    *gin.Engine
	E    *feedgen.FeedEngine
	lock sync.Mutex
}

type statusResp struct {
	ItemsPulled   uint64 `json:"items_pulled"`
	ItemsFiltered uint64 `json:"items_filtered"`
	Exported      uint64 `json:"products_exported"`
	Errors        uint64 `json:"errors"`
	Status        string `json:"status"`
	EngineId      string `json:"engine_id"`
}

type startRequest struct {
	Feed string `json:"feed" binding:"required"`
}

// NewFeedgenAPI 构建api组件
func NewFeedgenAPI(engine *feedgen.FeedEngine) *FeedgenAPI {
	f := &FeedgenAPI{
		G: SetUp(),
		E: engine,
	}
	f.registerRoutes()
	return f
}

func (t *FeedgenAPI) registerRoutes() {
	t.G.POST("/start", t.start)
	t.G.GET("/status", t.status)
	t.G.GET("/stats", t.stats)
}

// start 按feed名启动一次导出run
// 引擎正在运行时拒绝重复启动
func (t *FeedgenAPI) start(ctx *gin.Context) {
	t.lock.Lock()
	defer func() {
		t.lock.Unlock()
	}()
	var r startRequest
	appG := Gin{Ctx: ctx}
	err := ctx.ShouldBindJSON(&r)
	if err != nil {
		apiLog.Errorf("start feed params error:%s", err.Error())
		appG.Response(http.StatusBadRequest, INVALID_PARAMS, nil)
		return
	}
	status := t.E.GetStatusOn()
	if status == feedgen.ON_RUNNING || status == feedgen.ON_CONFIGURING {
		appG.Response(http.StatusOK, FEED_REPEAT_START, "")
		return
	}
	if _, err := t.E.GetFeeds().GetFeed(r.Feed); err != nil {
		appG.Response(http.StatusNotFound, FEED_NOT_FOUND, "")
		return
	}
	go func() {
		if err := t.E.Start(r.Feed); err != nil {
			apiLog.Errorf("export feed %s error:%s", r.Feed, err.Error())
		}
	}()
	appG.Response(http.StatusOK, SUCCESS, "")
}

// status 查询引擎状态和核心指标
func (t *FeedgenAPI) status(ctx *gin.Context) {
	statistic := t.E.GetStats()
	rsp := statusResp{
		ItemsPulled:   statistic.Get(feedgen.ItemsPulledStats),
		ItemsFiltered: statistic.Get(feedgen.ItemsFilteredStats),
		Exported:      statistic.Get(feedgen.ProductsExportedStats),
		Errors:        statistic.Get(feedgen.ErrorsStats),
		Status:        t.E.GetStatusOn().GetTypeName(),
		EngineId:      t.E.GetEngineID(),
	}
	appG := Gin{Ctx: ctx}
	appG.Response(http.StatusOK, SUCCESS, rsp)
}

// stats 查询全部统计指标
func (t *FeedgenAPI) stats(ctx *gin.Context) {
	appG := Gin{Ctx: ctx}
	appG.Response(http.StatusOK, SUCCESS, t.E.GetStats().GetAllStats())
}

// Server 启动api服务
func (t *FeedgenAPI) Server(addr string) {
	if addr == "" {
		addr = "0.0.0.0:12138"
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      t.G,
		ReadTimeout:  time.Duration(10 * time.Second),
		WriteTimeout: time.Duration(10 * time.Second),
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}
