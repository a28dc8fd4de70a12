package metric

import (
	"context"
	"fmt"
	"runtime"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/wetrycode/feedgen"
)

var metricLog = feedgen.GetLogger("metric")

// FeedMetricCollector 导出指标采集器
// 将引擎统计指标周期性写入influxdb
type FeedMetricCollector struct {
	influxdbWrite api.WriteAPIBlocking
	influxdbQuery api.QueryAPI
	engine        *feedgen.FeedEngine
	currentFeed   string
	bucket        string
}

// NewInfluxdb 构建influxdb 客户端
func NewInfluxdb(serverURL string, token string, bucket string, org string) (api.WriteAPIBlocking, api.QueryAPI) {
	client := influxdb2.NewClientWithOptions(serverURL, token, influxdb2.DefaultOptions().SetUseGZip(true).SetMaxRetries(3))
	return client.WriteAPIBlocking(org, bucket), client.QueryAPI(org)
}

// NewFeedMetricCollector 构建采集器
func NewFeedMetricCollector(serverURL string, token string, bucket string, org string, engine *feedgen.FeedEngine) *FeedMetricCollector {
	write, read := NewInfluxdb(serverURL, token, bucket, org)
	return &FeedMetricCollector{
		influxdbWrite: write,
		influxdbQuery: read,
		engine:        engine,
		bucket:        bucket,
	}
}

// Collect 搜集器
// 以feed名为measurement写入当前全部统计指标
func (c *FeedMetricCollector) Collect() {
	defer func() {
		if p := recover(); p != nil {
			metricLog.Errorf("采集数据错误:%s", p)
		}
	}()
	feed := c.engine.GetCurrentFeed().GetName()

	for key, value := range c.engine.GetStats().GetAllStats() {
		metricLog.Infof("采集到:%s的数据指标:%s:%d", feed, key, value)
		p := influxdb2.NewPointWithMeasurement(feed).
			AddField(key, value).
			SetTime(time.Now())
		c.influxdbWrite.WritePoint(context.Background(), p)
	}
}

// Start 启动搜集器
// 等待引擎进入导出流程后按周期采集，run结束时退出
func (c *FeedMetricCollector) Start() {
	for {
		if c.engine.GetCurrentFeed() != nil {
			break
		}
		runtime.Gosched()
	}

	ticker := time.NewTicker(time.Duration(time.Second * 10))
	defer ticker.Stop()
	for {
		<-ticker.C
		c.Collect()
		status := c.engine.GetStatusOn()
		if status == feedgen.ON_COMPLETED || status == feedgen.ON_FAILED {
			return
		}
	}
}

// GetAllStats 从influxdb查询当前feed的全部指标
func (c *FeedMetricCollector) GetAllStats() map[string]uint64 {
	query := fmt.Sprintf(`from(bucket:"%s")
	|> filter(fn: (r) =>
		r._measurement == "%s"
	)
	|> group()
	|> count()`, c.bucket, c.currentFeed)

	result, err := c.influxdbQuery.Query(context.TODO(), query)
	if err != nil {
		metricLog.Errorf("查询统计数据失败:%s", err.Error())
		return nil
	}
	ret := map[string]uint64{}
	for result.Next() {
		if result.TableChanged() {
			metricLog.Infof("table: %s\n", result.TableMetadata().String())
		}
		r := result.Record().Values()
		for key, val := range r {
			if f, ok := val.(float64); ok {
				ret[key] = uint64(f)
			}
		}
	}
	return ret
}

// Incr 写入单次指标自增点
func (c *FeedMetricCollector) Incr(metric string) {
	p := influxdb2.NewPointWithMeasurement(c.currentFeed).
		AddField(metric, 1).
		SetTime(time.Now())
	c.influxdbWrite.WritePoint(context.Background(), p)
}

// Get 查询单个指标的计数
func (c *FeedMetricCollector) Get(metric string) uint64 {
	query := fmt.Sprintf(`from(bucket:"%s")
	|> filter(fn: (r) =>
		r._measurement == "%s" and r._field == "%s"
	)
	|> group()
	|> count()`, c.bucket, c.currentFeed, metric)

	result, err := c.influxdbQuery.Query(context.TODO(), query)
	if err != nil {
		metricLog.Errorf("查询统计数据失败:%s", err.Error())
		return 0
	}
	for result.Next() {
		v := result.Record().Value()
		if f, ok := v.(float64); ok {
			return uint64(f)
		}
	}
	return 0
}

// SetCurrentFeed 设置当前采集的feed
func (c *FeedMetricCollector) SetCurrentFeed(feed string) {
	c.currentFeed = feed
}
