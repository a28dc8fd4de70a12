package feedgen

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

// failingDupeFilter 模拟后端不可用的去重组件
type failingDupeFilter struct {
}

func (f *failingDupeFilter) Fingerprint(reference string) []byte {
	return []byte(reference)
}

func (f *failingDupeFilter) DoDupeFilter(reference string) (bool, error) {
	return false, errors.New("dupefilter backend down")
}

func TestEngineRegister(t *testing.T) {
	convey.Convey("EngineRegister", t, func() {
		engine := NewTestEngine("testFeed1")
		convey.So(engine.feeds.FeedModules, convey.ShouldContainKey, "testFeed1")
		convey.So(func() { engine.RegisterFeeds(NewTestFeed("testFeed1")) }, convey.ShouldPanic)
	})
}

func TestEngineOptions(t *testing.T) {
	convey.Convey("Add EngineOptions to engine when new an engine", t, func() {
		components := NewDefaultComponents(
			DefaultComponentsWithDefaultHooks(NewDefaultHooks()),
			DefaultComponentsWithDefaultLimiter(NewDefaultLimiter(16)),
			DefaultComponentsWithDefaultStatistic(NewDefaultStatistic()),
			DefaultComponentsWithDupeFilter(NewRefDupeFilter(0.001, 1024*1024)),
		)
		engine := NewEngine(
			EngineWithUniqueRef(true),
			EngineWithComponents(components),
			EngineWithErrorPolicy(ErrorPolicySkip),
		)
		convey.So(engine.components.GetLimiter(), convey.ShouldPointTo, components.GetLimiter())
		convey.So(engine.components.GetDupeFilter(), convey.ShouldPointTo, components.GetDupeFilter())
		convey.So(engine.components.GetEventHooks(), convey.ShouldPointTo, components.GetEventHooks())
		convey.So(engine.components.GetStats(), convey.ShouldPointTo, components.GetStats())
		convey.So(engine.filterDuplicateRef, convey.ShouldBeTrue)
		convey.So(engine.errorPolicy, convey.ShouldEqual, ErrorPolicySkip)
	})
}

func TestEngineRun(t *testing.T) {
	convey.Convey("a full run exports all valid items and closes the sink once", t, func() {
		sink := NewCaptureSink()
		engine := NewTestEngine("testFullRun", EngineWithSink(sink))
		err := engine.Start("testFullRun")
		convey.So(err, convey.ShouldBeNil)
		convey.So(engine.GetStatusOn(), convey.ShouldEqual, ON_COMPLETED)

		stats := engine.GetStats().GetAllStats()
		convey.So(stats[ItemsPulledStats], convey.ShouldEqual, 3)
		convey.So(stats[ProductsExportedStats], convey.ShouldEqual, 3)
		convey.So(stats[ItemsFilteredStats], convey.ShouldEqual, 0)
		convey.So(sink.CloseCount, convey.ShouldEqual, 1)
		convey.So(sink.AbortCount, convey.ShouldEqual, 0)

		document := sink.String()
		convey.So(document, convey.ShouldContainSubstring, "<reference>SKU-001</reference>")
		convey.So(document, convey.ShouldContainSubstring, "<reference>SKU-003</reference>")
		parseFeed(t, document)
	})
}

func TestEngineFilter(t *testing.T) {
	convey.Convey("items rejected by a filter are dropped silently", t, func() {
		sink := NewCaptureSink()
		engine := NewTestEngine("testFilterRun", EngineWithSink(sink))
		engine.AddFilter(func(item ItemInterface) (bool, error) {
			record := item.(map[string]interface{})
			return record["quantity"].(int) > 0, nil
		})
		err := engine.Start("testFilterRun")
		convey.So(err, convey.ShouldBeNil)

		stats := engine.GetStats().GetAllStats()
		convey.So(stats[ItemsPulledStats], convey.ShouldEqual, 3)
		convey.So(stats[ItemsFilteredStats], convey.ShouldEqual, 1)
		convey.So(stats[ProductsExportedStats], convey.ShouldEqual, 2)
		convey.So(sink.String(), convey.ShouldNotContainSubstring, "SKU-002")
	})
}

func TestEngineStageOrder(t *testing.T) {
	convey.Convey("stages run grouped by kind in registration order", t, func() {
		calls := make([]string, 0)
		sink := NewCaptureSink()
		engine := NewEngine(EngineWithSink(sink))
		engine.RegisterFeeds(NewTestFeed("testStageOrder", TestCatalogRows()[0]))
		engine.AddFilter(func(item ItemInterface) (bool, error) {
			calls = append(calls, "f1")
			return true, nil
		})
		engine.AddProcessor(func(item ItemInterface) (ItemInterface, error) {
			calls = append(calls, "p1")
			return item, nil
		})
		engine.AddMapper(FieldMapper())
		engine.AddMapper(func(item ItemInterface, product *Product) error {
			calls = append(calls, "m1")
			return nil
		})
		engine.AddProcessor(func(item ItemInterface) (ItemInterface, error) {
			calls = append(calls, "p2")
			return item, nil
		})
		err := engine.Start("testStageOrder")
		convey.So(err, convey.ShouldBeNil)
		convey.So(calls, convey.ShouldResemble, []string{"p1", "p2", "f1", "m1"})
	})
}

func TestEngineProcessorError(t *testing.T) {
	convey.Convey("a processor returning nil is a pipeline stage error", t, func() {
		sink := NewCaptureSink()
		engine := NewTestEngine("testNilProcessor", EngineWithSink(sink))
		engine.AddProcessor(func(item ItemInterface) (ItemInterface, error) {
			return nil, nil
		})
		err := engine.Start("testNilProcessor")
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(engine.GetStatusOn(), convey.ShouldEqual, ON_FAILED)

		var stageErr *PipelineStageError
		convey.So(errors.As(err, &stageErr), convey.ShouldBeTrue)
		convey.So(stageErr.Kind, convey.ShouldEqual, ProcessorStage)
		convey.So(errors.Is(err, ErrNilProcessorItem), convey.ShouldBeTrue)
		convey.So(sink.AbortCount, convey.ShouldBeGreaterThan, 0)
		convey.So(sink.CloseCount, convey.ShouldEqual, 0)
	})
	convey.Convey("a panicking processor is converted to a pipeline stage error", t, func() {
		engine := NewTestEngine("testPanicProcessor", EngineWithSink(NewCaptureSink()))
		engine.AddProcessor(func(item ItemInterface) (ItemInterface, error) {
			panic("boom")
		})
		err := engine.Start("testPanicProcessor")
		var stageErr *PipelineStageError
		convey.So(errors.As(err, &stageErr), convey.ShouldBeTrue)
		convey.So(stageErr.Kind, convey.ShouldEqual, ProcessorStage)
		convey.So(stageErr.Error(), convey.ShouldContainSubstring, "boom")
	})
}

func TestEngineFilterError(t *testing.T) {
	convey.Convey("a failing filter is a stage error, not a drop", t, func() {
		engine := NewTestEngine("testFilterError", EngineWithSink(NewCaptureSink()))
		engine.AddFilter(func(item ItemInterface) (bool, error) {
			return false, errors.New("lookup failed")
		})
		err := engine.Start("testFilterError")
		convey.So(err, convey.ShouldNotBeNil)

		var stageErr *PipelineStageError
		convey.So(errors.As(err, &stageErr), convey.ShouldBeTrue)
		convey.So(stageErr.Kind, convey.ShouldEqual, FilterStage)
		convey.So(engine.GetStats().Get(ItemsFilteredStats), convey.ShouldEqual, 0)
	})
}

func TestEngineValidation(t *testing.T) {
	convey.Convey("a product with missing quantity fails validation with its ordinal", t, func() {
		engine := NewEngine(EngineWithSink(NewCaptureSink()))
		engine.RegisterFeeds(NewTestFeed("testValidation",
			map[string]interface{}{"reference": "SKU-1", "name": "a", "price": 1.0, "quantity": 1},
			map[string]interface{}{"reference": "SKU-2", "name": "b", "price": 2.0},
		))
		engine.AddMapper(FieldMapper())
		err := engine.Start("testValidation")
		convey.So(err, convey.ShouldNotBeNil)

		var vErr *ValidationError
		convey.So(errors.As(err, &vErr), convey.ShouldBeTrue)
		convey.So(vErr.Field, convey.ShouldEqual, "quantity")
		convey.So(vErr.Ordinal, convey.ShouldEqual, 2)
		convey.So(engine.GetStats().Get(ErrorsStats), convey.ShouldEqual, 1)
	})
}

func TestEngineSkipPolicy(t *testing.T) {
	convey.Convey("skip policy collects item errors and keeps going", t, func() {
		sink := NewCaptureSink()
		engine := NewEngine(EngineWithSink(sink), EngineWithErrorPolicy(ErrorPolicySkip))
		engine.RegisterFeeds(NewTestFeed("testSkipPolicy",
			map[string]interface{}{"reference": "SKU-1", "name": "a", "price": 1.0, "quantity": 1},
			map[string]interface{}{"reference": "SKU-2", "name": "b", "price": 2.0},
			map[string]interface{}{"reference": "SKU-3", "name": "c", "price": 3.0, "quantity": 3},
		))
		engine.AddMapper(FieldMapper())
		err := engine.Start("testSkipPolicy")
		convey.So(err, convey.ShouldBeNil)
		convey.So(engine.GetStatusOn(), convey.ShouldEqual, ON_COMPLETED)
		convey.So(len(engine.Errors()), convey.ShouldEqual, 1)
		convey.So(engine.GetStats().Get(ProductsExportedStats), convey.ShouldEqual, 2)
		convey.So(sink.String(), convey.ShouldContainSubstring, "SKU-3")
		convey.So(sink.CloseCount, convey.ShouldEqual, 1)
	})
	convey.Convey("skip policy does not cover configuration errors", t, func() {
		feed := NewTestFeed("testSkipConfig", TestCatalogRows()...)
		feed.Config = NewFeedConfig("ftp://example.com/feed.xml")
		engine := NewEngine(EngineWithErrorPolicy(ErrorPolicySkip))
		engine.RegisterFeeds(feed)
		engine.AddMapper(FieldMapper())
		err := engine.Start("testSkipConfig")
		var cErr *ConfigurationError
		convey.So(errors.As(err, &cErr), convey.ShouldBeTrue)
		convey.So(engine.GetStatusOn(), convey.ShouldEqual, ON_FAILED)
		convey.So(engine.GetStats().Get(ItemsPulledStats), convey.ShouldEqual, 0)
	})
}

func TestEngineDupeFilter(t *testing.T) {
	convey.Convey("duplicate references are exported only once", t, func() {
		sink := NewCaptureSink()
		engine := NewEngine(EngineWithSink(sink), EngineWithUniqueRef(true))
		engine.RegisterFeeds(NewTestFeed("testDupeRun",
			map[string]interface{}{"reference": "SKU-1", "name": "a", "price": 1.0, "quantity": 1},
			map[string]interface{}{"reference": "SKU-1", "name": "a2", "price": 1.5, "quantity": 2},
			map[string]interface{}{"reference": "SKU-2", "name": "b", "price": 2.0, "quantity": 2},
		))
		engine.AddMapper(FieldMapper())
		err := engine.Start("testDupeRun")
		convey.So(err, convey.ShouldBeNil)

		stats := engine.GetStats().GetAllStats()
		convey.So(stats[ProductsExportedStats], convey.ShouldEqual, 2)
		convey.So(stats[DuplicateRefStats], convey.ShouldEqual, 1)
		convey.So(strings.Count(sink.String(), "<reference>SKU-1</reference>"), convey.ShouldEqual, 1)
	})
}

func TestEnginePriceRoundTrip(t *testing.T) {
	convey.Convey("prices survive the pipeline without float drift", t, func() {
		sink := NewCaptureSink()
		engine := NewEngine(EngineWithSink(sink))
		engine.RegisterFeeds(NewTestFeed("testPriceRun",
			map[string]interface{}{"reference": "SKU-1", "name": "a", "price": 0.1, "quantity": 1},
			map[string]interface{}{"reference": "SKU-2", "name": "b", "price": 1234567.89, "quantity": 1},
		))
		engine.AddMapper(FieldMapper())
		err := engine.Start("testPriceRun")
		convey.So(err, convey.ShouldBeNil)
		convey.So(sink.String(), convey.ShouldContainSubstring, "<price>0.1</price>")
		convey.So(sink.String(), convey.ShouldContainSubstring, "<price>1234567.89</price>")
	})
}

func TestEngineSingleRun(t *testing.T) {
	convey.Convey("a second run on a busy engine is rejected", t, func() {
		sink := NewCaptureSink()
		engine := NewTestEngine("testSingleRun", EngineWithSink(sink))
		engine.mutex.Lock()
		err := engine.Write(NewSliceDriver(nil))
		convey.So(err, convey.ShouldBeError, ErrEngineRunning)
		engine.mutex.Unlock()

		// run结束后引擎可以再次启动
		err = engine.Start("testSingleRun")
		convey.So(err, convey.ShouldBeNil)
		convey.So(sink.CloseCount, convey.ShouldEqual, 1)
	})
}

func TestEngineDupeFilterBackendError(t *testing.T) {
	convey.Convey("a dupefilter backend failure aborts the run", t, func() {
		sink := NewCaptureSink()
		engine := NewEngine(
			EngineWithSink(sink),
			EngineWithUniqueRef(true),
			EngineWithComponents(NewDefaultComponents(DefaultComponentsWithDupeFilter(&failingDupeFilter{}))),
		)
		engine.RegisterFeeds(NewTestFeed("testDupeBackendError", TestCatalogRows()...))
		engine.AddMapper(FieldMapper())
		err := engine.Start("testDupeBackendError")
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldContainSubstring, "dupefilter backend down")
		convey.So(engine.GetStatusOn(), convey.ShouldEqual, ON_FAILED)
		convey.So(engine.GetStats().Get(ErrorsStats), convey.ShouldEqual, 1)
		convey.So(engine.GetStats().Get(ProductsExportedStats), convey.ShouldEqual, 0)
		convey.So(sink.AbortCount, convey.ShouldBeGreaterThan, 0)
	})
}

// runSizedFeed 通过lazy driver向丢弃型sink导出n个条目
func runSizedFeed(t *testing.T, n int) {
	count := 0
	driver := NewFuncDriver(func() (ItemInterface, bool, error) {
		if count >= n {
			return nil, false, nil
		}
		count++
		return map[string]interface{}{
			"reference": fmt.Sprintf("SKU-%d", count),
			"name":      "item",
			"price":     1.5,
			"quantity":  1,
		}, true, nil
	}, func() error { return nil })
	engine := NewEngine(EngineWithSink(NewWriterSink(io.Discard)))
	engine.AddMapper(FieldMapper())
	if err := engine.Write(driver); err != nil {
		t.Fatalf("run of %d items error %s", n, err.Error())
	}
}

func liveHeap() uint64 {
	runtime.GC()
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc
}

func TestEngineMemoryBound(t *testing.T) {
	convey.Convey("live heap does not grow with the item count", t, func() {
		// 先跑一轮小规模run，摊平一次性的初始化分配
		runSizedFeed(t, 10)
		base := liveHeap()

		runSizedFeed(t, 10000)
		grown := liveHeap()

		// 单条目处理完即丢弃，活跃堆与条目总数无关
		// 阈值只容忍运行时自身的波动
		convey.So(grown, convey.ShouldBeLessThan, base+4*1024*1024)
	})
}

func TestEngineDriverError(t *testing.T) {
	convey.Convey("a failing driver aborts the run", t, func() {
		sink := NewCaptureSink()
		engine := NewEngine(EngineWithSink(sink))
		count := 0
		feed := &TestFeed{BaseFeed: NewBaseFeed("testDriverError", NewFeedConfig(""))}
		engine.RegisterFeeds(feed)
		engine.AddMapper(FieldMapper())
		driver := NewFuncDriver(func() (ItemInterface, bool, error) {
			count++
			if count > 1 {
				return nil, false, errors.New("source gone")
			}
			return TestCatalogRows()[0], true, nil
		}, func() error { return nil })
		err := engine.Write(driver)
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldContainSubstring, "source gone")
		convey.So(engine.GetStatusOn(), convey.ShouldEqual, ON_FAILED)
		convey.So(sink.AbortCount, convey.ShouldBeGreaterThan, 0)
	})
}

func TestEngineFileDestination(t *testing.T) {
	convey.Convey("a file destination run writes the document through afero", t, func() {
		fs := afero.NewMemMapFs()
		feed := NewTestFeed("testFileRun", TestCatalogRows()...)
		feed.Config = NewFeedConfig("file://out/feed.xml")
		engine := NewEngine(EngineWithSinkFs(fs))
		engine.RegisterFeeds(feed)
		engine.AddMapper(FieldMapper())
		err := engine.Start("testFileRun")
		convey.So(err, convey.ShouldBeNil)

		content, err := afero.ReadFile(fs, "out/feed.xml")
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(content), convey.ShouldContainSubstring, "</feed>")
		parseFeed(t, string(content))
	})
	convey.Convey("remove on abort cleans up the partial file", t, func() {
		fs := afero.NewMemMapFs()
		feed := NewTestFeed("testAbortCleanRun", TestCatalogRows()...)
		feed.Config = NewFeedConfig("file://out/partial.xml")
		feed.Config.RemoveOnAbort = true
		engine := NewEngine(EngineWithSinkFs(fs))
		engine.RegisterFeeds(feed)
		engine.AddMapper(FieldMapper())
		engine.AddProcessor(func(item ItemInterface) (ItemInterface, error) {
			return nil, errors.New("broken stage")
		})
		err := engine.Start("testAbortCleanRun")
		convey.So(err, convey.ShouldNotBeNil)

		exists, _ := afero.Exists(fs, "out/partial.xml")
		convey.So(exists, convey.ShouldBeFalse)
	})
}
