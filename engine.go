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
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"
)

var engineLog *logrus.Entry = GetLogger("engine") // engineLog engine runtime logger

// workerUnit 单个条目处理单元
type workerUnit func(c *itemContext) error

// ErrorPolicy 单条目错误的处理策略
type ErrorPolicy uint

const (
	// ErrorPolicyAbort 首个错误即中止整个run
	ErrorPolicyAbort ErrorPolicy = iota
	// ErrorPolicySkip 跳过出错条目并收集错误，继续处理后续条目
	ErrorPolicySkip
)

// ExporterFactory 序列化器构造函数
// 允许替换默认的xml序列化器
type ExporterFactory func(sink SinkInterface) ExporterInterface

// itemContext 单个条目在子周期内的全部状态
// product在序列化完成之后随整个context一起丢弃
type itemContext struct {
	meta     *ItemMeta
	product  *Product
	filtered bool
}

// FeedEngine 引擎是整个导出流程的调度核心
// 严格单线程处理条目，每个条目完整走完
// pull → process → filter → map → validate → export → flush
// 之后才会拉取下一个条目，峰值内存与条目总数无关
type FeedEngine struct {
	// feeds 已经注册的feed
	// 引擎调度的feed实例从此处根据feed名获取
	feeds *Feeds

	// registry 三类stage的注册表
	registry *StageRegistry

	// components 支撑组件，包括统计、事件、限速和去重
	components ComponentInterface

	// config 当前run的导出配置
	config *FeedConfig

	// exporterFactory 序列化器构造函数
	exporterFactory ExporterFactory

	// sink 外部注入的输出目标
	// 为nil时根据config.Destination构建
	sink SinkInterface

	// sinkFs 文件sink使用的文件系统
	sinkFs afero.Fs

	// eventsChan 事件管道
	// 导出过程中发起的事件都通过该channel与监听器交互
	eventsChan chan EventType

	// errorPolicy 单条目错误处理策略
	errorPolicy ErrorPolicy

	// collectedErrors skip策略下收集的单条目错误
	collectedErrors []error

	// filterDuplicateRef 是否启用reference去重
	filterDuplicateRef bool

	// runtimeStatus 引擎运行状态
	runtimeStatus *RuntimeStatus

	// currentFeed 当前正在运行的feed实例
	currentFeed FeedInterface

	// mutex run启动锁，同一引擎同时只能执行一个run
	mutex sync.Mutex
}

// NewEngine 构建新的引擎
func NewEngine(opts ...EngineOption) *FeedEngine {
	engine := &FeedEngine{
		feeds:              NewFeeds(),
		registry:           NewStageRegistry(),
		components:         NewDefaultComponents(),
		config:             NewFeedConfig(""),
		exporterFactory:    func(sink SinkInterface) ExporterInterface { return NewXMLExporter(sink) },
		sinkFs:             afero.NewOsFs(),
		eventsChan:         make(chan EventType, 16),
		errorPolicy:        ErrorPolicyAbort,
		filterDuplicateRef: false,
		runtimeStatus:      NewRuntimeStatus(),
	}
	for _, o := range opts {
		o(engine)
	}
	return engine
}

// RegisterFeeds 将feed实例注册到引擎
func (e *FeedEngine) RegisterFeeds(feed FeedInterface) {
	err := e.feeds.Register(feed)
	if err != nil {
		panic(err)
	}
	engineLog.Infof("Register %s feed success\n", feed.GetName())
}

// AddProcessor 注册processor stage到引擎
func (e *FeedEngine) AddProcessor(fn ProcessorFunc) {
	e.registry.AddProcessor(fn)
	engineLog.Debugf("Register %d processor stage success\n", len(e.registry.processors)-1)
}

// AddFilter 注册filter stage到引擎
func (e *FeedEngine) AddFilter(fn FilterFunc) {
	e.registry.AddFilter(fn)
	engineLog.Debugf("Register %d filter stage success\n", len(e.registry.filters)-1)
}

// AddMapper 注册mapper stage到引擎
func (e *FeedEngine) AddMapper(fn MapperFunc) {
	e.registry.AddMapper(fn)
	engineLog.Debugf("Register %d mapper stage success\n", len(e.registry.mappers)-1)
}

// Execute 通过命令行启动引擎
func (e *FeedEngine) Execute() {
	ExecuteCmd(e)
	defer rootCmd.ResetCommands()
}

// Start 通过feed名启动一次导出run
func (e *FeedEngine) Start(feedName string) error {
	feed, err := e.feeds.GetFeed(feedName)
	if err != nil {
		return err
	}
	e.currentFeed = feed
	e.components.SetCurrentFeed(feed)
	e.config = feed.GetConfig()
	driver, err := feed.Open()
	if err != nil {
		return fmt.Errorf("open feed %s source error: %w", feedName, err)
	}
	return e.Write(driver)
}

// Write 执行一次完整的导出run
// 同一引擎同时只能执行一个run，引擎正在运行时返回ErrEngineRunning
// 配置校验失败和sink错误立即终止，单条目错误按errorPolicy处理
// 无论正常结束还是中途失败，sink都会被关闭且只关闭一次
func (e *FeedEngine) Write(driver DriverInterface) error {
	if !e.mutex.TryLock() {
		return ErrEngineRunning
	}
	defer e.mutex.Unlock()
	e.collectedErrors = nil

	e.runtimeStatus.SetStatus(ON_CONFIGURING)
	if err := e.config.Check(); err != nil {
		e.runtimeStatus.SetStatus(ON_FAILED)
		return err
	}
	sink, err := e.openSink()
	if err != nil {
		e.runtimeStatus.SetStatus(ON_FAILED)
		return err
	}

	// 事件监听器通过协程执行，条目处理本身保持单线程
	wg := &conc.WaitGroup{}
	watchers := []GoFunc{e.eventsWatcherRunner}
	GoSyncWait(wg, watchers...)
	e.eventsChan <- START

	e.runtimeStatus.SetStatus(ON_RUNNING)
	e.runtimeStatus.SetStartAt(time.Now().Unix())

	runErr := e.run(driver, sink)

	e.runtimeStatus.SetStopAt(time.Now().Unix())
	e.runtimeStatus.SetDuration(float64(e.runtimeStatus.GetStopAt() - e.runtimeStatus.GetStartAt()))
	if runErr != nil {
		e.runtimeStatus.SetStatus(ON_FAILED)
	} else {
		e.runtimeStatus.SetStatus(ON_COMPLETED)
	}
	e.eventsChan <- EXIT
	engineLog.Infof("Waiting engine to stop...")
	wg.Wait()
	stats := e.components.GetStats().GetAllStats()
	engineLog.Infof(Map2String(stats))
	return runErr
}

// run 拉取并处理所有条目，管理sink的完整生命周期
func (e *FeedEngine) run(driver DriverInterface, sink SinkInterface) error {
	defer func() {
		if closeErr := driver.Close(); closeErr != nil {
			engineLog.Errorf("close driver error %s", closeErr.Error())
		}
	}()

	exporter := e.exporterFactory(sink)
	if err := exporter.OpenDocument(e.config); err != nil {
		sink.Abort()
		return err
	}
	if err := e.writeLoop(driver, exporter); err != nil {
		sink.Abort()
		return err
	}
	if err := exporter.CloseDocument(); err != nil {
		sink.Abort()
		return err
	}
	return sink.Close()
}

// writeLoop 逐条目执行子周期，直到数据源耗尽
func (e *FeedEngine) writeLoop(driver DriverInterface, exporter ExporterInterface) error {
	ordinal := 0
	for {
		if err := e.components.GetLimiter().CheckAndWaitLimiterPass(); err != nil {
			return err
		}
		item, ok, err := driver.Next()
		if err != nil {
			return fmt.Errorf("pull item %d error: %w", ordinal+1, err)
		}
		if !ok {
			return nil
		}
		ordinal++
		e.components.GetStats().Incr(ItemsPulledStats)
		if err := e.exportItem(NewItem(ordinal, item), exporter); err != nil {
			e.components.GetStats().Incr(ErrorsStats)
			e.eventsChan <- ERROR
			if e.errorPolicy == ErrorPolicySkip && IsItemError(err) {
				engineLog.WithField("ordinal", ordinal).Errorf("skip item with error %s", err.Error())
				e.collectedErrors = append(e.collectedErrors, err)
				continue
			}
			return err
		}
	}
}

// exportItem 单个条目的处理子周期
// 所有工作单元依次执行，任何一步失败都会中止该条目
func (e *FeedEngine) exportItem(meta *ItemMeta, exporter ExporterInterface) error {
	c := &itemContext{meta: meta}
	units := []workerUnit{
		e.doProcess,
		e.doFilter,
		e.doMap,
		e.doValidate,
		e.doDupeFilter,
	}
	for _, unit := range units {
		if err := unit(c); err != nil {
			return err
		}
		if c.filtered {
			return nil
		}
	}
	if err := exporter.ExportProduct(c.product); err != nil {
		return err
	}
	e.components.GetStats().Incr(ProductsExportedStats)
	e.eventsChan <- HEARTBEAT
	return nil
}

// doProcess 依次执行所有processor，每个processor的返回值
// 替换条目进入下一个stage
func (e *FeedEngine) doProcess(c *itemContext) (err error) {
	var index int
	defer func() {
		if p := recover(); p != nil {
			err = &PipelineStageError{
				Kind:    ProcessorStage,
				Index:   index,
				Ordinal: c.meta.Ordinal,
				Err:     fmt.Errorf("stage panic %v", p),
			}
		}
	}()
	for i, processor := range e.registry.Processors() {
		index = i
		next, procErr := processor(c.meta.Item)
		if procErr != nil {
			return &PipelineStageError{Kind: ProcessorStage, Index: i, Ordinal: c.meta.Ordinal, Err: procErr}
		}
		if next == nil {
			return &PipelineStageError{Kind: ProcessorStage, Index: i, Ordinal: c.meta.Ordinal, Err: ErrNilProcessorItem}
		}
		c.meta.Item = next
	}
	return nil
}

// doFilter 依次执行所有filter
// 首个false丢弃该条目，filter自身报错是stage错误而不是丢弃
func (e *FeedEngine) doFilter(c *itemContext) (err error) {
	var index int
	defer func() {
		if p := recover(); p != nil {
			err = &PipelineStageError{
				Kind:    FilterStage,
				Index:   index,
				Ordinal: c.meta.Ordinal,
				Err:     fmt.Errorf("stage panic %v", p),
			}
		}
	}()
	for i, filter := range e.registry.Filters() {
		index = i
		pass, filterErr := filter(c.meta.Item)
		if filterErr != nil {
			return &PipelineStageError{Kind: FilterStage, Index: i, Ordinal: c.meta.Ordinal, Err: filterErr}
		}
		if !pass {
			c.filtered = true
			e.components.GetStats().Incr(ItemsFilteredStats)
			engineLog.WithField("ordinal", c.meta.Ordinal).Debugf("item is dropped by filter %d", i)
			return nil
		}
	}
	return nil
}

// doMap 构建新的product并依次执行所有mapper
// 同一个条目的所有mapper共享同一个product实例
func (e *FeedEngine) doMap(c *itemContext) (err error) {
	var index int
	defer func() {
		if p := recover(); p != nil {
			err = &PipelineStageError{
				Kind:    MapperStage,
				Index:   index,
				Ordinal: c.meta.Ordinal,
				Err:     fmt.Errorf("stage panic %v", p),
			}
		}
	}()
	c.product = NewProduct()
	for i, mapper := range e.registry.Mappers() {
		index = i
		if mapErr := mapper(c.meta.Item, c.product); mapErr != nil {
			return &PipelineStageError{Kind: MapperStage, Index: i, Ordinal: c.meta.Ordinal, Err: mapErr}
		}
	}
	return nil
}

// doValidate product必填字段校验
func (e *FeedEngine) doValidate(c *itemContext) error {
	return c.product.Validate(c.meta.Ordinal)
}

// doDupeFilter reference去重检查
// 重复的product不写出，计入duplicate_references指标
// 去重后端自身的错误是run级错误，不是条目级错误
func (e *FeedEngine) doDupeFilter(c *itemContext) error {
	if !e.filterDuplicateRef {
		return nil
	}
	seen, err := e.components.GetDupeFilter().DoDupeFilter(c.product.Reference())
	if err != nil {
		return fmt.Errorf("reference dupefilter error on item %d: %w", c.meta.Ordinal, err)
	}
	if seen {
		c.filtered = true
		e.components.GetStats().Incr(DuplicateRefStats)
		engineLog.WithField("ordinal", c.meta.Ordinal).Debugf("duplicate reference %s", c.product.Reference())
	}
	return nil
}

// eventsWatcherRunner 事件监听器运行组件
func (e *FeedEngine) eventsWatcherRunner() error {
	err := e.components.GetEventHooks().EventsWatcher(e.eventsChan)
	if err != nil {
		return fmt.Errorf("events watcher task execution error %s", err.Error())
	}
	return nil
}

// openSink 构建当前run的输出目标
// 外部注入的sink优先于config.Destination
func (e *FeedEngine) openSink() (SinkInterface, error) {
	if e.sink != nil {
		sink := e.sink
		// 注入的sink只用于一次run
		e.sink = nil
		return sink, nil
	}
	return OpenSink(
		e.config.Destination,
		SinkWithFs(e.sinkFs),
		SinkWithRemoveOnAbort(e.config.RemoveOnAbort),
	)
}

// Errors skip策略下收集的单条目错误
func (e *FeedEngine) Errors() []error {
	return e.collectedErrors
}

// GetFeeds 获取所有的已经注册到引擎的feed实例
func (e *FeedEngine) GetFeeds() *Feeds {
	return e.feeds
}

// GetCurrentFeed 获取当前正在运行的feed实例
func (e *FeedEngine) GetCurrentFeed() FeedInterface {
	return e.currentFeed
}

// GetStats 获取统计组件
func (e *FeedEngine) GetStats() StatisticInterface {
	return e.components.GetStats()
}

// GetStatusOn 获取引擎的运行状态
func (e *FeedEngine) GetStatusOn() StatusType {
	return e.runtimeStatus.GetStatusOn()
}

// GetRuntimeStatus 获取引擎运行状态详情
func (e *FeedEngine) GetRuntimeStatus() *RuntimeStatus {
	return e.runtimeStatus
}

// GetEngineID 获取引擎实例id
func (e *FeedEngine) GetEngineID() string {
	return engineID
}
