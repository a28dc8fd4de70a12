package catalog

import (
	"sync"

	"github.com/wetrycode/feedgen"
)

var CatalogFeedInstance *CatalogFeed
var once sync.Once
var Engine *feedgen.FeedEngine

func init() {
	once.Do(func() {
		CatalogFeedInstance = NewCatalogFeed("catalog", "file://catalog-feed.xml")
		Engine = feedgen.NewEngine(feedgen.EngineWithUniqueRef(true))
		Engine.RegisterFeeds(CatalogFeedInstance)
		// 流水线按注册顺序执行
		Engine.AddProcessor(feedgen.TrimStringsProcessor())
		Engine.AddProcessor(feedgen.StripHTMLProcessor("description"))
		Engine.AddFilter(InStockFilter())
		Engine.AddMapper(feedgen.FieldMapper())
		Engine.AddMapper(feedgen.AttributeMapper("description", "brand"))
	})
}

func Start() {
	Engine.Start("catalog")
}
