package catalog

import (
	"github.com/sirupsen/logrus"
	"github.com/wetrycode/feedgen"
)

var exampleLog *logrus.Entry = feedgen.GetLogger("example")

// CatalogFeed 定义一个商品目录feed
type CatalogFeed struct {
	feedgen.BaseFeed
}

// catalogRows 模拟的商品数据源
// 实际场景可替换为数据库游标或者JSONLinesDriver
var catalogRows = []feedgen.ItemInterface{
	map[string]interface{}{
		"reference":   "SKU-001",
		"name":        "  Wool Sweater ",
		"price":       49.9,
		"quantity":    12,
		"description": "<p>Hand made <b>wool</b> sweater</p>",
		"brand":       "Acme",
		"variations": []map[string]interface{}{
			{"reference": "SKU-001-S", "price": 49.9, "quantity": 5},
			{"reference": "SKU-001-M", "price": 52.5, "quantity": 7},
		},
	},
	map[string]interface{}{
		"reference":   "SKU-002",
		"name":        "Leather Belt",
		"price":       19.5,
		"quantity":    0,
		"description": "Classic leather belt",
		"brand":       "Acme",
	},
	map[string]interface{}{
		"reference":   "SKU-003",
		"name":        "Canvas Bag",
		"price":       23.0,
		"quantity":    30,
		"description": "<div>Light canvas bag</div>",
		"brand":       "Acme",
	},
}

// NewCatalogFeed 构建feed实例
func NewCatalogFeed(name string, destination string) *CatalogFeed {
	config := feedgen.NewFeedConfig(destination)
	config.SetPlatform("Shopstore", "2.1")
	config.SetAttribute("region", "eu")
	return &CatalogFeed{
		BaseFeed: feedgen.BaseFeed{
			Name:   name,
			Config: config,
		},
	}
}

// Open 打开数据源
func (c *CatalogFeed) Open() (feedgen.DriverInterface, error) {
	exampleLog.Infof("open catalog source with %d rows", len(catalogRows))
	return feedgen.NewSliceDriver(catalogRows), nil
}

// InStockFilter 过滤掉无库存的商品
func InStockFilter() feedgen.FilterFunc {
	return func(item feedgen.ItemInterface) (bool, error) {
		record, ok := item.(map[string]interface{})
		if !ok {
			return true, nil
		}
		quantity, ok := record["quantity"].(int)
		if !ok {
			return true, nil
		}
		return quantity > 0, nil
	}
}
