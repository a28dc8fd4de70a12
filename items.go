package feedgen

// ItemInterface 数据源条目，具体结构由数据源定义
// 引擎不关心其内部字段，仅交由各个stage处理
type ItemInterface interface {
}

// ItemMeta 条目元数据
// Ordinal 为该条目在数据源中的序号，从1开始
type ItemMeta struct {
	Ordinal int
	Item    ItemInterface
}

func NewItem(ordinal int, item ItemInterface) *ItemMeta {
	return &ItemMeta{
		Ordinal: ordinal,
		Item:    item,
	}
}
