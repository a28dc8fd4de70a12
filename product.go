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
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Product 单个条目转换之后的导出实体
// 由mapper stage填充，四个必填字段校验通过之后交给exporter
// 每个条目都会构建一个全新的Product，序列化完成即丢弃
type Product struct {
	reference string
	name      string
	price     decimal.Decimal
	quantity  int

	hasReference bool
	hasName      bool
	hasPrice     bool
	hasQuantity  bool

	// attrs 属性映射，key唯一，后写覆盖
	// attrKeys 记录首次写入顺序，保证输出稳定
	attrs    map[string]string
	attrKeys []string

	variations []*Variation
}

// Variation product的子条目
// 只归属于父级product，不允许继续嵌套
type Variation struct {
	reference string
	name      string
	price     decimal.Decimal
	quantity  int

	hasReference bool
	hasName      bool
	hasPrice     bool
	hasQuantity  bool
}

// NewProduct 构建一个空的product实例
func NewProduct() *Product {
	return &Product{
		attrs:      make(map[string]string),
		attrKeys:   make([]string, 0),
		variations: make([]*Variation, 0),
	}
}

// SetReference 设置product的唯一标识
func (p *Product) SetReference(reference string) *Product {
	p.reference = reference
	p.hasReference = true
	return p
}

// SetName 设置product名称
func (p *Product) SetName(name string) *Product {
	p.name = name
	p.hasName = true
	return p
}

// SetPrice 设置product价格
func (p *Product) SetPrice(price decimal.Decimal) *Product {
	p.price = price
	p.hasPrice = true
	return p
}

// SetPriceFloat 以浮点数设置product价格
func (p *Product) SetPriceFloat(price float64) *Product {
	return p.SetPrice(decimal.NewFromFloat(price))
}

// SetQuantity 设置product库存数量
func (p *Product) SetQuantity(quantity int) *Product {
	p.quantity = quantity
	p.hasQuantity = true
	return p
}

// SetAttribute 写入一个属性
// 标量值统一转换为字符串，重复写入同一个key时覆盖旧值
func (p *Product) SetAttribute(key string, value interface{}) *Product {
	if _, ok := p.attrs[key]; !ok {
		p.attrKeys = append(p.attrKeys, key)
	}
	p.attrs[key] = cast.ToString(value)
	return p
}

// CreateVariation 构建一个新的variation并追加到product
// variation按照调用顺序输出
func (p *Product) CreateVariation() *Variation {
	v := &Variation{}
	p.variations = append(p.variations, v)
	return v
}

// Reference 获取product的唯一标识
func (p *Product) Reference() string {
	return p.reference
}

// Name 获取product名称
func (p *Product) Name() string {
	return p.name
}

// Price 获取product价格
func (p *Product) Price() decimal.Decimal {
	return p.price
}

// Quantity 获取product库存数量
func (p *Product) Quantity() int {
	return p.quantity
}

// Attributes 按照首次写入顺序返回所有属性key
func (p *Product) AttributeKeys() []string {
	return p.attrKeys
}

// Attribute 获取指定属性值
func (p *Product) Attribute(key string) (string, bool) {
	value, ok := p.attrs[key]
	return value, ok
}

// Variations 获取所有的variation
func (p *Product) Variations() []*Variation {
	return p.variations
}

// Validate 必填字段校验
// reference和name非空，price和quantity必须已设置且非负
// ordinal 条目序号，用于错误上下文
func (p *Product) Validate(ordinal int) error {
	if !p.hasReference || p.reference == "" {
		return &ValidationError{Field: "reference", Ordinal: ordinal, Reason: "is missing"}
	}
	if !p.hasName || p.name == "" {
		return &ValidationError{Field: "name", Ordinal: ordinal, Reason: "is missing"}
	}
	if !p.hasPrice {
		return &ValidationError{Field: "price", Ordinal: ordinal, Reason: "is missing"}
	}
	if p.price.IsNegative() {
		return &ValidationError{Field: "price", Ordinal: ordinal, Reason: "is negative"}
	}
	if !p.hasQuantity {
		return &ValidationError{Field: "quantity", Ordinal: ordinal, Reason: "is missing"}
	}
	if p.quantity < 0 {
		return &ValidationError{Field: "quantity", Ordinal: ordinal, Reason: "is negative"}
	}
	return nil
}

// SetReference 设置variation的唯一标识
func (v *Variation) SetReference(reference string) *Variation {
	v.reference = reference
	v.hasReference = true
	return v
}

// SetName 设置variation名称，可选字段
func (v *Variation) SetName(name string) *Variation {
	v.name = name
	v.hasName = true
	return v
}

// SetPrice 设置variation价格
func (v *Variation) SetPrice(price decimal.Decimal) *Variation {
	v.price = price
	v.hasPrice = true
	return v
}

// SetPriceFloat 以浮点数设置variation价格
func (v *Variation) SetPriceFloat(price float64) *Variation {
	return v.SetPrice(decimal.NewFromFloat(price))
}

// SetQuantity 设置variation库存数量
func (v *Variation) SetQuantity(quantity int) *Variation {
	v.quantity = quantity
	v.hasQuantity = true
	return v
}

// Reference 获取variation的唯一标识
func (v *Variation) Reference() string {
	return v.reference
}
