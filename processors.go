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
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// productRecord FieldMapper使用的解码目标
// 指针字段用于区分缺失和零值，缺失字段不会写入product
type productRecord struct {
	Reference  *string                `mapstructure:"reference"`
	Name       *string                `mapstructure:"name"`
	Price      *float64               `mapstructure:"price"`
	Quantity   *int                   `mapstructure:"quantity"`
	Attributes map[string]interface{} `mapstructure:"attributes"`
	Variations []variationRecord      `mapstructure:"variations"`
}

type variationRecord struct {
	Reference *string  `mapstructure:"reference"`
	Name      *string  `mapstructure:"name"`
	Price     *float64 `mapstructure:"price"`
	Quantity  *int     `mapstructure:"quantity"`
}

// StripHTMLProcessor 构建一个清洗html标签的processor
// 对map类型条目的指定字段做html文本提取
// 常用于清洗来源于富文本编辑器的商品描述
func StripHTMLProcessor(fields ...string) ProcessorFunc {
	return func(item ItemInterface) (ItemInterface, error) {
		record, ok := item.(map[string]interface{})
		if !ok {
			return item, nil
		}
		for _, field := range fields {
			value, ok := record[field].(string)
			if !ok {
				continue
			}
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(value))
			if err != nil {
				return nil, err
			}
			record[field] = strings.TrimSpace(doc.Text())
		}
		return record, nil
	}
}

// TrimStringsProcessor 构建一个去除字符串首尾空白的processor
// 对map类型条目的全部字符串字段生效
func TrimStringsProcessor() ProcessorFunc {
	return func(item ItemInterface) (ItemInterface, error) {
		record, ok := item.(map[string]interface{})
		if !ok {
			return item, nil
		}
		for key, value := range record {
			if s, ok := value.(string); ok {
				record[key] = strings.TrimSpace(s)
			}
		}
		return record, nil
	}
}

// FieldMapper 构建一个基于mapstructure的mapper
// 将map或者结构体条目按字段名解码并填充product
// 缺失的字段保持未设置状态，交由校验环节报告
func FieldMapper() MapperFunc {
	return func(item ItemInterface, product *Product) error {
		var record productRecord
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &record,
		})
		if err != nil {
			return err
		}
		if err := decoder.Decode(item); err != nil {
			return err
		}
		if record.Reference != nil {
			product.SetReference(*record.Reference)
		}
		if record.Name != nil {
			product.SetName(*record.Name)
		}
		if record.Price != nil {
			product.SetPrice(decimal.NewFromFloat(*record.Price))
		}
		if record.Quantity != nil {
			product.SetQuantity(*record.Quantity)
		}
		keys := make([]string, 0, len(record.Attributes))
		for key := range record.Attributes {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			product.SetAttribute(key, record.Attributes[key])
		}
		for _, v := range record.Variations {
			variation := product.CreateVariation()
			if v.Reference != nil {
				variation.SetReference(*v.Reference)
			}
			if v.Price != nil {
				variation.SetPrice(decimal.NewFromFloat(*v.Price))
			}
			if v.Quantity != nil {
				variation.SetQuantity(*v.Quantity)
			}
			if v.Name != nil {
				variation.SetName(*v.Name)
			}
		}
		return nil
	}
}

// AttributeMapper 构建一个属性拷贝mapper
// 将map条目的指定字段写入product属性
func AttributeMapper(keys ...string) MapperFunc {
	return func(item ItemInterface, product *Product) error {
		record, ok := item.(map[string]interface{})
		if !ok {
			return nil
		}
		for _, key := range keys {
			if value, ok := record[key]; ok {
				product.SetAttribute(key, value)
			}
		}
		return nil
	}
}
