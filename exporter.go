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
	"encoding/xml"
	"strconv"
)

// ExporterInterface 流式序列化器
// OpenDocument在run开始时写出文档头，CloseDocument在run结束时写出文档尾
// ExportProduct每次写出一个完整的product元素并提交到sink
// 返回控制权之后product即可被丢弃
type ExporterInterface interface {
	OpenDocument(config *FeedConfig) error
	ExportProduct(product *Product) error
	CloseDocument() error
}

// XMLExporter 默认的xml序列化器
// 基于encoding/xml的token流实现，逐product写出并flush
// 任何时刻只持有单个product的序列化状态
type XMLExporter struct {
	sink    SinkInterface
	encoder *xml.Encoder
}

// NewXMLExporter 构建xml序列化器
func NewXMLExporter(sink SinkInterface) *XMLExporter {
	encoder := xml.NewEncoder(sink)
	encoder.Indent("", "  ")
	return &XMLExporter{
		sink:    sink,
		encoder: encoder,
	}
}

// OpenDocument 写出xml声明、根元素和feed级别元数据
// 平台信息和feed属性都为空时省略整个metadata元素
func (e *XMLExporter) OpenDocument(config *FeedConfig) error {
	err := e.encoder.EncodeToken(xml.ProcInst{
		Target: "xml",
		Inst:   []byte(`version="1.0" encoding="UTF-8"`),
	})
	if err != nil {
		return err
	}
	if err := e.encodeStart("feed"); err != nil {
		return err
	}
	if err := e.encodeMetadata(config); err != nil {
		return err
	}
	return e.commit()
}

// ExportProduct 写出一个product元素
// 子元素顺序固定：必填字段、属性、variation
func (e *XMLExporter) ExportProduct(product *Product) error {
	if err := e.encodeStart("product"); err != nil {
		return err
	}
	if err := e.encodeText("reference", product.reference); err != nil {
		return err
	}
	if err := e.encodeText("name", product.name); err != nil {
		return err
	}
	if err := e.encodeText("price", product.price.String()); err != nil {
		return err
	}
	if err := e.encodeText("quantity", strconv.Itoa(product.quantity)); err != nil {
		return err
	}
	for _, key := range product.attrKeys {
		if err := e.encodeAttribute(key, product.attrs[key]); err != nil {
			return err
		}
	}
	for _, variation := range product.variations {
		if err := e.encodeVariation(variation); err != nil {
			return err
		}
	}
	if err := e.encodeEnd("product"); err != nil {
		return err
	}
	return e.commit()
}

// CloseDocument 写出根元素的闭合标签
func (e *XMLExporter) CloseDocument() error {
	if err := e.encodeEnd("feed"); err != nil {
		return err
	}
	return e.commit()
}

func (e *XMLExporter) encodeMetadata(config *FeedConfig) error {
	if config == nil {
		return nil
	}
	if config.PlatformName == "" && config.PlatformVersion == "" && len(config.attrKeys) == 0 {
		return nil
	}
	if err := e.encodeStart("metadata"); err != nil {
		return err
	}
	if config.PlatformName != "" {
		if err := e.encodeText("platform", config.PlatformName); err != nil {
			return err
		}
	}
	if config.PlatformVersion != "" {
		if err := e.encodeText("version", config.PlatformVersion); err != nil {
			return err
		}
	}
	for _, key := range config.attrKeys {
		if err := e.encodeAttribute(key, config.attrs[key]); err != nil {
			return err
		}
	}
	return e.encodeEnd("metadata")
}

func (e *XMLExporter) encodeVariation(variation *Variation) error {
	if err := e.encodeStart("variation"); err != nil {
		return err
	}
	if variation.hasReference {
		if err := e.encodeText("reference", variation.reference); err != nil {
			return err
		}
	}
	if variation.hasPrice {
		if err := e.encodeText("price", variation.price.String()); err != nil {
			return err
		}
	}
	if variation.hasQuantity {
		if err := e.encodeText("quantity", strconv.Itoa(variation.quantity)); err != nil {
			return err
		}
	}
	if variation.hasName {
		if err := e.encodeText("name", variation.name); err != nil {
			return err
		}
	}
	return e.encodeEnd("variation")
}

func (e *XMLExporter) encodeStart(name string) error {
	return e.encoder.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}})
}

func (e *XMLExporter) encodeEnd(name string) error {
	return e.encoder.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (e *XMLExporter) encodeText(name string, value string) error {
	if err := e.encodeStart(name); err != nil {
		return err
	}
	if err := e.encoder.EncodeToken(xml.CharData(value)); err != nil {
		return err
	}
	return e.encodeEnd(name)
}

func (e *XMLExporter) encodeAttribute(key string, value string) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "attribute"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "name"}, Value: key}},
	}
	if err := e.encoder.EncodeToken(start); err != nil {
		return err
	}
	if err := e.encoder.EncodeToken(xml.CharData(value)); err != nil {
		return err
	}
	return e.encodeEnd("attribute")
}

// commit 将encoder缓冲写入sink并flush
// 每个product写出之后都会执行，保证内存占用与条目总数无关
func (e *XMLExporter) commit() error {
	if err := e.encoder.Flush(); err != nil {
		return err
	}
	return e.sink.Flush()
}
