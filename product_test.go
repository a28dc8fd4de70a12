package feedgen

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smartystreets/goconvey/convey"
)

func TestProductBuilder(t *testing.T) {
	convey.Convey("build a product with chainable setters", t, func() {
		product := NewProduct().
			SetReference("SKU-100").
			SetName("Wool Sweater").
			SetPrice(decimal.NewFromFloat(49.9)).
			SetQuantity(12)
		convey.So(product.Reference(), convey.ShouldEqual, "SKU-100")
		convey.So(product.Name(), convey.ShouldEqual, "Wool Sweater")
		convey.So(product.Price().String(), convey.ShouldEqual, "49.9")
		convey.So(product.Quantity(), convey.ShouldEqual, 12)
		convey.So(product.Validate(1), convey.ShouldBeNil)
	})
}

func TestProductAttributes(t *testing.T) {
	convey.Convey("attribute keys keep first insertion order", t, func() {
		product := NewProduct()
		product.SetAttribute("color", "blue")
		product.SetAttribute("size", "M")
		product.SetAttribute("brand", "Acme")
		convey.So(product.AttributeKeys(), convey.ShouldResemble, []string{"color", "size", "brand"})
	})
	convey.Convey("rewriting an attribute keeps a single entry with the last value", t, func() {
		product := NewProduct()
		product.SetAttribute("color", "v1")
		product.SetAttribute("color", "v2")
		convey.So(product.AttributeKeys(), convey.ShouldResemble, []string{"color"})
		value, ok := product.Attribute("color")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(value, convey.ShouldEqual, "v2")
	})
	convey.Convey("scalar attribute values are coerced to string", t, func() {
		product := NewProduct()
		product.SetAttribute("weight", 3)
		product.SetAttribute("sale", true)
		weight, _ := product.Attribute("weight")
		sale, _ := product.Attribute("sale")
		convey.So(weight, convey.ShouldEqual, "3")
		convey.So(sale, convey.ShouldEqual, "true")
	})
}

func TestProductValidate(t *testing.T) {
	convey.Convey("missing fields are reported in declaration order", t, func() {
		product := NewProduct()
		err := product.Validate(3)
		vErr, ok := err.(*ValidationError)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(vErr.Field, convey.ShouldEqual, "reference")
		convey.So(vErr.Ordinal, convey.ShouldEqual, 3)

		product.SetReference("SKU-1")
		vErr = product.Validate(3).(*ValidationError)
		convey.So(vErr.Field, convey.ShouldEqual, "name")

		product.SetName("item")
		vErr = product.Validate(3).(*ValidationError)
		convey.So(vErr.Field, convey.ShouldEqual, "price")

		product.SetPriceFloat(9.9)
		vErr = product.Validate(3).(*ValidationError)
		convey.So(vErr.Field, convey.ShouldEqual, "quantity")

		product.SetQuantity(1)
		convey.So(product.Validate(3), convey.ShouldBeNil)
	})
	convey.Convey("negative price and quantity are invalid", t, func() {
		product := NewProduct().
			SetReference("SKU-1").
			SetName("item").
			SetPriceFloat(-0.1).
			SetQuantity(1)
		vErr := product.Validate(1).(*ValidationError)
		convey.So(vErr.Field, convey.ShouldEqual, "price")
		convey.So(vErr.Reason, convey.ShouldEqual, "is negative")

		product.SetPriceFloat(0.1).SetQuantity(-1)
		vErr = product.Validate(1).(*ValidationError)
		convey.So(vErr.Field, convey.ShouldEqual, "quantity")
	})
	convey.Convey("zero price and zero quantity are valid", t, func() {
		product := NewProduct().
			SetReference("SKU-1").
			SetName("item").
			SetPrice(decimal.Zero).
			SetQuantity(0)
		convey.So(product.Validate(1), convey.ShouldBeNil)
	})
}

func TestProductVariations(t *testing.T) {
	convey.Convey("variations keep creation order", t, func() {
		product := NewProduct()
		product.CreateVariation().SetReference("SKU-1-S").SetPriceFloat(10.5).SetQuantity(3)
		product.CreateVariation().SetReference("SKU-1-M").SetPriceFloat(11).SetQuantity(5)
		variations := product.Variations()
		convey.So(len(variations), convey.ShouldEqual, 2)
		convey.So(variations[0].Reference(), convey.ShouldEqual, "SKU-1-S")
		convey.So(variations[1].Reference(), convey.ShouldEqual, "SKU-1-M")
	})
}
