package feedgen

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/sourcegraph/conc"
)

func TestGetUUID(t *testing.T) {
	convey.Convey("uuid values are unique", t, func() {
		u1 := GetUUID()
		u2 := GetUUID()
		convey.So(u1, convey.ShouldNotBeEmpty)
		convey.So(u1, convey.ShouldNotEqual, u2)
	})
}

func TestGoSyncWait(t *testing.T) {
	convey.Convey("all submitted tasks run to completion", t, func() {
		wg := &conc.WaitGroup{}
		done := make(chan int, 3)
		tasks := []GoFunc{
			func() error { done <- 1; return nil },
			func() error { done <- 2; return nil },
			func() error { done <- 3; return errors.New("task error is logged, not raised") },
		}
		GoSyncWait(wg, tasks...)
		wg.Wait()
		convey.So(len(done), convey.ShouldEqual, 3)
	})
}

func TestMap2String(t *testing.T) {
	convey.Convey("stats map renders with sorted keys", t, func() {
		s := Map2String(map[string]uint64{
			"items_pulled":      3,
			"products_exported": 2,
		})
		convey.So(s, convey.ShouldEqual, "items_pulled=3, products_exported=2")
	})
}

func TestOptimalBloomParams(t *testing.T) {
	convey.Convey("bloom parameters scale with the error rate", t, func() {
		m1 := OptimalNumOfBits(1024*1024, 0.001)
		m2 := OptimalNumOfBits(1024*1024, 0.01)
		convey.So(m1, convey.ShouldBeGreaterThan, m2)

		k := OptimalNumOfHashFunctions(1024*1024, m1)
		convey.So(k, convey.ShouldBeGreaterThanOrEqualTo, 1)
	})
}
