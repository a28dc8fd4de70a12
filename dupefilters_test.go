package feedgen

import (
	"fmt"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRefDupeFilter(t *testing.T) {
	convey.Convey("a repeated reference is reported as seen", t, func() {
		filter := NewRefDupeFilter(0.001, 1024*1024)
		seen, err := filter.DoDupeFilter("SKU-1")
		convey.So(err, convey.ShouldBeNil)
		convey.So(seen, convey.ShouldBeFalse)

		seen, err = filter.DoDupeFilter("SKU-1")
		convey.So(err, convey.ShouldBeNil)
		convey.So(seen, convey.ShouldBeTrue)

		seen, _ = filter.DoDupeFilter("SKU-2")
		convey.So(seen, convey.ShouldBeFalse)
	})
	convey.Convey("distinct references stay distinct at scale", t, func() {
		filter := NewRefDupeFilter(0.001, 1024*1024)
		duplicates := 0
		for i := 0; i < 10000; i++ {
			seen, _ := filter.DoDupeFilter(fmt.Sprintf("SKU-%d", i))
			if seen {
				duplicates++
			}
		}
		convey.So(duplicates, convey.ShouldBeLessThan, 100)
	})
}

func TestFingerprint(t *testing.T) {
	convey.Convey("fingerprints are stable and distinct", t, func() {
		filter := NewRefDupeFilter(0.001, 1024)
		fp1 := filter.Fingerprint("SKU-1")
		fp2 := filter.Fingerprint("SKU-1")
		fp3 := filter.Fingerprint("SKU-2")
		convey.So(fp1, convey.ShouldResemble, fp2)
		convey.So(fp1, convey.ShouldNotResemble, fp3)
	})
}
