package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBackendSwitching(t *testing.T) {
	Convey("the backend", t, func() {
		Convey("starts out on the real disk", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("can be swapped for an in-memory tree", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")

			exists, err := API().DirExists("/nowhere")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})
	})
}
