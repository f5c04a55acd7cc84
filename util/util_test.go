package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/snapkit-cli/snapkit/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("capture:window?.png"), ShouldEqual, "capture_window_.png")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("My  Page - Chrome"), ShouldEqual, "My_Page_-_Chrome")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-screenshot-"), ShouldEqual, "screenshot")
		})
		Convey("Should flatten path separators", func() {
			So(SanitizeFilename("a/b\\c"), ShouldEqual, "a_b_c")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "destination", "destinations"), ShouldEqual, "1 destination")
		So(Quantify(3, "destination", "destinations"), ShouldEqual, "3 destinations")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("plugins/imgur.lua"), ShouldEqual, "imgur")
		So(FileStem("capture"), ShouldEqual, "capture")
	})
}

func TestMax(t *testing.T) {
	Convey("Max", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Max[int](), ShouldEqual, 0)
		So(Max("File", "Clipboard"), ShouldEqual, "File")
	})
}

func TestDelete(t *testing.T) {
	Convey("Given a file and a directory", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/util/dir/nested", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/util/file", []byte("x"), 0o644), ShouldBeNil)

		Convey("Both should be removable", func() {
			So(Delete("/tmp/util/file"), ShouldBeNil)
			So(Delete("/tmp/util/dir"), ShouldBeNil)

			exists, _ := fs.Exists("/tmp/util/file")
			So(exists, ShouldBeFalse)
			exists, _ = fs.DirExists("/tmp/util/dir")
			So(exists, ShouldBeFalse)
		})

		Convey("Missing paths should fail", func() {
			So(Delete("/tmp/util/missing"), ShouldNotBeNil)
		})
	})
}
