package capture

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/snapkit-cli/snapkit/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestLoad(t *testing.T) {
	Convey("Given an image file", t, func() {
		So(filesystem.API().WriteFile("/shots/Window Title.JPG", []byte{0xff, 0xd8}, 0o644), ShouldBeNil)

		Convey("When loading it", func() {
			surface, details, err := Load("/shots/Window Title.JPG")

			Convey("Then the surface and details should be populated", func() {
				So(err, ShouldBeNil)
				So(surface.Format, ShouldEqual, "jpg")
				So(surface.ContentType(), ShouldEqual, "image/jpeg")
				So(surface.Data, ShouldResemble, []byte{0xff, 0xd8})
				So(details.Title, ShouldEqual, "Window Title")
				So(details.Metadata, ShouldNotBeNil)
			})
		})

		Convey("When loading a missing file", func() {
			_, _, err := Load("/shots/missing.png")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestExportInformation(t *testing.T) {
	Convey("NoExport should describe a no-op", t, func() {
		info := NoExport("Email")
		So(info.ExportMade, ShouldBeFalse)
		So(info.Designation, ShouldEqual, "Email")
		So(info.ErrorMessage, ShouldBeEmpty)
	})

	Convey("Failed should carry the error text", t, func() {
		info := Failed("File", "Save as file", errors.New("disk full"))
		So(info.ExportMade, ShouldBeFalse)
		So(info.ErrorMessage, ShouldEqual, "disk full")
	})
}
