package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/snapkit-cli/snapkit/constant"
)

func TestCommand(t *testing.T) {
	Convey("Given a capture path", t, func() {
		const path = "/captures/shot.png"

		Convey("Linux should use xdg-open by default", func() {
			cmd, err := Command(constant.Linux, path, "")
			So(err, ShouldBeNil)
			So(cmd.Args, ShouldResemble, []string{"xdg-open", path})
		})

		Convey("Darwin should pass the application with -a", func() {
			cmd, err := Command(constant.Darwin, path, "Preview")
			So(err, ShouldBeNil)
			So(cmd.Args, ShouldResemble, []string{"open", "-a", "Preview", path})
		})

		Convey("Windows should escape ampersands for start", func() {
			cmd, err := Command(constant.Windows, "https://x?a=1&b=2", "mspaint")
			So(err, ShouldBeNil)
			So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "https://x?a=1^&b=2")
		})

		Convey("Unknown systems should fail", func() {
			_, err := Command("plan9", path, "")
			So(err, ShouldNotBeNil)
		})
	})
}
