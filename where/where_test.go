package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/snapkit-cli/snapkit/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Plugins()", func() {
			path := Plugins()
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			So(filepath.Dir(path), ShouldEqual, Config())
		})

		Convey("Settings()", func() {
			So(filepath.Base(Settings()), ShouldEqual, "snapkit.ini")
		})

		Convey("Config() honours the override variable", func() {
			t.Setenv(EnvConfigPath, "/custom/snapkit")
			So(Config(), ShouldEqual, "/custom/snapkit")
		})
	})
}
