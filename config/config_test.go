package config

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/snapkit-cli/snapkit/filesystem"
	"github.com/snapkit-cli/snapkit/key"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			So(Setup(), ShouldBeNil)
			for name, field := range Default {
				So(viper.Get(name), ShouldResemble, field.Value)
			}
		})

		Convey("Environment variables should override defaults", func() {
			So(os.Setenv("SNAPKIT_EXPORT_HISTORY", "false"), ShouldBeNil)
			Reset(func() { _ = os.Unsetenv("SNAPKIT_EXPORT_HISTORY") })

			So(Setup(), ShouldBeNil)
			So(viper.GetBool(key.ExportHistory), ShouldBeFalse)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace(key.PicasaClientID), ShouldEqual, "picasa_client_id")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.SettingsUseKeyring]

		Convey("Its environment variable should carry the application prefix", func() {
			So(field.Env(), ShouldEqual, "SNAPKIT_SETTINGS_USE_KEYRING")
		})

		Convey("Its type should be reported", func() {
			So(field.typeName(), ShouldEqual, "bool")
		})

		Convey("Every key should be registered once", func() {
			So(Default, ShouldHaveLength, len(EnvExposed))
		})
	})
}
