package app

import (
	"context"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/filesystem"
	"github.com/snapkit-cli/snapkit/history"
	"github.com/snapkit-cli/snapkit/ini"
)

const settingsFile = `[Core]
Destinations=File,Nonexistent
ExcludeDestinations=Open
Processors=TitleFix,Shout
OutputFilePath=/captures

[Picasa]
UploadAlbum=screens

[Extra]
kept=yes
`

const shoutPlugin = `
function Processors()
  return {
    { designation = "Shout", description = "Upper case", process = function(c) c.title = string.upper(c.title) return true end },
  }
end
`

func init() {
	filesystem.SetMemMapFs()
}

func testOptions() Options {
	return Options{
		SettingsPath: "/config/snapkit.ini",
		PluginsDir:   "/config/plugins",
		Plugins:      true,
		LuaPlugins:   true,
		History:      true,
	}
}

func TestNew(t *testing.T) {
	Convey("Given a settings file and a Lua plugin", t, func() {
		fs := filesystem.API()
		_ = fs.RemoveAll("/config")
		_ = fs.RemoveAll("/captures")
		So(fs.WriteFile("/config/snapkit.ini", []byte(settingsFile), 0o600), ShouldBeNil)
		So(fs.MkdirAll("/config/plugins", 0o755), ShouldBeNil)
		So(fs.WriteFile("/config/plugins/shout.lua", []byte(shoutPlugin), 0o644), ShouldBeNil)

		a, err := New(testOptions())
		So(err, ShouldBeNil)
		Reset(a.Close)

		Convey("Settings should be loaded into the sections", func() {
			So(a.Core.Destinations, ShouldResemble, []string{"File", "Nonexistent"})
			So(a.Picasa.UploadAlbum, ShouldEqual, "screens")
			So(a.Settings.IsDirty(), ShouldBeFalse)
		})

		Convey("Excluded destinations should not be registered", func() {
			designations := a.Destinations.Designations()
			So(designations, ShouldContain, "File")
			So(designations, ShouldContain, "Picasa")
			So(designations, ShouldNotContain, "Open")
		})

		Convey("Built-in and plugin processors should be available", func() {
			So(a.Processors.Designations(), ShouldResemble, []string{"Shout", "TitleFix"})
			So(a.Plugins.Plugins(), ShouldHaveLength, 2)
		})

		Convey("Exporting should process and export the capture", func() {
			surface := &capture.Surface{Data: []byte("png"), Format: "png"}
			details := &capture.Details{
				Title:    "docs - Google Chrome",
				DateTime: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
			}

			results, err := a.Export(context.Background(), surface, details, ExportOptions{})
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 2)

			So(details.Title, ShouldEqual, "DOCS")
			So(results[0].ExportMade, ShouldBeTrue)
			So(results[0].Path, ShouldEqual, "/captures/2024-05-06_07_08_09-DOCS.png")
			So(results[1], ShouldResemble, capture.NoExport("Nonexistent"))

			records, err := history.Get()
			So(err, ShouldBeNil)
			So(records[len(records)-1].Designation, ShouldEqual, "Nonexistent")
		})

		Convey("A cancelled export should stop", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := a.Export(ctx, &capture.Surface{}, &capture.Details{}, ExportOptions{Processors: []string{"Shout"}})
			So(err, ShouldEqual, context.Canceled)
		})

		Convey("Saving should keep unknown sections and encrypt tokens", func() {
			a.Picasa.RefreshToken = "refresh-token"
			a.Picasa.IsDirty = true
			So(a.Save(), ShouldBeNil)

			data, err := fs.ReadFile("/config/snapkit.ini")
			So(err, ShouldBeNil)
			text := string(data)
			So(text, ShouldContainSubstring, "[Extra]")
			So(text, ShouldContainSubstring, "kept=yes")
			So(text, ShouldNotContainSubstring, "refresh-token")

			again, err := New(testOptions())
			So(err, ShouldBeNil)
			defer again.Close()
			So(again.Picasa.RefreshToken, ShouldEqual, "refresh-token")
		})
	})
}

func TestNewWithoutFile(t *testing.T) {
	Convey("Given no settings file", t, func() {
		fs := filesystem.API()
		_ = fs.RemoveAll("/config")

		options := testOptions()
		options.Plugins = false
		a, err := New(options)
		So(err, ShouldBeNil)

		Convey("Defaults should be used and written on save", func() {
			So(a.Core.Destinations, ShouldResemble, []string{"File"})
			So(a.Destinations.Designations(), ShouldNotContain, "Picasa")
			So(a.Save(), ShouldBeNil)

			data, err := fs.ReadFile("/config/snapkit.ini")
			So(err, ShouldBeNil)
			So(strings.Contains(string(data), "[Core]"), ShouldBeTrue)
			So(strings.Contains(string(data), "[Picasa]"), ShouldBeTrue)
		})
	})
}

func TestUseCipher(t *testing.T) {
	Convey("Given a custom cipher", t, func() {
		key := make([]byte, ini.KeySize)
		c, err := ini.NewCipher(key)
		So(err, ShouldBeNil)
		ini.UseCipher(c)
		Reset(func() { ini.UseCipher(nil) })

		Convey("Secrets should round trip through it", func() {
			encrypted, err := ini.Encrypt("secret")
			So(err, ShouldBeNil)
			plain, err := c.Decrypt(encrypted)
			So(err, ShouldBeNil)
			So(plain, ShouldEqual, "secret")
		})
	})
}
