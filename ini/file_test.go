package ini

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/snapkit-cli/snapkit/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestParse(t *testing.T) {
	Convey("Parse should understand comments, headers and pairs", t, func() {
		props, err := Parse(strings.NewReader("\ufefftop=1\n; comment\n# other\n[Core]\n Language = en-US \nbroken line\n[Picasa]\nToken=abc==\n"))
		So(err, ShouldBeNil)
		So(props[""]["top"], ShouldEqual, "1")
		So(props["Core"]["Language"], ShouldEqual, "en-US")
		So(props["Picasa"]["Token"], ShouldEqual, "abc==")
		So(props["Core"], ShouldHaveLength, 1)
	})
}

func TestFile(t *testing.T) {
	Convey("Given a settings file with one registered section", t, func() {
		filesystem.SetMemMapFs()
		f := NewFile("/config/snapkit.ini")
		s := newTestSection()
		f.Register(s.Section)

		Convey("Load without a file should fill defaults", func() {
			So(f.Load(), ShouldBeNil)
			So(s.Quality, ShouldEqual, 30)
			So(f.IsDirty(), ShouldBeFalse)
		})

		Convey("Save then Load should round trip and keep unknown sections", func() {
			So(filesystem.API().WriteFile(f.Path(), []byte("[Test]\nQuality=50\n[Plugin]\nkey=value\n"), 0o600), ShouldBeNil)
			So(f.Load(), ShouldBeNil)
			So(s.Quality, ShouldEqual, 50)

			s.Token = "secret-token"
			So(f.Save(), ShouldBeNil)

			data, err := filesystem.API().ReadFile(f.Path())
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "[Plugin]\nkey=value\n")
			So(string(data), ShouldNotContainSubstring, "secret-token")

			reloaded := newTestSection()
			g := NewFile(f.Path())
			g.Register(reloaded.Section)
			So(g.Load(), ShouldBeNil)
			So(reloaded.Quality, ShouldEqual, 50)
			So(reloaded.Token, ShouldEqual, "secret-token")
		})

		Convey("Registering a section twice should panic", func() {
			So(func() { f.Register(newTestSection().Section) }, ShouldPanic)
		})
	})
}

func TestCipher(t *testing.T) {
	Convey("Given a cipher", t, func() {
		key, err := DeriveKey("passphrase", []byte("salt"))
		So(err, ShouldBeNil)
		c, err := NewCipher(key)
		So(err, ShouldBeNil)

		Convey("Encrypt and Decrypt should be symmetric", func() {
			enc, err := c.Encrypt("hunter2")
			So(err, ShouldBeNil)
			So(enc, ShouldNotEqual, "hunter2")

			plain, err := c.Decrypt(enc)
			So(err, ShouldBeNil)
			So(plain, ShouldEqual, "hunter2")
		})

		Convey("Decrypt should reject garbage", func() {
			_, err := c.Decrypt("not base64!")
			So(err, ShouldNotBeNil)
			_, err = c.Decrypt("c2hvcnQ=")
			So(err, ShouldNotBeNil)
		})

		Convey("A different key should not open the text", func() {
			enc, _ := c.Encrypt("hunter2")
			otherKey, _ := DeriveKey("other", []byte("salt"))
			other, _ := NewCipher(otherKey)
			_, err := other.Decrypt(enc)
			So(err, ShouldNotBeNil)
		})

		Convey("A wrong key size should fail", func() {
			_, err := NewCipher([]byte("short"))
			So(err, ShouldNotBeNil)
		})
	})
}
