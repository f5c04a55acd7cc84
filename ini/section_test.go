package ini

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type testSection struct {
	*Section

	Quality   int
	Title     string
	Enabled   bool
	Format    string
	Tags      []string
	Matchers  map[string]string
	Token     string
	Expires   time.Time
	Threshold float64

	calls []string
}

func newTestSection() *testSection {
	s := &testSection{}
	s.Section = NewSection("Test", "Section used in tests\nsecond line", s).Bind(
		Int("Quality", &s.Quality, 30, "JPEG quality"),
		String("Title", &s.Title, "untitled", ""),
		Bool("Enabled", &s.Enabled, true, "Toggle"),
		Enum("Format", &s.Format, "png", []string{"png", "jpg", "bmp"}, "Output format"),
		Strings("Tags", &s.Tags, []string{"a", "b"}, "Tags"),
		StringMap("Matchers", &s.Matchers, map[string]string{"x": "y"}, "Matchers"),
		Secret("Token", &s.Token, "Access token"),
		Time("Expires", &s.Expires, time.Time{}, "Expiry"),
		Float("Threshold", &s.Threshold, 0.5, "Threshold"),
	)
	return s
}

func (s *testSection) PreCheckValue(name, value string) string {
	if name == "Format" && value == "Portable Network Graphics" {
		return "png"
	}
	return value
}

func (s *testSection) AfterLoad()  { s.calls = append(s.calls, "after_load") }
func (s *testSection) BeforeSave() { s.calls = append(s.calls, "before_save") }
func (s *testSection) AfterSave()  { s.calls = append(s.calls, "after_save") }

func write(s *Section, onlyProperties bool) string {
	var buf bytes.Buffer
	So(s.Write(&buf, onlyProperties), ShouldBeNil)
	return buf.String()
}

func reparse(text string) map[string]string {
	props, err := Parse(strings.NewReader(text))
	So(err, ShouldBeNil)
	return props["Test"]
}

func TestFill(t *testing.T) {
	Convey("Given a section with defaults", t, func() {
		s := newTestSection()

		Convey("When filling from an empty map", func() {
			s.Fill(map[string]string{})

			Convey("Then every field should hold its default", func() {
				So(s.Quality, ShouldEqual, 30)
				So(s.Title, ShouldEqual, "untitled")
				So(s.Enabled, ShouldBeTrue)
				So(s.Format, ShouldEqual, "png")
				So(s.Tags, ShouldResemble, []string{"a", "b"})
				So(s.Matchers, ShouldResemble, map[string]string{"x": "y"})
				So(s.Token, ShouldBeEmpty)
				So(s.Threshold, ShouldEqual, 0.5)
				So(s.calls, ShouldResemble, []string{"after_load"})
			})
		})

		Convey("When filling typed values", func() {
			s.Fill(map[string]string{
				"Quality":     "95",
				"Enabled":     "False",
				"Format":      "JPG",
				"Tags":        "one, two,,three",
				"Matchers.t1": "^(.*) - Chrome$",
				"Matchers.t2": "foo",
				"Expires":     "2026-10-16T10:00:00Z",
			})

			Convey("Then the fields should be parsed", func() {
				So(s.Quality, ShouldEqual, 95)
				So(s.Enabled, ShouldBeFalse)
				So(s.Format, ShouldEqual, "jpg")
				So(s.Tags, ShouldResemble, []string{"one", "two", "three"})
				So(s.Matchers, ShouldResemble, map[string]string{"t1": "^(.*) - Chrome$", "t2": "foo"})
				So(s.Expires.Equal(time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)), ShouldBeTrue)
			})
		})

		Convey("When one value does not parse", func() {
			s.Quality = 77
			s.Fill(map[string]string{"Quality": "high", "Title": "kept", "Format": "tiff"})

			Convey("Then it should fall back to its default and the rest should still be filled", func() {
				So(s.Quality, ShouldEqual, 30)
				So(s.Format, ShouldEqual, "png")
				So(s.Title, ShouldEqual, "kept")
				So(s.calls, ShouldResemble, []string{"after_load"})
			})
		})

		Convey("When a legacy value is stored", func() {
			s.Fill(map[string]string{"Format": "Portable Network Graphics"})

			Convey("Then the pre-check hook should migrate it", func() {
				So(s.Format, ShouldEqual, "png")
			})
		})

		Convey("When the stored secret is not encrypted", func() {
			s.Fill(map[string]string{"Token": "typed-by-hand"})

			Convey("Then it should fall back to its default", func() {
				So(s.Token, ShouldBeEmpty)
			})
		})

		Convey("When the secret was encrypted with another key", func() {
			keyA, err := DeriveKey("key a", []byte("salt"))
			So(err, ShouldBeNil)
			cipherA, err := NewCipher(keyA)
			So(err, ShouldBeNil)
			keyB, err := DeriveKey("key b", []byte("salt"))
			So(err, ShouldBeNil)
			cipherB, err := NewCipher(keyB)
			So(err, ShouldBeNil)

			UseCipher(cipherA)
			Reset(func() { UseCipher(nil) })

			s.Token = "1/refresh-token"
			text := write(s.Section, true)

			UseCipher(cipherB)
			other := newTestSection()
			other.Fill(reparse(text))

			Convey("Then the token should be empty instead of cipher text", func() {
				So(other.Token, ShouldBeEmpty)
				So(text, ShouldNotContainSubstring, "1/refresh-token")
			})

			Convey("Then saving again should not store anything", func() {
				So(write(other.Section, true), ShouldContainSubstring, "Token=\n")
			})
		})
	})
}

func TestWrite(t *testing.T) {
	Convey("Given a filled section", t, func() {
		s := newTestSection()
		s.Fill(map[string]string{})

		Convey("Write should emit comments, header and values in declaration order", func() {
			text := write(s.Section, false)
			So(text, ShouldStartWith, "; Section used in tests\n; second line\n[Test]\n; JPEG quality\nQuality=30\nTitle=untitled\n")
			So(text, ShouldContainSubstring, "Matchers.x=y\n")
			So(text, ShouldContainSubstring, "Enabled=True\n")
			So(s.calls, ShouldResemble, []string{"after_load", "before_save", "after_save"})
		})

		Convey("Write with onlyProperties should omit comments", func() {
			text := write(s.Section, true)
			So(text, ShouldStartWith, "[Test]\nQuality=30\n")
			So(text, ShouldNotContainSubstring, ";")
		})

		Convey("A round trip should reproduce non-encrypted values", func() {
			s.Quality = 42
			s.Title = "a=b; c"
			s.Tags = []string{"x", "y"}
			s.Matchers = map[string]string{"k": "v=w"}
			s.Expires = time.Date(2027, 1, 2, 3, 4, 5, 0, time.UTC)

			other := newTestSection()
			other.Fill(reparse(write(s.Section, false)))

			So(other.Quality, ShouldEqual, 42)
			So(other.Title, ShouldEqual, "a=b; c")
			So(other.Tags, ShouldResemble, []string{"x", "y"})
			So(other.Matchers, ShouldResemble, map[string]string{"k": "v=w"})
			So(other.Expires.Equal(s.Expires), ShouldBeTrue)
		})

		Convey("An encrypted value should be cipher text on disk and plain in memory", func() {
			s.Token = "1/fFAGRNJru1FTz70BzhT3Zg"
			text := write(s.Section, false)

			So(text, ShouldNotContainSubstring, "1/fFAGRNJru1FTz70BzhT3Zg")
			So(s.Token, ShouldEqual, "1/fFAGRNJru1FTz70BzhT3Zg")

			other := newTestSection()
			other.Fill(reparse(text))
			So(other.Token, ShouldEqual, "1/fFAGRNJru1FTz70BzhT3Zg")
		})

		Convey("Line breaks in a value should not leak into other keys", func() {
			s.Title = "first\nQuality=99"

			other := newTestSection()
			other.Fill(reparse(write(s.Section, false)))

			So(other.Title, ShouldEqual, "first\nQuality=99")
			So(other.Quality, ShouldEqual, 30)
		})

		Convey("Carriage returns should survive a round trip", func() {
			s.Title = "a\r\nb"
			s.Tags = []string{"x\ry"}

			other := newTestSection()
			other.Fill(reparse(write(s.Section, true)))

			So(other.Title, ShouldEqual, "a\r\nb")
			So(other.Tags, ShouldResemble, []string{"x\ry"})
			So(other.Quality, ShouldEqual, 30)
		})

		Convey("An emptied dictionary should come back with its defaults", func() {
			s.Matchers = map[string]string{}
			text := write(s.Section, true)
			So(text, ShouldNotContainSubstring, "Matchers")

			other := newTestSection()
			other.Fill(reparse(text))
			So(other.Matchers, ShouldResemble, map[string]string{"x": "y"})
		})

		Convey("Short secrets should not be encrypted", func() {
			s.Token = "ab"
			So(write(s.Section, true), ShouldContainSubstring, "Token=ab\n")
		})

		Convey("Write should clear the dirty flag", func() {
			v, ok := s.Value("Quality")
			So(ok, ShouldBeTrue)
			So(v.Set("12"), ShouldBeNil)
			So(s.IsDirty, ShouldBeTrue)
			write(s.Section, true)
			So(s.IsDirty, ShouldBeFalse)
		})
	})

	Convey("A section without metadata should fail to write", t, func() {
		var x int
		s := NewSection("Nameless", "", nil).Bind(Int("X", &x, 1, ""))

		err := s.Write(&bytes.Buffer{}, false)
		So(errors.Is(err, ErrMissingMetadata), ShouldBeTrue)
	})
}

func TestBind(t *testing.T) {
	Convey("Binding the same name twice should panic", t, func() {
		var a, b int
		So(func() {
			NewSection("Dup", "dup", nil).Bind(Int("A", &a, 1, ""), Int("A", &b, 2, ""))
		}, ShouldPanic)
	})
}

func TestValue(t *testing.T) {
	Convey("Given a bound value", t, func() {
		s := newTestSection()
		v, _ := s.Value("Format")

		Convey("Set should validate enumerations", func() {
			So(v.Set("bmp"), ShouldBeNil)
			So(v.Get(), ShouldEqual, "bmp")
			So(v.Set("webp"), ShouldNotBeNil)
			So(v.Get(), ShouldEqual, "bmp")
		})

		Convey("Reset should restore the default", func() {
			So(v.Set("jpg"), ShouldBeNil)
			v.Reset()
			So(v.String(), ShouldEqual, "png")
		})

		Convey("Type should name the Go type", func() {
			m, _ := s.Value("Matchers")
			So(m.Type(), ShouldEqual, "map[string]string")
			So(m.Set("a=1, b=2"), ShouldBeNil)
			So(m.String(), ShouldEqual, "a=1,b=2")
			So(m.Set("broken"), ShouldNotBeNil)
		})

		Convey("Resetting a list should not alias the default", func() {
			tags, _ := s.Value("Tags")
			tags.Reset()
			s.Tags[0] = "changed"
			tags.Reset()
			So(s.Tags, ShouldResemble, []string{"a", "b"})
		})
	})
}
