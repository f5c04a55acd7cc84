package registry

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeItem struct {
	designation string
	active      bool
	priority    int
	origin      string
}

func (f *fakeItem) Designation() string { return f.designation }
func (f *fakeItem) IsActive() bool      { return f.active }
func (f *fakeItem) Priority() int       { return f.priority }

type panicky struct{ fakeItem }

func (p *panicky) Designation() string { panic("broken plugin") }

func item(designation string) *fakeItem {
	return &fakeItem{designation: designation, active: true, origin: "builtin"}
}

func plugin(designation, origin string) *fakeItem {
	return &fakeItem{designation: designation, active: true, origin: origin}
}

func factory(it Item) Factory[Item] {
	return Factory[Item]{Name: it.Designation(), New: func() (Item, error) { return it, nil }}
}

func designations(items []Item) []string {
	return lo.Map(items, func(it Item, _ int) string { return it.Designation() })
}

func TestRegister(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		r := New[Item]("destination")

		Convey("When registering a novel designation", func() {
			err := r.Register(item("Clipboard"))

			Convey("Then it should be retrievable", func() {
				So(err, ShouldBeNil)
				found, ok := r.Find("Clipboard").Get()
				So(ok, ShouldBeTrue)
				So(found.Designation(), ShouldEqual, "Clipboard")
			})
		})

		Convey("When registering Email twice", func() {
			first := item("Email")
			second := item("Email")
			second.priority = 7

			So(r.Register(first), ShouldBeNil)
			err := r.Register(second)

			Convey("Then the second call should fail and the first stays authoritative", func() {
				So(errors.Is(err, ErrDuplicate), ShouldBeTrue)
				found := r.Find("Email").MustGet()
				So(found, ShouldEqual, first)
			})
		})

		Convey("When registering an excluded designation", func() {
			r.Exclude("File")
			err := r.Register(item("File"))

			Convey("Then it should be skipped silently", func() {
				So(err, ShouldBeNil)
				So(r.Find("File").IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("When registering an item whose designation panics", func() {
			var err error
			So(func() { err = r.Register(&panicky{}) }, ShouldNotPanic)

			Convey("Then an error should be returned and nothing registered", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "broken plugin")
				So(r.Builtins(), ShouldBeEmpty)
			})
		})
	})
}

func TestAll(t *testing.T) {
	Convey("Given built-ins Clipboard and File with File excluded", t, func() {
		r := New[Item]("destination", "File")
		So(r.Register(item("Clipboard")), ShouldBeNil)
		So(r.Register(item("File")), ShouldBeNil)

		Convey("All should return only Clipboard", func() {
			So(designations(r.All()), ShouldResemble, []string{"Clipboard"})
		})
	})

	Convey("Given built-ins and plugin sources with overlapping designations", t, func() {
		r := New[Item]("destination")
		So(r.Register(item("Picasa")), ShouldBeNil)
		So(r.Register(item("File")), ShouldBeNil)

		r.AddSource("first", func() ([]Item, error) {
			return []Item{plugin("Picasa", "first"), plugin("Imgur", "first"), plugin("box", "first")}, nil
		})
		r.AddSource("second", func() ([]Item, error) {
			return []Item{plugin("Imgur", "second"), plugin("Dropbox", "second")}, nil
		})

		Convey("All should deduplicate with built-ins winning, then the first plugin", func() {
			all := r.All()
			So(designations(all), ShouldResemble, []string{"Dropbox", "File", "Imgur", "Picasa", "box"})

			byName := lo.KeyBy(all, func(it Item) string { return it.Designation() })
			So(byName["Picasa"].(*fakeItem).origin, ShouldEqual, "builtin")
			So(byName["Imgur"].(*fakeItem).origin, ShouldEqual, "first")
		})

		Convey("All should be deterministic across calls", func() {
			So(designations(r.All()), ShouldResemble, designations(r.All()))
		})

		Convey("Find should prefer built-ins then the first plugin", func() {
			So(r.Find("Picasa").MustGet().(*fakeItem).origin, ShouldEqual, "builtin")
			So(r.Find("Imgur").MustGet().(*fakeItem).origin, ShouldEqual, "first")
			So(r.Find("Dropbox").MustGet().(*fakeItem).origin, ShouldEqual, "second")
		})

		Convey("Excluding a designation should hide plugin items too", func() {
			r.Exclude("Dropbox")
			So(designations(r.All()), ShouldNotContain, "Dropbox")
			So(r.Find("Dropbox").IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestFind(t *testing.T) {
	Convey("Find on unknown designations should return absent", t, func() {
		r := New[Item]("processor")
		So(r.Find("nonexistent").IsAbsent(), ShouldBeTrue)
		So(r.Find("").IsAbsent(), ShouldBeTrue)

		So(r.Register(item("TitleFix")), ShouldBeNil)
		r.AddSource("broken", func() ([]Item, error) { return nil, errors.New("plugin crashed") })
		So(r.Find("nonexistent").IsAbsent(), ShouldBeTrue)
	})

	Convey("Resolve should skip inactive items", t, func() {
		r := New[Item]("destination")
		inactive := item("Printer")
		inactive.active = false
		So(r.Register(inactive), ShouldBeNil)

		So(r.Find("Printer").IsPresent(), ShouldBeTrue)
		So(r.Resolve("Printer").IsAbsent(), ShouldBeTrue)
	})
}

func TestDiscover(t *testing.T) {
	Convey("Given a factory table with failing and inactive entries", t, func() {
		inactive := item("Printer")
		inactive.active = false

		factories := []Factory[Item]{
			factory(item("Clipboard")),
			{Name: "Broken", New: func() (Item, error) { return nil, errors.New("no display") }},
			{Name: "Panics", New: func() (Item, error) { panic("boom") }},
			{Name: "Nil", New: func() (Item, error) { return nil, nil }},
			{Name: "BadDesignation", New: func() (Item, error) { return &panicky{}, nil }},
			factory(inactive),
			factory(item("File")),
		}

		Convey("Discover should keep going and register only the healthy active items", func() {
			r := New[Item]("destination")
			So(r.Discover(factories), ShouldBeNil)
			So(designations(r.All()), ShouldResemble, []string{"Clipboard", "File"})
		})

		Convey("Discover should fail on a duplicate designation", func() {
			r := New[Item]("destination")
			err := r.Discover(append(factories, factory(item("File"))))
			So(errors.Is(err, ErrDuplicate), ShouldBeTrue)
		})
	})

	Convey("A plugin source that panics should be skipped", t, func() {
		r := New[Item]("destination")
		So(r.Register(item("File")), ShouldBeNil)
		r.AddSource("panics", func() ([]Item, error) { panic("lua state gone") })
		r.AddSource("bad item", func() ([]Item, error) { return []Item{&panicky{}, plugin("Imgur", "ok")}, nil })

		So(designations(r.All()), ShouldResemble, []string{"File", "Imgur"})
	})
}
