package plugin

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/snapkit-cli/snapkit/capture"
	"github.com/snapkit-cli/snapkit/destination"
	"github.com/snapkit-cli/snapkit/processor"
	"github.com/snapkit-cli/snapkit/registry"
)

type upload struct {
	destination.Base
}

func (u *upload) IsActive() bool { return true }

func (u *upload) ExportCapture(context.Context, bool, *capture.Surface, *capture.Details) (capture.ExportInformation, error) {
	return capture.ExportInformation{Designation: u.Name, ExportMade: true, URI: "https://example.com/" + u.Name}, nil
}

type fakePlugin struct {
	name  string
	dests []destination.Destination
	err   error
}

func (f *fakePlugin) Name() string { return f.name }

func (f *fakePlugin) Destinations() ([]destination.Destination, error) {
	return f.dests, f.err
}

func (f *fakePlugin) Processors() ([]processor.Processor, error) {
	return nil, nil
}

func TestHost(t *testing.T) {
	Convey("Given a host with two plugins", t, func() {
		first := &fakePlugin{name: "first", dests: []destination.Destination{
			&upload{destination.Base{Name: "Imgur", Title: "Imgur (first)"}},
		}}
		second := &fakePlugin{name: "second", dests: []destination.Destination{
			&upload{destination.Base{Name: "Imgur", Title: "Imgur (second)"}},
			&upload{destination.Base{Name: "Clipboard", Title: "Plugin clipboard"}},
		}}

		host := &Host{}
		host.Add(first, second, &fakePlugin{name: "first"}, nil)

		Convey("Duplicate names should be ignored", func() {
			So(host.Plugins(), ShouldHaveLength, 2)
			p, ok := host.Get("second")
			So(ok, ShouldBeTrue)
			So(p, ShouldEqual, second)
		})

		Convey("When attached to registries", func() {
			dests := destination.NewRegistry()
			procs := processor.NewRegistry()
			So(dests.Discover([]registry.Factory[destination.Destination]{
				{Name: "Clipboard", New: func() (destination.Destination, error) {
					return &upload{destination.Base{Name: "Clipboard", Title: "Built-in clipboard"}}, nil
				}},
			}), ShouldBeNil)
			host.Attach(dests, procs)

			Convey("Built-ins should shadow plugins and the first plugin should win", func() {
				all := dests.All()
				So(all, ShouldHaveLength, 2)
				So(all[0].Description(), ShouldEqual, "Built-in clipboard")
				So(all[1].Description(), ShouldEqual, "Imgur (first)")
			})

			Convey("Plugin destinations should be dispatched to", func() {
				info, err := dests.ExportCapture(context.Background(), false, "Imgur", &capture.Surface{}, &capture.Details{})
				So(err, ShouldBeNil)
				So(info.URI, ShouldEqual, "https://example.com/Imgur")
			})

			Convey("A failing plugin should not hide the others", func() {
				first.err = errors.New("broken")
				d, ok := dests.Find("Imgur").Get()
				So(ok, ShouldBeTrue)
				So(d.Description(), ShouldEqual, "Imgur (second)")
			})
		})
	})
}
