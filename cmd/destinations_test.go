package cmd

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrUnknownDesignation(t *testing.T) {
	Convey("Given a misspelled designation", t, func() {
		err := errUnknownDesignation("destination", "Clipbord", []string{"File", "Clipboard", "Open"})

		Convey("The closest known designation should be suggested", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "did you mean")
			So(err.Error(), ShouldContainSubstring, "Clipboard")
		})
	})

	Convey("Given no known designations", t, func() {
		err := errUnknownDesignation("processor", "Shout", nil)

		Convey("No suggestion should be made", func() {
			So(err.Error(), ShouldNotContainSubstring, "did you mean")
			So(err.Error(), ShouldContainSubstring, "Shout")
		})
	})
}

func TestFilterListing(t *testing.T) {
	Convey("Given a listing", t, func() {
		items := []listing{
			{Designation: "Clipboard", Description: "Copy to clipboard"},
			{Designation: "File", Description: "Save as file"},
			{Designation: "Picasa", Description: "Upload to Picasa"},
		}

		Convey("An empty query should keep everything", func() {
			So(filterListing(items, ""), ShouldHaveLength, 3)
		})

		Convey("A fuzzy query should match designations", func() {
			filtered := filterListing(items, "clpbrd")
			So(filtered, ShouldHaveLength, 1)
			So(filtered[0].Designation, ShouldEqual, "Clipboard")
		})

		Convey("A query should match descriptions too", func() {
			filtered := filterListing(items, "upload")
			So(filtered, ShouldHaveLength, 1)
			So(filtered[0].Designation, ShouldEqual, "Picasa")
		})
	})
}

func TestDesignationWidth(t *testing.T) {
	Convey("The designation column should fit the longest designation", t, func() {
		So(designationWidth([]listing{{Designation: "File"}, {Designation: "Clipboard"}, {Designation: "Öffnen"}}), ShouldEqual, 9)
		So(designationWidth([]listing{{Designation: "Größe"}}), ShouldEqual, 5)
		So(designationWidth(nil), ShouldEqual, 0)
	})
}
