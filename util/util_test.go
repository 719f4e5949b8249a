package util

import (
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "track", "tracks"), ShouldEqual, "1 track")
		So(Quantify(2, "track", "tracks"), ShouldEqual, "2 tracks")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFormatDuration(t *testing.T) {
	Convey("FormatDuration", t, func() {
		So(FormatDuration(0), ShouldEqual, "0:00")
		So(FormatDuration(65), ShouldEqual, "1:05")
		So(FormatDuration(3671), ShouldEqual, "1:01:11")
	})
}

func TestParseDuration(t *testing.T) {
	Convey("ParseDuration", t, func() {
		for input, want := range map[string]int64{
			"90":      90,
			"1:30":    90,
			"0:05":    5,
			"1:01:11": 3671,
		} {
			got, err := ParseDuration(input)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		for _, input := range []string{"", "abc", "1:2:3:4", "-5", "1:-30"} {
			_, err := ParseDuration(input)
			So(err, ShouldNotBeNil)
		}
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		re := regexp.MustCompile(`(?P<artist>\w+)\s-\s(?P<title>\w+)`)
		groups := ReGroups(re, "Queen - Bohemian")
		So(groups["artist"], ShouldEqual, "Queen")
		So(groups["title"], ShouldEqual, "Bohemian")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min/Clamp", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Clamp(7, 0, 5), ShouldEqual, 5)
		So(Clamp(-1, 0, 5), ShouldEqual, 0)
		So(Clamp(3, 0, 5), ShouldEqual, 3)
	})
}
