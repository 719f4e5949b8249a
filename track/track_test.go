package track

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestService(t *testing.T) {
	Convey("Service", t, func() {
		So(Spotify.String(), ShouldEqual, "spotify")
		So(YouTube.String(), ShouldEqual, "youtube")
		So(SoundCloud.String(), ShouldEqual, "soundcloud")
		So(Service(42).String(), ShouldEqual, "unknown")
	})
}

func TestTrack(t *testing.T) {
	Convey("Track", t, func() {
		song := Track{
			Service: Spotify,
			Link:    "https://open.spotify.com/track/abc",
			ID:      "abc",
			Title:   "Bohemian Rhapsody",
			Artists: []string{"Queen"},
			Album:   "A Night at the Opera",
		}

		Convey("String joins artists and title", func() {
			So(song.String(), ShouldEqual, "Queen - Bohemian Rhapsody")

			song.Artists = nil
			So(song.String(), ShouldEqual, "Bohemian Rhapsody")
		})

		Convey("IsZero", func() {
			So(song.IsZero(), ShouldBeFalse)
			So(Track{}.IsZero(), ShouldBeTrue)
		})

		Convey("Same compares service and link only", func() {
			dup := song
			dup.Title = "different display title"
			So(song.Same(dup), ShouldBeTrue)

			other := song
			other.Link = "https://open.spotify.com/track/xyz"
			So(song.Same(other), ShouldBeFalse)
		})
	})
}
