package catalog

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/songbot-cli/songbot/track"
)

func TestDetect(t *testing.T) {
	Convey("links are classified by their service family", t, func() {
		cases := map[string]track.Service{
			"https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6": track.Spotify,
			"spotify:track:6rqhFgbbKwnb9MLmUQDhG6":                  track.Spotify,
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ":           track.YouTube,
			"https://youtu.be/dQw4w9WgXcQ":                          track.YouTube,
			"https://soundcloud.com/artist/song":                    track.SoundCloud,
		}

		for link, want := range cases {
			So(Detect(link).MustGet(), ShouldEqual, want)
		}
	})

	Convey("anything else is unclassified", t, func() {
		So(Detect("https://example.com/song").IsAbsent(), ShouldBeTrue)
		So(Detect("not a link").IsAbsent(), ShouldBeTrue)
	})
}
