package catalog

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/songbot-cli/songbot/track"
)

func TestLinkResolver(t *testing.T) {
	ctx := context.Background()
	resolver := LinkResolver{}

	Convey("direct links resolve to a single playable track", t, func() {
		cases := []struct {
			link    string
			service track.Service
			id      string
		}{
			{"https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6", track.Spotify, "6rqhFgbbKwnb9MLmUQDhG6"},
			{"spotify:track:6rqhFgbbKwnb9MLmUQDhG6", track.Spotify, "6rqhFgbbKwnb9MLmUQDhG6"},
			{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", track.YouTube, "dQw4w9WgXcQ"},
			{"https://youtu.be/dQw4w9WgXcQ", track.YouTube, "dQw4w9WgXcQ"},
			{"https://soundcloud.com/some-artist/some-song", track.SoundCloud, "some-artist/some-song"},
		}

		for _, c := range cases {
			tracks, err := resolver.Resolve(ctx, c.link)
			So(err, ShouldBeNil)
			So(len(tracks), ShouldEqual, 1)
			So(tracks[0].Service, ShouldEqual, c.service)
			So(tracks[0].ID, ShouldEqual, c.id)
			So(tracks[0].Link, ShouldEqual, c.link)
			So(tracks[0].Playable, ShouldBeTrue)
		}
	})

	Convey("free text is rejected", t, func() {
		_, err := resolver.Resolve(ctx, "some song by somebody")
		So(err, ShouldNotBeNil)
	})

	Convey("a recognized host without an id is rejected", t, func() {
		_, err := resolver.Resolve(ctx, "https://open.spotify.com/")
		So(err, ShouldNotBeNil)
	})
}
