package chat

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/filesystem"
	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/track"
)

func TestNotifier(t *testing.T) {
	defer viper.Reset()

	setup := func() (*Notifier, *bytes.Buffer) {
		viper.Reset()
		filesystem.SetMemMapFs()
		viper.Set(key.IconsVariant, "plain")
		out := &bytes.Buffer{}
		return NewNotifier(&WriterGateway{W: out}), out
	}

	tr := track.Track{
		Service: track.Spotify,
		Link:    "https://open.spotify.com/track/abc",
		ID:      "abc",
		Title:   "Song",
		Artists: []string{"Artist"},
	}

	Convey("a start is announced with the track identity", t, func() {
		n, out := setup()
		n.OnTrackStarted("spotify", tr)
		So(out.String(), ShouldContainSubstring, "Now playing")
		So(out.String(), ShouldContainSubstring, "Artist - Song")
	})

	Convey("messages wrap to the configured width", t, func() {
		n, out := setup()
		viper.Set(key.ChatMessageWidth, 16)
		n.OnTrackStarted("spotify", tr)
		for _, line := range strings.Split(strings.TrimRight(out.String(), "\n"), "\n") {
			So(len(line), ShouldBeLessThanOrEqualTo, 16)
		}
	})

	Convey("a natural end is silent", t, func() {
		n, out := setup()
		n.OnTrackEnded("spotify", tr)
		So(out.String(), ShouldBeEmpty)
	})

	Convey("a stop with no track reads as a plain stop", t, func() {
		n, out := setup()
		n.OnTrackStopped("spotify", track.Track{})
		So(out.String(), ShouldContainSubstring, "Playback stopped")
	})

	Convey("ad announcements honor the gate", t, func() {
		n, out := setup()

		viper.Set(key.ChatAnnounceAds, false)
		n.OnAdPlaying()
		So(out.String(), ShouldBeEmpty)

		viper.Set(key.ChatAnnounceAds, true)
		n.OnAdPlaying()
		So(out.String(), ShouldContainSubstring, "Ad break")
	})
}
