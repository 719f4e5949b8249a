package service

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/track"
)

func TestFor(t *testing.T) {
	Convey("For", t, func() {
		Convey("Spotify tracks resolve to the Spotify backend", func() {
			b := For(track.Spotify)
			So(b.Family(), ShouldEqual, "spotify")
			So(b.RequiresRunningPlayer(), ShouldBeTrue)
			So(b.RequiresProbe(), ShouldBeFalse)
			So(b.AmbiguousPause(), ShouldBeTrue)
		})

		Convey("YouTube and SoundCloud resolve to the local backend", func() {
			for _, svc := range []track.Service{track.YouTube, track.SoundCloud} {
				b := For(svc)
				So(b.Family(), ShouldEqual, svc.String())
				So(b.RequiresRunningPlayer(), ShouldBeFalse)
				So(b.RequiresProbe(), ShouldBeTrue)
				So(b.AmbiguousPause(), ShouldBeFalse)
			}
		})
	})
}

func TestSpotifyBackend(t *testing.T) {
	Convey("Spotify backend", t, func() {
		viper.Set(key.PlayerSpotify, "spotify")
		b := For(track.Spotify)
		song := track.Track{Service: track.Spotify, ID: "4uLU6hMCjMI75M1A2tKUQC", Link: "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC"}

		Convey("PlayerID comes from configuration", func() {
			So(b.PlayerID(), ShouldEqual, "spotify")

			viper.Set(key.PlayerSpotify, "spotifyd")
			So(b.PlayerID(), ShouldEqual, "spotifyd")
			viper.Set(key.PlayerSpotify, "spotify")
		})

		Convey("OpenTarget builds a spotify URI", func() {
			So(b.OpenTarget(song), ShouldEqual, "spotify:track:4uLU6hMCjMI75M1A2tKUQC")
		})

		Convey("IsTrack matches both URI and page forms", func() {
			So(b.IsTrack(song, "spotify:track:4uLU6hMCjMI75M1A2tKUQC"), ShouldBeTrue)
			So(b.IsTrack(song, "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC"), ShouldBeTrue)
			So(b.IsTrack(song, "spotify:track:otherid"), ShouldBeFalse)
			So(b.IsTrack(song, ""), ShouldBeFalse)
		})

		Convey("IsAd recognizes sponsor identities", func() {
			So(b.IsAd("spotify:ad:000000012c603076000000202b0a5b5e"), ShouldBeTrue)
			So(b.IsAd("https://open.spotify.com/ad/5zzzz"), ShouldBeTrue)
			So(b.IsAd("spotify:track:4uLU6hMCjMI75M1A2tKUQC"), ShouldBeFalse)
		})
	})
}

func TestLocalBackend(t *testing.T) {
	Convey("Local backend", t, func() {
		viper.Set(key.PlayerLocal, "vlc")
		b := For(track.YouTube)
		song := track.Track{Service: track.YouTube, ID: "dQw4w9WgXcQ", Link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}

		Convey("OpenTarget is the canonical link", func() {
			So(b.OpenTarget(song), ShouldEqual, song.Link)
		})

		Convey("LaunchArgs carry headless flags and the target", func() {
			args := b.LaunchArgs(song, 80)
			So(args, ShouldContain, "--no-video")
			So(args, ShouldContain, "--gain=0.80")
			So(args[len(args)-1], ShouldEqual, song.Link)
		})

		Convey("YouTube launches add user-agent options", func() {
			args := b.LaunchArgs(song, 100)
			So(args, ShouldContain, "--http-user-agent")
		})

		Convey("SoundCloud launches do not", func() {
			sc := For(track.SoundCloud)
			args := sc.LaunchArgs(track.Track{Service: track.SoundCloud, Link: "https://soundcloud.com/x/y"}, 100)
			So(args, ShouldNotContain, "--http-user-agent")
		})

		Convey("IsTrack matches link or resolved id", func() {
			So(b.IsTrack(song, song.Link), ShouldBeTrue)
			So(b.IsTrack(song, "https://rr4---sn-h0jeened.googlevideo.com/videoplayback?id=dQw4w9WgXcQ"), ShouldBeTrue)
			So(b.IsTrack(song, "https://example.com/other"), ShouldBeFalse)
		})

		Convey("Never reports ads", func() {
			So(b.IsAd("anything"), ShouldBeFalse)
		})
	})
}

func TestVolume(t *testing.T) {
	Convey("Volume", t, func() {
		viper.Set(key.VolumeSpotify, 70)
		viper.Set(key.VolumeLocal, 90)

		So(Volume(track.Spotify), ShouldEqual, 70)
		So(Volume(track.YouTube), ShouldEqual, 90)
		So(Volume(track.SoundCloud), ShouldEqual, 90)
	})
}
