package service

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/track"
)

// spotifyBackend drives the Spotify desktop client.
// The client owns its own streaming, so playback is a matter of keeping the process
// alive and issuing open directives with spotify: URIs over the control channel.
type spotifyBackend struct{}

func (spotifyBackend) Family() string {
	return track.Spotify.String()
}

func (spotifyBackend) PlayerID() string {
	return viper.GetString(key.PlayerSpotify)
}

func (spotifyBackend) Binary() string {
	return "spotify"
}

func (spotifyBackend) OpenTarget(t track.Track) string {
	return "spotify:track:" + t.ID
}

func (spotifyBackend) LaunchArgs(t track.Track, volume int) []string {
	return []string{
		"--minimized",
		fmt.Sprintf("--initial-volume=%d", volume),
	}
}

func (spotifyBackend) IsTrack(t track.Track, url string) bool {
	if url == "" {
		return false
	}
	// The client reports either the spotify: URI or the open.spotify.com page.
	return strings.Contains(url, t.ID)
}

func (spotifyBackend) IsAd(url string) bool {
	return strings.Contains(url, ":ad:") || strings.Contains(url, "/ad/")
}

func (spotifyBackend) RequiresRunningPlayer() bool { return true }

func (spotifyBackend) RequiresProbe() bool { return false }

func (spotifyBackend) AmbiguousPause() bool { return true }
