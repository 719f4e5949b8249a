package service

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/constant"
	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/track"
)

// localBackend hosts stream-resolvable services (YouTube, SoundCloud) in a local
// headless player. The player is launched with the stream target directly, so no
// readiness wait is needed before the open directive.
type localBackend struct {
	service track.Service
}

func (b localBackend) Family() string {
	return b.service.String()
}

func (localBackend) PlayerID() string {
	return viper.GetString(key.PlayerLocal)
}

func (localBackend) Binary() string {
	return viper.GetString(key.PlayerLocal)
}

func (localBackend) OpenTarget(t track.Track) string {
	return t.Link
}

func (b localBackend) LaunchArgs(t track.Track, volume int) []string {
	args := []string{
		"--intf", "dummy",
		"--no-video",
		fmt.Sprintf("--gain=%.2f", float64(volume)/100),
	}

	if b.service == track.YouTube {
		// Geo-restricted uploads refuse the default library User-Agent.
		args = append(args,
			"--http-user-agent", constant.UserAgent,
			"--http-forward-cookies",
		)
	}

	return append(args, t.Link)
}

func (localBackend) IsTrack(t track.Track, url string) bool {
	if url == "" {
		return false
	}
	// The local player reports the resolved stream URL, which may differ from the
	// page link; the resolved id is the stable part of the identity.
	return url == t.Link || (t.ID != "" && strings.Contains(url, t.ID))
}

func (localBackend) IsAd(string) bool { return false }

func (localBackend) RequiresRunningPlayer() bool { return false }

func (localBackend) RequiresProbe() bool { return true }

func (localBackend) AmbiguousPause() bool { return false }
