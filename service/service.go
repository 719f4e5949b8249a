// Package service implements per-family playback capabilities for the supported music providers.
//
// Each backend describes how its service family is played: which external player hosts it,
// how the open target is constructed, how the player is launched, and which reported media
// identities are sponsor interstitials rather than the requested track.
package service

import (
	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/track"
)

// Backend encapsulates the playback capabilities of one service family.
// It is selected once per track, so the playback loop never re-branches on the service type.
type Backend interface {
	// Family returns the identifier of the service family.
	Family() string

	// PlayerID resolves the control-channel identifier of the player that handles this family.
	PlayerID() string

	// Binary returns the name of the external player executable.
	Binary() string

	// OpenTarget constructs the canonical open directive target for a track.
	OpenTarget(t track.Track) string

	// LaunchArgs builds the service-specific invocation arguments for the player process.
	LaunchArgs(t track.Track, volume int) []string

	// IsTrack reports whether a reported media identity belongs to the given track.
	IsTrack(t track.Track, url string) bool

	// IsAd reports whether a reported media identity is a sponsor interstitial.
	IsAd(url string) bool

	// RequiresRunningPlayer indicates the player process must be controllable before
	// the open directive is issued.
	RequiresRunningPlayer() bool

	// RequiresProbe indicates queue heads of this family need a pre-flight availability probe.
	RequiresProbe() bool

	// AmbiguousPause indicates the family's Paused status near the end of playback can
	// mean either a user pause or a natural end.
	AmbiguousPause() bool
}

// For returns the backend capability set for a track's service family.
func For(s track.Service) Backend {
	switch s {
	case track.Spotify:
		return spotifyBackend{}
	default:
		return localBackend{service: s}
	}
}

// Volume returns the configured playback volume for a service family.
func Volume(s track.Service) int {
	switch s {
	case track.Spotify:
		return viper.GetInt(key.VolumeSpotify)
	default:
		return viper.GetInt(key.VolumeLocal)
	}
}
