// Package catalog defines the track-resolution boundary and its disk-backed cache.
//
// Actual provider lookups (searching a service, resolving playlists) live behind
// the Resolver interface; this package supplies link classification, the shared
// availability probe and a resolution cache so repeated requests skip the provider.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/metafates/gache"
	"github.com/samber/mo"

	"github.com/songbot-cli/songbot/constant"
	"github.com/songbot-cli/songbot/filesystem"
	"github.com/songbot-cli/songbot/network"
	"github.com/songbot-cli/songbot/track"
	"github.com/songbot-cli/songbot/where"
)

// Resolver resolves a link or free-text request into queueable tracks.
// A playlist link resolves to multiple tracks in playlist order.
type Resolver interface {
	Resolve(ctx context.Context, query string) ([]track.Track, error)
}

var cacher = gache.New[map[string][]track.Track](
	&gache.Options{
		Path:       where.Catalog(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Cached returns the previously resolved tracks for a link, if any.
func Cached(link string) mo.Option[[]track.Track] {
	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return mo.None[[]track.Track]()
	}
	if tracks, ok := cached[link]; ok && len(tracks) > 0 {
		return mo.Some(tracks)
	}
	return mo.None[[]track.Track]()
}

// Remember stores a resolution so the next request for the link skips the provider.
func Remember(link string, tracks []track.Track) error {
	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		cached = make(map[string][]track.Track)
	}
	cached[link] = tracks
	return cacher.Set(cached)
}

// Detect classifies a link by its service family.
func Detect(link string) mo.Option[track.Service] {
	switch {
	case strings.Contains(link, "open.spotify.com"), strings.HasPrefix(link, "spotify:"):
		return mo.Some(track.Spotify)
	case strings.Contains(link, "youtube.com"), strings.Contains(link, "youtu.be"):
		return mo.Some(track.YouTube)
	case strings.Contains(link, "soundcloud.com"):
		return mo.Some(track.SoundCloud)
	default:
		return mo.None[track.Service]()
	}
}

// Probe checks that a link still answers before playback commits to it.
func Probe(ctx context.Context, t track.Track) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, t.Link, nil)
	if err != nil {
		return fmt.Errorf("probe %s: %w", t.Link, err)
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	res, err := network.Client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", t.Link, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("probe %s: %s", t.Link, res.Status)
	}
	return nil
}
