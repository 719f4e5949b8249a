package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/songbot-cli/songbot/track"
	"github.com/songbot-cli/songbot/util"
)

// idPatterns extract the provider-specific identifier from a recognized link.
var idPatterns = map[track.Service]*regexp.Regexp{
	track.Spotify:    regexp.MustCompile(`(?:open\.spotify\.com/track/|spotify:track:)(?P<id>[A-Za-z0-9]+)`),
	track.YouTube:    regexp.MustCompile(`(?:youtu\.be/|[?&]v=)(?P<id>[\w-]{6,})`),
	track.SoundCloud: regexp.MustCompile(`soundcloud\.com/(?P<id>[\w-]+/[\w-]+)`),
}

// LinkResolver resolves direct track links without consulting any provider API.
// Free-text requests need a provider-backed Resolver and are rejected here.
type LinkResolver struct{}

func (LinkResolver) Resolve(_ context.Context, query string) ([]track.Track, error) {
	svc, ok := Detect(query).Get()
	if !ok {
		return nil, fmt.Errorf("%q is not a recognized track link and no search provider is configured", query)
	}

	id := util.ReGroups(idPatterns[svc], query)["id"]
	if id == "" {
		return nil, fmt.Errorf("could not extract a track id from %q", query)
	}

	return []track.Track{{
		Service:  svc,
		Link:     query,
		ID:       id,
		Title:    titleFromID(svc, id),
		Playable: true,
	}}, nil
}

// titleFromID produces a display placeholder until real metadata is known.
func titleFromID(svc track.Service, id string) string {
	return fmt.Sprintf("%s:%s", svc, strings.TrimSuffix(id, "/"))
}
