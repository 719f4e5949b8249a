// Package track defines the domain model for queueable music tracks.
package track

import "strings"

// Service identifies the music provider a track originates from.
type Service int

const (
	Spotify Service = iota
	YouTube
	SoundCloud
)

// String returns the canonical lowercase identifier of the service.
func (s Service) String() string {
	switch s {
	case Spotify:
		return "spotify"
	case YouTube:
		return "youtube"
	case SoundCloud:
		return "soundcloud"
	default:
		return "unknown"
	}
}

// ServiceFromString resolves a canonical identifier back into a Service.
// Unknown identifiers map to the local-player family's broadest member.
func ServiceFromString(s string) Service {
	switch strings.ToLower(s) {
	case "spotify":
		return Spotify
	case "soundcloud":
		return SoundCloud
	default:
		return YouTube
	}
}

// Track represents a single queueable track resolved from a music service.
// It is an immutable value: the queue stores copies, never shared handles.
type Track struct {
	// Service family this track belongs to.
	Service Service `json:"service"`
	// Canonical link the track was resolved from.
	Link string `json:"link"`
	// Provider-specific resolved identifier.
	ID string `json:"id"`

	// Display metadata.
	Title   string   `json:"title"`
	Artists []string `json:"artists"`
	Album   string   `json:"album,omitempty"`

	// Playable indicates the catalog resolver confirmed the track can be streamed.
	Playable bool `json:"playable"`
}

// String returns the human-readable "Artists - Title" representation of the track.
func (t Track) String() string {
	if len(t.Artists) == 0 {
		return t.Title
	}
	return strings.Join(t.Artists, ", ") + " - " + t.Title
}

// IsZero reports whether the track carries no identity.
func (t Track) IsZero() bool {
	return t.Link == "" && t.ID == "" && t.Title == ""
}

// Same reports whether two tracks refer to the same catalog entry.
// Duplicates in the queue compare equal under Same but remain individually addressable by index.
func (t Track) Same(other Track) bool {
	return t.Service == other.Service && t.Link == other.Link
}
