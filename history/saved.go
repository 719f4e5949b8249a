package history

import (
	"time"

	"github.com/songbot-cli/songbot/track"
)

// SavedTrack is a persisted record of a played track.
type SavedTrack struct {
	Service  string    `json:"service"`
	Link     string    `json:"link"`
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Artists  []string  `json:"artists"`
	Album    string    `json:"album,omitempty"`
	PlayedAt time.Time `json:"played_at"`
	Plays    int       `json:"plays"`
}

func newSavedTrack(t track.Track) *SavedTrack {
	return &SavedTrack{
		Service:  t.Service.String(),
		Link:     t.Link,
		ID:       t.ID,
		Title:    t.Title,
		Artists:  t.Artists,
		Album:    t.Album,
		PlayedAt: time.Now(),
		Plays:    1,
	}
}

// encode produces the registry key of the record.
func (s *SavedTrack) encode() string {
	return s.Service + ":" + s.Link
}

// Track reconstructs the queueable track from the record.
func (s *SavedTrack) Track() track.Track {
	return track.Track{
		Service:  track.ServiceFromString(s.Service),
		Link:     s.Link,
		ID:       s.ID,
		Title:    s.Title,
		Artists:  s.Artists,
		Album:    s.Album,
		Playable: true,
	}
}
