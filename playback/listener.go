// Package playback implements the per-track orchestration loop that drives an external
// player through its lifecycle and classifies polled status into typed events.
package playback

import (
	"sync"

	"github.com/songbot-cli/songbot/track"
)

// Listener receives the lifecycle events of a playing track.
//
// Within one session events are emitted in the order state changes are detected,
// and exactly one terminal event (Ended or Stopped) closes the session.
type Listener interface {
	OnTrackStarted(playerID string, t track.Track)
	OnTrackPaused(playerID string, t track.Track)
	OnTrackResumed(playerID string, t track.Track)
	OnTrackEnded(playerID string, t track.Track)
	OnTrackStopped(playerID string, t track.Track)
	OnAdPlaying()
}

// Relay forwards lifecycle events to a target bound after construction.
// The machine's consumer usually is also the one driving it, so the relay breaks
// that construction cycle. Events arriving before Bind are dropped.
type Relay struct {
	mu     sync.Mutex
	target Listener
}

// Bind sets the relay's target.
func (r *Relay) Bind(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = l
}

func (r *Relay) load() Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

func (r *Relay) OnTrackStarted(playerID string, t track.Track) {
	if l := r.load(); l != nil {
		l.OnTrackStarted(playerID, t)
	}
}

func (r *Relay) OnTrackPaused(playerID string, t track.Track) {
	if l := r.load(); l != nil {
		l.OnTrackPaused(playerID, t)
	}
}

func (r *Relay) OnTrackResumed(playerID string, t track.Track) {
	if l := r.load(); l != nil {
		l.OnTrackResumed(playerID, t)
	}
}

func (r *Relay) OnTrackEnded(playerID string, t track.Track) {
	if l := r.load(); l != nil {
		l.OnTrackEnded(playerID, t)
	}
}

func (r *Relay) OnTrackStopped(playerID string, t track.Track) {
	if l := r.load(); l != nil {
		l.OnTrackStopped(playerID, t)
	}
}

func (r *Relay) OnAdPlaying() {
	if l := r.load(); l != nil {
		l.OnAdPlaying()
	}
}
