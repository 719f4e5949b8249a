package playback

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/songbot-cli/songbot/service"
	"github.com/songbot-cli/songbot/track"
)

// Session bounds the lifetime of monitoring a single currently-playing track.
//
// A session is superseded whole when the next track starts; its cancellation scope
// covers the monitoring loop and the position sub-loop, so no stale iteration can
// outlive it.
type Session struct {
	ID       string
	Track    track.Track
	Backend  service.Backend
	PlayerID string

	ctx    context.Context
	cancel context.CancelFunc
	// done is closed when the monitoring loop has fully exited.
	done chan struct{}

	mu sync.Mutex
	// elapsed is the approximate playback position in seconds. It never decreases
	// while the session is active, except on explicit seek.
	elapsed int64
	length  int64
	trackID string

	wantPaused  bool
	userStopped bool
}

func newSession(t track.Track) *Session {
	backend := service.For(t.Service)
	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		ID:       uuid.NewString(),
		Track:    t,
		Backend:  backend,
		PlayerID: backend.PlayerID(),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Elapsed returns the last observed playback position in seconds.
func (s *Session) Elapsed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// observeElapsed records a polled position, keeping the counter monotonic.
func (s *Session) observeElapsed(seconds int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seconds > s.elapsed {
		s.elapsed = seconds
	}
}

// resetElapsed rewinds the counter after an explicit seek.
func (s *Session) resetElapsed(seconds int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = seconds
}

// Length returns the current track length estimate in seconds.
func (s *Session) Length() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.length
}

func (s *Session) setLength(seconds int64) {
	if seconds <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.length = seconds
}

// TrackHandle returns the opaque seek handle from the most recent metadata query.
func (s *Session) TrackHandle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trackID
}

func (s *Session) setTrackHandle(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackID = id
}

func (s *Session) setWantPaused(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wantPaused = v
}

func (s *Session) shouldStayPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wantPaused
}

func (s *Session) markUserStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userStopped = true
}

func (s *Session) stoppedByUser() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userStopped
}

// nearEnd reports whether the elapsed counter is within the trailing window of the
// length estimate, i.e. a pause or stop now is a natural end rather than a fault.
func (s *Session) nearEnd(windowSeconds int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.length > 0 && s.elapsed >= s.length-windowSeconds
}
