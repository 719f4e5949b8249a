package queue

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/log"
	"github.com/songbot-cli/songbot/playback"
	"github.com/songbot-cli/songbot/service"
	"github.com/songbot-cli/songbot/track"
)

var (
	ErrAlreadyStarted = errors.New("queue already started")
	ErrNotPlaying     = errors.New("nothing is playing")
)

// Machine is the slice of the playback machine the queue drives.
type Machine interface {
	Start(ctx context.Context, t track.Track, startAt int64)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context)
	Skip(ctx context.Context)
	Active() bool
	Now() mo.Option[playback.Now]
}

// Manager owns the ordered pending queue and advances it through playback
// lifecycle callbacks. All mutating operations are safe for concurrent use.
//
// Manager implements playback.Listener; every event is applied to the queue
// state first and then forwarded to the external listener.
type Manager struct {
	mu      sync.Mutex
	tracks  []track.Track
	state   State
	machine Machine

	listener playback.Listener
	probe    playback.ProbeFunc
}

// NewManager returns a queue bound to the given machine. Lifecycle events are
// forwarded to listener after the queue has applied them.
func NewManager(machine Machine, listener playback.Listener, probe playback.ProbeFunc) *Manager {
	return &Manager{
		machine:  machine,
		listener: listener,
		probe:    probe,
	}
}

// Add inserts a track at position, clamped into [0, size]. Without a position
// the track is appended. Reports whether the track is present afterwards.
func (m *Manager) Add(t track.Track, position ...int) bool {
	return m.AddAll([]track.Track{t}, position...)
}

// AddAll inserts a run of tracks at position, preserving their order.
func (m *Manager) AddAll(ts []track.Track, position ...int) bool {
	if len(ts) == 0 {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	at := len(m.tracks)
	if len(position) > 0 {
		at = lo.Clamp(position[0], 0, len(m.tracks))
	}

	m.tracks = append(m.tracks[:at:at], append(append([]track.Track{}, ts...), m.tracks[at:]...)...)
	return true
}

// Delete removes the entries at the given indices. Out-of-range indices are
// ignored; duplicates count once. Returns the removed tracks in queue order.
func (m *Manager) Delete(indices ...int) []track.Track {
	m.mu.Lock()
	defer m.mu.Unlock()

	doomed := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(m.tracks) {
			doomed[idx] = true
		}
	}
	if len(doomed) == 0 {
		return nil
	}

	removed := make([]track.Track, 0, len(doomed))
	kept := m.tracks[:0]
	for i, t := range m.tracks {
		if doomed[i] {
			removed = append(removed, t)
		} else {
			kept = append(kept, t)
		}
	}
	m.tracks = kept
	return removed
}

// DeleteMatching removes every queued entry equal to t and reports how many
// were removed.
func (m *Manager) DeleteMatching(t track.Track) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.tracks)
	m.tracks = lo.Reject(m.tracks, func(other track.Track, _ int) bool {
		return other.Same(t)
	})
	return before - len(m.tracks)
}

// Clear drops every pending entry. The currently playing track is unaffected.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracks = nil
}

// Move relocates the entries at indices to a contiguous run starting at
// newIndex, preserving the order the indices were given in. Indices outside
// the queue are ignored. Reports whether newIndex pointed past the remaining
// entries and had to be treated as an offset from the end.
func (m *Manager) Move(indices []int, newIndex int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if newIndex < 0 {
		newIndex = 0
	}

	picked := make(map[int]bool, len(indices))
	moved := make([]track.Track, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(m.tracks) && !picked[idx] {
			picked[idx] = true
			moved = append(moved, m.tracks[idx])
		}
	}
	if len(moved) == 0 {
		return false
	}

	rest := make([]track.Track, 0, len(m.tracks)-len(moved))
	for i, t := range m.tracks {
		if !picked[i] {
			rest = append(rest, t)
		}
	}

	offsetApplied := newIndex > len(rest)
	at := lo.Min([]int{newIndex, len(rest)})

	m.tracks = append(rest[:at:at], append(moved, rest[at:]...)...)
	return offsetApplied
}

// Shuffle randomizes the pending order in place.
func (m *Manager) Shuffle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	rand.Shuffle(len(m.tracks), func(i, j int) {
		m.tracks[i], m.tracks[j] = m.tracks[j], m.tracks[i]
	})
}

// Snapshot returns a copy of the pending queue.
func (m *Manager) Snapshot() []track.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]track.Track{}, m.tracks...)
}

// Size returns the number of pending entries.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tracks)
}

// State returns the queue's playback state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// NowPlaying returns the in-flight track, if any.
func (m *Manager) NowPlaying() mo.Option[playback.Now] {
	return m.machine.Now()
}

// Start begins playing from the head of the queue. Starting an already
// running queue is rejected.
func (m *Manager) Start(ctx context.Context) error {
	return m.StartAt(ctx, 0)
}

// StartAt begins playing from the head of the queue, seeking the first track
// to the given offset in seconds once it is up.
func (m *Manager) StartAt(ctx context.Context, offsetSeconds int64) error {
	m.mu.Lock()
	running := m.state != Stopped
	m.mu.Unlock()

	if running || m.machine.Active() {
		return ErrAlreadyStarted
	}
	m.playNext(ctx, offsetSeconds)
	return nil
}

// Skip ends the current track and advances. With nothing playing but tracks
// pending it starts the queue instead; on an idle empty queue it is a no-op.
func (m *Manager) Skip(ctx context.Context) {
	if m.machine.Active() {
		m.machine.Skip(ctx)
		return
	}
	if m.Size() > 0 {
		m.playNext(ctx, 0)
	}
}

// Pause suspends the current track.
func (m *Manager) Pause(ctx context.Context) error {
	if !m.machine.Active() {
		return ErrNotPlaying
	}
	return m.machine.Pause(ctx)
}

// Resume continues a paused track.
func (m *Manager) Resume(ctx context.Context) error {
	if !m.machine.Active() {
		return ErrNotPlaying
	}
	return m.machine.Resume(ctx)
}

// Stop ends the current track without advancing.
func (m *Manager) Stop(ctx context.Context) {
	m.machine.Stop(ctx)
}

// playNext starts the head of the queue, dropping heads whose availability
// probe keeps failing. An empty queue settles into the stopped state, announced
// through the listener with a zero track.
func (m *Manager) playNext(ctx context.Context, startAt int64) {
	for {
		m.mu.Lock()
		if len(m.tracks) == 0 {
			m.state = Stopped
			m.mu.Unlock()
			m.listener.OnTrackStopped("", track.Track{})
			return
		}
		head := m.tracks[0]
		m.mu.Unlock()

		if service.For(head.Service).RequiresProbe() && !m.probeHead(ctx, head) {
			log.Warnf("dropping unplayable track %s", head)
			m.mu.Lock()
			m.removeFirst(head)
			m.mu.Unlock()
			continue
		}

		m.machine.Start(ctx, head, startAt)
		return
	}
}

// probeHead retries the availability probe a bounded number of times.
func (m *Manager) probeHead(ctx context.Context, t track.Track) bool {
	if m.probe == nil {
		return true
	}

	attempts := viper.GetInt(key.QueueProbeAttempts)
	delay := time.Duration(viper.GetInt(key.QueueProbeDelayMs)) * time.Millisecond

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = m.probe(ctx, t); err == nil {
			return true
		}
		log.Debugf("probe attempt %d for %s: %v", attempt+1, t, err)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
	}
	return false
}

// removeFirst deletes the first queued entry equal to t. Caller holds the lock.
func (m *Manager) removeFirst(t track.Track) {
	for i, other := range m.tracks {
		if other.Same(t) {
			m.tracks = append(m.tracks[:i], m.tracks[i+1:]...)
			return
		}
	}
}

// OnTrackStarted removes the started track from the pending queue. The track
// stays visible in the queue until the player actually picks it up, so removal
// happens here rather than at start time.
func (m *Manager) OnTrackStarted(playerID string, t track.Track) {
	m.mu.Lock()
	m.state = Playing
	m.removeFirst(t)
	m.mu.Unlock()

	m.listener.OnTrackStarted(playerID, t)
}

func (m *Manager) OnTrackPaused(playerID string, t track.Track) {
	m.mu.Lock()
	m.state = Paused
	m.mu.Unlock()

	m.listener.OnTrackPaused(playerID, t)
}

func (m *Manager) OnTrackResumed(playerID string, t track.Track) {
	m.mu.Lock()
	m.state = Playing
	m.mu.Unlock()

	m.listener.OnTrackResumed(playerID, t)
}

// OnTrackEnded advances to the next pending track.
func (m *Manager) OnTrackEnded(playerID string, t track.Track) {
	m.listener.OnTrackEnded(playerID, t)
	m.playNext(context.Background(), 0)
}

// OnTrackStopped settles the queue without advancing.
func (m *Manager) OnTrackStopped(playerID string, t track.Track) {
	m.mu.Lock()
	m.state = Stopped
	m.mu.Unlock()

	m.listener.OnTrackStopped(playerID, t)
}

func (m *Manager) OnAdPlaying() {
	m.listener.OnAdPlaying()
}
