package playback

import (
	"context"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/bridge"
	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/log"
	"github.com/songbot-cli/songbot/service"
	"github.com/songbot-cli/songbot/track"
)

// Controller is the typed control channel of an external player.
// bridge.Bridge is the production implementation.
type Controller interface {
	Status(ctx context.Context, playerID string) bridge.Status
	Metadata(ctx context.Context, playerID string) (bridge.Metadata, error)
	PositionSeconds(ctx context.Context, playerID string) (int64, error)
	OpenURI(ctx context.Context, playerID, target string) error
	Play(ctx context.Context, playerID string) error
	Pause(ctx context.Context, playerID string) error
	Stop(ctx context.Context, playerID string) error
	Seek(ctx context.Context, playerID, trackID string, seconds int64) error
}

// Processes manages external player process lifecycles.
// proc.Manager is the production implementation.
type Processes interface {
	IsRunning(name string) bool
	Start(binary string, args []string) error
	Kill(ctx context.Context, name string) error
	EnsureAudio(ctx context.Context) error
}

// ProbeFunc re-checks a track's availability when the player refuses to open it.
type ProbeFunc func(ctx context.Context, t track.Track) error

// tunables snapshots the monitoring heuristics from configuration once per session.
type tunables struct {
	poll            time.Duration
	positionPoll    time.Duration
	endWindow       int64
	grace           time.Duration
	readyAttempts   int
	readyDelay      time.Duration
	openAttempts    int
	stopAttempts    int
	restartAttempts int
}

func loadTunables() tunables {
	return tunables{
		poll:            time.Duration(viper.GetInt(key.PlayerPollIntervalMs)) * time.Millisecond,
		positionPoll:    time.Second,
		endWindow:       viper.GetInt64(key.PlayerEndWindowSec),
		grace:           time.Duration(viper.GetInt(key.PlayerGraceDelayMs)) * time.Millisecond,
		readyAttempts:   viper.GetInt(key.PlayerReadyAttempts),
		readyDelay:      time.Duration(viper.GetInt(key.PlayerReadyDelayMs)) * time.Millisecond,
		openAttempts:    viper.GetInt(key.PlayerOpenAttempts),
		stopAttempts:    viper.GetInt(key.PlayerStopAttempts),
		restartAttempts: viper.GetInt(key.PlayerRestartAttempts),
	}
}

// Now describes the state of the active session for display purposes.
type Now struct {
	Track    track.Track
	PlayerID string
	Elapsed  int64
	Length   int64
}

// Machine orchestrates one playing track at a time.
//
// At most one session's loops are active; starting a new track tears the previous
// session down and awaits its exit before spawning anything.
type Machine struct {
	ctl      Controller
	procs    Processes
	listener Listener
	probe    ProbeFunc

	mu          sync.Mutex
	session     *Session
	lastFailure string
}

// NewMachine wires a Machine from its collaborators.
func NewMachine(ctl Controller, procs Processes, listener Listener, probe ProbeFunc) *Machine {
	return &Machine{
		ctl:      ctl,
		procs:    procs,
		listener: listener,
		probe:    probe,
	}
}

func (m *Machine) current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// detach removes and returns the active session, if any.
func (m *Machine) detach() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.session
	m.session = nil
	return sess
}

// detachIf removes the session only if it is still the given one, so a loop that
// already lost ownership cannot clobber its successor.
func (m *Machine) detachIf(sess *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != sess {
		return false
	}
	m.session = nil
	return true
}

// Active reports whether a session currently exists.
func (m *Machine) Active() bool {
	return m.current() != nil
}

// Now returns the active session's display state.
func (m *Machine) Now() mo.Option[Now] {
	sess := m.current()
	if sess == nil {
		return mo.None[Now]()
	}
	return mo.Some(Now{
		Track:    sess.Track,
		PlayerID: sess.PlayerID,
		Elapsed:  sess.Elapsed(),
		Length:   sess.Length(),
	})
}

// LastFailure returns the failure message of the most recent failed session.
func (m *Machine) LastFailure() mo.Option[string] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastFailure == "" {
		return mo.None[string]()
	}
	return mo.Some(m.lastFailure)
}

// Start begins playback of a track, superseding any active session.
// The new session is installed and the old one removed in one critical section,
// so racing starts form a single supersession chain: each caller tears down
// exactly the session it replaced. The replaced session's loops are cancelled
// and awaited before the replacement's loop is spawned, so its terminal event
// is observed before any event of the new track.
func (m *Machine) Start(ctx context.Context, t track.Track, startAt int64) {
	sess := newSession(t)

	m.mu.Lock()
	prev := m.session
	m.session = sess
	m.mu.Unlock()

	if prev != nil {
		m.stopSession(ctx, prev, false)
	}

	log.Infof("session %s: starting %q on %s", sess.ID, sess.Track.String(), sess.PlayerID)
	go m.run(sess, startAt)
}

// Pause suspends the active session. The monitoring loop re-asserts the pause if
// the backend resumes on its own.
func (m *Machine) Pause(ctx context.Context) error {
	sess := m.current()
	if sess == nil {
		return nil
	}
	sess.setWantPaused(true)
	return m.ctl.Pause(ctx, sess.PlayerID)
}

// Resume continues a paused session.
func (m *Machine) Resume(ctx context.Context) error {
	sess := m.current()
	if sess == nil {
		return nil
	}
	sess.setWantPaused(false)
	return m.ctl.Play(ctx, sess.PlayerID)
}

// Stop tears down the active session and emits OnTrackStopped.
func (m *Machine) Stop(ctx context.Context) {
	if sess := m.detach(); sess != nil {
		m.stopSession(ctx, sess, false)
	}
}

// Skip tears down the active session and emits OnTrackEnded, so the queue advances.
func (m *Machine) Skip(ctx context.Context) {
	if sess := m.detach(); sess != nil {
		m.stopSession(ctx, sess, true)
	}
}

// stopSession cancels the session's loops, awaits their exit, drives the backend to
// a non-playing state, and emits the terminal event.
func (m *Machine) stopSession(ctx context.Context, sess *Session, skipped bool) {
	cfg := loadTunables()

	sess.markUserStopped()
	sess.cancel()
	<-sess.done

	// Repeated stop directives bounded by transient flakiness, not wall clock.
	for attempt := 0; attempt < cfg.stopAttempts; attempt++ {
		st := m.ctl.Status(ctx, sess.PlayerID)
		if st.State != bridge.Playing {
			break
		}
		if err := m.ctl.Stop(ctx, sess.PlayerID); err != nil {
			_ = m.ctl.Pause(ctx, sess.PlayerID)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.poll):
		}
	}

	// Per-track player processes are killed; long-lived clients stay up.
	if !sess.Backend.RequiresRunningPlayer() {
		if err := m.procs.Kill(ctx, sess.Backend.Binary()); err != nil {
			log.Warnf("session %s: kill %s: %v", sess.ID, sess.Backend.Binary(), err)
		}
	}

	if skipped {
		m.listener.OnTrackEnded(sess.PlayerID, sess.Track)
	} else {
		m.listener.OnTrackStopped(sess.PlayerID, sess.Track)
	}
}

// terminalEvent identifies how a monitoring loop ended its session.
type terminalEvent int

const (
	eventEnded terminalEvent = iota
	eventFailed
)

// finish releases ownership of a session from within its own loop and emits the
// terminal event. A session that was already superseded emits nothing.
func (m *Machine) finish(sess *Session, event terminalEvent, failure string) {
	if !m.detachIf(sess) {
		return
	}
	sess.cancel()

	if failure != "" {
		m.mu.Lock()
		m.lastFailure = failure
		m.mu.Unlock()
		log.Errorf("session %s: failed: %s", sess.ID, failure)
	}

	switch event {
	case eventEnded:
		m.listener.OnTrackEnded(sess.PlayerID, sess.Track)
	case eventFailed:
		// A failed session still advances the queue; the message is retained
		// on the machine and in the log.
		m.listener.OnTrackEnded(sess.PlayerID, sess.Track)
	}
}

// run is the per-session orchestration goroutine: prepare, open, monitor.
func (m *Machine) run(sess *Session, startAt int64) {
	defer close(sess.done)

	cfg := loadTunables()
	ctx := sess.ctx

	if err := m.procs.EnsureAudio(ctx); err != nil {
		log.Warnf("session %s: audio check: %v", sess.ID, err)
	}

	if !m.awaitReady(sess, cfg) {
		if ctx.Err() != nil {
			return
		}
		m.finish(sess, eventFailed, "player never became controllable")
		return
	}

	if sess.Backend.RequiresRunningPlayer() {
		if !m.openTrack(sess, cfg) {
			if ctx.Err() != nil {
				return
			}
			// Unavailable tracks are dropped; the queue hears a normal end.
			m.finish(sess, eventEnded, "")
			return
		}
	}

	m.refreshMetadata(sess)
	m.monitor(sess, cfg, startAt)
}

// launch starts the player process with the session's service-specific invocation.
func (m *Machine) launch(sess *Session) error {
	b := sess.Backend
	return m.procs.Start(b.Binary(), b.LaunchArgs(sess.Track, service.Volume(sess.Track.Service)))
}

// awaitReady waits for the player to appear on the control channel with bounded
// attempts. After a full round of failed probes the process is force-killed and
// relaunched rather than waited on indefinitely.
func (m *Machine) awaitReady(sess *Session, cfg tunables) bool {
	ctx := sess.ctx

	for round := 0; round <= cfg.restartAttempts; round++ {
		if round > 0 {
			log.Warnf("session %s: %s stuck, relaunching", sess.ID, sess.Backend.Binary())
			if err := m.procs.Kill(ctx, sess.Backend.Binary()); err != nil {
				return false
			}
		}

		if err := m.launch(sess); err != nil {
			log.Warnf("session %s: launch: %v", sess.ID, err)
		}

		for attempt := 0; attempt < cfg.readyAttempts; attempt++ {
			if st := m.ctl.Status(ctx, sess.PlayerID); st.State != bridge.NoPlayer && st.State != bridge.Errored {
				return true
			}

			select {
			case <-ctx.Done():
				return false
			case <-time.After(cfg.readyDelay):
			}
		}
	}

	return false
}

// openTrack issues the open directive with bounded attempts. When the player keeps
// refusing, the track's availability is re-probed; an unavailable track reports
// false so the caller skips it instead of retrying forever.
func (m *Machine) openTrack(sess *Session, cfg tunables) bool {
	ctx := sess.ctx
	target := sess.Backend.OpenTarget(sess.Track)

	for attempt := 0; attempt < cfg.openAttempts; attempt++ {
		if err := m.ctl.OpenURI(ctx, sess.PlayerID, target); err != nil {
			log.Debugf("session %s: open attempt %d: %v", sess.ID, attempt+1, err)
		} else if st := m.ctl.Status(ctx, sess.PlayerID); st.State == bridge.Playing || st.State == bridge.Paused {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(cfg.readyDelay):
		}
	}

	if m.probe != nil {
		if err := m.probe(ctx, sess.Track); err != nil {
			log.Warnf("session %s: track unavailable: %v", sess.ID, err)
			return false
		}
	}
	return false
}

// refreshMetadata pulls the length estimate and the opaque seek handle.
func (m *Machine) refreshMetadata(sess *Session) {
	meta, err := m.ctl.Metadata(sess.ctx, sess.PlayerID)
	if err != nil {
		log.Debugf("session %s: metadata: %v", sess.ID, err)
		return
	}
	sess.setLength(meta.LengthSeconds())
	sess.setTrackHandle(meta.TrackID)
}

// seekTo repositions playback using the session's current seek handle.
func (m *Machine) seekTo(sess *Session, seconds int64) {
	handle := sess.TrackHandle()
	if handle == "" {
		m.refreshMetadata(sess)
		handle = sess.TrackHandle()
	}
	if handle == "" {
		log.Warnf("session %s: no seek handle, starting from zero", sess.ID)
		return
	}
	if err := m.ctl.Seek(sess.ctx, sess.PlayerID, handle, seconds); err != nil {
		log.Warnf("session %s: seek: %v", sess.ID, err)
		return
	}
	sess.resetElapsed(seconds)
}

// restartAt recovers from a desync or crash by relaunching the player and
// resuming the track at the last known position.
func (m *Machine) restartAt(sess *Session, cfg tunables, seconds int64) bool {
	ctx := sess.ctx
	log.Warnf("session %s: restarting %q at %ds", sess.ID, sess.Track.String(), seconds)

	if err := m.procs.Kill(ctx, sess.Backend.Binary()); err != nil {
		return false
	}
	if !m.awaitReady(sess, cfg) {
		return false
	}
	if sess.Backend.RequiresRunningPlayer() {
		if err := m.ctl.OpenURI(ctx, sess.PlayerID, sess.Backend.OpenTarget(sess.Track)); err != nil {
			return false
		}
	}

	m.refreshMetadata(sess)
	if seconds > 0 {
		m.seekTo(sess, seconds)
	}
	sess.resetElapsed(seconds)
	return true
}

// trackPosition is the position sub-loop: it samples the player position and keeps
// the session's elapsed counter fresh until the session is cancelled.
func (m *Machine) trackPosition(sess *Session, cfg tunables) {
	ticker := time.NewTicker(cfg.positionPoll)
	defer ticker.Stop()

	for {
		select {
		case <-sess.ctx.Done():
			return
		case <-ticker.C:
			pos, err := m.ctl.PositionSeconds(sess.ctx, sess.PlayerID)
			if err != nil {
				continue
			}
			sess.observeElapsed(pos)
		}
	}
}

// monitor is the fixed-interval polling loop that classifies player status into
// lifecycle events. It is the single writer of the session's transition events.
func (m *Machine) monitor(sess *Session, cfg tunables, startAt int64) {
	ctx := sess.ctx
	b := sess.Backend

	var (
		started       bool
		pausedEmitted bool
		adActive      bool
	)

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// The tick may race cancellation; a superseded session must not
		// classify another poll.
		if ctx.Err() != nil {
			return
		}

		st := m.ctl.Status(ctx, sess.PlayerID)

		if st.State == bridge.Errored {
			m.finish(sess, eventFailed, st.Message)
			return
		}

		if st.State == bridge.NoPlayer {
			// The player left the bus mid-session: crash, unless nearly done.
			if !started {
				continue
			}
			if sess.nearEnd(cfg.endWindow) {
				m.finish(sess, eventEnded, "")
				return
			}
			if !m.recheckAndRestart(sess, cfg) {
				return
			}
			continue
		}

		// Identity reconciliation: the reported media must be our track or a
		// known ad placeholder; anything else is a natural end or a desync.
		if st.URL != "" && !b.IsTrack(sess.Track, st.URL) {
			if b.IsAd(st.URL) {
				if !adActive {
					adActive = true
					log.Infof("session %s: ad interstitial", sess.ID)
					m.listener.OnAdPlaying()
				}
				// End-of-track checks are meaningless while the ad plays.
				continue
			}

			if started && sess.nearEnd(cfg.endWindow) {
				m.finish(sess, eventEnded, "")
				return
			}

			if !m.restartAt(sess, cfg, sess.Elapsed()) {
				if ctx.Err() != nil {
					return
				}
				m.finish(sess, eventFailed, "player lost the track and could not be restarted")
				return
			}
			continue
		}

		// The ad is over only when the player affirmatively reports our track
		// again; a blank URL is a failed metadata read, not a transition.
		if adActive && st.URL != "" && b.IsTrack(sess.Track, st.URL) {
			// Ads can alter the reported length, so re-estimate.
			adActive = false
			m.refreshMetadata(sess)
		}

		switch st.State {
		case bridge.Playing:
			if sess.shouldStayPaused() {
				// Backend resumed on its own; re-assert the pause.
				_ = m.ctl.Pause(ctx, sess.PlayerID)
				continue
			}

			if !started {
				started = true
				if startAt > 0 {
					m.seekTo(sess, startAt)
				}
				go m.trackPosition(sess, cfg)
				m.listener.OnTrackStarted(sess.PlayerID, sess.Track)
			} else if pausedEmitted {
				pausedEmitted = false
				m.listener.OnTrackResumed(sess.PlayerID, sess.Track)
			}

		case bridge.Paused:
			if !started {
				// Some players open paused; nudge them into playback.
				if !sess.shouldStayPaused() {
					_ = m.ctl.Play(ctx, sess.PlayerID)
				}
				continue
			}

			// For ambiguous backends a pause in the trailing window is the
			// track ending, not the user pausing.
			if b.AmbiguousPause() && !sess.shouldStayPaused() && sess.nearEnd(cfg.endWindow) {
				m.finish(sess, eventEnded, "")
				return
			}

			if !pausedEmitted {
				pausedEmitted = true
				m.listener.OnTrackPaused(sess.PlayerID, sess.Track)
			}

		case bridge.Stopped:
			if !started {
				continue
			}
			if sess.nearEnd(cfg.endWindow) {
				m.finish(sess, eventEnded, "")
				return
			}
			if !m.recheckAndRestart(sess, cfg) {
				return
			}
		}
	}
}

// recheckAndRestart waits one grace interval and re-checks a stopped player.
// A player still stopped without user action is treated as a crash and restarted
// at the last known position. Reports false when the monitoring loop should exit.
func (m *Machine) recheckAndRestart(sess *Session, cfg tunables) bool {
	ctx := sess.ctx

	select {
	case <-ctx.Done():
		return false
	case <-time.After(cfg.grace):
	}

	st := m.ctl.Status(ctx, sess.PlayerID)
	if st.State == bridge.Playing || st.State == bridge.Paused {
		return true
	}
	if sess.stoppedByUser() {
		return true
	}

	log.Warnf("session %s: player stopped unexpectedly", sess.ID)
	if !m.restartAt(sess, cfg, sess.Elapsed()) {
		if ctx.Err() != nil {
			return false
		}
		m.finish(sess, eventFailed, "player crashed and could not be restarted")
		return false
	}
	return true
}
