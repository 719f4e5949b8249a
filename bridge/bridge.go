// Package bridge translates the external player's line-oriented control channel into typed values.
//
// Players are addressed by their MPRIS bus name suffix. Status and metadata queries go
// through qdbus/dbus-send invocations; the loosely formatted replies are parsed
// best-effort into typed fields.
package bridge

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	busPrefix   = "org.mpris.MediaPlayer2."
	objectPath  = "/org/mpris/MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
	propsIface  = "org.freedesktop.DBus.Properties"
)

// Runner executes a single control-channel request and returns its raw reply.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// execRunner shells out to the real control utilities.
type execRunner struct{}

// NewExecRunner returns a Runner backed by subprocess execution.
func NewExecRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		// The reply body usually carries the D-Bus error text, which callers
		// need for transient-vs-fatal classification.
		return "", fmt.Errorf("%s: %s", err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// State is the typed playback status reported by a player.
type State int

const (
	Playing State = iota
	Paused
	Stopped
	NoPlayer
	Errored
)

// String returns the canonical name of the state.
func (s State) String() string {
	switch s {
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	case NoPlayer:
		return "NoPlayer"
	default:
		return "Errored"
	}
}

// Status is a single polled snapshot of a player.
type Status struct {
	State State
	// URL is the currently reported media identity, when one could be read.
	URL string
	// Message carries the control-channel error text for Errored states.
	Message string
}

// Bridge issues typed queries and directives over the control channel.
type Bridge struct {
	runner Runner
}

// New creates a Bridge on top of the given Runner.
func New(runner Runner) *Bridge {
	return &Bridge{runner: runner}
}

func dest(playerID string) string {
	return busPrefix + playerID
}

// isNoService reports whether a control-channel failure is the expected
// "player not on the bus" transient rather than a real error.
func isNoService(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "not provided by any .service") ||
		strings.Contains(msg, "no such service") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "serviceunknown")
}

// Status polls the playback status and current media identity of a player.
// It never blocks longer than the round trips of the underlying requests.
func (b *Bridge) Status(ctx context.Context, playerID string) Status {
	out, err := b.runner.Run(ctx, "qdbus", dest(playerID), objectPath, playerIface+".PlaybackStatus")
	if err != nil {
		if isNoService(err.Error()) {
			return Status{State: NoPlayer}
		}
		return Status{State: Errored, Message: err.Error()}
	}

	st := Status{}
	switch strings.TrimSpace(out) {
	case "Playing":
		st.State = Playing
	case "Paused":
		st.State = Paused
	case "Stopped":
		st.State = Stopped
	default:
		st.State = Errored
		st.Message = "unrecognized playback status: " + out
		return st
	}

	if meta, err := b.Metadata(ctx, playerID); err == nil {
		st.URL = meta.URL
	}

	return st
}

// PositionSeconds converts the microsecond position property to whole seconds.
func (b *Bridge) PositionSeconds(ctx context.Context, playerID string) (int64, error) {
	out, err := b.runner.Run(ctx, "qdbus", dest(playerID), objectPath, playerIface+".Position")
	if err != nil {
		return 0, fmt.Errorf("query position: %w", err)
	}

	micros, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse position %q: %w", out, err)
	}

	return micros / 1_000_000, nil
}

// Seek repositions playback within the current track. The trackID handle must come
// from the most recent Metadata query; it cannot be constructed by the caller.
func (b *Bridge) Seek(ctx context.Context, playerID, trackID string, seconds int64) error {
	micros := strconv.FormatInt(seconds*1_000_000, 10)
	_, err := b.runner.Run(ctx, "qdbus", dest(playerID), objectPath, playerIface+".SetPosition", trackID, micros)
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// OpenURI issues the backend-specific open directive.
func (b *Bridge) OpenURI(ctx context.Context, playerID, target string) error {
	_, err := b.runner.Run(ctx, "qdbus", dest(playerID), objectPath, playerIface+".OpenUri", target)
	if err != nil {
		return fmt.Errorf("open %q: %w", target, err)
	}
	return nil
}

// Play resumes or starts playback.
func (b *Bridge) Play(ctx context.Context, playerID string) error {
	return b.call(ctx, playerID, "Play")
}

// Pause suspends playback.
func (b *Bridge) Pause(ctx context.Context, playerID string) error {
	return b.call(ctx, playerID, "Pause")
}

// Stop halts playback entirely.
func (b *Bridge) Stop(ctx context.Context, playerID string) error {
	return b.call(ctx, playerID, "Stop")
}

func (b *Bridge) call(ctx context.Context, playerID, method string) error {
	_, err := b.runner.Run(ctx, "qdbus", dest(playerID), objectPath, playerIface+"."+method)
	if err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(method), err)
	}
	return nil
}
