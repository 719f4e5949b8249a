// Package proc manages the lifecycle of external player processes.
//
// Its side effects are process spawning and termination only; playback state and
// queue state are never touched here.
package proc

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/songbot-cli/songbot/log"
)

const (
	killRecheckDelay = 500 * time.Millisecond
	audioProbeCmd    = "pactl"
	audioStartCmd    = "pulseaudio"
)

// Manager starts, probes, and kills external player processes.
type Manager struct{}

// NewManager returns a process Manager.
func NewManager() *Manager {
	return &Manager{}
}

// matching returns all processes whose executable name contains name.
func matching(name string) []*process.Process {
	procs, err := process.Processes()
	if err != nil {
		log.Warnf("process table read failed: %v", err)
		return nil
	}

	var found []*process.Process
	for _, p := range procs {
		n, err := p.Name()
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(n), strings.ToLower(name)) {
			found = append(found, p)
		}
	}
	return found
}

// IsRunning probes the process table for a player binary.
func (m *Manager) IsRunning(name string) bool {
	return len(matching(name)) > 0
}

// Start launches a player binary with the given arguments, detached from our
// process group. It is idempotent: an already-running player is left alone.
func (m *Manager) Start(binary string, args []string) error {
	if m.IsRunning(binary) {
		return nil
	}

	cmd := exec.Command(binary, args...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	// Reap in the background to avoid zombies; the player outlives any session.
	go func() {
		_ = cmd.Wait()
	}()

	log.Infof("started %s (pid %d)", binary, cmd.Process.Pid)
	return nil
}

// Kill terminates every process matching the player binary and retries until the
// process table no longer shows it. The retry loop is bounded by the context so a
// subsequent forced stop can cancel a stuck teardown.
func (m *Manager) Kill(ctx context.Context, name string) error {
	for {
		procs := matching(name)
		if len(procs) == 0 {
			return nil
		}

		for _, p := range procs {
			if err := p.Kill(); err != nil {
				log.Debugf("kill %s (pid %d): %v", name, p.Pid, err)
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("kill %s: %w", name, ctx.Err())
		case <-time.After(killRecheckDelay):
		}
	}
}

// EnsureAudio probes the host audio subsystem and restarts it when dead.
// Sessions hosted in managed client environments lose their sink between
// long idle periods; a fresh track start is the natural place to recover.
func (m *Manager) EnsureAudio(ctx context.Context) error {
	if err := exec.CommandContext(ctx, audioProbeCmd, "info").Run(); err == nil {
		return nil
	}

	log.Warn("audio subsystem unresponsive, restarting")
	if err := exec.CommandContext(ctx, audioStartCmd, "--start").Run(); err != nil {
		return fmt.Errorf("restart audio subsystem: %w", err)
	}
	return nil
}
