// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Player Backend Selection - these keys map each music service family to its controllable player.
const (
	PlayerSpotify = "player.spotify"
	PlayerLocal   = "player.local"
)

// Playback Volume - per-service volume level passed to the launched player (0-100).
const (
	VolumeSpotify = "volume.spotify"
	VolumeLocal   = "volume.local"
)

// Monitoring Heuristics - these keys tune the polling loop that classifies player status into lifecycle events.
const (
	PlayerPollIntervalMs  = "player.poll_interval_ms"
	PlayerEndWindowSec    = "player.end_window_seconds"
	PlayerGraceDelayMs    = "player.grace_delay_ms"
	PlayerReadyAttempts   = "player.ready_attempts"
	PlayerReadyDelayMs    = "player.ready_delay_ms"
	PlayerOpenAttempts    = "player.open_attempts"
	PlayerStopAttempts    = "player.stop_attempts"
	PlayerRestartAttempts = "player.restart_attempts"
)

// Queue Behaviour - these keys govern pre-flight probing of queue heads before playback commits.
const (
	QueueProbeAttempts = "queue.probe_attempts"
	QueueProbeDelayMs  = "queue.probe_delay_ms"
)

// Chat Surface - these keys configure outbound notification formatting.
const (
	ChatMessageWidth = "chat.message_width"
	ChatAnnounceAds  = "chat.announce_ads"
)

// Request Registry - these keys configure the request-popularity suggestions.
const (
	RequestsSuggest = "requests.suggest"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern non-daemon application behavior.
const (
	CliColored = "cli.colored"
)

// History Tracking - these keys configure persistence of finished-track history.
const (
	HistorySaveOnPlay = "history.save_on_play"
)
