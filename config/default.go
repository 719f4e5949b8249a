// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/color"
	"github.com/songbot-cli/songbot/constant"
	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Songbot + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlayerSpotify, "spotify", "MPRIS bus name suffix of the player that handles Spotify tracks")
	register(key.PlayerLocal, "vlc", "MPRIS bus name suffix of the player that handles YouTube and SoundCloud tracks")
	register(key.VolumeSpotify, 100, "Playback volume for the Spotify client (0-100)")
	register(key.VolumeLocal, 100, "Playback volume for the local player (0-100)")
	register(key.PlayerPollIntervalMs, 500, "Interval between player status polls in milliseconds")
	register(key.PlayerEndWindowSec, 5, "Trailing window in seconds within which a pause or stop is treated as a natural track end")
	register(key.PlayerGraceDelayMs, 1000, "Grace delay before a stopped status is re-checked and classified as a crash")
	register(key.PlayerReadyAttempts, 5, "Bounded attempts to wait for a player process to become controllable")
	register(key.PlayerReadyDelayMs, 2000, "Delay between player readiness probes in milliseconds")
	register(key.PlayerOpenAttempts, 5, "Bounded attempts to issue the open directive before re-probing track availability")
	register(key.PlayerStopAttempts, 10, "Bounded attempts to confirm the player reached a non-playing state during teardown")
	register(key.PlayerRestartAttempts, 3, "Bounded attempts to relaunch a stuck player before the session fails")
	register(key.QueueProbeAttempts, 3, "Bounded attempts for the pre-flight availability probe of queue heads")
	register(key.QueueProbeDelayMs, 1500, "Delay between pre-flight availability probes in milliseconds")
	register(key.ChatMessageWidth, 72, "Column at which outbound chat notifications are word-wrapped")
	register(key.ChatAnnounceAds, true, "Announce sponsor interstitials to the chat channel")
	register(key.RequestsSuggest, true, "Suggest previously requested tracks for partial queries")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")
	register(key.HistorySaveOnPlay, true, "Persist finished tracks to the play history")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Colorize CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
