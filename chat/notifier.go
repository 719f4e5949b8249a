package chat

import (
	"fmt"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/viper"

	"github.com/songbot-cli/songbot/history"
	"github.com/songbot-cli/songbot/icon"
	"github.com/songbot-cli/songbot/key"
	"github.com/songbot-cli/songbot/log"
	"github.com/songbot-cli/songbot/track"
)

// Notifier formats playback lifecycle events into chat messages.
// It implements playback.Listener.
type Notifier struct {
	gateway Gateway
}

// NewNotifier returns a notifier bound to the given gateway.
func NewNotifier(gateway Gateway) *Notifier {
	return &Notifier{gateway: gateway}
}

// send wraps the message to the configured chat width and delivers it.
// Delivery failures are logged, never propagated into the playback loop.
func (n *Notifier) send(text string) {
	if width := viper.GetInt(key.ChatMessageWidth); width > 0 {
		text = wordwrap.String(text, width)
	}
	if err := n.gateway.SendMessage(text); err != nil {
		log.Warnf("chat delivery: %v", err)
	}
}

func (n *Notifier) OnTrackStarted(_ string, t track.Track) {
	if viper.GetBool(key.HistorySaveOnPlay) {
		if err := history.Save(t); err != nil {
			log.Warnf("history: %v", err)
		}
	}
	n.send(fmt.Sprintf("%s Now playing: %s", icon.Get(icon.Play), t))
}

func (n *Notifier) OnTrackPaused(_ string, t track.Track) {
	n.send(fmt.Sprintf("%s Paused: %s", icon.Get(icon.Pause), t))
}

func (n *Notifier) OnTrackResumed(_ string, t track.Track) {
	n.send(fmt.Sprintf("%s Resumed: %s", icon.Get(icon.Play), t))
}

// OnTrackEnded stays silent: a natural end is immediately followed either by the
// next track's start announcement or by nothing worth interrupting the chat for.
func (n *Notifier) OnTrackEnded(string, track.Track) {}

func (n *Notifier) OnTrackStopped(_ string, t track.Track) {
	if t.IsZero() {
		n.send(fmt.Sprintf("%s Playback stopped", icon.Get(icon.Stop)))
		return
	}
	n.send(fmt.Sprintf("%s Stopped: %s", icon.Get(icon.Stop), t))
}

func (n *Notifier) OnAdPlaying() {
	if !viper.GetBool(key.ChatAnnounceAds) {
		return
	}
	n.send(fmt.Sprintf("%s Ad break, the music returns shortly", icon.Get(icon.Ad)))
}
