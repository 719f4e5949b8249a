// Package queue implements the ordered, concurrently-mutable track queue and its
// orchestration of the playback machine.
package queue

// State is the authoritative playback state of the queue.
// It is written only by the playback callback handlers.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the canonical name of the state.
func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}
