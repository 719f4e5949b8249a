// Package chat connects the queue to a chat surface: outbound notifications for
// playback events and inbound command routing. The chat protocol reader itself
// stays external; this package only consumes parsed lines and emits text.
package chat

import (
	"fmt"
	"io"
	"sync"
)

// Gateway delivers an outbound message to the chat surface.
type Gateway interface {
	SendMessage(text string) error
}

// WriterGateway renders messages to a local stream. It backs the daemon's
// console mode and doubles as a capture point in tests.
type WriterGateway struct {
	mu sync.Mutex
	W  io.Writer
}

func (g *WriterGateway) SendMessage(text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, err := fmt.Fprintln(g.W, text)
	return err
}
