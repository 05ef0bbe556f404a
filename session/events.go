package session

import (
	"sync"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/recognizer"
)

// EventType names what changed in a session.
type EventType string

const (
	EventGenerate EventType = "generate"
	EventRun      EventType = "run"
	EventStep     EventType = "step"
	EventPause    EventType = "pause"
	EventResume   EventType = "resume"
	EventReset    EventType = "reset"
	EventDone     EventType = "done"
)

// Event is published to subscribers after every state change.
type Event struct {
	Type     EventType        `json:"type"`
	Step     *recognizer.Step `json:"step,omitempty"`
	Snapshot Snapshot         `json:"snapshot"`
}

// subscriberBuffer bounds how far a subscriber may fall behind.
const subscriberBuffer = 64

type hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[chan Event]struct{})}
}

func (h *hub) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber buffer full, drop
		}
	}
}
