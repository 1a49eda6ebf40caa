package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/savearn/internal/model"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Event types.
const (
	eventSnapshot = "snapshot"
	eventCreated  = "entry_created"
	eventUpdated  = "entry_updated"
	eventDeleted  = "entry_deleted"
)

// Event is emitted whenever a user's entries change.
type Event struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	EntryID   string          `json:"entryId,omitempty"`
	Date      string          `json:"date,omitempty"`
	Earned    decimal.Decimal `json:"earned"`
	Summary   *model.Summary  `json:"summary,omitempty"`

	user string
}

func entryEvent(typ, user string, e model.SavingEntry) Event {
	return Event{
		Type:      typ,
		Timestamp: time.Now(),
		EntryID:   e.ID,
		Date:      e.Date,
		Earned:    e.Earned,
		user:      user,
	}
}

type subscriber struct {
	user string
	ch   chan Event
}

// hub keeps a bounded ring of recent events and fans new ones out to
// per-user subscribers. Slow subscribers miss events rather than block.
type hub struct {
	mu        sync.RWMutex
	size      int
	nextID    int64
	events    []Event
	nextSubID int
	subs      map[int]subscriber
}

func newHub(size int) *hub {
	return &hub{size: size, subs: make(map[int]subscriber)}
}

func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	ev.ID = h.nextID
	h.events = append(h.events, ev)
	if len(h.events) > h.size {
		h.events = h.events[len(h.events)-h.size:]
	}

	for _, sub := range h.subs {
		if sub.user != ev.user {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// recent returns the buffered events for user, oldest first.
func (h *hub) recent(user string) []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Event, 0)
	for _, ev := range h.events {
		if ev.user == user {
			out = append(out, ev)
		}
	}
	return out
}

func (h *hub) subscribe(user string) (int, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSubID++
	ch := make(chan Event, 16)
	h.subs[h.nextSubID] = subscriber{user: user, ch: ch}
	return h.nextSubID, ch
}

func (h *hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		close(sub.ch)
		delete(h.subs, id)
	}
}

// closeAll ends every open stream.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		close(sub.ch)
		delete(h.subs, id)
	}
}

func (h *hub) counts() (events, subs int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.events), len(h.subs)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Data: s.events.recent(userFrom(r.Context()))})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternal, "streaming unsupported")
		return
	}

	user := userFrom(r.Context())
	st, err := s.ledger.Stats(r.Context(), user)
	if err != nil {
		writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, ch := s.events.subscribe(user)
	defer s.events.unsubscribe(id)

	writeSSE(w, Event{Type: eventSnapshot, Timestamp: time.Now(), Earned: st.Summary.TotalEarned, Summary: &st.Summary})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
