package session

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DefaultOutboxSize is the number of frames queued per subscriber before new
// frames are dropped.
const DefaultOutboxSize = 256

// Subscriber is one connected client. Frames queued for it arrive on Outbox
// in the order they were produced; the channel is closed on removal.
type Subscriber struct {
	ID     string
	UserID string
	out    chan []byte
}

func (s *Subscriber) Outbox() <-chan []byte {
	return s.out
}

// Hub fans encoded frames out to subscribers without ever blocking the
// sender. A subscriber whose outbox is full misses the frame and has to
// resync with getInitialData.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]*Subscriber
	size   int
	logger *log.Entry
}

func NewHub(size int, logger *log.Entry) *Hub {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	if logger == nil {
		logger = log.WithField("component", "hub")
	}
	return &Hub{subs: make(map[string]*Subscriber), size: size, logger: logger}
}

func (h *Hub) Add(userID string) *Subscriber {
	sub := &Subscriber{ID: uuid.NewString(), UserID: userID, out: make(chan []byte, h.size)}
	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()
	return sub
}

// Remove detaches the subscriber and closes its outbox. It reports false if
// the subscriber was already gone.
func (h *Hub) Remove(sub *Subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.ID]; !ok {
		return false
	}
	delete(h.subs, sub.ID)
	close(sub.out)
	return true
}

// RemoveAll detaches every subscriber.
func (h *Hub) RemoveAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.out)
	}
}

// Send queues a frame for one subscriber.
func (h *Hub) Send(sub *Subscriber, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.ID]; ok {
		h.enqueue(sub, frame)
	}
}

// Broadcast queues a frame for every subscriber except the given one, which
// may be nil.
func (h *Hub) Broadcast(frame []byte, except *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		if except != nil && sub.ID == except.ID {
			continue
		}
		h.enqueue(sub, frame)
	}
}

func (h *Hub) enqueue(sub *Subscriber, frame []byte) {
	select {
	case sub.out <- frame:
	default:
		h.logger.WithFields(log.Fields{"subscriber": sub.ID, "user": sub.UserID}).Warn("outbox full, dropping frame")
	}
}
