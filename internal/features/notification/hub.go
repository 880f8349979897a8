package notification

import (
	"sync"

	"go.uber.org/zap"
)

// Publisher pushes a stored notification to live clients of the recipient.
type Publisher interface {
	Publish(userID string, n Notification)
}

// JSONWriter is the part of a websocket connection the hub needs.
type JSONWriter interface {
	WriteJSON(v interface{}) error
}

// Hub keeps the open websocket connections per staff member.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]map[JSONWriter]*sync.Mutex
	logger *zap.Logger
}

// A websocket connection supports one concurrent writer; each conn carries its own write lock.
type target struct {
	conn JSONWriter
	mu   *sync.Mutex
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]map[JSONWriter]*sync.Mutex),
		logger: logger,
	}
}

func (h *Hub) Register(userID string, conn JSONWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[JSONWriter]*sync.Mutex)
	}
	if _, ok := h.conns[userID][conn]; !ok {
		h.conns[userID][conn] = &sync.Mutex{}
	}
}

func (h *Hub) Unregister(userID string, conn JSONWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// Publish is best effort; a failed write drops that connection.
func (h *Hub) Publish(userID string, n Notification) {
	h.mu.RLock()
	targets := make([]target, 0, len(h.conns[userID]))
	for c, mu := range h.conns[userID] {
		targets = append(targets, target{conn: c, mu: mu})
	}
	h.mu.RUnlock()

	for _, t := range targets {
		t.mu.Lock()
		err := t.conn.WriteJSON(n)
		t.mu.Unlock()
		if err != nil {
			h.logger.Debug("dropping websocket connection", zap.String("user_id", userID), zap.Error(err))
			h.Unregister(userID, t.conn)
		}
	}
}
