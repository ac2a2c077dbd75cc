package http

import (
	"context"
	"errors"
	"sync"

	"ent-bot/internal/domain"
)

var (
	ErrNotConnected = errors.New("web client not connected")
	errClientClosed = errors.New("web client closed")
)

type messagePayload struct {
	MessageID int             `json:"messageId"`
	Text      string          `json:"text"`
	Buttons   domain.Keyboard `json:"buttons,omitempty"`
}

// client is one live websocket. Frames queue on send until the writer goroutine picks them up.
type client struct {
	send chan outboundMessage[any]
	done chan struct{}
	once sync.Once

	mu     sync.Mutex
	lastID int
	nextID int
}

func newClient() *client {
	return &client{send: make(chan outboundMessage[any], 16), done: make(chan struct{})}
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

func (c *client) push(ctx context.Context, msg outboundMessage[any]) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return errClientClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// allocate hands out the id for a new message and remembers it as the one answers refer to.
func (c *client) allocate() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.lastID = c.nextID
	return c.lastID
}

func (c *client) last() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastID
}

// Hub routes rendered messages to the websocket of the user they address.
// A user has at most one live socket; a newer connection takes over.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*client)}
}

func (h *Hub) attach(userID int64) *client {
	c := newClient()
	h.mu.Lock()
	old := h.clients[userID]
	h.clients[userID] = c
	h.mu.Unlock()
	if old != nil {
		old.stop()
	}
	return c
}

func (h *Hub) detach(userID int64, c *client) {
	h.mu.Lock()
	if h.clients[userID] == c {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	c.stop()
}

func (h *Hub) client(userID int64) *client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[userID]
}

func (h *Hub) Send(ctx context.Context, chatID int64, text string, kb domain.Keyboard) (int, error) {
	c := h.client(chatID)
	if c == nil {
		return 0, ErrNotConnected
	}
	id := c.allocate()
	err := c.push(ctx, outboundMessage[any]{Type: "message", Payload: messagePayload{MessageID: id, Text: text, Buttons: kb}})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (h *Hub) Edit(ctx context.Context, chatID int64, messageID int, text string, kb domain.Keyboard) error {
	c := h.client(chatID)
	if c == nil {
		return ErrNotConnected
	}
	return c.push(ctx, outboundMessage[any]{Type: "edit", Payload: messagePayload{MessageID: messageID, Text: text, Buttons: kb}})
}
