// Package sse streams server-sent events to browser clients.
package sse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mudler/xlog"
	"github.com/valyala/fasthttp"
)

type (
	// Listener is the receiving end of a stream.
	Listener interface {
		ID() string
		Chan() chan Envelope
	}

	// Envelope is anything that can be written to the wire as an event.
	Envelope interface {
		String() string
	}

	Manager interface {
		Send(message Envelope)
		Publish(event string, data any)
		Handle(ctx *fiber.Ctx, cl Listener)
		Clients() []string
	}
)

type Client struct {
	id string
	ch chan Envelope
}

func NewClient(id string) Listener {
	return &Client{
		id: id,
		ch: make(chan Envelope, 50),
	}
}

func (c *Client) ID() string          { return c.id }
func (c *Client) Chan() chan Envelope { return c.ch }

type Message struct {
	Event string
	Time  time.Time
	Data  string
}

func NewMessage(data string) *Message {
	return &Message{
		Data: data,
		Time: time.Now(),
	}
}

func (m *Message) String() string {
	sb := strings.Builder{}

	if m.Event != "" {
		fmt.Fprintf(&sb, "event: %s\n", m.Event)
	}
	for _, line := range strings.Split(m.Data, "\n") {
		fmt.Fprintf(&sb, "data: %s\n", line)
	}
	sb.WriteString("\n")

	return sb.String()
}

func (m *Message) WithEvent(event string) Envelope {
	m.Event = event
	return m
}

type broadcastManager struct {
	clients        sync.Map
	broadcast      chan Envelope
	workerPoolSize int
	history        *history
}

// NewManager starts workerPoolSize broadcast workers. New clients receive
// the last historySize messages on connect.
func NewManager(workerPoolSize, historySize int) Manager {
	manager := &broadcastManager{
		broadcast:      make(chan Envelope),
		workerPoolSize: workerPoolSize,
		history:        newHistory(historySize),
	}

	manager.startWorkers()

	return manager
}

func (manager *broadcastManager) Send(message Envelope) {
	manager.broadcast <- message
}

// Publish JSON-encodes data and broadcasts it under the event name.
func (manager *broadcastManager) Publish(event string, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		xlog.Error("Failed to encode event", "event", event, "error", err)
		return
	}
	manager.Send(NewMessage(string(b)).WithEvent(event))
}

func (manager *broadcastManager) Handle(c *fiber.Ctx, cl Listener) {
	manager.register(cl)
	ctx := c.Context()

	ctx.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")
	ctx.Response.Header.Set("X-Accel-Buffering", "no")

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			manager.unregister(cl.ID())
			close(cl.Chan())
		})
	}

	ctx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cleanup()

		fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
		for _, msg := range manager.history.Snapshot() {
			fmt.Fprint(w, msg.String())
		}
		if err := w.Flush(); err != nil {
			return
		}

		keepAlive := time.NewTicker(15 * time.Second)
		defer keepAlive.Stop()

		for {
			select {
			case msg, ok := <-cl.Chan():
				if !ok {
					return
				}
				if _, err := fmt.Fprint(w, msg.String()); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAlive.C:
				// a failed flush is how a gone client shows up
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
}

func (manager *broadcastManager) Clients() []string {
	var clients []string
	manager.clients.Range(func(key, value any) bool {
		if id, ok := key.(string); ok {
			clients = append(clients, id)
		}
		return true
	})
	return clients
}

func (manager *broadcastManager) startWorkers() {
	for i := 0; i < manager.workerPoolSize; i++ {
		go func() {
			for message := range manager.broadcast {
				manager.history.Add(message)
				manager.clients.Range(func(key, value any) bool {
					client, ok := value.(Listener)
					if !ok {
						return true
					}
					select {
					case client.Chan() <- message:
					default:
						// slow client, drop
					}
					return true
				})
			}
		}()
	}
}

func (manager *broadcastManager) register(client Listener) {
	manager.clients.Store(client.ID(), client)
}

func (manager *broadcastManager) unregister(clientID string) {
	manager.clients.Delete(clientID)
}

type history struct {
	mu       sync.Mutex
	messages []Envelope
	maxSize  int
}

func newHistory(maxSize int) *history {
	return &history{maxSize: maxSize}
}

func (h *history) Add(message Envelope) {
	if h.maxSize <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, message)
	if len(h.messages) > h.maxSize {
		h.messages = h.messages[len(h.messages)-h.maxSize:]
	}
}

func (h *history) Snapshot() []Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Envelope(nil), h.messages...)
}
