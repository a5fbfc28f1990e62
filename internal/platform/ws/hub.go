// Package ws pushes live events (chat messages, request status changes,
// emergency broadcasts) to connected dashboard and portal clients. It is a
// hub-and-spoke fanout: clients subscribe to topics, services publish to
// topics. A hospital session may only hold its own topic; admin sessions may
// hold any.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Topic names.
const (
	TopicAdmin       = "admin"
	TopicEmergencies = "emergencies"
)

// HospitalTopic returns the per-hospital topic name.
func HospitalTopic(hospitalID uuid.UUID) string {
	return "hospital:" + hospitalID.String()
}

// Event is a single push notification.
type Event struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds an Event, marshalling payload into Data. A payload that
// cannot be marshalled yields an event without data rather than an error;
// push notifications are best-effort.
func NewEvent(eventType, topic string, payload interface{}) Event {
	evt := Event{Type: eventType, Topic: topic, Timestamp: time.Now()}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			evt.Data = data
		}
	}
	return evt
}

// Publisher is the interface services use to emit events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards events; used in tests and the seed command.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Client represents a single connected websocket peer.
type Client struct {
	ID     string
	Topics []string
	Send   chan []byte
}

// Hub tracks clients and their topic subscriptions. All operations are
// safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // topic -> subscribers
	all     map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
	}
}

// Register adds a client and subscribes it to its initial topics.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}
	for _, topic := range client.Topics {
		if h.clients[topic] == nil {
			h.clients[topic] = make(map[*Client]struct{})
		}
		h.clients[topic][client] = struct{}{}
	}
}

// Unregister removes a client from all subscriptions and closes its Send
// channel. Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}

	for _, topic := range client.Topics {
		if subscribers, ok := h.clients[topic]; ok {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.clients, topic)
			}
		}
	}

	delete(h.all, client)
	close(client.Send)
}

// Broadcast sends an event to every client subscribed to its topic. Clients
// with a full buffer are skipped rather than blocked on.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[event.Topic] {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// Publish implements Publisher.
func (h *Hub) Publish(_ context.Context, event Event) error {
	h.Broadcast(event)
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// TopicCount returns the number of clients subscribed to a topic.
func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
