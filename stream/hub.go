// Package stream fans live pipeline output (driving events, guidance
// checkpoints, trip lifecycle) out to websocket subscribers. It also serves
// as the feedback sink: clients render haptic/audio cues from the same
// messages.
package stream

import (
	"encoding/json"
	"sync"
)

// Hub broadcasts pipeline messages to all connected clients. Slow clients
// are skipped, never waited on: the sample-processing path must not block.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// Client is one websocket subscriber.
type Client struct {
	Send chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: map[*Client]struct{}{}}
}

// Register adds a subscriber and returns its client handle.
func (h *Hub) Register() *Client {
	client := &Client{Send: make(chan []byte, 64)}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	return client
}

// Unregister removes a subscriber and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// Broadcast sends a payload to every subscriber that can take it now.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// Message is the envelope every broadcast uses.
type Message struct {
	Kind string `json:"kind"`
	Data any    `json:"data,omitempty"`
}

// Publish marshals and broadcasts one message. Marshal failures are dropped;
// there is no caller that could handle them mid-tick.
func (h *Hub) Publish(kind string, data any) {
	payload, err := json.Marshal(Message{Kind: kind, Data: data})
	if err != nil {
		return
	}
	h.Broadcast(payload)
}

// ViolationFeedback implements the feedback sink for violation events.
func (h *Hub) ViolationFeedback(eventType string) {
	h.Publish("feedback.violation", eventType)
}

// GuidanceFeedback implements the feedback sink for guidance checkpoints.
func (h *Hub) GuidanceFeedback(phase string) {
	h.Publish("feedback.guidance", phase)
}
