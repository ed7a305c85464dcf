// Package ws streams booking lifecycle events to connected admin consoles,
// replacing the polling loop the web dashboard would otherwise run.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// Event is a booking lifecycle notification pushed to admin consoles.
type Event struct {
	Type      string                 `json:"type"`
	BookingID string                 `json:"booking_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingFailed    = "booking_failed"
)

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// PublishBookingEvent fans a booking event out to every connected console.
// Safe to call from any goroutine; drops the event if the hub is saturated
// rather than blocking the booking flow.
func (h *Hub) PublishBookingEvent(eventType string, bookingID primitive.ObjectID, data map[string]interface{}) {
	event := Event{
		Type:      eventType,
		BookingID: bookingID.Hex(),
		Timestamp: time.Now().Unix(),
		Data:      data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true

	welcome, _ := json.Marshal(Event{
		Type:      "welcome",
		Timestamp: time.Now().Unix(),
	})
	select {
	case client.send <- welcome:
	default:
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) broadcastMessage(message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Slow consumer; drop the frame instead of stalling the hub.
		}
	}
}
