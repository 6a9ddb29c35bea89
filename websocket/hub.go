package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
	EventMeetingStatusChanged = "meeting_status_changed"
)

// Event is a booking lifecycle notification fanned out to the two parties
// of a session. Recipients is addressing metadata, never serialized.
type Event struct {
	Type          string      `json:"type"`
	BookingID     uuid.UUID   `json:"booking_id"`
	Status        string      `json:"status,omitempty"`
	MeetingStatus string      `json:"meeting_status,omitempty"`
	Message       string      `json:"message,omitempty"`
	Recipients    []uuid.UUID `json:"-"`
}

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)

// Broadcast is buffered so handlers never block on a slow hub.
var Broadcast = make(chan *Event, 64)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			deliver(event)
		}
	}
}

func deliver(event *Event) {
	var dead []uuid.UUID

	clientsMu.RLock()
	for _, recipientID := range event.Recipients {
		conn, ok := clients[recipientID]
		if !ok {
			continue
		}
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("Error sending %s event to client %s: %v", event.Type, recipientID, err)
			conn.Close()
			dead = append(dead, recipientID)
		}
	}
	clientsMu.RUnlock()

	if len(dead) > 0 {
		clientsMu.Lock()
		for _, id := range dead {
			delete(clients, id)
		}
		clientsMu.Unlock()
	}
}
