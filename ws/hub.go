package ws

// The hub keeps every connected display/terminal client and fans out queue
// transition events to all of them. Delivery is fire-and-forget: a slow
// client is dropped rather than blocking the broadcast.

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var HubInstance = NewHub()

func init() {
	go HubInstance.Run()
}

// Client is one WebSocket connection.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub manages all connected clients.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
			log.Debug().Msg("ws client registered")
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				log.Debug().Msg("ws client unregistered")
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}

// QueueEvent is the payload broadcast on every queue entry transition.
type QueueEvent struct {
	QueueEntryID int64  `json:"queue_entry_id"`
	StationID    int    `json:"station_id"`
	Status       string `json:"status"`
	QueueCode    string `json:"queue_code,omitempty"`
}

// BroadcastQueueEvent publishes a transition to all connected clients.
// Marshal errors are logged and swallowed; notification must never fail the
// operation that triggered it.
func BroadcastQueueEvent(entryID int64, stationID int, status, queueCode string) {
	payload, err := json.Marshal(QueueEvent{
		QueueEntryID: entryID,
		StationID:    stationID,
		Status:       status,
		QueueCode:    queueCode,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal queue event")
		return
	}
	HubInstance.Broadcast <- payload
}
