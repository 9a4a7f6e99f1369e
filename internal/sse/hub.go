package sse

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type CollaboratorJoinedEvent struct {
	TripID   uuid.UUID `json:"trip_id"`
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
	Role     string    `json:"role"`
}

type InvitationResolvedEvent struct {
	TripID       uuid.UUID `json:"trip_id"`
	InvitationID uuid.UUID `json:"invitation_id"`
	Status       string    `json:"status"`
}

type TripUpdatedEvent struct {
	TripID    uuid.UUID `json:"trip_id"`
	UpdatedBy uuid.UUID `json:"updated_by"`
}

type Client struct {
	ID     string
	UserID uuid.UUID
	Trips  map[uuid.UUID]bool
	Send   chan []byte
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *TripMessage
	mu         sync.RWMutex
}

type TripMessage struct {
	TripID uuid.UUID
	Event  Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *TripMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Event)
			for _, client := range h.clients {
				if client.Trips[msg.TripID] {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) SubscribeToTrip(clientID string, tripID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		client.Trips[tripID] = true
	}
}

func (h *Hub) UnsubscribeFromTrip(clientID string, tripID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Trips, tripID)
	}
}

func (h *Hub) BroadcastCollaboratorJoined(tripID, userID uuid.UUID, userName, role string) {
	h.broadcast <- &TripMessage{
		TripID: tripID,
		Event: Event{
			Type: "collaborator_joined",
			Data: CollaboratorJoinedEvent{
				TripID:   tripID,
				UserID:   userID,
				UserName: userName,
				Role:     role,
			},
		},
	}
}

func (h *Hub) BroadcastInvitationResolved(tripID, invitationID uuid.UUID, status string) {
	h.broadcast <- &TripMessage{
		TripID: tripID,
		Event: Event{
			Type: "invitation_resolved",
			Data: InvitationResolvedEvent{
				TripID:       tripID,
				InvitationID: invitationID,
				Status:       status,
			},
		},
	}
}

func (h *Hub) BroadcastTripUpdated(tripID, updatedBy uuid.UUID) {
	h.broadcast <- &TripMessage{
		TripID: tripID,
		Event: Event{
			Type: "trip_updated",
			Data: TripUpdatedEvent{
				TripID:    tripID,
				UpdatedBy: updatedBy,
			},
		},
	}
}
