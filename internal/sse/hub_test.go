package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.broadcast)
}

func TestHub_RegisterClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  make(map[uuid.UUID]bool),
		Send:   make(chan []byte, 256),
	}

	hub.Register(client)

	// Wait for registration to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, exists := hub.clients[client.ID]
	hub.mu.RUnlock()

	assert.True(t, exists)
}

func TestHub_UnregisterClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  make(map[uuid.UUID]bool),
		Send:   make(chan []byte, 256),
	}

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, exists := hub.clients[client.ID]
	hub.mu.RUnlock()

	assert.False(t, exists)
}

func TestHub_UnregisterClient_ClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  make(map[uuid.UUID]bool),
		Send:   make(chan []byte, 256),
	}

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	// Send channel should be closed
	_, ok := <-client.Send
	assert.False(t, ok)
}

func TestHub_SubscribeToTrip(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  make(map[uuid.UUID]bool),
		Send:   make(chan []byte, 256),
	}
	tripID := uuid.New()

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.SubscribeToTrip(client.ID, tripID)

	hub.mu.RLock()
	isSubscribed := client.Trips[tripID]
	hub.mu.RUnlock()

	assert.True(t, isSubscribed)
}

func TestHub_UnsubscribeFromTrip(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	tripID := uuid.New()
	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  map[uuid.UUID]bool{tripID: true},
		Send:   make(chan []byte, 256),
	}

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.UnsubscribeFromTrip(client.ID, tripID)

	hub.mu.RLock()
	isSubscribed := client.Trips[tripID]
	hub.mu.RUnlock()

	assert.False(t, isSubscribed)
}

func TestHub_BroadcastCollaboratorJoined_ToSubscribedClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	tripID := uuid.New()
	userID := uuid.New()

	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  map[uuid.UUID]bool{tripID: true},
		Send:   make(chan []byte, 256),
	}

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastCollaboratorJoined(tripID, userID, "Bob", "editor")

	select {
	case msg := <-client.Send:
		var event Event
		err := json.Unmarshal(msg, &event)
		require.NoError(t, err)

		assert.Equal(t, "collaborator_joined", event.Type)

		// Verify event data
		dataBytes, _ := json.Marshal(event.Data)
		var joinedEvent CollaboratorJoinedEvent
		err = json.Unmarshal(dataBytes, &joinedEvent)
		require.NoError(t, err)

		assert.Equal(t, tripID, joinedEvent.TripID)
		assert.Equal(t, userID, joinedEvent.UserID)
		assert.Equal(t, "Bob", joinedEvent.UserName)
		assert.Equal(t, "editor", joinedEvent.Role)

	case <-time.After(100 * time.Millisecond):
		t.Fatal("did not receive message")
	}
}

func TestHub_BroadcastInvitationResolved(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	tripID := uuid.New()
	invitationID := uuid.New()

	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  map[uuid.UUID]bool{tripID: true},
		Send:   make(chan []byte, 256),
	}

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastInvitationResolved(tripID, invitationID, "declined")

	select {
	case msg := <-client.Send:
		var event Event
		err := json.Unmarshal(msg, &event)
		require.NoError(t, err)

		assert.Equal(t, "invitation_resolved", event.Type)

		dataBytes, _ := json.Marshal(event.Data)
		var resolvedEvent InvitationResolvedEvent
		err = json.Unmarshal(dataBytes, &resolvedEvent)
		require.NoError(t, err)

		assert.Equal(t, tripID, resolvedEvent.TripID)
		assert.Equal(t, invitationID, resolvedEvent.InvitationID)
		assert.Equal(t, "declined", resolvedEvent.Status)

	case <-time.After(100 * time.Millisecond):
		t.Fatal("did not receive message")
	}
}

func TestHub_BroadcastTripUpdated_NotToUnsubscribedClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	tripID := uuid.New()
	otherTripID := uuid.New()

	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  map[uuid.UUID]bool{otherTripID: true}, // Subscribed to different trip
		Send:   make(chan []byte, 256),
	}

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastTripUpdated(tripID, uuid.New())

	select {
	case <-client.Send:
		t.Fatal("should not have received message")
	case <-time.After(50 * time.Millisecond):
		// Expected - no message received
	}
}

func TestHub_BroadcastTripUpdated_ToMultipleClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	tripID := uuid.New()

	client1 := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  map[uuid.UUID]bool{tripID: true},
		Send:   make(chan []byte, 256),
	}
	client2 := &Client{
		ID:     "client-2",
		UserID: uuid.New(),
		Trips:  map[uuid.UUID]bool{tripID: true},
		Send:   make(chan []byte, 256),
	}
	client3 := &Client{
		ID:     "client-3",
		UserID: uuid.New(),
		Trips:  map[uuid.UUID]bool{uuid.New(): true}, // Different trip
		Send:   make(chan []byte, 256),
	}

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastTripUpdated(tripID, uuid.New())

	// Client 1 and 2 should receive, client 3 should not
	receivedCount := 0

	select {
	case <-client1.Send:
		receivedCount++
	case <-time.After(50 * time.Millisecond):
	}

	select {
	case <-client2.Send:
		receivedCount++
	case <-time.After(50 * time.Millisecond):
	}

	select {
	case <-client3.Send:
		t.Fatal("client3 should not receive message")
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(t, 2, receivedCount)
}

func TestHub_Broadcast_FullBufferDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	tripID := uuid.New()

	// Create client with small buffer
	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  map[uuid.UUID]bool{tripID: true},
		Send:   make(chan []byte, 1), // Very small buffer
	}

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	// Fill the buffer
	client.Send <- []byte("fill")

	// This should not panic - message should be dropped
	hub.BroadcastTripUpdated(tripID, uuid.New())
	time.Sleep(10 * time.Millisecond)

	// Drain the buffer
	<-client.Send

	// Should not receive the dropped message
	select {
	case <-client.Send:
		t.Fatal("should not receive dropped message")
	case <-time.After(50 * time.Millisecond):
		// Expected
	}
}

func TestHub_SubscribeToTrip_NonexistentClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	// Should not panic when client doesn't exist
	hub.SubscribeToTrip("nonexistent", uuid.New())
}

func TestHub_UnsubscribeFromTrip_NonexistentClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	// Should not panic when client doesn't exist
	hub.UnsubscribeFromTrip("nonexistent", uuid.New())
}

func TestHub_UnregisterNonexistentClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		ID:     "nonexistent",
		UserID: uuid.New(),
		Trips:  make(map[uuid.UUID]bool),
		Send:   make(chan []byte, 256),
	}

	// Should not panic
	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)
}

func TestHub_MultipleTripSubscriptions(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	trip1 := uuid.New()
	trip2 := uuid.New()

	client := &Client{
		ID:     "client-1",
		UserID: uuid.New(),
		Trips:  make(map[uuid.UUID]bool),
		Send:   make(chan []byte, 256),
	}

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.SubscribeToTrip(client.ID, trip1)
	hub.SubscribeToTrip(client.ID, trip2)

	hub.mu.RLock()
	assert.True(t, client.Trips[trip1])
	assert.True(t, client.Trips[trip2])
	hub.mu.RUnlock()
}
