package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/wayfarer-app/wayfarer-api/internal/middleware"
	"github.com/wayfarer-app/wayfarer-api/internal/sse"
)

type SSEHandler struct {
	hub         *sse.Hub
	tripService TripServiceInterface
}

func NewSSEHandler(hub *sse.Hub, tripService TripServiceInterface) *SSEHandler {
	return &SSEHandler{
		hub:         hub,
		tripService: tripService,
	}
}

func (h *SSEHandler) Connect(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.BadRequest("invalid trip id")
		return
	}

	ctx := context.Background()

	canView, err := h.tripService.CanView(ctx, tripID, userID)
	if err != nil || !canView {
		c.NotFound("trip not found")
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:     clientID,
		UserID: userID,
		Trips:  map[uuid.UUID]bool{tripID: true},
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *SSEHandler) Subscribe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.BadRequest("invalid trip id")
		return
	}

	ctx := context.Background()

	canView, err := h.tripService.CanView(ctx, tripID, userID)
	if err != nil || !canView {
		c.NotFound("trip not found")
		return
	}

	h.hub.SubscribeToTrip(clientID, tripID)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("subscribed to trip %s", tripID),
	})
}

func (h *SSEHandler) Unsubscribe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client_id is required")
		return
	}

	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		c.BadRequest("invalid trip id")
		return
	}

	h.hub.UnsubscribeFromTrip(clientID, tripID)

	_ = c.JSON(200, map[string]string{
		"message": fmt.Sprintf("unsubscribed from trip %s", tripID),
	})
}
