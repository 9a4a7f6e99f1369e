package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wayfarer-app/wayfarer-api/internal/middleware"
	"github.com/wayfarer-app/wayfarer-api/internal/services"
	"github.com/wayfarer-app/wayfarer-api/internal/sse"
	"github.com/wayfarer-app/wayfarer-api/tests/testutil"
)

func setupSSETest(t *testing.T) (*sse.Hub, *testutil.MockTripService, *SSEHandler, *services.JWTService) {
	t.Helper()
	hub := sse.NewHub()
	go hub.Run()
	mockTripService := new(testutil.MockTripService)
	handler := NewSSEHandler(hub, mockTripService)
	jwtSvc := newTestJWTService()
	return hub, mockTripService, handler, jwtSvc
}

// registerTestClient puts a client straight into the hub so subscribe calls
// have something to act on, the way Connect would have.
func registerTestClient(t *testing.T, hub *sse.Hub, userID uuid.UUID) *sse.Client {
	t.Helper()
	client := &sse.Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Trips:  make(map[uuid.UUID]bool),
		Send:   make(chan []byte, 256),
	}
	hub.Register(client)
	return client
}

func receiveEvent(t *testing.T, client *sse.Client) []byte {
	t.Helper()
	select {
	case msg := <-client.Send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

// Subscribe tests

func TestSSEHandler_Subscribe_Success(t *testing.T) {
	hub, mockTripService, handler, jwtSvc := setupSSETest(t)

	userID := uuid.New()
	email := "test@example.com"
	tripID := uuid.New()
	client := registerTestClient(t, hub, userID)

	mockTripService.On("CanView", mock.Anything, tripID, userID).Return(true, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/sse/:clientId/subscribe/:tripId", handler.Subscribe)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/sse/"+client.ID+"/subscribe/"+tripID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "subscribed to trip")

	// The subscription is live: trip events now reach the client
	hub.BroadcastTripUpdated(tripID, userID)
	event := receiveEvent(t, client)
	assert.Contains(t, string(event), "trip_updated")
	assert.Contains(t, string(event), tripID.String())

	mockTripService.AssertExpectations(t)
}

func TestSSEHandler_Subscribe_NotAuthenticated(t *testing.T) {
	_, _, handler, jwtSvc := setupSSETest(t)

	tripID := uuid.New()
	clientID := uuid.New().String()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/sse/:clientId/subscribe/:tripId", handler.Subscribe)

	req := httptest.NewRequest(http.MethodPost, "/sse/"+clientID+"/subscribe/"+tripID.String(), nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSSEHandler_Subscribe_InvalidTripID(t *testing.T) {
	_, _, handler, jwtSvc := setupSSETest(t)

	userID := uuid.New()
	email := "test@example.com"
	clientID := uuid.New().String()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/sse/:clientId/subscribe/:tripId", handler.Subscribe)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/sse/"+clientID+"/subscribe/invalid-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid trip id")
}

func TestSSEHandler_Subscribe_TripNotViewable(t *testing.T) {
	_, mockTripService, handler, jwtSvc := setupSSETest(t)

	userID := uuid.New()
	email := "test@example.com"
	tripID := uuid.New()
	clientID := uuid.New().String()

	mockTripService.On("CanView", mock.Anything, tripID, userID).Return(false, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/sse/:clientId/subscribe/:tripId", handler.Subscribe)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/sse/"+clientID+"/subscribe/"+tripID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	// Hidden trips look like missing trips
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "trip not found")

	mockTripService.AssertExpectations(t)
}

// Unsubscribe tests

func TestSSEHandler_Unsubscribe_Success(t *testing.T) {
	hub, mockTripService, handler, jwtSvc := setupSSETest(t)

	userID := uuid.New()
	email := "test@example.com"
	tripID := uuid.New()
	client := registerTestClient(t, hub, userID)
	hub.SubscribeToTrip(client.ID, tripID)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/sse/:clientId/unsubscribe/:tripId", handler.Unsubscribe)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/sse/"+client.ID+"/unsubscribe/"+tripID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsubscribed from trip")

	// Events for the trip no longer reach the client
	hub.BroadcastTripUpdated(tripID, userID)
	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected event after unsubscribe: %s", msg)
	case <-time.After(200 * time.Millisecond):
	}

	mockTripService.AssertExpectations(t)
}

func TestSSEHandler_Unsubscribe_NotAuthenticated(t *testing.T) {
	_, _, handler, jwtSvc := setupSSETest(t)

	tripID := uuid.New()
	clientID := uuid.New().String()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/sse/:clientId/unsubscribe/:tripId", handler.Unsubscribe)

	req := httptest.NewRequest(http.MethodPost, "/sse/"+clientID+"/unsubscribe/"+tripID.String(), nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSSEHandler_Unsubscribe_InvalidTripID(t *testing.T) {
	_, _, handler, jwtSvc := setupSSETest(t)

	userID := uuid.New()
	email := "test@example.com"
	clientID := uuid.New().String()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/sse/:clientId/unsubscribe/:tripId", handler.Unsubscribe)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/sse/"+clientID+"/unsubscribe/invalid-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid trip id")
}

// Connect tests cover the validation that runs before the stream starts.
// The streaming loop itself needs a long-lived connection and is exercised
// against a live server.

func TestSSEHandler_Connect_NotAuthenticated(t *testing.T) {
	_, _, handler, jwtSvc := setupSSETest(t)

	tripID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/trips/:tripId/events", handler.Connect)

	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/events", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSSEHandler_Connect_InvalidTripID(t *testing.T) {
	_, _, handler, jwtSvc := setupSSETest(t)

	userID := uuid.New()
	email := "test@example.com"

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/trips/:tripId/events", handler.Connect)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodGet, "/trips/invalid-uuid/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid trip id")
}

func TestSSEHandler_Connect_TripNotViewable(t *testing.T) {
	_, mockTripService, handler, jwtSvc := setupSSETest(t)

	userID := uuid.New()
	email := "test@example.com"
	tripID := uuid.New()

	mockTripService.On("CanView", mock.Anything, tripID, userID).Return(false, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/trips/:tripId/events", handler.Connect)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "trip not found")

	mockTripService.AssertExpectations(t)
}
