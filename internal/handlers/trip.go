package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/wayfarer-app/wayfarer-api/internal/middleware"
	"github.com/wayfarer-app/wayfarer-api/internal/models"
	"github.com/wayfarer-app/wayfarer-api/internal/services"
	"github.com/wayfarer-app/wayfarer-api/pkg/dto"
)

type TripHandler struct {
	tripService       TripServiceInterface
	invitationService InvitationServiceInterface
	userService       UserServiceInterface
	emailService      EmailServiceInterface
	hub               HubInterface
	baseURL           string
}

func NewTripHandler(
	tripService TripServiceInterface,
	invitationService InvitationServiceInterface,
	userService UserServiceInterface,
	emailService EmailServiceInterface,
	hub HubInterface,
	baseURL string,
) *TripHandler {
	return &TripHandler{
		tripService:       tripService,
		invitationService: invitationService,
		userService:       userService,
		emailService:      emailService,
		hub:               hub,
		baseURL:           baseURL,
	}
}

func tripResponse(trip *models.Trip, role string) dto.TripResponse {
	resp := dto.TripResponse{
		ID:           trip.ID,
		Name:         trip.Name,
		Description:  trip.Description,
		Destinations: trip.Destinations,
		StartDate:    trip.StartDate,
		EndDate:      trip.EndDate,
		Privacy:      trip.Privacy,
		OwnerID:      trip.OwnerID,
		Role:         role,
	}
	if trip.Owner != nil {
		resp.Owner = &dto.UserResponse{
			ID:          trip.Owner.ID,
			Email:       trip.Owner.Email,
			Name:        trip.Owner.Name,
			AvatarURL:   trip.Owner.AvatarURL,
			Provider:    trip.Owner.Provider,
			AccountRole: trip.Owner.AccountRole,
			AgencyName:  trip.Owner.AgencyName,
		}
	}
	return resp
}

// Create makes the trip and, when collaborators are attached, inserts their
// invitations as a batch and dispatches emails one by one. The rows always
// survive; only the delivery counts vary.
func (h *TripHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateTripRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}
	if req.Privacy != "" && req.Privacy != models.PrivacyPrivate && req.Privacy != models.PrivacyPublic {
		c.BadRequest("privacy must be private or public")
		return
	}
	for _, col := range req.Collaborators {
		if col.Email == "" {
			c.BadRequest("collaborator email is required")
			return
		}
		if !models.ValidCollaboratorRole(col.Role) {
			c.BadRequest("collaborator role must be admin, editor or viewer")
			return
		}
	}

	ctx := context.Background()

	trip, err := h.tripService.Create(ctx, userID, services.NewTrip{
		Name:         req.Name,
		Description:  req.Description,
		Destinations: req.Destinations,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Privacy:      req.Privacy,
	})
	if err != nil {
		c.InternalServerError("failed to create trip")
		return
	}

	resp := dto.CreateTripResponse{Trip: tripResponse(trip, "owner")}

	if len(req.Collaborators) > 0 {
		invites := make([]services.NewInvite, len(req.Collaborators))
		for i, col := range req.Collaborators {
			invites[i] = services.NewInvite{Email: col.Email, Role: col.Role, Message: col.Message}
		}

		created, err := h.invitationService.CreateBatch(ctx, trip.ID, userID, invites)
		if err != nil {
			c.InternalServerError("trip created but invitations failed")
			return
		}

		inviter, _ := h.userService.GetByID(ctx, userID)
		inviterName := "Someone"
		if inviter != nil {
			inviterName = inviter.Name
		}

		for _, inv := range created {
			if err := h.dispatchInvitation(&inv, inviterName, trip.Name); err != nil {
				log.Printf("invitation email to %s failed: %v", inv.InviteeEmail, err)
				resp.EmailsFailed++
			} else {
				resp.EmailsSent++
			}
		}
	}

	_ = c.JSON(201, resp)
}

func (h *TripHandler) dispatchInvitation(inv *models.Invitation, inviterName, tripName string) error {
	inviteURL := fmt.Sprintf("%s/invitations/%s", h.baseURL, inv.ID)
	return h.emailService.SendInvitation(inv.InviteeEmail, inviterName, tripName, inv.Role, inv.Message, inviteURL)
}

func (h *TripHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	trips, roles, err := h.tripService.GetUserTrips(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get trips")
		return
	}

	response := make([]dto.TripResponse, len(trips))
	for i := range trips {
		response[i] = tripResponse(&trips[i], roles[i])
	}

	_ = c.JSON(200, response)
}

func (h *TripHandler) ListPublic(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	trips, err := h.tripService.ListPublic(context.Background())
	if err != nil {
		c.InternalServerError("failed to get public trips")
		return
	}

	response := make([]dto.TripResponse, len(trips))
	for i := range trips {
		response[i] = tripResponse(&trips[i], "")
	}

	_ = c.JSON(200, response)
}

func (h *TripHandler) Get(c *drift.Context) {
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

	trip, err := h.tripService.GetByID(ctx, tripID)
	if err != nil {
		c.NotFound("trip not found")
		return
	}

	role := ""
	if trip.OwnerID == userID {
		role = "owner"
	}

	_ = c.JSON(200, tripResponse(trip, role))
}

func (h *TripHandler) Update(c *drift.Context) {
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

	isOwner, err := h.tripService.IsOwner(ctx, tripID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only the owner can update a trip")
		return
	}

	var req dto.UpdateTripRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Privacy != nil && *req.Privacy != models.PrivacyPrivate && *req.Privacy != models.PrivacyPublic {
		c.BadRequest("privacy must be private or public")
		return
	}

	trip, err := h.tripService.Update(ctx, tripID, services.TripUpdate{
		Name:         req.Name,
		Description:  req.Description,
		Destinations: req.Destinations,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Privacy:      req.Privacy,
	})
	if err != nil {
		c.InternalServerError("failed to update trip")
		return
	}

	h.hub.BroadcastTripUpdated(tripID, userID)

	_ = c.JSON(200, tripResponse(trip, "owner"))
}

func (h *TripHandler) Delete(c *drift.Context) {
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

	isOwner, err := h.tripService.IsOwner(ctx, tripID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only the owner can delete a trip")
		return
	}

	if err := h.tripService.Delete(ctx, tripID); err != nil {
		c.InternalServerError("failed to delete trip")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "trip deleted"})
}

func (h *TripHandler) GetCollaborators(c *drift.Context) {
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

	collaborators, err := h.tripService.GetCollaborators(ctx, tripID)
	if err != nil {
		c.InternalServerError("failed to get collaborators")
		return
	}

	response := make([]dto.CollaboratorResponse, len(collaborators))
	for i, col := range collaborators {
		response[i] = dto.CollaboratorResponse{
			ID:      col.ID,
			TripID:  col.TripID,
			UserID:  col.UserID,
			Role:    col.Role,
			AddedBy: col.AddedBy,
			User: dto.UserResponse{
				ID:          col.User.ID,
				Email:       col.User.Email,
				Name:        col.User.Name,
				AvatarURL:   col.User.AvatarURL,
				Provider:    col.User.Provider,
				AccountRole: col.User.AccountRole,
				AgencyName:  col.User.AgencyName,
			},
		}
	}

	_ = c.JSON(200, response)
}

func (h *TripHandler) RemoveCollaborator(c *drift.Context) {
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

	collaboratorID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	ctx := context.Background()

	canAdmin, err := h.tripService.CanAdminister(ctx, tripID, userID)
	if err != nil || !canAdmin {
		c.Forbidden("not allowed to manage collaborators on this trip")
		return
	}

	if err := h.tripService.RemoveCollaborator(ctx, tripID, collaboratorID); err != nil {
		if errors.Is(err, services.ErrCollaboratorNotFound) {
			c.NotFound("collaborator not found")
			return
		}
		c.InternalServerError("failed to remove collaborator")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "collaborator removed"})
}
