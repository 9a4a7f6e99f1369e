package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/wayfarer-app/wayfarer-api/internal/middleware"
	"github.com/wayfarer-app/wayfarer-api/internal/models"
	"github.com/wayfarer-app/wayfarer-api/internal/services"
	"github.com/wayfarer-app/wayfarer-api/pkg/dto"
)

type InvitationHandler struct {
	invitationService InvitationServiceInterface
	tripService       TripServiceInterface
	userService       UserServiceInterface
	emailService      EmailServiceInterface
	hub               HubInterface
	baseURL           string
}

func NewInvitationHandler(
	invitationService InvitationServiceInterface,
	tripService TripServiceInterface,
	userService UserServiceInterface,
	emailService EmailServiceInterface,
	hub HubInterface,
	baseURL string,
) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		tripService:       tripService,
		userService:       userService,
		emailService:      emailService,
		hub:               hub,
		baseURL:           baseURL,
	}
}

func invitationResponse(inv *models.Invitation) dto.InvitationResponse {
	resp := dto.InvitationResponse{
		ID:           inv.ID,
		TripID:       inv.TripID,
		InviterID:    inv.InviterID,
		InviteeEmail: inv.InviteeEmail,
		InviteeID:    inv.InviteeID,
		Role:         inv.Role,
		Status:       inv.Status,
		Message:      inv.Message,
		CreatedAt:    inv.CreatedAt,
	}
	if inv.Trip != nil {
		trip := tripResponse(inv.Trip, "")
		resp.Trip = &trip
	}
	if inv.Inviter != nil {
		resp.Inviter = &dto.UserResponse{
			ID:          inv.Inviter.ID,
			Email:       inv.Inviter.Email,
			Name:        inv.Inviter.Name,
			AvatarURL:   inv.Inviter.AvatarURL,
			Provider:    inv.Inviter.Provider,
			AccountRole: inv.Inviter.AccountRole,
			AgencyName:  inv.Inviter.AgencyName,
		}
	}
	return resp
}

// Create inserts a pending invitation and then dispatches the email. The
// dispatch is decidedly best-effort: a failed send is logged, reported as
// email_sent=false, and never rolls the invitation back.
func (h *InvitationHandler) Create(c *drift.Context) {
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

	var req dto.CreateInvitationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.BadRequest("invalid email address")
		return
	}
	if !models.ValidCollaboratorRole(req.Role) {
		c.BadRequest("role must be admin, editor or viewer")
		return
	}

	ctx := context.Background()

	canAdmin, err := h.tripService.CanAdminister(ctx, tripID, userID)
	if err != nil || !canAdmin {
		c.Forbidden("not allowed to invite collaborators on this trip")
		return
	}

	trip, err := h.tripService.GetByID(ctx, tripID)
	if err != nil {
		c.NotFound("trip not found")
		return
	}

	inv, err := h.invitationService.Create(ctx, tripID, userID, req.Email, req.Role, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateInvitation) {
			_ = c.JSON(409, map[string]string{
				"code":    "DUPLICATE_INVITATION",
				"message": "an invitation has already been sent to this email address",
			})
			return
		}
		c.InternalServerError("failed to create invitation")
		return
	}

	inviter, _ := h.userService.GetByID(ctx, userID)
	inviterName := "Someone"
	if inviter != nil {
		inviterName = inviter.Name
	}

	emailSent := true
	inviteURL := fmt.Sprintf("%s/invitations/%s", h.baseURL, inv.ID)
	if err := h.emailService.SendInvitation(inv.InviteeEmail, inviterName, trip.Name, inv.Role, inv.Message, inviteURL); err != nil {
		log.Printf("invitation email to %s failed: %v", inv.InviteeEmail, err)
		emailSent = false
	}

	_ = c.JSON(201, dto.CreateInvitationResponse{
		Invitation: invitationResponse(inv),
		EmailSent:  emailSent,
	})
}

// ListMine returns the pending invitations addressed to the caller's email.
func (h *InvitationHandler) ListMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	email := middleware.GetUserEmail(c)
	if email == "" {
		c.Unauthorized("not authenticated")
		return
	}

	invitations, err := h.invitationService.GetPendingForEmail(context.Background(), email)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}

	response := make([]dto.InvitationResponse, len(invitations))
	for i := range invitations {
		response[i] = invitationResponse(&invitations[i])
	}

	_ = c.JSON(200, response)
}

func (h *InvitationHandler) ListForTrip(c *drift.Context) {
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

	canAdmin, err := h.tripService.CanAdminister(ctx, tripID, userID)
	if err != nil || !canAdmin {
		c.Forbidden("not allowed to view invitations on this trip")
		return
	}

	invitations, err := h.invitationService.GetTripPending(ctx, tripID)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}

	response := make([]dto.InvitationResponse, len(invitations))
	for i := range invitations {
		response[i] = invitationResponse(&invitations[i])
	}

	_ = c.JSON(200, response)
}

func (h *InvitationHandler) Accept(c *drift.Context) {
	h.resolve(c, models.InvitationStatusAccepted)
}

func (h *InvitationHandler) Decline(c *drift.Context) {
	h.resolve(c, models.InvitationStatusDeclined)
}

func (h *InvitationHandler) resolve(c *drift.Context, decision string) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	email := middleware.GetUserEmail(c)

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	ctx := context.Background()

	inv, err := h.invitationService.GetByID(ctx, invitationID)
	if err != nil {
		c.NotFound("invitation not found")
		return
	}

	if err := h.invitationService.Resolve(ctx, invitationID, userID, email, decision); err != nil {
		switch {
		case errors.Is(err, services.ErrInvitationNotFound):
			c.NotFound("invitation not found")
		case errors.Is(err, services.ErrAlreadyResolved):
			_ = c.JSON(409, map[string]string{
				"code":    "ALREADY_RESOLVED",
				"message": "invitation has already been resolved",
			})
		case errors.Is(err, services.ErrEmailMismatch):
			c.Forbidden("this invitation was sent to a different email address")
		default:
			c.InternalServerError("failed to resolve invitation")
		}
		return
	}

	h.hub.BroadcastInvitationResolved(inv.TripID, invitationID, decision)
	if decision == models.InvitationStatusAccepted {
		name := ""
		if user, err := h.userService.GetByID(ctx, userID); err == nil {
			name = user.Name
		}
		h.hub.BroadcastCollaboratorJoined(inv.TripID, userID, name, inv.Role)
	}

	_ = c.JSON(200, map[string]string{"message": "invitation " + decision})
}

// Cancel withdraws a pending invitation from the trip side.
func (h *InvitationHandler) Cancel(c *drift.Context) {
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

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	ctx := context.Background()

	canAdmin, err := h.tripService.CanAdminister(ctx, tripID, userID)
	if err != nil || !canAdmin {
		c.Forbidden("not allowed to cancel invitations on this trip")
		return
	}

	if err := h.invitationService.Cancel(ctx, invitationID, tripID); err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			c.NotFound("invitation not found or already resolved")
			return
		}
		c.InternalServerError("failed to cancel invitation")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation cancelled"})
}
