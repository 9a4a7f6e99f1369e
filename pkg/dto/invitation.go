package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateInvitationRequest struct {
	Email   string  `json:"email"`
	Role    string  `json:"role"`
	Message *string `json:"message,omitempty"`
}

type InvitationResponse struct {
	ID           uuid.UUID     `json:"id"`
	TripID       uuid.UUID     `json:"trip_id"`
	InviterID    uuid.UUID     `json:"inviter_id"`
	InviteeEmail string        `json:"invitee_email"`
	InviteeID    *uuid.UUID    `json:"invitee_id,omitempty"`
	Role         string        `json:"role"`
	Status       string        `json:"status"`
	Message      *string       `json:"message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	Trip         *TripResponse `json:"trip,omitempty"`
	Inviter      *UserResponse `json:"inviter,omitempty"`
}

// CreateInvitationResponse carries the created invitation and whether the
// notification email went out. EmailSent false is a warning, not a failure:
// the invitation is live and discoverable in-app either way.
type CreateInvitationResponse struct {
	Invitation InvitationResponse `json:"invitation"`
	EmailSent  bool               `json:"email_sent"`
}
