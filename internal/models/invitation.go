package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation lifecycle. Pending is the only state that can transition;
// accepted and declined are terminal.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
)

type Invitation struct {
	ID           uuid.UUID  `json:"id"`
	TripID       uuid.UUID  `json:"trip_id"`
	InviterID    uuid.UUID  `json:"inviter_id"`
	InviteeEmail string     `json:"invitee_email"`
	InviteeID    *uuid.UUID `json:"invitee_id,omitempty"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	Message      *string    `json:"message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Trip         *Trip      `json:"trip,omitempty"`
	Inviter      *User      `json:"inviter,omitempty"`
}

func (i *Invitation) IsPending() bool {
	return i.Status == InvitationStatusPending
}
