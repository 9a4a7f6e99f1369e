package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTripRequest struct {
	Name          string                `json:"name"`
	Description   *string               `json:"description,omitempty"`
	Destinations  []string              `json:"destinations"`
	StartDate     *time.Time            `json:"start_date,omitempty"`
	EndDate       *time.Time            `json:"end_date,omitempty"`
	Privacy       string                `json:"privacy"`
	Collaborators []CollaboratorRequest `json:"collaborators,omitempty"`
}

// CollaboratorRequest is one invitee attached to a trip-creation request.
type CollaboratorRequest struct {
	Email   string  `json:"email"`
	Role    string  `json:"role"`
	Message *string `json:"message,omitempty"`
}

type UpdateTripRequest struct {
	Name         *string    `json:"name,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Destinations []string   `json:"destinations,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Privacy      *string    `json:"privacy,omitempty"`
}

type TripResponse struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Description  *string       `json:"description,omitempty"`
	Destinations []string      `json:"destinations"`
	StartDate    *time.Time    `json:"start_date,omitempty"`
	EndDate      *time.Time    `json:"end_date,omitempty"`
	Privacy      string        `json:"privacy"`
	OwnerID      uuid.UUID     `json:"owner_id"`
	Role         string        `json:"role,omitempty"`
	Owner        *UserResponse `json:"owner,omitempty"`
}

// CreateTripResponse reports the created trip plus the delivery outcome for
// any batched invitations: all sent, partially sent, or none sent. The
// invitations themselves exist regardless.
type CreateTripResponse struct {
	Trip         TripResponse `json:"trip"`
	EmailsSent   int          `json:"emails_sent"`
	EmailsFailed int          `json:"emails_failed"`
}

type CollaboratorResponse struct {
	ID      uuid.UUID    `json:"id"`
	TripID  uuid.UUID    `json:"trip_id"`
	UserID  uuid.UUID    `json:"user_id"`
	Role    string       `json:"role"`
	AddedBy uuid.UUID    `json:"added_by"`
	User    UserResponse `json:"user"`
}
