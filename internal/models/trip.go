package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip privacy
const (
	PrivacyPrivate = "private"
	PrivacyPublic  = "public"
)

// Collaborator roles on a trip. The owner is implicit and never holds a
// collaborator row.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

func ValidCollaboratorRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type Trip struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	Destinations []string   `json:"destinations"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Privacy      string     `json:"privacy"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Owner        *User      `json:"owner,omitempty"`
}

func (t *Trip) IsPublic() bool {
	return t.Privacy == PrivacyPublic
}

type TripCollaborator struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	AddedBy   uuid.UUID `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty"`
}
