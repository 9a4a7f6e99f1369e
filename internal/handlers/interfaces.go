package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wayfarer-app/wayfarer-api/internal/models"
	"github.com/wayfarer-app/wayfarer-api/internal/oauth"
	"github.com/wayfarer-app/wayfarer-api/internal/services"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

// TripServiceInterface defines the methods used by handlers from TripService
type TripServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, in services.NewTrip) (*models.Trip, error)
	GetByID(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
	GetUserTrips(ctx context.Context, userID uuid.UUID) ([]models.Trip, []string, error)
	ListPublic(ctx context.Context) ([]models.Trip, error)
	Update(ctx context.Context, tripID uuid.UUID, in services.TripUpdate) (*models.Trip, error)
	Delete(ctx context.Context, tripID uuid.UUID) error
	IsOwner(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	CanAdminister(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	CanView(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
	GetCollaborators(ctx context.Context, tripID uuid.UUID) ([]models.TripCollaborator, error)
	RemoveCollaborator(ctx context.Context, tripID, userID uuid.UUID) error
}

// InvitationServiceInterface defines the methods used by handlers from InvitationService
type InvitationServiceInterface interface {
	Create(ctx context.Context, tripID, inviterID uuid.UUID, email, role string, message *string) (*models.Invitation, error)
	CreateBatch(ctx context.Context, tripID, inviterID uuid.UUID, invites []services.NewInvite) ([]models.Invitation, error)
	GetByID(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error)
	GetWithDetails(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error)
	GetPendingForEmail(ctx context.Context, email string) ([]models.Invitation, error)
	GetTripPending(ctx context.Context, tripID uuid.UUID) ([]models.Invitation, error)
	Resolve(ctx context.Context, invitationID, userID uuid.UUID, userEmail, decision string) error
	Cancel(ctx context.Context, invitationID, tripID uuid.UUID) error
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendInvitation(to, inviterName, tripName, role string, message *string, inviteURL string) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// HubInterface defines the methods used by handlers from the SSE hub
type HubInterface interface {
	BroadcastCollaboratorJoined(tripID, userID uuid.UUID, userName, role string)
	BroadcastInvitationResolved(tripID, invitationID uuid.UUID, status string)
	BroadcastTripUpdated(tripID, updatedBy uuid.UUID)
}
