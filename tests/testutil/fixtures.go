package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wayfarer-app/wayfarer-api/internal/database"
	"github.com/wayfarer-app/wayfarer-api/internal/models"
	"github.com/wayfarer-app/wayfarer-api/internal/oauth"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:       fmt.Sprintf("user%d@example.com", f.counter),
		Name:        fmt.Sprintf("Test User %d", f.counter),
		Provider:    "github",
		ProviderID:  fmt.Sprintf("provider-%d", f.counter),
		AccountRole: models.AccountRoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, avatar_url, provider, provider_id, account_role, agency_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email, name, avatar_url, provider, provider_id, account_role, agency_name, created_at, updated_at
	`, user.Email, user.Name, user.AvatarURL, user.Provider, user.ProviderID, user.AccountRole, user.AgencyName).Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL,
		&user.Provider, &user.ProviderID, &user.AccountRole, &user.AgencyName,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// WithProvider sets the user's OAuth provider
func WithProvider(provider, providerID string) UserOption {
	return func(u *models.User) {
		u.Provider = provider
		u.ProviderID = providerID
	}
}

// AsAgency marks the user as an agency account
func AsAgency(agencyName string) UserOption {
	return func(u *models.User) {
		u.AccountRole = models.AccountRoleAgency
		u.AgencyName = &agencyName
	}
}

// CreateTrip creates a test trip owned by the given user
func (f *Fixtures) CreateTrip(t *testing.T, owner *models.User, opts ...TripOption) *models.Trip {
	t.Helper()
	f.counter++

	trip := &models.Trip{
		Name:         fmt.Sprintf("Test Trip %d", f.counter),
		Destinations: []string{"Lisbon"},
		Privacy:      models.PrivacyPrivate,
		OwnerID:      owner.ID,
	}

	for _, opt := range opts {
		opt(trip)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO trips (name, description, destinations, start_date, end_date, privacy, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, description, destinations, start_date, end_date, privacy, owner_id, created_at, updated_at
	`, trip.Name, trip.Description, trip.Destinations, trip.StartDate, trip.EndDate, trip.Privacy, trip.OwnerID).Scan(
		&trip.ID, &trip.Name, &trip.Description, &trip.Destinations,
		&trip.StartDate, &trip.EndDate, &trip.Privacy, &trip.OwnerID,
		&trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}

	return trip
}

// TripOption configures a test trip
type TripOption func(*models.Trip)

// WithTripName sets the trip's name
func WithTripName(name string) TripOption {
	return func(tr *models.Trip) {
		tr.Name = name
	}
}

// WithDestinations sets the trip's destinations
func WithDestinations(destinations ...string) TripOption {
	return func(tr *models.Trip) {
		tr.Destinations = destinations
	}
}

// WithPrivacy sets the trip's privacy
func WithPrivacy(privacy string) TripOption {
	return func(tr *models.Trip) {
		tr.Privacy = privacy
	}
}

// AddCollaborator adds a collaborator to a trip
func (f *Fixtures) AddCollaborator(t *testing.T, trip *models.Trip, user *models.User, role string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO trip_collaborators (trip_id, user_id, role, added_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (trip_id, user_id) DO NOTHING
	`, trip.ID, user.ID, role, trip.OwnerID)
	if err != nil {
		t.Fatalf("failed to add collaborator: %v", err)
	}
}

// CreateInvitation creates a test invitation for a trip
func (f *Fixtures) CreateInvitation(t *testing.T, trip *models.Trip, inviter *models.User, email string, opts ...InvitationOption) *models.Invitation {
	t.Helper()

	inv := &models.Invitation{
		TripID:       trip.ID,
		InviterID:    inviter.ID,
		InviteeEmail: email,
		Role:         models.RoleEditor,
		Status:       models.InvitationStatusPending,
	}

	for _, opt := range opts {
		opt(inv)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (trip_id, inviter_id, invitee_email, invitee_id, role, status, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, trip_id, inviter_id, invitee_email, invitee_id, role, status, message, created_at, updated_at
	`, inv.TripID, inv.InviterID, inv.InviteeEmail, inv.InviteeID, inv.Role, inv.Status, inv.Message).Scan(
		&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeEmail, &inv.InviteeID,
		&inv.Role, &inv.Status, &inv.Message, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	return inv
}

// InvitationOption configures a test invitation
type InvitationOption func(*models.Invitation)

// WithRole sets the invited role
func WithRole(role string) InvitationOption {
	return func(i *models.Invitation) {
		i.Role = role
	}
}

// WithStatus sets the invitation status
func WithStatus(status string) InvitationOption {
	return func(i *models.Invitation) {
		i.Status = status
	}
}

// WithMessage sets the personal message
func WithMessage(message string) InvitationOption {
	return func(i *models.Invitation) {
		i.Message = &message
	}
}

// WithInvitee links the invitation to an existing user
func WithInvitee(user *models.User) InvitationOption {
	return func(i *models.Invitation) {
		i.InviteeID = &user.ID
	}
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
