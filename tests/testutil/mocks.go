package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/wayfarer-app/wayfarer-api/internal/models"
	"github.com/wayfarer-app/wayfarer-api/internal/oauth"
	"github.com/wayfarer-app/wayfarer-api/internal/services"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTripService mocks the TripService
type MockTripService struct {
	mock.Mock
}

func (m *MockTripService) Create(ctx context.Context, ownerID uuid.UUID, in services.NewTrip) (*models.Trip, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripService) GetByID(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripService) GetUserTrips(ctx context.Context, userID uuid.UUID) ([]models.Trip, []string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Trip), args.Get(1).([]string), args.Error(2)
}

func (m *MockTripService) ListPublic(ctx context.Context) ([]models.Trip, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Trip), args.Error(1)
}

func (m *MockTripService) Update(ctx context.Context, tripID uuid.UUID, in services.TripUpdate) (*models.Trip, error) {
	args := m.Called(ctx, tripID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripService) Delete(ctx context.Context, tripID uuid.UUID) error {
	args := m.Called(ctx, tripID)
	return args.Error(0)
}

func (m *MockTripService) IsOwner(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tripID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripService) CanAdminister(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tripID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripService) CanView(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tripID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripService) GetCollaborators(ctx context.Context, tripID uuid.UUID) ([]models.TripCollaborator, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).([]models.TripCollaborator), args.Error(1)
}

func (m *MockTripService) RemoveCollaborator(ctx context.Context, tripID, userID uuid.UUID) error {
	args := m.Called(ctx, tripID, userID)
	return args.Error(0)
}

// MockInvitationService mocks the InvitationService
type MockInvitationService struct {
	mock.Mock
}

func (m *MockInvitationService) Create(ctx context.Context, tripID, inviterID uuid.UUID, email, role string, message *string) (*models.Invitation, error) {
	args := m.Called(ctx, tripID, inviterID, email, role, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationService) CreateBatch(ctx context.Context, tripID, inviterID uuid.UUID, invites []services.NewInvite) ([]models.Invitation, error) {
	args := m.Called(ctx, tripID, inviterID, invites)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockInvitationService) GetByID(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(ctx, invitationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationService) GetWithDetails(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(ctx, invitationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationService) GetPendingForEmail(ctx context.Context, email string) ([]models.Invitation, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockInvitationService) GetTripPending(ctx context.Context, tripID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockInvitationService) Resolve(ctx context.Context, invitationID, userID uuid.UUID, userEmail, decision string) error {
	args := m.Called(ctx, invitationID, userID, userEmail, decision)
	return args.Error(0)
}

func (m *MockInvitationService) Cancel(ctx context.Context, invitationID, tripID uuid.UUID) error {
	args := m.Called(ctx, invitationID, tripID)
	return args.Error(0)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInvitation(to, inviterName, tripName, role string, message *string, inviteURL string) error {
	args := m.Called(to, inviterName, tripName, role, message, inviteURL)
	return args.Error(0)
}

// MockHub mocks the SSE hub broadcasts
type MockHub struct {
	mock.Mock
}

func (m *MockHub) BroadcastCollaboratorJoined(tripID, userID uuid.UUID, userName, role string) {
	m.Called(tripID, userID, userName, role)
}

func (m *MockHub) BroadcastInvitationResolved(tripID, invitationID uuid.UUID, status string) {
	m.Called(tripID, invitationID, status)
}

func (m *MockHub) BroadcastTripUpdated(tripID, updatedBy uuid.UUID) {
	m.Called(tripID, updatedBy)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}
