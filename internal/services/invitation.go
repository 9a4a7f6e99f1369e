package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wayfarer-app/wayfarer-api/internal/database"
	"github.com/wayfarer-app/wayfarer-api/internal/models"
)

var (
	ErrDuplicateInvitation = errors.New("a pending invitation already exists for this email")
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrAlreadyResolved     = errors.New("invitation has already been resolved")
	ErrEmailMismatch       = errors.New("invitation was addressed to a different email")
)

type InvitationService struct {
	db *database.DB
}

func NewInvitationService(db *database.DB) *InvitationService {
	return &InvitationService{db: db}
}

// NewInvite is one entry of a batch invitation request.
type NewInvite struct {
	Email   string
	Role    string
	Message *string
}

// Create inserts a pending invitation. The pre-check keeps the common case
// cheap and the error message precise; the partial unique index on
// (trip_id, invitee_email) WHERE status='pending' closes the race the
// check alone would leave open.
func (s *InvitationService) Create(ctx context.Context, tripID, inviterID uuid.UUID, email, role string, message *string) (*models.Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM invitations
			WHERE trip_id = $1 AND invitee_email = $2 AND status = $3
		)
	`, tripID, email, models.InvitationStatusPending).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check for pending invitation: %w", err)
	}
	if exists {
		return nil, ErrDuplicateInvitation
	}

	inviteeID, err := s.resolveInvitee(ctx, s.db.Pool, email)
	if err != nil {
		return nil, err
	}

	var inv models.Invitation
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (trip_id, inviter_id, invitee_email, invitee_id, role, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, trip_id, inviter_id, invitee_email, invitee_id, role, status, message, created_at, updated_at
	`, tripID, inviterID, email, inviteeID, role, message, models.InvitationStatusPending).Scan(
		&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeEmail, &inv.InviteeID,
		&inv.Role, &inv.Status, &inv.Message, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "invitations_pending_trip_email_key") {
			return nil, ErrDuplicateInvitation
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return &inv, nil
}

// CreateBatch inserts invitations for a freshly created trip in a single
// transaction. Duplicate emails within the batch collapse to their first
// entry. Email delivery is the caller's concern and never affects the rows.
func (s *InvitationService) CreateBatch(ctx context.Context, tripID, inviterID uuid.UUID, invites []NewInvite) ([]models.Invitation, error) {
	if len(invites) == 0 {
		return nil, nil
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	seen := make(map[string]bool, len(invites))
	created := make([]models.Invitation, 0, len(invites))

	for _, in := range invites {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if seen[email] {
			continue
		}
		seen[email] = true

		inviteeID, err := s.resolveInvitee(ctx, tx, email)
		if err != nil {
			return nil, err
		}

		var inv models.Invitation
		err = tx.QueryRow(ctx, `
			INSERT INTO invitations (trip_id, inviter_id, invitee_email, invitee_id, role, message, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, trip_id, inviter_id, invitee_email, invitee_id, role, status, message, created_at, updated_at
		`, tripID, inviterID, email, inviteeID, in.Role, in.Message, models.InvitationStatusPending).Scan(
			&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeEmail, &inv.InviteeID,
			&inv.Role, &inv.Status, &inv.Message, &inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			if database.IsUniqueViolation(err, "invitations_pending_trip_email_key") {
				return nil, ErrDuplicateInvitation
			}
			return nil, fmt.Errorf("failed to create invitation for %s: %w", email, err)
		}
		created = append(created, inv)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// resolveInvitee looks up a user id for the email. The invitee may not have
// an account yet, so no match is not an error.
func (s *InvitationService) resolveInvitee(ctx context.Context, q querier, email string) (*uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve invitee: %w", err)
	}
	return &id, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *InvitationService) GetByID(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error) {
	var inv models.Invitation
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, trip_id, inviter_id, invitee_email, invitee_id, role, status, message, created_at, updated_at
		FROM invitations WHERE id = $1
	`, invitationID).Scan(
		&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeEmail, &inv.InviteeID,
		&inv.Role, &inv.Status, &inv.Message, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, ErrInvitationNotFound
	}
	return &inv, nil
}

// GetWithDetails loads the invitation together with its trip and inviter,
// as the public invitation page needs them.
func (s *InvitationService) GetWithDetails(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error) {
	var inv models.Invitation
	var trip models.Trip
	var inviter models.User

	err := s.db.Pool.QueryRow(ctx, `
		SELECT i.id, i.trip_id, i.inviter_id, i.invitee_email, i.invitee_id, i.role, i.status, i.message, i.created_at, i.updated_at,
		       t.id, t.name, t.description, t.destinations, t.start_date, t.end_date, t.privacy, t.owner_id, t.created_at, t.updated_at,
		       u.id, u.email, u.name, u.avatar_url, u.provider, u.account_role, u.agency_name, u.created_at, u.updated_at
		FROM invitations i
		JOIN trips t ON i.trip_id = t.id
		JOIN users u ON i.inviter_id = u.id
		WHERE i.id = $1
	`, invitationID).Scan(
		&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeEmail, &inv.InviteeID,
		&inv.Role, &inv.Status, &inv.Message, &inv.CreatedAt, &inv.UpdatedAt,
		&trip.ID, &trip.Name, &trip.Description, &trip.Destinations, &trip.StartDate,
		&trip.EndDate, &trip.Privacy, &trip.OwnerID, &trip.CreatedAt, &trip.UpdatedAt,
		&inviter.ID, &inviter.Email, &inviter.Name, &inviter.AvatarURL,
		&inviter.Provider, &inviter.AccountRole, &inviter.AgencyName, &inviter.CreatedAt, &inviter.UpdatedAt,
	)
	if err != nil {
		return nil, ErrInvitationNotFound
	}

	inv.Trip = &trip
	inv.Inviter = &inviter
	return &inv, nil
}

// GetPendingForEmail returns the invitations awaiting the given address,
// newest first, each with trip and inviter attached.
func (s *InvitationService) GetPendingForEmail(ctx context.Context, email string) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT i.id, i.trip_id, i.inviter_id, i.invitee_email, i.invitee_id, i.role, i.status, i.message, i.created_at, i.updated_at,
		       t.id, t.name, t.description, t.destinations, t.start_date, t.end_date, t.privacy, t.owner_id, t.created_at, t.updated_at,
		       u.id, u.email, u.name, u.avatar_url, u.provider, u.account_role, u.agency_name, u.created_at, u.updated_at
		FROM invitations i
		JOIN trips t ON i.trip_id = t.id
		JOIN users u ON i.inviter_id = u.id
		WHERE i.invitee_email = $1 AND i.status = $2
		ORDER BY i.created_at DESC
	`, strings.ToLower(email), models.InvitationStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		var trip models.Trip
		var inviter models.User
		if err := rows.Scan(
			&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeEmail, &inv.InviteeID,
			&inv.Role, &inv.Status, &inv.Message, &inv.CreatedAt, &inv.UpdatedAt,
			&trip.ID, &trip.Name, &trip.Description, &trip.Destinations, &trip.StartDate,
			&trip.EndDate, &trip.Privacy, &trip.OwnerID, &trip.CreatedAt, &trip.UpdatedAt,
			&inviter.ID, &inviter.Email, &inviter.Name, &inviter.AvatarURL,
			&inviter.Provider, &inviter.AccountRole, &inviter.AgencyName, &inviter.CreatedAt, &inviter.UpdatedAt,
		); err != nil {
			return nil, err
		}
		inv.Trip = &trip
		inv.Inviter = &inviter
		invitations = append(invitations, inv)
	}
	return invitations, nil
}

func (s *InvitationService) GetTripPending(ctx context.Context, tripID uuid.UUID) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, trip_id, inviter_id, invitee_email, invitee_id, role, status, message, created_at, updated_at
		FROM invitations
		WHERE trip_id = $1 AND status = $2
		ORDER BY created_at DESC
	`, tripID, models.InvitationStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(
			&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeEmail, &inv.InviteeID,
			&inv.Role, &inv.Status, &inv.Message, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, nil
}

// Resolve performs the accept/decline transition in one transaction: the
// status update and the collaborator insert land together or not at all, so
// an accepted invitation can never lack its collaborator row.
func (s *InvitationService) Resolve(ctx context.Context, invitationID, userID uuid.UUID, userEmail, decision string) error {
	if decision != models.InvitationStatusAccepted && decision != models.InvitationStatusDeclined {
		return fmt.Errorf("invalid decision %q", decision)
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var inv models.Invitation
	var ownerID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT i.id, i.trip_id, i.inviter_id, i.invitee_email, i.role, i.status, t.owner_id
		FROM invitations i
		JOIN trips t ON t.id = i.trip_id
		WHERE i.id = $1
		FOR UPDATE OF i
	`, invitationID).Scan(&inv.ID, &inv.TripID, &inv.InviterID, &inv.InviteeEmail, &inv.Role, &inv.Status, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrInvitationNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load invitation: %w", err)
	}

	if inv.Status != models.InvitationStatusPending {
		return ErrAlreadyResolved
	}

	if !strings.EqualFold(inv.InviteeEmail, userEmail) {
		return ErrEmailMismatch
	}

	_, err = tx.Exec(ctx, `
		UPDATE invitations SET status = $1, invitee_id = $2, updated_at = NOW()
		WHERE id = $3
	`, decision, userID, invitationID)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	// Owners already hold every permission; accepting a self-addressed
	// invitation must not give them a second membership row.
	if decision == models.InvitationStatusAccepted && userID != ownerID {
		// Role comes from the invitation, added_by from the inviter. The
		// conflict clause makes retried acceptances idempotent.
		_, err = tx.Exec(ctx, `
			INSERT INTO trip_collaborators (trip_id, user_id, role, added_by)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (trip_id, user_id) DO NOTHING
		`, inv.TripID, userID, inv.Role, inv.InviterID)
		if err != nil {
			return fmt.Errorf("failed to add collaborator: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Cancel withdraws a pending invitation from the trip side.
func (s *InvitationService) Cancel(ctx context.Context, invitationID, tripID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM invitations WHERE id = $1 AND trip_id = $2 AND status = $3
	`, invitationID, tripID, models.InvitationStatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
