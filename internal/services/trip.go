package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wayfarer-app/wayfarer-api/internal/database"
	"github.com/wayfarer-app/wayfarer-api/internal/models"
)

var (
	ErrTripNotFound         = errors.New("trip not found")
	ErrCollaboratorNotFound = errors.New("collaborator not found")
)

type TripService struct {
	db *database.DB
}

func NewTripService(db *database.DB) *TripService {
	return &TripService{db: db}
}

type NewTrip struct {
	Name         string
	Description  *string
	Destinations []string
	StartDate    *time.Time
	EndDate      *time.Time
	Privacy      string
}

// Create inserts a trip. The owner stays implicit and never gets a
// collaborator row.
func (s *TripService) Create(ctx context.Context, ownerID uuid.UUID, in NewTrip) (*models.Trip, error) {
	if in.Privacy == "" {
		in.Privacy = models.PrivacyPrivate
	}
	if in.Destinations == nil {
		in.Destinations = []string{}
	}

	var trip models.Trip
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO trips (name, description, destinations, start_date, end_date, privacy, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, description, destinations, start_date, end_date, privacy, owner_id, created_at, updated_at
	`, in.Name, in.Description, in.Destinations, in.StartDate, in.EndDate, in.Privacy, ownerID).Scan(
		&trip.ID, &trip.Name, &trip.Description, &trip.Destinations, &trip.StartDate,
		&trip.EndDate, &trip.Privacy, &trip.OwnerID, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return &trip, nil
}

func (s *TripService) GetByID(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, description, destinations, start_date, end_date, privacy, owner_id, created_at, updated_at
		FROM trips WHERE id = $1
	`, tripID).Scan(
		&trip.ID, &trip.Name, &trip.Description, &trip.Destinations, &trip.StartDate,
		&trip.EndDate, &trip.Privacy, &trip.OwnerID, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetUserTrips returns trips the user owns or collaborates on, de-duplicated
// by trip id, alongside the user's role on each ("owner" for owned trips).
func (s *TripService) GetUserTrips(ctx context.Context, userID uuid.UUID) ([]models.Trip, []string, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name, t.description, t.destinations, t.start_date, t.end_date, t.privacy, t.owner_id, t.created_at, t.updated_at, 'owner' AS role
		FROM trips t
		WHERE t.owner_id = $1
		UNION
		SELECT t.id, t.name, t.description, t.destinations, t.start_date, t.end_date, t.privacy, t.owner_id, t.created_at, t.updated_at, tc.role
		FROM trips t
		JOIN trip_collaborators tc ON t.id = tc.trip_id
		WHERE tc.user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var trips []models.Trip
	var roles []string
	for rows.Next() {
		var trip models.Trip
		var role string
		if err := rows.Scan(
			&trip.ID, &trip.Name, &trip.Description, &trip.Destinations, &trip.StartDate,
			&trip.EndDate, &trip.Privacy, &trip.OwnerID, &trip.CreatedAt, &trip.UpdatedAt, &role,
		); err != nil {
			return nil, nil, err
		}
		trips = append(trips, trip)
		roles = append(roles, role)
	}
	return trips, roles, nil
}

// ListPublic returns public trips for agency browsing, owner attached.
func (s *TripService) ListPublic(ctx context.Context) ([]models.Trip, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name, t.description, t.destinations, t.start_date, t.end_date, t.privacy, t.owner_id, t.created_at, t.updated_at,
		       u.id, u.email, u.name, u.avatar_url, u.provider, u.account_role, u.agency_name, u.created_at, u.updated_at
		FROM trips t
		JOIN users u ON t.owner_id = u.id
		WHERE t.privacy = $1
		ORDER BY t.created_at DESC
	`, models.PrivacyPublic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var trip models.Trip
		var owner models.User
		if err := rows.Scan(
			&trip.ID, &trip.Name, &trip.Description, &trip.Destinations, &trip.StartDate,
			&trip.EndDate, &trip.Privacy, &trip.OwnerID, &trip.CreatedAt, &trip.UpdatedAt,
			&owner.ID, &owner.Email, &owner.Name, &owner.AvatarURL,
			&owner.Provider, &owner.AccountRole, &owner.AgencyName, &owner.CreatedAt, &owner.UpdatedAt,
		); err != nil {
			return nil, err
		}
		trip.Owner = &owner
		trips = append(trips, trip)
	}
	return trips, nil
}

type TripUpdate struct {
	Name         *string
	Description  *string
	Destinations []string
	StartDate    *time.Time
	EndDate      *time.Time
	Privacy      *string
}

func (s *TripService) Update(ctx context.Context, tripID uuid.UUID, in TripUpdate) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE trips SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			destinations = COALESCE($3, destinations),
			start_date = COALESCE($4, start_date),
			end_date = COALESCE($5, end_date),
			privacy = COALESCE($6, privacy),
			updated_at = NOW()
		WHERE id = $7
		RETURNING id, name, description, destinations, start_date, end_date, privacy, owner_id, created_at, updated_at
	`, in.Name, in.Description, in.Destinations, in.StartDate, in.EndDate, in.Privacy, tripID).Scan(
		&trip.ID, &trip.Name, &trip.Description, &trip.Destinations, &trip.StartDate,
		&trip.EndDate, &trip.Privacy, &trip.OwnerID, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *TripService) Delete(ctx context.Context, tripID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, tripID)
	return err
}

func (s *TripService) IsOwner(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT owner_id FROM trips WHERE id = $1`, tripID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrTripNotFound
	}
	if err != nil {
		return false, err
	}
	return ownerID == userID, nil
}

// CanAdminister reports whether the user may manage collaborators and
// invitations on the trip: the owner, or a collaborator holding admin.
func (s *TripService) CanAdminister(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	var ok bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM trips WHERE id = $1 AND owner_id = $2
			UNION
			SELECT 1 FROM trip_collaborators WHERE trip_id = $1 AND user_id = $2 AND role = $3
		)
	`, tripID, userID, models.RoleAdmin).Scan(&ok)
	return ok, err
}

// CanView reports whether the user may read the trip: the owner, any
// collaborator, or anyone when the trip is public.
func (s *TripService) CanView(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	var ok bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM trips WHERE id = $1 AND (owner_id = $2 OR privacy = $3)
			UNION
			SELECT 1 FROM trip_collaborators WHERE trip_id = $1 AND user_id = $2
		)
	`, tripID, userID, models.PrivacyPublic).Scan(&ok)
	return ok, err
}

func (s *TripService) GetCollaborators(ctx context.Context, tripID uuid.UUID) ([]models.TripCollaborator, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT tc.id, tc.trip_id, tc.user_id, tc.role, tc.added_by, tc.created_at,
		       u.id, u.email, u.name, u.avatar_url, u.provider, u.account_role, u.agency_name, u.created_at, u.updated_at
		FROM trip_collaborators tc
		JOIN users u ON tc.user_id = u.id
		WHERE tc.trip_id = $1
		ORDER BY tc.created_at
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collaborators []models.TripCollaborator
	for rows.Next() {
		var c models.TripCollaborator
		var user models.User
		if err := rows.Scan(
			&c.ID, &c.TripID, &c.UserID, &c.Role, &c.AddedBy, &c.CreatedAt,
			&user.ID, &user.Email, &user.Name, &user.AvatarURL,
			&user.Provider, &user.AccountRole, &user.AgencyName, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.User = &user
		collaborators = append(collaborators, c)
	}
	return collaborators, nil
}

func (s *TripService) RemoveCollaborator(ctx context.Context, tripID, userID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM trip_collaborators WHERE trip_id = $1 AND user_id = $2
	`, tripID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCollaboratorNotFound
	}
	return nil
}
