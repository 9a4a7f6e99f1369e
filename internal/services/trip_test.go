package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfarer-app/wayfarer-api/internal/database"
	"github.com/wayfarer-app/wayfarer-api/internal/models"
)

func setupTripService(t *testing.T) (*TripService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewTripService(db), mock
}

func tripColumns() []string {
	return []string{
		"id", "name", "description", "destinations", "start_date", "end_date",
		"privacy", "owner_id", "created_at", "updated_at",
	}
}

func TestTripService_Create(t *testing.T) {
	svc, mock := setupTripService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	tripID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(tripColumns()).
		AddRow(tripID, "Summer in Portugal", nil, []string{"Lisbon", "Porto"},
			nil, nil, models.PrivacyPrivate, ownerID, now, now)
	mock.ExpectQuery(`INSERT INTO trips`).
		WithArgs("Summer in Portugal", pgxmock.AnyArg(), []string{"Lisbon", "Porto"}, pgxmock.AnyArg(), pgxmock.AnyArg(), models.PrivacyPrivate, ownerID).
		WillReturnRows(rows)

	trip, err := svc.Create(ctx, ownerID, NewTrip{
		Name:         "Summer in Portugal",
		Destinations: []string{"Lisbon", "Porto"},
	})

	require.NoError(t, err)
	assert.Equal(t, tripID, trip.ID)
	assert.Equal(t, models.PrivacyPrivate, trip.Privacy)
	assert.Equal(t, ownerID, trip.OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupTripService(t)
	tripID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM trips WHERE id`).
		WithArgs(tripID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), tripID)

	assert.ErrorIs(t, err, ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripService_GetUserTrips(t *testing.T) {
	svc, mock := setupTripService(t)
	userID := uuid.New()
	ownedID := uuid.New()
	sharedID := uuid.New()
	otherOwner := uuid.New()
	now := time.Now()

	cols := append(tripColumns(), "role")
	rows := pgxmock.NewRows(cols).
		AddRow(ownedID, "My Trip", nil, []string{"Rome"}, nil, nil,
			models.PrivacyPrivate, userID, now, now, "owner").
		AddRow(sharedID, "Shared Trip", nil, []string{"Kyoto"}, nil, nil,
			models.PrivacyPrivate, otherOwner, now, now, models.RoleEditor)

	mock.ExpectQuery(`SELECT .+ FROM trips`).
		WithArgs(userID).
		WillReturnRows(rows)

	trips, roles, err := svc.GetUserTrips(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, []string{"owner", models.RoleEditor}, roles)
	assert.Equal(t, ownedID, trips[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripService_Update_NotFound(t *testing.T) {
	svc, mock := setupTripService(t)
	tripID := uuid.New()
	name := "Renamed"

	mock.ExpectQuery(`UPDATE trips SET`).
		WithArgs(&name, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), tripID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Update(context.Background(), tripID, TripUpdate{Name: &name})

	assert.ErrorIs(t, err, ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripService_IsOwner(t *testing.T) {
	svc, mock := setupTripService(t)
	tripID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT owner_id FROM trips`).
		WithArgs(tripID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(ownerID))

	isOwner, err := svc.IsOwner(context.Background(), tripID, ownerID)

	require.NoError(t, err)
	assert.True(t, isOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripService_IsOwner_OtherUser(t *testing.T) {
	svc, mock := setupTripService(t)
	tripID := uuid.New()

	mock.ExpectQuery(`SELECT owner_id FROM trips`).
		WithArgs(tripID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(uuid.New()))

	isOwner, err := svc.IsOwner(context.Background(), tripID, uuid.New())

	require.NoError(t, err)
	assert.False(t, isOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripService_CanAdminister(t *testing.T) {
	svc, mock := setupTripService(t)
	tripID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(tripID, userID, models.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := svc.CanAdminister(context.Background(), tripID, userID)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripService_CanView_Denied(t *testing.T) {
	svc, mock := setupTripService(t)
	tripID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(tripID, userID, models.PrivacyPublic).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := svc.CanView(context.Background(), tripID, userID)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripService_GetCollaborators(t *testing.T) {
	svc, mock := setupTripService(t)
	tripID := uuid.New()
	userID := uuid.New()
	addedBy := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "trip_id", "user_id", "role", "added_by", "created_at",
		"u_id", "email", "name", "avatar_url", "provider", "account_role", "agency_name", "u_created_at", "u_updated_at",
	}).AddRow(uuid.New(), tripID, userID, models.RoleEditor, addedBy, now,
		userID, "bob@example.com", "Bob", nil, "github", models.AccountRoleUser, nil, now, now)

	mock.ExpectQuery(`SELECT .+ FROM trip_collaborators`).
		WithArgs(tripID).
		WillReturnRows(rows)

	collaborators, err := svc.GetCollaborators(context.Background(), tripID)

	require.NoError(t, err)
	require.Len(t, collaborators, 1)
	assert.Equal(t, models.RoleEditor, collaborators[0].Role)
	require.NotNil(t, collaborators[0].User)
	assert.Equal(t, "Bob", collaborators[0].User.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripService_RemoveCollaborator_NotFound(t *testing.T) {
	svc, mock := setupTripService(t)
	tripID := uuid.New()
	userID := uuid.New()

	mock.ExpectExec(`DELETE FROM trip_collaborators`).
		WithArgs(tripID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.RemoveCollaborator(context.Background(), tripID, userID)

	assert.ErrorIs(t, err, ErrCollaboratorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripService_ListPublic(t *testing.T) {
	svc, mock := setupTripService(t)
	tripID := uuid.New()
	ownerID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "name", "description", "destinations", "start_date", "end_date",
		"privacy", "owner_id", "created_at", "updated_at",
		"u_id", "email", "u_name", "avatar_url", "provider", "account_role", "agency_name", "u_created_at", "u_updated_at",
	}).AddRow(tripID, "Open Trip", nil, []string{"Oslo"}, nil, nil,
		models.PrivacyPublic, ownerID, now, now,
		ownerID, "alice@example.com", "Alice", nil, "google", models.AccountRoleUser, nil, now, now)

	mock.ExpectQuery(`SELECT .+ FROM trips t`).
		WithArgs(models.PrivacyPublic).
		WillReturnRows(rows)

	trips, err := svc.ListPublic(context.Background())

	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.True(t, trips[0].IsPublic())
	require.NotNil(t, trips[0].Owner)
	assert.Equal(t, "Alice", trips[0].Owner.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
