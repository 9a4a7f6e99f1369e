package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		provider VARCHAR(50) NOT NULL,
		provider_id VARCHAR(255) NOT NULL,
		account_role VARCHAR(50) NOT NULL DEFAULT 'user' CHECK (account_role IN ('user', 'agency')),
		agency_name VARCHAR(255),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(provider, provider_id)
	)`,

	`CREATE TABLE IF NOT EXISTS trips (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		description TEXT,
		destinations TEXT[] NOT NULL DEFAULT '{}',
		start_date DATE,
		end_date DATE,
		privacy VARCHAR(20) NOT NULL DEFAULT 'private' CHECK (privacy IN ('private', 'public')),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// One collaborator row per (trip, user); duplicate acceptance attempts
	// land on this constraint instead of an application-level check.
	`CREATE TABLE IF NOT EXISTS trip_collaborators (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		trip_id UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role VARCHAR(20) NOT NULL CHECK (role IN ('admin', 'editor', 'viewer')),
		added_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CONSTRAINT trip_collaborators_trip_user_key UNIQUE(trip_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS invitations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		trip_id UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		inviter_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		invitee_email VARCHAR(255) NOT NULL,
		invitee_id UUID REFERENCES users(id) ON DELETE SET NULL,
		role VARCHAR(20) NOT NULL CHECK (role IN ('admin', 'editor', 'viewer')),
		status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'declined')),
		message TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// At most one pending invitation per (trip, email). Partial index so
	// resolved invitations never block a re-invite.
	`CREATE UNIQUE INDEX IF NOT EXISTS invitations_pending_trip_email_key
		ON invitations(trip_id, invitee_email) WHERE status = 'pending'`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_trips_owner_id ON trips(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_privacy ON trips(privacy)`,
	`CREATE INDEX IF NOT EXISTS idx_trip_collaborators_trip_id ON trip_collaborators(trip_id)`,
	`CREATE INDEX IF NOT EXISTS idx_trip_collaborators_user_id ON trip_collaborators(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invitations_trip_id ON invitations(trip_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invitations_invitee_email ON invitations(invitee_email)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
