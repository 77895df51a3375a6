// Package store is the relational adapter for the legacy session subsystem.
// Repositories are bound to dbx.DBTX so the same code runs on *sql.DB or
// inside a transaction handle; the lifecycle manager owns the transaction
// scopes. Backend driver error types never leak past this package.
package store

import (
	"context"
	"database/sql"

	"github.com/sessionworks/legacyauth/internal/dbx"
	"github.com/sessionworks/legacyauth/legacy/models"
)

// SessionRepository covers the three session-table operations the
// lifecycle manager needs.
type SessionRepository interface {
	// FindSessionJoinUser join-fetches the session, its owning user, and
	// the user's primary nickname. Returns common.ErrorNotFound when no
	// matching triple exists.
	FindSessionJoinUser(ctx context.Context, sessionID, userID string) (*models.UserRow, *models.SessionRow, *models.NicknameRow, error)

	// Persist inserts the session row and its audit row. The store-assigned
	// session identifier is written back into both rows.
	Persist(ctx context.Context, session *models.SessionRow, audit *models.AuditRow) error

	// MergeExpiry sets the session's end_time to endEpoch. Returns
	// common.ErrUnknownSession when no row matches, and a wrapped
	// common.ErrIO for any other backend fault.
	MergeExpiry(ctx context.Context, sessionID string, endEpoch int64) error
}

// UserRepository provides read-only access to account rows.
type UserRepository interface {
	ByID(ctx context.Context, userID string) (*models.UserRow, error)
	ByUsername(ctx context.Context, username string) (*models.UserRow, error)
}

// Manager hands out repositories bound to a DBTX and owns schema bootstrap.
type Manager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Sessions(db dbx.DBTX) SessionRepository
	Users(db dbx.DBTX) UserRepository
}
