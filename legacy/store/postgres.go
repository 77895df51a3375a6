package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/sessionworks/legacyauth/internal/common"
	"github.com/sessionworks/legacyauth/internal/dbx"
	"github.com/sessionworks/legacyauth/legacy/migrations"
	"github.com/sessionworks/legacyauth/legacy/models"
)

// PostgresSessionRepository implements SessionRepository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresSessionRepository struct {
	db dbx.DBTX
}

// NewPostgresSessionRepository constructs a repository bound to the given DBTX.
func NewPostgresSessionRepository(db dbx.DBTX) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

func (r *PostgresSessionRepository) FindSessionJoinUser(ctx context.Context, sessionID, userID string) (*models.UserRow, *models.SessionRow, *models.NicknameRow, error) {
	query := `
		SELECT u.user_id, u.email, u.first_name, u.last_name, u.suffix_name,
		       u.flag_email_verified, u.flag_edit_users, u.flag_admin, u.flag_banned,
		       s.session_id, s.user_id, s.last_reissue, s.start_time, s.end_time,
		       n.nickname
		FROM users u
		JOIN sessions s ON s.user_id = u.user_id
		JOIN nicknames n ON n.user_id = u.user_id AND n.flag_primary
		WHERE s.session_id = $1 AND u.user_id = $2
	`
	user := &models.UserRow{}
	session := &models.SessionRow{}
	nick := &models.NicknameRow{FlagPrimary: true}
	err := r.db.QueryRowContext(ctx, query, sessionID, userID).Scan(
		&user.UserID, &user.Email, &user.FirstName, &user.LastName, &user.SuffixName,
		&user.FlagEmailVerified, &user.FlagEditUsers, &user.FlagAdmin, &user.FlagBanned,
		&session.SessionID, &session.UserID, &session.LastReissue, &session.StartTime, &session.EndTime,
		&nick.Nickname,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil, common.ErrorNotFound
		}
		return nil, nil, nil, fmt.Errorf("%w: %v", common.ErrIO, err)
	}
	nick.UserID = user.UserID
	return user, session, nick, nil
}

func (r *PostgresSessionRepository) Persist(ctx context.Context, session *models.SessionRow, audit *models.AuditRow) error {
	// Identifier is assigned here, never by the caller.
	session.SessionID = uuid.NewString()
	audit.SessionID = session.SessionID

	sessionQuery := `
		INSERT INTO sessions (session_id, user_id, last_reissue, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, sessionQuery,
		session.SessionID, session.UserID, session.LastReissue, session.StartTime, session.EndTime); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	auditQuery := `
		INSERT INTO sessions_audit (session_id, ip_addr, remote_host, tracking_cookie)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, auditQuery,
		audit.SessionID, audit.IPAddr, audit.RemoteHost, audit.TrackingCookie); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresSessionRepository) MergeExpiry(ctx context.Context, sessionID string, endEpoch int64) error {
	query := `
		UPDATE sessions SET end_time = $2
		WHERE session_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, sessionID, endEpoch)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrIO, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrIO, err)
	}
	if affected == 0 {
		return common.ErrUnknownSession
	}
	return nil
}

// PostgresUserRepository implements read-only account access.
type PostgresUserRepository struct {
	db dbx.DBTX
}

func NewPostgresUserRepository(db dbx.DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `user_id, email, first_name, last_name, suffix_name,
	password_hash, flag_email_verified, flag_edit_users, flag_admin, flag_banned`

func scanUserRow(row *sql.Row) (*models.UserRow, error) {
	user := &models.UserRow{}
	err := row.Scan(
		&user.UserID, &user.Email, &user.FirstName, &user.LastName, &user.SuffixName,
		&user.PasswordHash, &user.FlagEmailVerified, &user.FlagEditUsers, &user.FlagAdmin, &user.FlagBanned,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrIO, err)
	}
	return user, nil
}

func (r *PostgresUserRepository) ByID(ctx context.Context, userID string) (*models.UserRow, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return scanUserRow(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresUserRepository) ByUsername(ctx context.Context, username string) (*models.UserRow, error) {
	query := `
		SELECT u.user_id, u.email, u.first_name, u.last_name, u.suffix_name,
		       u.password_hash, u.flag_email_verified, u.flag_edit_users, u.flag_admin, u.flag_banned
		FROM users u
		JOIN nicknames n ON n.user_id = u.user_id AND n.flag_primary
		WHERE n.nickname = $1
	`
	return scanUserRow(r.db.QueryRowContext(ctx, query, username))
}

// PostgresManager hands out postgres repositories and runs the embedded
// schema migrations.
type PostgresManager struct {
}

func (m *PostgresManager) Sessions(db dbx.DBTX) SessionRepository {
	return NewPostgresSessionRepository(db)
}

func (m *PostgresManager) Users(db dbx.DBTX) UserRepository {
	return NewPostgresUserRepository(db)
}

func (m *PostgresManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}

// Open connects to postgres, bootstraps the schema, and returns the handle
// together with a Manager for it.
func Open(dsn string) (*sql.DB, Manager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresManager{}

	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return db, m, nil
}
