// Package credentials implements the password-check collaborator consumed
// before session creation. The session lifecycle itself never sees
// passwords; callers authenticate first and hand the resulting account to
// sessions.Manager.Create.
package credentials

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/sessionworks/legacyauth/internal/common"
	"github.com/sessionworks/legacyauth/legacy/models"
	"github.com/sessionworks/legacyauth/legacy/store"
)

// HashPassword produces a bcrypt hash suitable for the users table.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether candidate matches the stored bcrypt hash.
func CheckPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

// Authenticator resolves an account by username and verifies its password.
type Authenticator struct {
	db    *sql.DB
	store store.Manager
}

func NewAuthenticator(db *sql.DB, m store.Manager) *Authenticator {
	return &Authenticator{db: db, store: m}
}

// Authenticate returns the account row for a valid (username, password)
// pair. Unknown usernames, wrong passwords, and banned accounts are all
// reported as common.ErrorUnauthorized, so callers cannot distinguish
// which check failed.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*models.UserRow, error) {
	user, err := a.store.Users(a.db).ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if user.FlagBanned {
		return nil, common.ErrorUnauthorized
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}
