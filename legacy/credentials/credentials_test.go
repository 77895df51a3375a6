package credentials

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sessionworks/legacyauth/internal/common"
	"github.com/sessionworks/legacyauth/internal/dbx"
	"github.com/sessionworks/legacyauth/legacy/models"
	"github.com/sessionworks/legacyauth/legacy/store"
)

type fakeUserRepo struct {
	out *models.UserRow
	err error
}

func (f *fakeUserRepo) ByID(context.Context, string) (*models.UserRow, error) {
	return f.out, f.err
}
func (f *fakeUserRepo) ByUsername(context.Context, string) (*models.UserRow, error) {
	return f.out, f.err
}

type fakeStoreManager struct {
	users store.UserRepository
}

func (f *fakeStoreManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeStoreManager) Sessions(dbx.DBTX) store.SessionRepository   { return nil }
func (f *fakeStoreManager) Users(dbx.DBTX) store.UserRepository         { return f.users }

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	require.True(t, CheckPassword(hash, "hunter2"))
	require.False(t, CheckPassword(hash, "hunter3"))
	require.False(t, CheckPassword("", "hunter2"))
}

func TestAuthenticate_Success(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	row := &models.UserRow{UserID: "42", PasswordHash: hash}
	a := NewAuthenticator(nil, &fakeStoreManager{users: &fakeUserRepo{out: row}})

	got, err := a.Authenticate(context.Background(), "someuser", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "42", got.UserID)
}

func TestAuthenticate_UnknownUserAndWrongPasswordIndistinguishable(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	unknown := NewAuthenticator(nil, &fakeStoreManager{users: &fakeUserRepo{err: common.ErrorNotFound}})
	_, errUnknown := unknown.Authenticate(context.Background(), "ghost", "hunter2")

	wrongPw := NewAuthenticator(nil, &fakeStoreManager{users: &fakeUserRepo{
		out: &models.UserRow{UserID: "42", PasswordHash: hash},
	}})
	_, errWrong := wrongPw.Authenticate(context.Background(), "someuser", "hunter3")

	require.ErrorIs(t, errUnknown, common.ErrorUnauthorized)
	require.ErrorIs(t, errWrong, common.ErrorUnauthorized)
	require.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestAuthenticate_BannedUser(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	a := NewAuthenticator(nil, &fakeStoreManager{users: &fakeUserRepo{
		out: &models.UserRow{UserID: "42", PasswordHash: hash, FlagBanned: true},
	}})

	_, err = a.Authenticate(context.Background(), "someuser", "hunter2")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticate_StoreFaultPassesThrough(t *testing.T) {
	a := NewAuthenticator(nil, &fakeStoreManager{users: &fakeUserRepo{
		err: errors.New("connection refused"),
	}})

	_, err := a.Authenticate(context.Background(), "someuser", "hunter2")
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrorUnauthorized)
}
