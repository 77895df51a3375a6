// Package sessions implements the lifecycle of legacy user sessions:
// creation, loading from a cookie, and invalidation. Every public operation
// runs inside one scoped transaction against the relational store; the
// store is the only synchronization boundary, so concurrent invocation
// across independent sessions is safe.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sessionworks/legacyauth/config"
	"github.com/sessionworks/legacyauth/internal/common"
	"github.com/sessionworks/legacyauth/internal/dbx"
	"github.com/sessionworks/legacyauth/internal/logging"
	"github.com/sessionworks/legacyauth/legacy/authz"
	"github.com/sessionworks/legacyauth/legacy/cookies"
	"github.com/sessionworks/legacyauth/legacy/models"
	"github.com/sessionworks/legacyauth/legacy/store"
)

// The legacy system generates display timestamps in its home zone.
// Authoritative validity comparisons use zone-independent epoch seconds.
var eastern = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}

// Manager orchestrates create/load/invalidate over the store adapter, the
// cookie codec, and the authorization reconstructor.
type Manager struct {
	db           *sql.DB
	store        store.Manager
	codec        *cookies.Codec
	duration     time.Duration
	caps         authz.CapabilityFunc
	endorsements authz.EndorsementLookup
	scopes       authz.ScopeLookup
	log          logging.Logger
}

// NewManager constructs a Manager using repositories and process config.
// A nil caps falls back to authz.ClassicCapabilities.
func NewManager(db *sql.DB, m store.Manager, cfg *config.Config,
	caps authz.CapabilityFunc, endorsements authz.EndorsementLookup, scopes authz.ScopeLookup,
	log logging.Logger) *Manager {
	if caps == nil {
		caps = authz.ClassicCapabilities
	}
	return &Manager{
		db:           db,
		store:        m,
		codec:        cookies.NewCodec([]byte(cfg.ClassicSessionSecret), cfg.SessionDuration),
		duration:     cfg.SessionDuration,
		caps:         caps,
		endorsements: endorsements,
		scopes:       scopes,
		log:          log,
	}
}

// Create starts a new session for an authenticated user, persisting the
// session row and its audit row atomically. The returned session carries
// server-computed start and end times (end = start + configured duration).
// A nil user yields ErrSessionCreationFailed; so does any persistence
// fault, with its message preserved as cause.
func (m *Manager) Create(ctx context.Context, auths models.Authorizations,
	ip, remoteHost, trackingCookie string, user *models.User) (*models.Session, error) {

	if user == nil {
		return nil, fmt.Errorf("%w: legacy sessions require a user", common.ErrSessionCreationFailed)
	}
	m.log.Debug(ctx, "create session", "user_id", user.ID)

	start := time.Now().In(eastern).Truncate(time.Second)
	end := start.Add(m.duration)

	sessionRow := &models.SessionRow{
		UserID:      user.ID,
		LastReissue: start.Unix(),
		StartTime:   start.Unix(),
		EndTime:     0,
	}
	audit := &models.AuditRow{
		IPAddr:         ip,
		RemoteHost:     remoteHost,
		TrackingCookie: trackingCookie,
	}

	if err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return m.store.Sessions(tx).Persist(ctx, sessionRow, audit)
	}); err != nil {
		return nil, fmt.Errorf("%w: failed to create: %v", common.ErrSessionCreationFailed, err)
	}

	session := &models.Session{
		ID:             sessionRow.SessionID,
		StartTime:      start,
		EndTime:        end,
		User:           user,
		Authorizations: auths,
		IPAddress:      ip,
	}
	m.log.Debug(ctx, "created session", "session_id", session.ID)
	return session, nil
}

// Load resolves a session cookie to a fully populated session value.
//
// The cookie's self-reported expiry is checked first, purely to avoid a
// store round trip on obviously stale cookies; it is untrusted client
// input, so the stored end marker is re-checked inside the transaction and
// remains the authority. The returned value's timestamps come from the
// cookie, matching what the companion system displays.
func (m *Manager) Load(ctx context.Context, cookie string) (*models.Session, error) {
	claims, err := m.codec.Unpack(cookie)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnknownSession, err)
	}
	m.log.Debug(ctx, "load session", "session_id", claims.SessionID, "user_id", claims.UserID, "ip", claims.IP)

	if !claims.ExpiresAt.After(time.Now()) {
		return nil, fmt.Errorf("%w: session %s has expired", common.ErrSessionExpired, claims.SessionID)
	}

	var session *models.Session
	err = dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRow, sessionRow, nickRow, err := m.store.Sessions(tx).FindSessionJoinUser(ctx, claims.SessionID, claims.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: no such user or session", common.ErrUnknownSession)
			}
			return err
		}

		// Authoritative expiry check, epoch seconds. Zero means no expiry
		// has been set yet.
		if sessionRow.EndTime != 0 && sessionRow.EndTime < time.Now().Unix() {
			m.log.Info(ctx, "session has expired", "session_id", claims.SessionID)
			return fmt.Errorf("%w: session %s has expired", common.ErrSessionExpired, claims.SessionID)
		}

		user := &models.User{
			ID:       claims.UserID,
			Username: nickRow.Nickname,
			Email:    userRow.Email,
			Name: models.UserFullName{
				Forename: userRow.FirstName,
				Surname:  userRow.LastName,
				Suffix:   userRow.SuffixName,
			},
			Verified: userRow.FlagEmailVerified,
		}

		auths, err := authz.Compute(ctx, userRow, user, m.caps, m.endorsements, m.scopes)
		if err != nil {
			return err
		}

		session = &models.Session{
			ID:             sessionRow.SessionID,
			StartTime:      claims.IssuedAt,
			EndTime:        claims.ExpiresAt,
			User:           user,
			Authorizations: auths,
			IPAddress:      claims.IP,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Debug(ctx, "loaded session", "session_id", session.ID)
	return session, nil
}

// Invalidate decodes the cookie and invalidates the session it names.
// A cookie that fails to decode yields ErrUnknownSession, never a raw
// decode fault.
func (m *Manager) Invalidate(ctx context.Context, cookie string) error {
	claims, err := m.codec.Unpack(cookie)
	if err != nil {
		return fmt.Errorf("%w: no such session", common.ErrUnknownSession)
	}
	return m.InvalidateByID(ctx, claims.SessionID)
}

// InvalidateByID rewinds the stored end marker to one second before now,
// so the very next authoritative check reads the session as expired even
// at whole-second clock granularity. The row is kept; a later Load of an
// invalidated session reports ErrSessionExpired, not ErrUnknownSession.
// Invalidation only ever moves the end marker earlier, so concurrent calls
// are safe: a race can make a session invalid sooner, never later.
func (m *Manager) InvalidateByID(ctx context.Context, sessionID string) error {
	end := time.Now().Unix() - 1
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return m.store.Sessions(tx).MergeExpiry(ctx, sessionID, end)
	})
}

// GenerateCookie projects a session back into cookie wire form. Pure; no
// store access.
func (m *Manager) GenerateCookie(session *models.Session) string {
	return m.codec.Pack(session.ID, session.User.ID, session.IPAddress,
		session.StartTime, strconv.FormatInt(session.Authorizations.Classic, 10))
}
