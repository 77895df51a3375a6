// Package tokens mints and verifies short-lived bearer JWTs derived from a
// legacy session, for companion-system hops that cannot carry the classic
// cookie. The session store stays authoritative; a token only names the
// (session, user) pair to re-check.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sessionworks/legacyauth/internal/common"
	"github.com/sessionworks/legacyauth/legacy/models"
)

// Claims carries the registered claims plus the session and user
// identifiers needed to re-load the session.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
}

// Mint signs a token for the given session. The expiry claim is the
// session's end time, so a token never outlives its session's validity
// window.
func Mint(session *models.Session, secretKey []byte) (string, error) {
	if !session.EndTime.After(time.Now()) {
		return "", fmt.Errorf("%w: session %s has expired", common.ErrSessionExpired, session.ID)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(session.StartTime),
			ExpiresAt: jwt.NewNumericDate(session.EndTime),
		},
		SessionID: session.ID,
		UserID:    session.User.ID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify parses and verifies a token string, returning the session and
// user identifiers. Expired tokens yield common.ErrSessionExpired; any
// other verification failure yields common.ErrInvalidToken.
func Verify(tokenString string, secretKey []byte) (sessionID, userID string, err error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", common.ErrSessionExpired
		}
		return "", "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", "", common.ErrInvalidToken
	}

	return claims.SessionID, claims.UserID, nil
}
