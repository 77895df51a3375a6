// Package cookies packs and unpacks the opaque legacy session cookie.
//
// The wire format is a frozen compatibility contract with the companion
// system: six colon-delimited segments
//
//	sessionID:userID:ip:issuedEpoch:capabilities:signature
//
// where signature is the base64 SHA-256 digest of the first five segments
// joined by ':' followed by '-' and the shared secret. Changing any of this
// breaks interoperability.
package cookies

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sessionworks/legacyauth/internal/common"
)

const segments = 6

// Claims is the decoded content of a session cookie. ExpiresAt is not
// carried on the wire; it is derived from IssuedAt plus the configured
// session duration, so the duration stays a server-side policy knob.
type Claims struct {
	SessionID    string
	UserID       string
	IP           string
	IssuedAt     time.Time
	ExpiresAt    time.Time
	Capabilities string
}

// Codec signs and verifies session cookies with a shared secret. It never
// touches the store; both directions are pure functions of the input and
// the secret.
type Codec struct {
	secret   []byte
	duration time.Duration
}

func NewCodec(secret []byte, duration time.Duration) *Codec {
	return &Codec{secret: secret, duration: duration}
}

// Pack serializes the given session fields into cookie wire form.
// Deterministic: equal inputs produce equal cookies.
func (c *Codec) Pack(sessionID, userID, ip string, issuedAt time.Time, capabilities string) string {
	payload := strings.Join([]string{
		sessionID, userID, ip,
		strconv.FormatInt(issuedAt.Unix(), 10),
		capabilities,
	}, ":")
	return payload + ":" + c.sign(payload)
}

// Unpack parses and verifies a cookie string. Empty input, a wrong segment
// count, a non-numeric timestamp, and a digest mismatch all yield
// common.ErrInvalidCookie.
func (c *Codec) Unpack(cookie string) (*Claims, error) {
	parts := strings.Split(cookie, ":")
	if len(parts) != segments {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", common.ErrInvalidCookie, segments, len(parts))
	}

	payload := strings.Join(parts[:segments-1], ":")
	expected := c.sign(payload)
	if subtle.ConstantTimeCompare([]byte(parts[segments-1]), []byte(expected)) != 1 {
		return nil, fmt.Errorf("%w: digest mismatch", common.ErrInvalidCookie)
	}

	issuedEpoch, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp: %v", common.ErrInvalidCookie, err)
	}

	issuedAt := time.Unix(issuedEpoch, 0)
	return &Claims{
		SessionID:    parts[0],
		UserID:       parts[1],
		IP:           parts[2],
		IssuedAt:     issuedAt,
		ExpiresAt:    issuedAt.Add(c.duration),
		Capabilities: parts[4],
	}, nil
}

func (c *Codec) sign(payload string) string {
	digest := sha256.Sum256(append([]byte(payload+"-"), c.secret...))
	return base64.StdEncoding.EncodeToString(digest[:])
}
