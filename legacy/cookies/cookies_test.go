package cookies

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sessionworks/legacyauth/internal/common"
)

func newTestCodec(duration time.Duration) *Codec {
	return &Codec{secret: []byte("foosecret"), duration: duration}
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(3600 * time.Second)
	issued := time.Unix(1531524666, 0)

	cookie := codec.Pack("424242424", "42", "10.10.10.10", issued, "6")

	claims, err := codec.Unpack(cookie)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}
	if claims.SessionID != "424242424" || claims.UserID != "42" || claims.IP != "10.10.10.10" {
		t.Fatalf("field mismatch: %+v", claims)
	}
	if claims.Capabilities != "6" {
		t.Fatalf("capabilities mismatch: %q", claims.Capabilities)
	}
	if !claims.IssuedAt.Equal(issued) {
		t.Fatalf("issued at mismatch: got %v want %v", claims.IssuedAt, issued)
	}
	if !claims.ExpiresAt.Equal(issued.Add(3600 * time.Second)) {
		t.Fatalf("expires at must be issued+duration, got %v", claims.ExpiresAt)
	}
}

func TestPack_Deterministic(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(time.Hour)
	issued := time.Unix(1531524666, 0)

	a := codec.Pack("s1", "u1", "127.0.0.1", issued, "2")
	b := codec.Pack("s1", "u1", "127.0.0.1", issued, "2")
	if a != b {
		t.Fatalf("Pack is not deterministic: %q vs %q", a, b)
	}
}

func TestUnpack_TamperedSignature(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(time.Hour)
	cookie := codec.Pack("s1", "u1", "127.0.0.1", time.Unix(1531524666, 0), "2")

	sigStart := strings.LastIndex(cookie, ":") + 1
	for i := sigStart; i < len(cookie); i++ {
		flipped := []byte(cookie)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		if _, err := codec.Unpack(string(flipped)); !errors.Is(err, common.ErrInvalidCookie) {
			t.Fatalf("tampered signature at offset %d accepted: %v", i, err)
		}
	}
}

func TestUnpack_TamperedPayload(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(time.Hour)
	cookie := codec.Pack("s1", "42", "127.0.0.1", time.Unix(1531524666, 0), "2")

	// promote user 42 to user 43
	tampered := strings.Replace(cookie, ":42:", ":43:", 1)
	if tampered == cookie {
		t.Fatalf("test cookie did not contain expected segment")
	}
	if _, err := codec.Unpack(tampered); !errors.Is(err, common.ErrInvalidCookie) {
		t.Fatalf("tampered payload accepted: %v", err)
	}
}

func TestUnpack_Malformed(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(time.Hour)

	cases := map[string]string{
		"empty":             "",
		"garbage":           "garbage",
		"too few segments":  "a:b:c",
		"too many segments": "a:b:c:d:e:f:g",
		"wrong secret":      NewCodec([]byte("other"), time.Hour).Pack("s1", "u1", "ip", time.Unix(0, 0), "2"),
	}

	for name, cookie := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := codec.Unpack(cookie); !errors.Is(err, common.ErrInvalidCookie) {
				t.Fatalf("expected ErrInvalidCookie, got %v", err)
			}
		})
	}
}

func TestUnpack_NonNumericTimestamp(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(time.Hour)
	payload := "s1:u1:127.0.0.1:notatime:2"
	cookie := payload + ":" + codec.sign(payload)

	if _, err := codec.Unpack(cookie); !errors.Is(err, common.ErrInvalidCookie) {
		t.Fatalf("expected ErrInvalidCookie for non-numeric timestamp, got %v", err)
	}
}
