// Package auth establishes and checks caller identity. It mints and verifies
// the HS256 bearer tokens carried on mutating routes, and provides the pure
// role-authorization check applied after identity is established.
//
// Verification failure causes are deliberately distinct: a missing or
// malformed header, an invalid signature, and an expired token each surface
// their own error so the HTTP layer can answer with distinguishable messages.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gauravsahdz/ecommerce-api/internal/domain"
)

// Verification failure causes. All map to 401 at the HTTP layer but must
// never collapse into the same user-facing message.
var (
	// ErrNoToken means the Authorization header is absent or not "Bearer <token>".
	ErrNoToken = errors.New("no token provided")
	// ErrTokenInvalid means the credential failed signature or shape checks,
	// or carries a role outside the enumeration.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired means the credential was valid but is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Identity is the authenticated subject of one request: the user id and role
// decoded from a verified credential. It lives only for the request.
type Identity struct {
	ID   string
	Role domain.Role
}

// claims is the JWT payload: registered claims plus the subject's role.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies bearer tokens against a process-wide secret.
// The secret and TTL are injected once at startup and read-only thereafter,
// so a Manager is safe for concurrent use without locking.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager returns a Manager signing with secret and issuing tokens valid
// for ttl (24h when ttl <= 0).
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a signed token embedding the subject id and role.
func (m *Manager) Issue(userID string, role domain.Role) (string, error) {
	now := m.now().UTC()
	c := claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// Verify checks the token's signature and expiry and decodes the embedded
// identity. A role outside the enumeration is rejected as invalid: an
// unknown role must never pass the gate as authenticated.
func (m *Manager) Verify(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}
	if !parsed.Valid || c.Subject == "" {
		return Identity{}, ErrTokenInvalid
	}
	role, ok := domain.ParseRole(c.Role)
	if !ok {
		return Identity{}, ErrTokenInvalid
	}
	return Identity{ID: c.Subject, Role: role}, nil
}

// ParseBearer extracts the opaque credential from an Authorization header.
// An absent header or any scheme other than Bearer yields ErrNoToken.
func ParseBearer(header string) (string, error) {
	const prefix = "Bearer "
	if header == "" || !strings.HasPrefix(header, prefix) {
		return "", ErrNoToken
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
