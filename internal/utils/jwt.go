package utils // package utils provides helpers for token issuing and credential checks

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Salaheddine-dev01/factory/internal/model"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expiry, malformed claims.  Callers respond 401 regardless of
// which one it was.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the decoded claim set of a session token.  It mirrors what
// the login endpoint embeds: enough to authorize requests without ever
// touching the users table again.
type Identity struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// SessionToken bundles a signed token string with its expiry.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken builds and signs an HS256 JWT carrying the user's id,
// username, role and display name.  Tokens are self-contained: possession
// of a validly signed, unexpired token is the sole authorization
// mechanism, and there is no revocation list.
func NewSessionToken(secret string, u model.User, ttlHours int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"id":        u.ID,
		"username":  u.Username,
		"role":      u.Role,
		"full_name": u.FullName,
		"exp":       exp.Unix(),
		"iat":       time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies signature and expiry and decodes the identity
// claims.  Any failure collapses into ErrInvalidToken.
func ParseSessionToken(secret, raw string) (Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC tokens are ever issued; reject anything else.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	id := Identity{
		Username: claimString(claims, "username"),
		Role:     claimString(claims, "role"),
		FullName: claimString(claims, "full_name"),
	}
	// JSON numbers decode as float64.
	if n, ok := claims["id"].(float64); ok {
		id.ID = uint64(n)
	}
	if id.Username == "" || id.Role == "" {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}
