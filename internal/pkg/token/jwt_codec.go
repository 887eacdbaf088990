package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
	ErrExpired      = errors.New("token expired")
)

// Issued carries the result of a token issuance.
type Issued struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// JWTCodec issues and validates HS256 bearer tokens. The jti claim makes
// every issuance unique, so two logins for the same account never produce
// equal tokens even inside the same second.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTCodec(secret string, ttl time.Duration) *JWTCodec {
	return &JWTCodec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (c *JWTCodec) TTL() time.Duration {
	return c.ttl
}

func (c *JWTCodec) Issue(username string) (*Issued, error) {
	now := time.Now()
	expiresAt := now.Add(c.ttl)

	claims := jwt.MapClaims{
		"sub": username,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Issued{
		Token:     signedToken,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate verifies signature and expiry and returns the username bound into
// the token. The returned errors are distinguishable for logging; callers
// expose a single rejection regardless of the kind.
func (c *JWTCodec) Validate(tokenStr string) (string, error) {
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrBadSignature
		default:
			return "", ErrMalformed
		}
	}
	if !parsed.Valid {
		return "", ErrMalformed
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrMalformed
	}
	username, err := claims.GetSubject()
	if err != nil || username == "" {
		return "", ErrMalformed
	}
	return username, nil
}
