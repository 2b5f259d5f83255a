package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session")

const issuer = "prode"

// Claims wraps the delegated record-store token inside a signed cookie value.
type Claims struct {
	Token string `json:"tok"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session cookies with HS256.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if len(strings.TrimSpace(secret)) == 0 {
		return nil, fmt.Errorf("session secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be > 0")
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

func (c *Codec) Encode(userID, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("session token is required")
	}

	now := c.now()
	claims := Claims{
		Token: token,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (c *Codec) Decode(value string) (Claims, error) {
	claims := Claims{}
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if strings.TrimSpace(claims.Token) == "" {
		return Claims{}, fmt.Errorf("%w: missing token", ErrInvalidSession)
	}
	return claims, nil
}
