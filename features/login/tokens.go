package login

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "pokebase"

type claims struct {
	gojwt.RegisteredClaims
	Username string `json:"username"`
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *tokenIssuer) issue(userID, username string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, &claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(expires),
		},
		Username: username,
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

func (t *tokenIssuer) parse(token string) (*claims, error) {
	parsed := &claims{}
	_, err := gojwt.ParseWithClaims(token, parsed, func(*gojwt.Token) (any, error) {
		return t.secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if parsed.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return parsed, nil
}
