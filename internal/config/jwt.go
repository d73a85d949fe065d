package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenSession = errors.New("token was issued for another session")

// JWT issues and checks the bearer tokens that tie a client to the session
// it created. Tokens are HS256 signed with the configured secret.
type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
	now           func() time.Time
}

func NewJWT(cfg Token) (*JWT, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("unable to generate token secret: %w", err)
		}
	}

	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	j := &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
		now:           time.Now,
	}
	return j, nil
}

func (j *JWT) Lifetime() time.Duration {
	return j.tokenLifetime
}

// Issue returns a token whose subject is sessionID.
func (j *JWT) Issue(sessionID string) (string, error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
	}
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

// Verify checks the signature and expiry of tokenString and that it was
// issued for sessionID.
func (j *JWT) Verify(tokenString, sessionID string) error {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return err
	}
	if claims.Subject != sessionID {
		return ErrTokenSession
	}
	return nil
}
