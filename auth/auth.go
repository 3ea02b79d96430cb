// Package auth authenticates the single site administrator.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "token"
	issuer     = "portfolio"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	email        string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthenticator(email, passwordHash, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}
}

func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// Login checks the credentials and returns a signed token.
func (a *Authenticator) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// The hash is compared even for a wrong email so both failures take the same time.
	hashErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) != 1 || hashErr != nil {
		return "", ErrInvalidCredentials
	}

	return a.Issue(email)
}

func (a *Authenticator) Issue(email string) (string, error) {
	now := a.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (a *Authenticator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Email != a.email {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword produces the value stored in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
