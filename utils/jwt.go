package utils

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	purposeSession = "session"
	purposeCSRF    = "csrf"

	csrfTTL = time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Tokens signs and checks the HS256 tokens used for admin sessions and
// the add form's CSRF field. Both are signed with the app's secret key
// and told apart by the "purpose" claim.
type Tokens struct {
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewTokens(secret string, sessionTTL time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), sessionTTL: sessionTTL, now: time.Now}
}

// GenerateSession issues a session token for an admin account.
func (t *Tokens) GenerateSession(userRole string, userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"purpose":   purposeSession,
		"user_role": userRole,
		"id":        userID,
		"exp":       t.now().Add(t.sessionTTL).Unix(),
	})
	return token.SignedString(t.secret)
}

// ValidateSession returns the role and user id of a valid session token.
func (t *Tokens) ValidateSession(tokenString string) (string, uint, error) {
	claims, err := t.parse(tokenString, purposeSession)
	if err != nil {
		return "", 0, err
	}

	role, ok := claims["user_role"].(string)
	if !ok {
		return "", 0, errors.New("role not found in token")
	}
	idFloat, ok := claims["id"].(float64)
	if !ok {
		return "", 0, errors.New("id not found or invalid type")
	}
	return role, uint(idFloat), nil
}

// GenerateCSRF issues a short-lived form token bound to the browser's
// CSRF nonce cookie.
func (t *Tokens) GenerateCSRF(nonce string) (string, error) {
	if nonce == "" {
		return "", errors.New("csrf nonce is empty")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"purpose": purposeCSRF,
		"nonce":   nonce,
		"exp":     t.now().Add(csrfTTL).Unix(),
	})
	return token.SignedString(t.secret)
}

// ValidateCSRF accepts a token only together with the nonce it was issued for.
func (t *Tokens) ValidateCSRF(tokenString, nonce string) error {
	claims, err := t.parse(tokenString, purposeCSRF)
	if err != nil {
		return err
	}
	got, _ := claims["nonce"].(string)
	if nonce == "" || subtle.ConstantTimeCompare([]byte(got), []byte(nonce)) != 1 {
		return fmt.Errorf("%w: nonce mismatch", ErrInvalidToken)
	}
	return nil
}

func (t *Tokens) parse(tokenString, purpose string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if p, _ := claims["purpose"].(string); p != purpose {
		return nil, fmt.Errorf("%w: wrong purpose %q", ErrInvalidToken, p)
	}
	return claims, nil
}
