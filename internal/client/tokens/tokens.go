// Package tokens reads session tokens on the client side.
//
// The client never holds the signing key, so JWTs are decoded without
// signature verification; they are only inspected for identity and expiry.
// Tokens fabricated for static (offline demo) sessions carry MockPrefix and
// are not JWTs at all.
package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/authdash/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MockPrefix marks tokens minted locally for static sessions.
const MockPrefix = "static-"

var ErrMalformed = errors.New("malformed token")

// Claims is the payload the auth API puts into its JWTs.
type Claims struct {
	jwt.RegisteredClaims
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// DecodedToken is the flattened view of Claims used by callers.
type DecodedToken struct {
	ID    string
	Email string
	Name  string
	Role  string
	Exp   int64
	Iat   int64
}

// Decode parses token without verifying its signature.
func Decode(token string) (*DecodedToken, error) {
	if token == "" || IsMock(token) {
		return nil, ErrMalformed
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	d := &DecodedToken{
		ID:    claims.ID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}
	if d.ID == "" {
		d.ID = claims.Subject
	}
	if claims.ExpiresAt != nil {
		d.Exp = claims.ExpiresAt.Unix()
	}
	if claims.IssuedAt != nil {
		d.Iat = claims.IssuedAt.Unix()
	}
	return d, nil
}

// Expired reports whether the token is no longer usable at now.
// A token without exp is treated as expired.
func (d *DecodedToken) Expired(now time.Time) bool {
	if d.Exp == 0 {
		return true
	}
	return d.Exp <= now.Unix()
}

// ExpiresAt returns exp as a time; zero when absent.
func (d *DecodedToken) ExpiresAt() time.Time {
	if d.Exp == 0 {
		return time.Time{}
	}
	return time.Unix(d.Exp, 0)
}

// User builds a profile from the claims.
func (d *DecodedToken) User() *models.User {
	return &models.User{ID: d.ID, Email: d.Email, Name: d.Name, Role: d.Role}
}

// IsMock reports whether token was minted by NewMock.
func IsMock(token string) bool {
	return strings.HasPrefix(token, MockPrefix)
}

// NewMock returns a fresh static-session token.
func NewMock() string {
	return MockPrefix + uuid.NewString()
}
