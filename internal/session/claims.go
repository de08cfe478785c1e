package session

import (
	"github.com/everpayapp/everpay-frontend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity claim set carried in a session token. The
// registered Subject is the creator's username; the identity fields
// are set once at login and copied forward on every refresh.
type Claims struct {
	Username    string      `json:"username,omitempty"`
	Role        models.Role `json:"role,omitempty"`
	DisplayName string      `json:"display_name,omitempty"`
	Email       string      `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// EnrichClaims is the token-enrichment stage. A fresh identity (just
// produced by credential verification) overwrites every identity
// field; a nil identity leaves the existing claims untouched, which is
// what keeps claims durable across refreshes without re-contacting the
// backend. Tokens minted before the username claim existed get it
// backfilled from the subject.
func EnrichClaims(existing Claims, fresh *models.Identity) Claims {
	out := existing

	if fresh != nil {
		out.Subject = fresh.ID
		out.Username = fresh.Username
		out.Role = fresh.Role
		out.DisplayName = fresh.DisplayName
		out.Email = fresh.Email
	}

	if out.Username == "" && out.Subject != "" {
		out.Username = out.Subject
	}

	return out
}

// MaterializeUser is the session-materialization stage: it produces
// the outward-facing user object client code reads identity from. A
// missing username claim is a visible failure, never a guessed
// fallback from the email local-part.
func MaterializeUser(claims Claims) (models.SessionUser, error) {
	if claims.Username == "" {
		return models.SessionUser{}, models.ErrProfileNotLinked
	}

	id := claims.Subject
	if id == "" {
		id = claims.Username
	}

	return models.SessionUser{
		ID:          id,
		Username:    claims.Username,
		Role:        claims.Role,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}
