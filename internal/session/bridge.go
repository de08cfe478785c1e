package session

import (
	"context"

	"github.com/everpayapp/everpay-frontend/internal/backend"
	"github.com/everpayapp/everpay-frontend/internal/models"
)

// Bridge performs credential verification against the remote backend
// and maps the login response onto an identity record.
type Bridge struct {
	backendClient *backend.Client
}

func NewBridge(backendClient *backend.Client) *Bridge {
	return &Bridge{backendClient: backendClient}
}

// Authenticate verifies an (email, password) pair. On success it
// yields the identity record that seeds the token claims; on any
// failure it yields models.ErrInvalidCredentials and nothing else, so
// no partial session can be created.
func (b *Bridge) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	if email == "" || password == "" {
		return nil, models.ErrInvalidCredentials
	}

	creator, err := b.backendClient.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	identity := &models.Identity{
		ID:          creator.Username,
		Username:    creator.Username,
		Email:       creator.Email,
		DisplayName: creator.ProfileName,
		Role:        creator.Role,
	}
	if identity.Email == "" {
		identity.Email = email
	}
	if identity.DisplayName == "" {
		identity.DisplayName = creator.Username
	}
	if identity.Role == "" {
		identity.Role = models.RoleCreator
	}

	return identity, nil
}
