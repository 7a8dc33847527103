package ports

import (
	"context"

	"github.com/coderr/marketplace/internal/core/domain"
)

// RegisterInput carries the public registration form.
type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	RepeatedPassword string
	Type             domain.Role
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// EnsureAdmin creates the admin account if it does not exist yet.
	EnsureAdmin(ctx context.Context, username, email, password string) error
}
