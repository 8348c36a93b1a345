package ports

import (
	"context"

	"github.com/birthreminder/accounts/internal/core/domain"
)

// UserRepository defines the interface for user persistence. Username
// uniqueness is enforced by the store; Create surfaces a violation as
// domain.ErrUsernameTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	SearchByUsername(ctx context.Context, username string) ([]*domain.User, error)
}
