package ports

import (
	"context"

	"github.com/birthreminder/accounts/internal/core/domain"
)

// TokenRepository defines the interface for bearer token persistence.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) (*domain.Token, error)
	FindByValue(ctx context.Context, value string) (*domain.Token, error)
}
