package ports

import (
	"context"

	"github.com/birthreminder/accounts/internal/core/domain"
)

// RegisterInput carries a registration request. ID must be empty: the store
// assigns identifiers. Permission is what the caller asks for; it defaults to
// the user tier when left empty on the wire.
type RegisterInput struct {
	ID         string
	Username   string
	Password   string
	Permission domain.Permission
}

// AccountService is the application core: registration, the two
// authentication strategies, token issuance, and read-only queries.
type AccountService interface {
	// Register validates input against the operator's permission tier,
	// hashes the password and persists the new account. A nil operator is
	// an anonymous caller and is treated as user-tier.
	Register(ctx context.Context, input RegisterInput, operator *domain.User) (*domain.User, error)

	// Authenticate is the credential strategy: it resolves a username and
	// password to a user, returning domain.ErrInvalidCredentials for both
	// unknown usernames and wrong passwords.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// AuthenticateToken is the token strategy: it resolves a bearer value
	// to the owning user, returning domain.ErrInvalidToken when either the
	// token or its owner is gone.
	AuthenticateToken(ctx context.Context, value string) (*domain.User, error)

	// Login mints and persists a fresh token for an already-authenticated
	// user. It never re-verifies a password.
	Login(ctx context.Context, user *domain.User) (*domain.Token, error)

	GetByID(ctx context.Context, id string) (*domain.User, error)
	SearchByUsername(ctx context.Context, username string) ([]*domain.User, error)
}
