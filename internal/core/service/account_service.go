package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/birthreminder/accounts/internal/core/domain"
	"github.com/birthreminder/accounts/internal/core/ports"
	"github.com/birthreminder/accounts/internal/security"
)

const tokenBytes = 32

// AccountService implements registration, both authentication strategies,
// token issuance and user queries. It holds no mutable state of its own; the
// repositories are the single source of truth.
type AccountService struct {
	users  ports.UserRepository
	tokens ports.TokenRepository
	hasher *security.Hasher
	logger zerolog.Logger
}

func NewAccountService(users ports.UserRepository, tokens ports.TokenRepository, hasher *security.Hasher, logger zerolog.Logger) *AccountService {
	return &AccountService{users: users, tokens: tokens, hasher: hasher, logger: logger}
}

// Register creates a new account. The operator (nil for anonymous callers,
// which count as user-tier) may grant at most its own permission tier. The
// plaintext password is replaced by its hash before anything is persisted.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput, operator *domain.User) (*domain.User, error) {
	if input.ID != "" {
		return nil, domain.ErrIDProvided
	}
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	operatorPermission := domain.PermissionUser
	if operator != nil {
		operatorPermission = operator.Permission
	}
	if !operatorPermission.CanGrant(input.Permission) {
		return nil, domain.ErrForbidden
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		Permission:   input.Permission,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("username", created.Username).
		Str("permission", created.Permission.String()).
		Str("operator_permission", operatorPermission.String()).
		Msg("user registered")

	return created, nil
}

// Authenticate resolves username+password to a user. Unknown usernames and
// wrong passwords fail identically so callers cannot probe for accounts.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// AuthenticateToken resolves a bearer value to its owning user. The lookup
// hits the store on every call; identity is never cached across requests.
func (s *AccountService) AuthenticateToken(ctx context.Context, value string) (*domain.User, error) {
	if value == "" {
		return nil, domain.ErrInvalidToken
	}

	token, err := s.tokens.FindByValue(ctx, value)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		// The owning user is gone: the token no longer maps to an identity.
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

// Login issues a fresh token for a user that already passed the credential
// strategy. Every login mints a new token; prior tokens stay valid.
func (s *AccountService) Login(ctx context.Context, user *domain.User) (*domain.Token, error) {
	value, err := generateTokenValue()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	token := &domain.Token{
		Value:     value,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.tokens.Create(ctx, token)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("token issued")

	return created, nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// SearchByUsername returns the users whose username equals the query exactly.
// An empty result is a valid success, not an error.
func (s *AccountService) SearchByUsername(ctx context.Context, username string) ([]*domain.User, error) {
	return s.users.SearchByUsername(ctx, username)
}

// generateTokenValue returns a high-entropy opaque bearer value.
func generateTokenValue() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
