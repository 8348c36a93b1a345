package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/birthreminder/accounts/internal/core/domain"
	"github.com/birthreminder/accounts/internal/core/ports"
	"github.com/birthreminder/accounts/internal/security"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = strconv.Itoa(r.nextID)
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SearchByUsername(_ context.Context, username string) ([]*domain.User, error) {
	matches := make([]*domain.User, 0)
	if u, ok := r.users[username]; ok {
		matches = append(matches, cloneUser(u))
	}
	return matches, nil
}

type stubTokenRepo struct {
	tokens map[string]*domain.Token
	nextID int
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]*domain.Token)}
}

func (r *stubTokenRepo) Create(_ context.Context, token *domain.Token) (*domain.Token, error) {
	r.nextID++
	copy := *token
	copy.ID = strconv.Itoa(r.nextID)
	r.tokens[copy.Value] = &copy
	saved := copy
	return &saved, nil
}

func (r *stubTokenRepo) FindByValue(_ context.Context, value string) (*domain.Token, error) {
	if t, ok := r.tokens[value]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, domain.ErrInvalidToken
}

func newTestService() (*AccountService, *stubUserRepo, *stubTokenRepo) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := NewAccountService(users, tokens, security.NewHasher(bcrypt.MinCost), zerolog.Nop())
	return svc, users, tokens
}

func register(t *testing.T, svc *AccountService, username, password string, permission domain.Permission, operator *domain.User) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username:   username,
		Password:   password,
		Permission: permission,
	}, operator)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func TestAccountService_Register_Success(t *testing.T) {
	svc, _, _ := newTestService()

	user := register(t, svc, "alice", "pass123", domain.PermissionUser, nil)
	if user.ID == "" {
		t.Fatalf("expected store-assigned id")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")) != nil {
		t.Fatalf("stored hash does not match password")
	}
	if user.Permission != domain.PermissionUser {
		t.Fatalf("unexpected permission: %v", user.Permission)
	}
}

func TestAccountService_Register_RejectsProvidedID(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		ID:       "42",
		Username: "alice",
		Password: "pw",
	}, nil)
	if err != domain.ErrIDProvided {
		t.Fatalf("expected ErrIDProvided, got %v", err)
	}
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "", Password: "pw"}, nil); err != domain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields for empty username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: ""}, nil); err != domain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields for empty password, got %v", err)
	}
}

func TestAccountService_Register_PermissionMatrix(t *testing.T) {
	tiers := []domain.Permission{domain.PermissionUser, domain.PermissionAdmin, domain.PermissionRoot}

	for _, operatorTier := range tiers {
		for _, requested := range tiers {
			svc, _, _ := newTestService()
			operator := &domain.User{ID: "op", Username: "operator", Permission: operatorTier}

			_, err := svc.Register(context.Background(), ports.RegisterInput{
				Username:   "newbie",
				Password:   "pw",
				Permission: requested,
			}, operator)

			if requested <= operatorTier {
				if err != nil {
					t.Fatalf("operator %v granting %v: unexpected error %v", operatorTier, requested, err)
				}
			} else if err != domain.ErrForbidden {
				t.Fatalf("operator %v granting %v: expected ErrForbidden, got %v", operatorTier, requested, err)
			}
		}
	}
}

func TestAccountService_Register_AnonymousIsUserTier(t *testing.T) {
	svc, _, _ := newTestService()

	// Anonymous callers may self-register as user...
	register(t, svc, "selfserve", "pw", domain.PermissionUser, nil)

	// ...but cannot grant anything above it.
	for _, requested := range []domain.Permission{domain.PermissionAdmin, domain.PermissionRoot} {
		_, err := svc.Register(context.Background(), ports.RegisterInput{
			Username:   "wannabe",
			Password:   "pw",
			Permission: requested,
		}, nil)
		if err != domain.ErrForbidden {
			t.Fatalf("anonymous granting %v: expected ErrForbidden, got %v", requested, err)
		}
	}
}

func TestAccountService_Register_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService()

	register(t, svc, "bob", "pw1", domain.PermissionUser, nil)
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob",
		Password: "pw2",
	}, nil)
	if err != domain.ErrUsernameTaken {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAccountService_Authenticate_Success(t *testing.T) {
	svc, _, _ := newTestService()
	created := register(t, svc, "carol", "s3cret", domain.PermissionUser, nil)

	user, err := svc.Authenticate(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected user %s, got %s", created.ID, user.ID)
	}
	if user.Permission != domain.PermissionUser {
		t.Fatalf("expected full identity including permission, got %v", user.Permission)
	}
}

func TestAccountService_Authenticate_NoExistenceLeak(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc, "dave", "goodpass", domain.PermissionUser, nil)

	_, wrongPw := svc.Authenticate(context.Background(), "dave", "badpass")
	_, noUser := svc.Authenticate(context.Background(), "ghost", "whatever")

	if wrongPw != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPw)
	}
	if noUser != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", noUser)
	}
	if wrongPw.Error() != noUser.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPw, noUser)
	}
}

func TestAccountService_Login_IssuesFreshTokens(t *testing.T) {
	svc, _, tokens := newTestService()
	user := register(t, svc, "erin", "pw", domain.PermissionUser, nil)

	first, err := svc.Login(context.Background(), user)
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(context.Background(), user)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if first.Value == "" || second.Value == "" {
		t.Fatalf("expected non-empty token values")
	}
	if first.Value == second.Value {
		t.Fatalf("two logins issued the same token value")
	}
	if first.UserID != user.ID || second.UserID != user.ID {
		t.Fatalf("tokens not bound to user %s: %s / %s", user.ID, first.UserID, second.UserID)
	}
	if len(tokens.tokens) != 2 {
		t.Fatalf("expected 2 persisted tokens, got %d", len(tokens.tokens))
	}
}

func TestAccountService_AuthenticateToken_RoundTrip(t *testing.T) {
	svc, _, _ := newTestService()
	user := register(t, svc, "frank", "pw", domain.PermissionUser, nil)

	token, err := svc.Login(context.Background(), user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resolved, err := svc.AuthenticateToken(context.Background(), token.Value)
	if err != nil {
		t.Fatalf("authenticate token: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("token resolved to %s, want %s", resolved.ID, user.ID)
	}
}

func TestAccountService_AuthenticateToken_Unknown(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.AuthenticateToken(context.Background(), "fabricated-value"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.AuthenticateToken(context.Background(), ""); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty value, got %v", err)
	}
}

func TestAccountService_AuthenticateToken_OrphanedToken(t *testing.T) {
	svc, users, _ := newTestService()
	user := register(t, svc, "gone", "pw", domain.PermissionUser, nil)

	token, err := svc.Login(context.Background(), user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Owner deleted out from under the token: it no longer maps to an identity.
	delete(users.users, "gone")

	if _, err := svc.AuthenticateToken(context.Background(), token.Value); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for orphaned token, got %v", err)
	}
}

func TestAccountService_GetByID(t *testing.T) {
	svc, _, _ := newTestService()
	user := register(t, svc, "henry", "pw", domain.PermissionUser, nil)

	got, err := svc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Username != "henry" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := svc.GetByID(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountService_SearchByUsername(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc, "alice", "pw", domain.PermissionUser, nil)
	register(t, svc, "alicia", "pw", domain.PermissionUser, nil)

	matches, err := svc.SearchByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Username != "alice" {
		t.Fatalf("expected exact match on alice, got %+v", matches)
	}

	empty, err := svc.SearchByUsername(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("search for nonexistent user errored: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty result, got %+v", empty)
	}
}
