package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/birthreminder/accounts/internal/api/metrics"
	"github.com/birthreminder/accounts/internal/core/domain"
)

// ctxUserKey is where the resolved identity lives on the echo context.
const ctxUserKey = "auth.user"

// TokenAuthenticator is the slice of the account service the token strategy
// needs. Kept small so tests can fake it easily.
type TokenAuthenticator interface {
	AuthenticateToken(ctx context.Context, value string) (*domain.User, error)
}

// TokenAuth resolves a bearer token to its owning user and stores the
// identity on the context. The header is optional: requests without an
// Authorization header proceed anonymously (downstream permission checks
// treat them as user-tier). A header that is present but malformed or does
// not resolve fails with 401. Every request hits the store; nothing is
// cached between requests.
func TokenAuth(accounts TokenAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := accounts.AuthenticateToken(c.Request().Context(), parts[1])
			if err != nil {
				metrics.TokenLookupsTotal.WithLabelValues("miss").Inc()
				return err
			}
			metrics.TokenLookupsTotal.WithLabelValues("hit").Inc()

			c.Set(ctxUserKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the identity resolved by TokenAuth or
// CredentialAuth, or nil for anonymous requests.
func UserFromContext(c echo.Context) *domain.User {
	user, _ := c.Get(ctxUserKey).(*domain.User)
	return user
}

// SetUser stashes an identity on the context. Exported for handler tests.
func SetUser(c echo.Context, user *domain.User) {
	c.Set(ctxUserKey, user)
}
