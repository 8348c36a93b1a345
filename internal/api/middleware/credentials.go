package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/birthreminder/accounts/internal/api/metrics"
	"github.com/birthreminder/accounts/internal/core/domain"
)

// CredentialAuthenticator is the slice of the account service the credential
// strategy needs.
type CredentialAuthenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// CredentialAuth gates a route behind HTTP Basic credentials, verifying them
// against the store on every request. Unknown usernames and wrong passwords
// produce the same 401, so the response never reveals whether an account
// exists. On success the full user is stored on the context for the handler.
func CredentialAuth(accounts CredentialAuthenticator) echo.MiddlewareFunc {
	return echomiddleware.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
		user, err := accounts.Authenticate(c.Request().Context(), username, password)
		if err != nil {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			if errors.Is(err, domain.ErrInvalidCredentials) {
				return false, nil
			}
			return false, err
		}
		metrics.LoginsTotal.WithLabelValues("success").Inc()

		c.Set(ctxUserKey, user)
		return true, nil
	})
}
