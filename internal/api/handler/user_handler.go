package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/birthreminder/accounts/internal/api/metrics"
	"github.com/birthreminder/accounts/internal/api/middleware"
	"github.com/birthreminder/accounts/internal/core/domain"
	"github.com/birthreminder/accounts/internal/core/ports"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	service ports.AccountService
}

func NewUserHandler(service ports.AccountService) *UserHandler {
	return &UserHandler{service: service}
}

// --- Request / Response types ---

type createUserRequest struct {
	ID         string `json:"id,omitempty"`
	Username   string `json:"username"   validate:"required"`
	Password   string `json:"password"   validate:"required"`
	Permission string `json:"permission"`
}

// Create handles POST /users.
//
// The bearer token is optional: anonymous callers register as user-tier, an
// authenticated operator may grant at most its own permission tier.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User registration details (id must be empty)"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	permission, err := domain.ParsePermission(req.Permission)
	if err != nil {
		return err
	}

	operator := middleware.UserFromContext(c)

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		ID:         req.ID,
		Username:   req.Username,
		Password:   req.Password,
		Permission: permission,
	}, operator)
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			metrics.RegistrationsRejectedTotal.WithLabelValues(reason).Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(user.Permission.String()).Inc()

	return c.JSON(http.StatusCreated, user)
}

// Login handles POST /users/login. The CredentialAuth middleware has already
// verified username+password and stored the identity on the context; this
// handler only issues and persists a fresh token.
//
// @Summary      Log in with HTTP Basic credentials and receive a bearer token
// @Tags         users
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  domain.Token
// @Failure      401  {object}  errorResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}

	token, err := h.service.Login(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, token)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Search handles GET /users/search?username=<exact>. The filter is an exact
// match, not a substring search; an empty result set is a 200 with [].
//
// @Summary      Search users by exact username
// @Tags         users
// @Produce      json
// @Param        username  query     string  true  "Exact username to match"
// @Success      200       {array}   domain.User
// @Failure      400       {object}  errorResponse
// @Router       /users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username query parameter is required")
	}

	users, err := h.service.SearchByUsername(c.Request().Context(), username)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrIDProvided):
		return "id_provided"
	case errors.Is(err, domain.ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUsernameTaken):
		return "username_taken"
	}
	return ""
}
