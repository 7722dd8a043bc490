package api

import (
	"context"
	"net/http"

	"food-marketplace-client/models"
)

type Registration struct {
	Name                 string          `json:"name" validate:"required"`
	Email                string          `json:"email" validate:"required,email"`
	Password             string          `json:"password" validate:"required,min=6"`
	PasswordConfirmation string          `json:"password_confirmation" validate:"required,eqfield=Password"`
	Phone                string          `json:"phone" validate:"required"`
	Role                 models.UserRole `json:"role" validate:"oneof=chef customer"`
	Address              string          `json:"address,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is what a successful login or registration hands back.
type AuthResult struct {
	User    models.User
	Token   string
	Message string
}

func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	if err := validateRequest(reg); err != nil {
		return AuthResult{}, err
	}
	return c.authenticate(ctx, "/auth/register", reg)
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	req := loginRequest{Email: email, Password: password}
	if err := validateRequest(req); err != nil {
		return AuthResult{}, err
	}
	return c.authenticate(ctx, "/auth/login", req)
}

func (c *Client) authenticate(ctx context.Context, endpoint string, body any) (AuthResult, error) {
	env, err := c.call(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return AuthResult{}, err
	}
	if env.Token == "" {
		return AuthResult{}, domainErrorf("response has no token")
	}
	user, err := decodeOne[models.User](env.User, "user")
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: env.Token, Message: env.Message}, nil
}

// Logout invalidates the token on the server. Callers treat it as best effort.
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// CurrentUser re-validates the bearer token and returns its user.
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	env, err := c.call(ctx, http.MethodGet, "/auth/user", nil)
	if err != nil {
		return models.User{}, err
	}
	return decodeOne[models.User](env.User, "user")
}
