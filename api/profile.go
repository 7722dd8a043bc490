package api

import (
	"context"
	"net/http"

	"food-marketplace-client/models"
)

// ProfileUpdate is a partial update of PUT /user/profile.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,min=1"`
	Address *string `json:"address,omitempty"`
}

type passwordUpdate struct {
	Password string `json:"password" validate:"required,min=6"`
}

func (c *Client) GetProfile(ctx context.Context) (models.User, error) {
	env, err := c.call(ctx, http.MethodGet, "/user/profile", nil)
	if err != nil {
		return models.User{}, err
	}
	return decodeOne[models.User](env.Data, "profile")
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (models.User, error) {
	if err := validateRequest(update); err != nil {
		return models.User{}, err
	}
	env, err := c.call(ctx, http.MethodPut, "/user/profile", update)
	if err != nil {
		return models.User{}, err
	}
	return decodeOne[models.User](env.Data, "profile")
}

func (c *Client) UpdatePassword(ctx context.Context, password string) error {
	body := passwordUpdate{Password: password}
	if err := validateRequest(body); err != nil {
		return err
	}
	_, err := c.call(ctx, http.MethodPut, "/user/profile", body)
	return err
}
