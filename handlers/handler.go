package handlers

import (
	"context"
	"errors"
	"net/http"

	"food-marketplace-client/api"
	"food-marketplace-client/broadcast"
	"food-marketplace-client/cart"
	"food-marketplace-client/checkout"
	"food-marketplace-client/dashboard"
	"food-marketplace-client/models"
	"food-marketplace-client/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Marketplace is the part of the marketplace API served straight through.
type Marketplace interface {
	ListFoods(ctx context.Context, search, category string) ([]models.FoodItem, error)
	GetFood(ctx context.Context, id models.ID) (models.FoodItem, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id models.ID) (models.Category, error)
	CategoryFoods(ctx context.Context, id models.ID) ([]models.FoodItem, error)
	GetProfile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) (models.User, error)
	UpdatePassword(ctx context.Context, password string) error
}

type Handler struct {
	Session     *session.Holder
	Cart        *cart.Manager
	Marketplace Marketplace
	Checkout    *checkout.Service
	Dashboard   *dashboard.Service
	Hub         *broadcast.Hub
	Logger      *zap.SugaredLogger
}

// respondError maps client errors onto HTTP statuses for the UI.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		validationErr *api.ValidationError
		httpErr       *api.HTTPError
		timeoutErr    *api.TimeoutError
		networkErr    *api.NetworkError
		domainErr     *api.DomainError
	)

	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in first"})
	case errors.Is(err, dashboard.ErrNotChef):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": api.UserMessage(err), "field": validationErr.Field})
	case errors.As(err, &httpErr):
		status := httpErr.Status
		if status >= http.StatusInternalServerError || status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": api.UserMessage(err)})
	case errors.As(err, &timeoutErr):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": api.UserMessage(err)})
	case errors.As(err, &networkErr), errors.As(err, &domainErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": api.UserMessage(err)})
	default:
		h.Logger.Errorw("unexpected error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": api.UserMessage(err)})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func paramID(c *gin.Context, name string) models.ID {
	return models.ID(c.Param(name))
}
