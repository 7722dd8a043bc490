// Package dashboard serves the chef's listings and incoming orders, and the
// order history of either role.
package dashboard

import (
	"context"
	"errors"

	"food-marketplace-client/api"
	"food-marketplace-client/models"
	"food-marketplace-client/session"

	"go.uber.org/zap"
)

var ErrNotChef = errors.New("only chefs can manage listings")

// Marketplace is the slice of the marketplace API the dashboard needs.
type Marketplace interface {
	ListFoods(ctx context.Context, search, category string) ([]models.FoodItem, error)
	GetFood(ctx context.Context, id models.ID) (models.FoodItem, error)
	CreateFood(ctx context.Context, food api.NewFood) (models.FoodItem, error)
	UpdateFood(ctx context.Context, id models.ID, update api.FoodUpdate) (models.FoodItem, error)
	DeleteFood(ctx context.Context, id models.ID) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id models.ID) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id models.ID, status models.OrderStatus) (models.Order, error)
}

type Service struct {
	session *session.Holder
	api     Marketplace
	logger  *zap.SugaredLogger
}

func NewService(sess *session.Holder, marketplace Marketplace, logger *zap.SugaredLogger) *Service {
	return &Service{session: sess, api: marketplace, logger: logger}
}

func (s *Service) chef() (models.User, error) {
	user, err := s.session.Require()
	if err != nil {
		return models.User{}, err
	}
	if !user.IsChef() {
		return models.User{}, ErrNotChef
	}
	return user, nil
}

// Foods lists the signed-in chef's own listings.
func (s *Service) Foods(ctx context.Context) ([]models.FoodItem, error) {
	chef, err := s.chef()
	if err != nil {
		return nil, err
	}
	all, err := s.api.ListFoods(ctx, "", "")
	if err != nil {
		return nil, err
	}
	own := make([]models.FoodItem, 0, len(all))
	for _, f := range all {
		if f.ChefID == chef.ID {
			own = append(own, f)
		}
	}
	return own, nil
}

func (s *Service) AddFood(ctx context.Context, food api.NewFood) (models.FoodItem, error) {
	if _, err := s.chef(); err != nil {
		return models.FoodItem{}, err
	}
	created, err := s.api.CreateFood(ctx, food)
	if err != nil {
		return models.FoodItem{}, err
	}
	s.logger.Infow("food listed", "food_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) UpdateFood(ctx context.Context, id models.ID, update api.FoodUpdate) (models.FoodItem, error) {
	if _, err := s.chef(); err != nil {
		return models.FoodItem{}, err
	}
	return s.api.UpdateFood(ctx, id, update)
}

// ToggleAvailability flips the availability flag of one listing.
func (s *Service) ToggleAvailability(ctx context.Context, id models.ID) (models.FoodItem, error) {
	if _, err := s.chef(); err != nil {
		return models.FoodItem{}, err
	}
	current, err := s.api.GetFood(ctx, id)
	if err != nil {
		return models.FoodItem{}, err
	}
	flipped := !current.IsAvailable
	return s.api.UpdateFood(ctx, id, api.FoodUpdate{IsAvailable: &flipped})
}

func (s *Service) DeleteFood(ctx context.Context, id models.ID) error {
	if _, err := s.chef(); err != nil {
		return err
	}
	if err := s.api.DeleteFood(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("food removed", "food_id", id)
	return nil
}

// Orders lists the orders addressed to the signed-in chef.
func (s *Service) Orders(ctx context.Context) ([]models.Order, error) {
	chef, err := s.chef()
	if err != nil {
		return nil, err
	}
	all, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return filterOrders(all, func(o models.Order) bool { return o.ChefID == chef.ID }), nil
}

// SetOrderStatus moves an order to status. Any known status is accepted;
// whether the move is allowed is up to the server.
func (s *Service) SetOrderStatus(ctx context.Context, id models.ID, status models.OrderStatus) (models.Order, error) {
	if _, err := s.chef(); err != nil {
		return models.Order{}, err
	}
	updated, err := s.api.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return models.Order{}, err
	}
	s.logger.Infow("order status changed", "order_id", id, "status", updated.Status)
	return updated, nil
}

// History lists the caller's orders: placed ones for a customer, received
// ones for a chef.
func (s *Service) History(ctx context.Context) ([]models.Order, error) {
	user, err := s.session.Require()
	if err != nil {
		return nil, err
	}
	all, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	if user.IsChef() {
		return filterOrders(all, func(o models.Order) bool { return o.ChefID == user.ID }), nil
	}
	return filterOrders(all, func(o models.Order) bool { return o.CustomerID == user.ID }), nil
}

func (s *Service) Order(ctx context.Context, id models.ID) (models.Order, error) {
	if _, err := s.session.Require(); err != nil {
		return models.Order{}, err
	}
	return s.api.GetOrder(ctx, id)
}

func filterOrders(orders []models.Order, keep func(models.Order) bool) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
