// Package checkout turns the local cart into a remote order.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"food-marketplace-client/api"
	"food-marketplace-client/cart"
	"food-marketplace-client/models"
	"food-marketplace-client/session"

	"go.uber.org/zap"
)

var ErrEmptyCart = errors.New("cart is empty")

// Orders is the slice of the marketplace API checkout needs.
type Orders interface {
	cart.FoodLookup
	CreateOrder(ctx context.Context, order api.NewOrder) (models.Order, error)
}

// Request carries the delivery details. Address and phone default to the
// signed-in user's profile when left empty.
type Request struct {
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	DeliveryPhone   string `json:"delivery_phone" validate:"required"`
	DeliveryTime    string `json:"delivery_time"`
	Notes           string `json:"notes"`
}

type Receipt struct {
	Order models.Order `json:"order"`
	Quote cart.Quote   `json:"quote"`
}

type Service struct {
	session *session.Holder
	cart    *cart.Manager
	orders  Orders
	logger  *zap.SugaredLogger
}

func NewService(sess *session.Holder, c *cart.Manager, orders Orders, logger *zap.SugaredLogger) *Service {
	return &Service{session: sess, cart: c, orders: orders, logger: logger}
}

// Preview resolves the cart and prices it without placing anything.
func (s *Service) Preview(ctx context.Context) ([]cart.Item, cart.Quote, error) {
	items, err := s.cart.Details(ctx, s.orders)
	if err != nil {
		return nil, cart.Quote{}, err
	}
	return items, cart.QuoteFor(items), nil
}

// PlaceOrder submits the cart as one order to its chef. The cart is cleared
// once the server has accepted the order.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (Receipt, error) {
	user, err := s.session.Require()
	if err != nil {
		return Receipt{}, err
	}
	if req.DeliveryAddress == "" {
		req.DeliveryAddress = user.Address
	}
	if req.DeliveryPhone == "" {
		req.DeliveryPhone = user.Phone
	}
	if err := models.Validate(req); err != nil {
		return Receipt{}, api.NewValidationError(err)
	}

	lines, err := s.cart.Lines()
	if err != nil {
		return Receipt{}, err
	}
	if len(lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	items, err := s.cart.Details(ctx, s.orders)
	if err != nil {
		return Receipt{}, err
	}
	if len(items) != len(lines) {
		return Receipt{}, &api.ValidationError{Field: "items", Message: "some items in the cart are no longer available"}
	}

	chefID := items[0].Food.ChefID
	order := api.NewOrder{
		ChefID:          chefID,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryPhone:   req.DeliveryPhone,
		DeliveryTime:    req.DeliveryTime,
		Notes:           req.Notes,
	}
	for _, it := range items {
		if !it.Food.Orderable() {
			return Receipt{}, &api.ValidationError{Field: "items", Message: fmt.Sprintf("%s is not available", it.Food.Name)}
		}
		if it.Food.ChefID != chefID {
			return Receipt{}, &api.ValidationError{Field: "items", Message: "all items must come from the same chef"}
		}
		order.Items = append(order.Items, api.NewOrderItem{FoodID: it.Line.FoodID, Quantity: it.Line.Quantity})
	}
	if chefID.IsZero() {
		return Receipt{}, &api.ValidationError{Field: "chef_id", Message: "chef not found"}
	}

	placed, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return Receipt{}, err
	}
	if err := s.cart.Clear(); err != nil {
		s.logger.Warnw("clear cart after order", "order_id", placed.ID, "error", err)
	}
	s.logger.Infow("order placed", "order_id", placed.ID, "chef_id", chefID, "items", len(order.Items))
	return Receipt{Order: placed, Quote: cart.QuoteFor(items)}, nil
}
