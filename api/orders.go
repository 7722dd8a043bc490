package api

import (
	"context"
	"net/http"

	"food-marketplace-client/models"
)

// NewOrder is the body of POST /orders.
type NewOrder struct {
	ChefID          models.ID      `json:"chef_id" validate:"required"`
	Items           []NewOrderItem `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string         `json:"delivery_address" validate:"required"`
	DeliveryPhone   string         `json:"delivery_phone" validate:"required"`
	DeliveryTime    string         `json:"delivery_time,omitempty"`
	Notes           string         `json:"notes,omitempty"`
}

type NewOrderItem struct {
	FoodID   models.ID `json:"food_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"gte=1"`
}

type statusUpdate struct {
	Status models.OrderStatus `json:"status" validate:"oneof=pending confirmed preparing ready delivered cancelled"`
}

// ListOrders returns the orders visible to the caller: their own as a
// customer, the ones addressed to them as a chef.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	env, err := c.call(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Order](env.Data, "order")
}

func (c *Client) GetOrder(ctx context.Context, id models.ID) (models.Order, error) {
	env, err := c.call(ctx, http.MethodGet, "/orders/"+pathID(id), nil)
	if err != nil {
		return models.Order{}, err
	}
	return decodeOne[models.Order](env.Data, "order")
}

func (c *Client) CreateOrder(ctx context.Context, order NewOrder) (models.Order, error) {
	if err := validateRequest(order); err != nil {
		return models.Order{}, err
	}
	env, err := c.call(ctx, http.MethodPost, "/orders", order)
	if err != nil {
		return models.Order{}, err
	}
	return decodeOne[models.Order](env.Data, "order")
}

// UpdateOrderStatus sets the status. Transition rules are the server's
// business; only the value itself is checked here.
func (c *Client) UpdateOrderStatus(ctx context.Context, id models.ID, status models.OrderStatus) (models.Order, error) {
	body := statusUpdate{Status: status}
	if err := validateRequest(body); err != nil {
		return models.Order{}, err
	}
	env, err := c.call(ctx, http.MethodPut, "/orders/"+pathID(id)+"/status", body)
	if err != nil {
		return models.Order{}, err
	}
	return decodeOne[models.Order](env.Data, "order")
}
