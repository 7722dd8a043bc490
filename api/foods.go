package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"food-marketplace-client/models"
)

// NewFood is the body of POST /foods.
type NewFood struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	Price        float64 `json:"price" validate:"gt=0"`
	Category     string  `json:"category"`
	Image        string  `json:"image" validate:"required"`
	Quantity     int     `json:"quantity" validate:"gte=1"`
	DeliveryTime int     `json:"delivery_time" validate:"gt=0"`
	IsAvailable  bool    `json:"is_available"`
}

// FoodUpdate is the body of PUT /foods/{id}; nil fields are left untouched.
type FoodUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Category     *string  `json:"category,omitempty"`
	Image        *string  `json:"image,omitempty"`
	Quantity     *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	DeliveryTime *int     `json:"delivery_time,omitempty" validate:"omitempty,gt=0"`
	IsAvailable  *bool    `json:"is_available,omitempty"`
}

// MaxImageBytes bounds the decoded size of an uploaded listing image.
const MaxImageBytes = 5 << 20

// checkImage rejects data URI images larger than MaxImageBytes. Plain URLs
// are left to the server.
func checkImage(image string) error {
	if !strings.HasPrefix(image, "data:") {
		return nil
	}
	_, payload, ok := strings.Cut(image, ";base64,")
	if !ok {
		return nil
	}
	size := base64.StdEncoding.DecodedLen(len(payload)) - strings.Count(payload[max(0, len(payload)-2):], "=")
	if size > MaxImageBytes {
		return &ValidationError{Field: "image", Message: "Image size must be less than 5MB"}
	}
	return nil
}

// ListFoods searches the catalog. An empty or "all" category means no filter.
func (c *Client) ListFoods(ctx context.Context, search, category string) ([]models.FoodItem, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if category != "" && category != "all" {
		params.Set("category", category)
	}
	endpoint := "/foods"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	env, err := c.call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.FoodItem](env.Data, "food")
}

func (c *Client) GetFood(ctx context.Context, id models.ID) (models.FoodItem, error) {
	env, err := c.call(ctx, http.MethodGet, "/foods/"+pathID(id), nil)
	if err != nil {
		return models.FoodItem{}, err
	}
	return decodeOne[models.FoodItem](env.Data, "food")
}

func (c *Client) CreateFood(ctx context.Context, food NewFood) (models.FoodItem, error) {
	if err := validateRequest(food); err != nil {
		return models.FoodItem{}, err
	}
	if err := checkImage(food.Image); err != nil {
		return models.FoodItem{}, err
	}
	env, err := c.call(ctx, http.MethodPost, "/foods", food)
	if err != nil {
		return models.FoodItem{}, err
	}
	return decodeOne[models.FoodItem](env.Data, "food")
}

func (c *Client) UpdateFood(ctx context.Context, id models.ID, update FoodUpdate) (models.FoodItem, error) {
	if err := validateRequest(update); err != nil {
		return models.FoodItem{}, err
	}
	if update.Image != nil {
		if err := checkImage(*update.Image); err != nil {
			return models.FoodItem{}, err
		}
	}
	env, err := c.call(ctx, http.MethodPut, "/foods/"+pathID(id), update)
	if err != nil {
		return models.FoodItem{}, err
	}
	return decodeOne[models.FoodItem](env.Data, "food")
}

func (c *Client) DeleteFood(ctx context.Context, id models.ID) error {
	return c.Do(ctx, http.MethodDelete, "/foods/"+pathID(id), nil, nil)
}
