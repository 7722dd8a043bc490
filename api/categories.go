package api

import (
	"context"
	"encoding/json"
	"net/http"

	"food-marketplace-client/models"
)

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	env, err := c.call(ctx, http.MethodGet, "/categories", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Category](env.Data, "category")
}

func (c *Client) GetCategory(ctx context.Context, id models.ID) (models.Category, error) {
	env, err := c.call(ctx, http.MethodGet, "/categories/"+pathID(id), nil)
	if err != nil {
		return models.Category{}, err
	}
	return decodeOne[models.Category](env.Data, "category")
}

// CategoryFoods lists the foods of one category. The API nests them as
// data.foods next to the category itself.
func (c *Client) CategoryFoods(ctx context.Context, id models.ID) ([]models.FoodItem, error) {
	env, err := c.call(ctx, http.MethodGet, "/categories/"+pathID(id)+"/foods", nil)
	if err != nil {
		return nil, err
	}
	var data struct {
		Foods json.RawMessage `json:"foods"`
	}
	if isAbsent(env.Data) || json.Unmarshal(env.Data, &data) != nil {
		return nil, domainErrorf("malformed category foods in response")
	}
	return decodeList[models.FoodItem](data.Foods, "food")
}
