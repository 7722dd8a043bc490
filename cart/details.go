package cart

import (
	"context"

	"food-marketplace-client/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DeliveryFee is charged once per non-empty order.
var DeliveryFee = decimal.NewFromInt(5)

const lookupConcurrency = 4

// FoodLookup resolves a food by id.
type FoodLookup interface {
	GetFood(ctx context.Context, id models.ID) (models.FoodItem, error)
}

// Item is a cart line together with the food it points at.
type Item struct {
	Line models.CartLine
	Food models.FoodItem
}

func (i Item) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Food.Price).Mul(decimal.NewFromInt(int64(i.Line.Quantity)))
}

// Details resolves every line through lookup. Lines that fail to resolve are
// logged and left out; the rest keep cart order.
func (m *Manager) Details(ctx context.Context, lookup FoodLookup) ([]Item, error) {
	lines, err := m.Lines()
	if err != nil {
		return nil, err
	}

	resolved := make([]*Item, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, line := range lines {
		g.Go(func() error {
			food, err := lookup.GetFood(gctx, line.FoodID)
			if err != nil {
				m.logger.Warnw("cart line could not be resolved", "food_id", line.FoodID, "error", err)
				return nil
			}
			resolved[i] = &Item{Line: line, Food: food}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(lines))
	for _, it := range resolved {
		if it != nil {
			items = append(items, *it)
		}
	}
	return items, nil
}

// Quote is the price breakdown shown before checkout.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

func QuoteFor(items []Item) Quote {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	fee := decimal.Zero
	if subtotal.IsPositive() {
		fee = DeliveryFee
	}
	return Quote{Subtotal: subtotal, DeliveryFee: fee, Total: subtotal.Add(fee)}
}
