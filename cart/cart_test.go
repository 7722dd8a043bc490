package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"food-marketplace-client/broadcast"
	"food-marketplace-client/models"
	"food-marketplace-client/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newManager(t *testing.T) (*Manager, *storage.MemoryStore, *int) {
	t.Helper()
	store := storage.NewMemoryStore()
	hub := broadcast.NewHub()
	changes := new(int)
	hub.Subscribe(func(broadcast.Event) { *changes++ }, broadcast.TopicCart)
	return NewManager(store, hub, zap.NewNop().Sugar()), store, changes
}

func TestAdd_MergesSameFood(t *testing.T) {
	m, _, changes := newManager(t)

	require.NoError(t, m.Add("7", 2))
	require.NoError(t, m.Add("7", 3))
	require.NoError(t, m.Add("9", 1))

	lines, err := m.Lines()
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{{FoodID: "7", Quantity: 5}, {FoodID: "9", Quantity: 1}}, lines)
	assert.Equal(t, 3, *changes)

	count, err := m.Count()
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestAdd_NegativeDropsLine(t *testing.T) {
	m, _, _ := newManager(t)
	require.NoError(t, m.Add("7", 2))
	require.NoError(t, m.Add("7", -2))

	lines, err := m.Lines()
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Error(t, m.Add("", 1))
}

func TestRemove(t *testing.T) {
	m, _, _ := newManager(t)
	require.NoError(t, m.Add("1", 1))
	require.NoError(t, m.Add("2", 1))
	require.NoError(t, m.Remove("1"))
	require.NoError(t, m.Remove("missing"))

	lines, err := m.Lines()
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{{FoodID: "2", Quantity: 1}}, lines)
}

func TestUpdateQuantity_ClampsAndPrunes(t *testing.T) {
	m, _, _ := newManager(t)
	require.NoError(t, m.Add("1", 4))
	require.NoError(t, m.Add("2", 1))

	require.NoError(t, m.UpdateQuantity("1", 10))
	q, err := m.Quantity("1")
	require.NoError(t, err)
	assert.Equal(t, 10, q)

	require.NoError(t, m.UpdateQuantity("1", -3))
	q, err = m.Quantity("1")
	require.NoError(t, err)
	assert.Equal(t, 0, q)

	require.NoError(t, m.UpdateQuantity("unknown", 5))
	lines, err := m.Lines()
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{{FoodID: "2", Quantity: 1}}, lines)
}

func TestClear(t *testing.T) {
	m, store, changes := newManager(t)
	require.NoError(t, m.Add("1", 1))
	require.NoError(t, m.Clear())

	_, ok, _ := store.Get(storage.KeyCart)
	assert.False(t, ok)
	count, err := m.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 2, *changes)
}

func TestPersistence_SharedStore(t *testing.T) {
	m, store, _ := newManager(t)
	require.NoError(t, m.Add("4", 2))

	raw, ok, err := store.Get(storage.KeyCart)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"foodId": "4", "quantity": 2}]`, raw)

	other := NewManager(store, broadcast.NewHub(), zap.NewNop().Sugar())
	q, err := other.Quantity("4")
	require.NoError(t, err)
	assert.Equal(t, 2, q)
}

func TestLines_CorruptOrDuplicatedStorage(t *testing.T) {
	m, store, _ := newManager(t)

	require.NoError(t, store.Set(storage.KeyCart, "not json"))
	lines, err := m.Lines()
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NoError(t, store.Set(storage.KeyCart, `[{"foodId":1,"quantity":2},{"foodId":"1","quantity":1},{"foodId":"3","quantity":0}]`))
	lines, err = m.Lines()
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{{FoodID: "1", Quantity: 3}}, lines)
}

type fakeFoods struct {
	mu    sync.Mutex
	foods map[models.ID]models.FoodItem
	calls int
}

func (f *fakeFoods) GetFood(ctx context.Context, id models.ID) (models.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	food, ok := f.foods[id]
	if !ok {
		return models.FoodItem{}, errors.New("HTTP 404: Food not found")
	}
	return food, nil
}

func TestDetails_OmitsUnresolvedLines(t *testing.T) {
	m, _, _ := newManager(t)
	require.NoError(t, m.Add("1", 2))
	require.NoError(t, m.Add("gone", 1))
	require.NoError(t, m.Add("2", 1))

	foods := &fakeFoods{foods: map[models.ID]models.FoodItem{
		"1": {ID: "1", Name: "Biryani", Price: 10},
		"2": {ID: "2", Name: "Lassi", Price: 5},
	}}
	items, err := m.Details(context.Background(), foods)
	require.NoError(t, err)
	assert.Equal(t, 3, foods.calls)
	require.Len(t, items, 2)
	assert.Equal(t, models.ID("1"), items[0].Food.ID)
	assert.Equal(t, models.ID("2"), items[1].Food.ID)

	quote := QuoteFor(items)
	assert.True(t, decimal.NewFromInt(25).Equal(quote.Subtotal), quote.Subtotal.String())
	assert.True(t, decimal.NewFromInt(5).Equal(quote.DeliveryFee))
	assert.True(t, decimal.NewFromInt(30).Equal(quote.Total))
}

func TestQuoteFor_EmptyHasNoFee(t *testing.T) {
	quote := QuoteFor(nil)
	assert.True(t, quote.Subtotal.IsZero())
	assert.True(t, quote.DeliveryFee.IsZero())
	assert.True(t, quote.Total.IsZero())
}

func TestQuoteFor_ExactCents(t *testing.T) {
	items := []Item{
		{Line: models.CartLine{FoodID: "1", Quantity: 3}, Food: models.FoodItem{Price: 0.1}},
		{Line: models.CartLine{FoodID: "2", Quantity: 1}, Food: models.FoodItem{Price: 0.2}},
	}
	quote := QuoteFor(items)
	assert.Equal(t, "0.5", quote.Subtotal.String())
	assert.Equal(t, "5.5", quote.Total.String())
}
