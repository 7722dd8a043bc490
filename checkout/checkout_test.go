package checkout

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"food-marketplace-client/api"
	"food-marketplace-client/broadcast"
	"food-marketplace-client/cart"
	"food-marketplace-client/config"
	"food-marketplace-client/devapi"
	"food-marketplace-client/models"
	"food-marketplace-client/session"
	"food-marketplace-client/storage"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	client  *api.Client
	session *session.Holder
	cart    *cart.Manager
	service *Service
	hub     *broadcast.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop().Sugar()

	db, err := config.OpenStore(":memory:")
	require.NoError(t, err)
	marketplace, err := devapi.New(db, []byte("checkout-test"), logger)
	require.NoError(t, err)
	require.NoError(t, marketplace.Seed())
	ts := httptest.NewServer(marketplace.Handler())
	t.Cleanup(ts.Close)

	store := storage.NewMemoryStore()
	hub := broadcast.NewHub()
	client := api.NewClient(ts.URL+"/api", storage.TokenSource{Store: store})
	sess, err := session.New(store, client, hub, logger)
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	c := cart.NewManager(store, hub, logger)

	return &fixture{
		client:  client,
		session: sess,
		cart:    c,
		service: NewService(sess, c, client, logger),
		hub:     hub,
	}
}

func (f *fixture) login(t *testing.T, email string) models.User {
	t.Helper()
	user, err := f.session.Login(context.Background(), email, devapi.DemoPassword)
	require.NoError(t, err)
	return user
}

// listFoods signs in as the demo chef, lists the given foods and signs out.
func (f *fixture) listFoods(t *testing.T, foods ...api.NewFood) []models.FoodItem {
	t.Helper()
	ctx := context.Background()
	f.login(t, devapi.DemoChefEmail)
	out := make([]models.FoodItem, 0, len(foods))
	for _, food := range foods {
		created, err := f.client.CreateFood(ctx, food)
		require.NoError(t, err)
		out = append(out, created)
	}
	require.NoError(t, f.session.Logout(ctx))
	return out
}

func dish(name string, price float64) api.NewFood {
	return api.NewFood{
		Name: name, Description: name, Price: price, Category: "Test",
		Image: "https://placehold.co/200", Quantity: 10, DeliveryTime: 20, IsAvailable: true,
	}
}

func TestPlaceOrder_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	foods := f.listFoods(t, dish("Thali", 10), dish("Chai", 5))

	customer := f.login(t, devapi.DemoCustomerEmail)
	require.NoError(t, f.cart.Add(foods[0].ID, 2))
	require.NoError(t, f.cart.Add(foods[1].ID, 1))

	cartSignals := 0
	f.hub.Subscribe(func(broadcast.Event) { cartSignals++ }, broadcast.TopicCart)

	receipt, err := f.service.PlaceOrder(ctx, Request{Notes: "no onions"})
	require.NoError(t, err)

	order := receipt.Order
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, foods[0].ChefID, order.ChefID)
	assert.Equal(t, 30.0, order.TotalPrice)
	assert.Equal(t, models.StatusPending, order.Status)
	// delivery details default to the profile
	assert.Equal(t, customer.Address, order.DeliveryAddress)
	assert.Equal(t, customer.Phone, order.DeliveryPhone)
	assert.Equal(t, "no onions", order.Notes)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Thali", order.Items[0].FoodName)
	assert.Equal(t, 10.0, order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Chai", order.Items[1].FoodName)

	assert.True(t, decimal.NewFromInt(25).Equal(receipt.Quote.Subtotal))
	assert.True(t, decimal.NewFromInt(30).Equal(receipt.Quote.Total))

	count, err := f.cart.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 1, cartSignals)
}

func TestPlaceOrder_RequiresSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cart.Add("1", 1))

	_, err := f.service.PlaceOrder(context.Background(), Request{DeliveryAddress: "x", DeliveryPhone: "y"})
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)
	f.login(t, devapi.DemoCustomerEmail)

	_, err := f.service.PlaceOrder(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_MissingDeliveryDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.session.Register(ctx, api.Registration{
		Name: "No Address", Email: "noaddr@example.com", Password: "secret1", PasswordConfirmation: "secret1",
		Phone: "555", Role: models.RoleCustomer,
	})
	require.NoError(t, err)
	require.NoError(t, f.cart.Add("1", 1))

	_, err = f.service.PlaceOrder(ctx, Request{})
	var validationErr *api.ValidationError
	require.True(t, errors.As(err, &validationErr), "got %T: %v", err, err)
	assert.Equal(t, "delivery_address", validationErr.Field)

	count, err := f.cart.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPlaceOrder_RejectsUnavailableAndMixedCarts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hidden := dish("Hidden", 4)
	hidden.IsAvailable = false
	foods := f.listFoods(t, hidden)

	other, err := f.session.Register(ctx, api.Registration{
		Name: "Second Chef", Email: "second@example.com", Password: "secret1", PasswordConfirmation: "secret1",
		Phone: "555", Role: models.RoleChef,
	})
	require.NoError(t, err)
	otherFood, err := f.client.CreateFood(ctx, dish("Tacos", 7))
	require.NoError(t, err)
	assert.Equal(t, other.ID, otherFood.ChefID)
	require.NoError(t, f.session.Logout(ctx))

	f.login(t, devapi.DemoCustomerEmail)
	var validationErr *api.ValidationError

	require.NoError(t, f.cart.Add(foods[0].ID, 1))
	_, err = f.service.PlaceOrder(ctx, Request{})
	require.True(t, errors.As(err, &validationErr), "got %T: %v", err, err)
	assert.Contains(t, validationErr.Message, "Hidden")

	require.NoError(t, f.cart.Clear())
	require.NoError(t, f.cart.Add("1", 1))
	require.NoError(t, f.cart.Add(otherFood.ID, 1))
	_, err = f.service.PlaceOrder(ctx, Request{})
	require.True(t, errors.As(err, &validationErr), "got %T: %v", err, err)
	assert.Equal(t, "items", validationErr.Field)

	require.NoError(t, f.cart.Clear())
	require.NoError(t, f.cart.Add("404", 1))
	_, err = f.service.PlaceOrder(ctx, Request{})
	require.True(t, errors.As(err, &validationErr), "got %T: %v", err, err)

	count, err := f.cart.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cart.Add("3", 2))

	items, quote, err := f.service.Preview(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Butter Naan", items[0].Food.Name)
	assert.Equal(t, "10.98", quote.Total.String())
}
