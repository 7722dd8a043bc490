package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-marketplace-client/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", staticToken(token), append([]Option{WithHTTPClient(srv.Client())}, opts...)...)
}

func TestClient_SendsHeaders(t *testing.T) {
	var got http.Header
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": []}`))
	}, "secret-token")

	foods, err := c.ListFoods(context.Background(), "", "all")
	require.NoError(t, err)
	assert.Empty(t, foods)

	assert.Equal(t, "/api/foods", path)
	assert.Equal(t, "Bearer secret-token", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestClient_NoAuthorizationWhenAnonymous(t *testing.T) {
	var auth string
	var sawAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, sawAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}, "")

	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, auth)
	assert.False(t, sawAuth)
}

func TestClient_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, "", WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := c.GetFood(context.Background(), "1")
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "got %T: %v", err, err)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.After)
	assert.Less(t, time.Since(start), time.Second)

	var networkErr *NetworkError
	assert.False(t, errors.As(err, &networkErr))
}

func TestClient_DefaultTimeoutIsThirtySeconds(t *testing.T) {
	c := NewClient("http://example.invalid", nil)
	assert.Equal(t, 30*time.Second, c.timeout)
	assert.Equal(t, DefaultTimeout, c.timeout)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url+"/api", nil)
	_, err := c.ListCategories(context.Background())

	var networkErr *NetworkError
	require.True(t, errors.As(err, &networkErr), "got %T: %v", err, err)
	assert.Equal(t, "GET", networkErr.Method)
	assert.Equal(t, "/categories", networkErr.Endpoint)
	assert.Equal(t, "Network error. Please check your connection and ensure the API is accessible.", UserMessage(err))
}

func TestClient_ErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
	}{
		{"message wins", 422, "application/json", `{"message": "The email has already been taken.", "error": "x", "errors": {"email": ["taken"]}}`, "The email has already been taken."},
		{"error next", 400, "application/json", `{"error": "Invalid food id"}`, "Invalid food id"},
		{"errors last", 422, "application/json", `{"errors": {"email": ["taken"]}}`, `{"email":["taken"]}`},
		{"null message skipped", 403, "application/json", `{"message": null, "error": "Forbidden"}`, "Forbidden"},
		{"json without fields", 500, "application/json", `{"foo": "bar"}`, "HTTP 500"},
		{"raw text", 502, "text/html", `Bad Gateway from proxy`, "Bad Gateway from proxy"},
		{"empty body", 503, "text/plain", ``, "HTTP 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, "")

			_, err := c.GetOrder(context.Background(), "9")
			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr), "got %T: %v", err, err)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.want, httpErr.Message)
			assert.Equal(t, tt.want, UserMessage(err))
		})
	}
}

func TestClient_EmptySuccessBodies(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}, "t")
		assert.NoError(t, c.DeleteFood(context.Background(), "3"))
	})

	t.Run("zero content length", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "0")
			w.WriteHeader(http.StatusOK)
		}, "t")
		var out map[string]any
		assert.NoError(t, c.Do(context.Background(), http.MethodPost, "/auth/logout", nil, &out))
		assert.Nil(t, out)
	})
}

func TestClient_DomainErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"success false", `{"success": false, "message": "Food is sold out"}`, "Food is sold out"},
		{"missing data", `{"success": true}`, "response has no food"},
		{"wrong shape", `{"success": true, "data": [1, 2]}`, "malformed food in response"},
		{"missing id", `{"success": true, "data": {"name": "Soup"}}`, "invalid food in response"},
		{"not json", `<html>`, "malformed response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}, "")

			_, err := c.GetFood(context.Background(), "1")
			var domainErr *DomainError
			require.True(t, errors.As(err, &domainErr), "got %T: %v", err, err)
			assert.Contains(t, domainErr.Message, tt.want)
		})
	}
}

func TestClient_RequestValidation(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "")

	_, err := c.Register(context.Background(), Registration{
		Name:                 "Ann",
		Email:                "ann@example.com",
		Password:             "password123",
		PasswordConfirmation: "password124",
		Phone:                "555",
		Role:                 models.RoleCustomer,
	})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "password_confirmation", validationErr.Field)

	_, err = c.CreateOrder(context.Background(), NewOrder{ChefID: "1", DeliveryAddress: "x", DeliveryPhone: "y"})
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "items", validationErr.Field)

	_, err = c.UpdateOrderStatus(context.Background(), "1", "shipped")
	require.True(t, errors.As(err, &validationErr))

	assert.False(t, called)
}

func TestClient_ListFoodsQuery(t *testing.T) {
	var query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`{"success": true, "data": [{"id": 1, "name": "Pizza", "price": "9.50", "quantity": 3, "delivery_time": 25, "is_available": true}]}`))
	}, "")

	foods, err := c.ListFoods(context.Background(), "piz za", "Italian")
	require.NoError(t, err)
	assert.Equal(t, "category=Italian&search=piz+za", query)
	require.Len(t, foods, 1)
	assert.Equal(t, 9.5, foods[0].Price)
	assert.Equal(t, 25, foods[0].DeliveryTime)
}

func TestClient_CategoryFoods(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/4/foods", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": {"category": {"id": 4, "name": "Desserts"}, "foods": [{"id": 9, "chef_id": 2}]}}`))
	}, "")

	foods, err := c.CategoryFoods(context.Background(), "4")
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, models.ID("2"), foods[0].ChefID)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Request timed out. Please check your connection and try again.", UserMessage(&TimeoutError{}))
	assert.Equal(t, "delivery_phone: is required", UserMessage(&ValidationError{Field: "delivery_phone", Message: "is required"}))
	assert.Equal(t, "An unexpected error occurred", UserMessage(errors.New("json: cannot unmarshal")))
	assert.True(t, IsUnauthorized(&HTTPError{Status: 401}))
	assert.False(t, IsUnauthorized(&HTTPError{Status: 403}))
}
