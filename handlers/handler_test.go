package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-marketplace-client/api"
	"food-marketplace-client/checkout"
	"food-marketplace-client/dashboard"
	"food-marketplace-client/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{Logger: zap.NewNop().Sugar()}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"signed out", session.ErrNotAuthenticated, http.StatusUnauthorized},
		{"not a chef", dashboard.ErrNotChef, http.StatusForbidden},
		{"empty cart", checkout.ErrEmptyCart, http.StatusBadRequest},
		{"validation", &api.ValidationError{Field: "email", Message: "is required"}, http.StatusUnprocessableEntity},
		{"remote not found", &api.HTTPError{Status: 404, Message: "Food not found"}, http.StatusNotFound},
		{"remote crash", &api.HTTPError{Status: 500, Message: "boom"}, http.StatusBadGateway},
		{"timeout", &api.TimeoutError{Method: "GET", Endpoint: "/foods"}, http.StatusGatewayTimeout},
		{"network", &api.NetworkError{Method: "GET", Endpoint: "/foods", Err: errors.New("refused")}, http.StatusBadGateway},
		{"bad payload", &api.DomainError{Message: "malformed food in response"}, http.StatusBadGateway},
		{"anything else", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			h.respondError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}
