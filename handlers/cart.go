package handlers

import (
	"fmt"
	"net/http"

	"food-marketplace-client/api"
	"food-marketplace-client/models"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	FoodID   models.ID `json:"food_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"omitempty,min=1"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) GetCart(c *gin.Context) {
	lines, err := h.Cart.Lines()
	if err != nil {
		h.respondError(c, err)
		return
	}
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines, "count": count})
}

// CartDetails resolves every line to its food and prices the cart
func (h *Handler) CartDetails(c *gin.Context) {
	items, quote, err := h.Checkout.Preview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "quote": quote})
}

// AddToCart checks the food can be ordered in that quantity, then merges it
// into the cart
func (h *Handler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	food, err := h.Marketplace.GetFood(c.Request.Context(), req.FoodID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !food.Orderable() {
		h.respondError(c, &api.ValidationError{Field: "food_id", Message: fmt.Sprintf("%s is out of stock", food.Name)})
		return
	}
	if req.Quantity > food.Quantity {
		h.respondError(c, &api.ValidationError{Field: "quantity", Message: fmt.Sprintf("only %d available", food.Quantity)})
		return
	}

	if err := h.Cart.Add(req.FoodID, req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}
	h.GetCart(c)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Cart.UpdateQuantity(paramID(c, "foodId"), req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}
	h.GetCart(c)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	if err := h.Cart.Remove(paramID(c, "foodId")); err != nil {
		h.respondError(c, err)
		return
	}
	h.GetCart(c)
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.Cart.Clear(); err != nil {
		h.respondError(c, err)
		return
	}
	h.GetCart(c)
}
