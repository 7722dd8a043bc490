package handlers

import (
	"net/http"

	"food-marketplace-client/checkout"
	"food-marketplace-client/models"
	"food-marketplace-client/statemachine"

	"github.com/gin-gonic/gin"
)

// PlaceOrder checks out the cart (customer only)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	receipt, err := h.Checkout.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   receipt.Order,
		"quote":   receipt.Quote,
	})
}

// GetMyOrders returns the caller's order history
func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.Dashboard.History(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

func (h *Handler) GetOrderDetail(c *gin.Context) {
	order, err := h.Dashboard.Order(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetChefOrders lists incoming orders with the statuses each can move to
func (h *Handler) GetChefOrders(c *gin.Context) {
	orders, err := h.Dashboard.Orders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Novelty: group counts by status for the dashboard summary
	summary := map[models.OrderStatus]int{}
	out := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		summary[o.Status]++
		out = append(out, gin.H{"order": o, "next_statuses": statemachine.NextStatuses(o.Status)})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "order_summary": summary, "orders": out})
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	order, err := h.Dashboard.SetOrderStatus(c.Request.Context(), paramID(c, "id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Order status updated",
		"order":         order,
		"next_statuses": statemachine.NextStatuses(order.Status),
	})
}
