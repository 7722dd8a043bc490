package devapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"food-marketplace-client/models"
	"food-marketplace-client/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// deliveryFee is added once to every order total.
var deliveryFee = decimal.NewFromInt(5)

type placeOrderRequest struct {
	ChefID          models.ID `json:"chef_id" binding:"required"`
	DeliveryAddress string    `json:"delivery_address" binding:"required"`
	DeliveryPhone   string    `json:"delivery_phone" binding:"required"`
	DeliveryTime    string    `json:"delivery_time"`
	Notes           string    `json:"notes"`
	Items           []struct {
		FoodID   models.ID `json:"food_id" binding:"required"`
		Quantity int       `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1,dive"`
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required,oneof=pending confirmed preparing ready delivered cancelled"`
}

// orderRejection aborts the order transaction with a client-facing message.
type orderRejection struct {
	status  int
	message string
}

func (e *orderRejection) Error() string { return e.message }

func parseID(id models.ID) (uint, error) {
	n, err := strconv.ParseUint(id.String(), 10, 64)
	return uint(n), err
}

// placeOrder snapshots each food's name and price, takes the quantities out of
// stock and stores the order with the delivery fee included in its total
func (s *Server) placeOrder(c *gin.Context) {
	customerID := getUserID(c)

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	chefID, err := parseID(req.ChefID)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, "The chef_id field is invalid.")
		return
	}

	order := Order{
		CustomerID:      customerID,
		ChefID:          chefID,
		Status:          models.StatusPending,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryPhone:   req.DeliveryPhone,
	}
	if req.DeliveryTime != "" {
		order.DeliveryTime = &req.DeliveryTime
	}
	if req.Notes != "" {
		order.Notes = &req.Notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		subtotal := decimal.Zero
		for _, item := range req.Items {
			foodID, err := parseID(item.FoodID)
			if err != nil {
				return &orderRejection{http.StatusUnprocessableEntity, "The food_id field is invalid."}
			}
			var food Food
			if err := tx.First(&food, foodID).Error; err != nil {
				return &orderRejection{http.StatusUnprocessableEntity, fmt.Sprintf("Food %d not found", foodID)}
			}
			if food.ChefID != chefID {
				return &orderRejection{http.StatusUnprocessableEntity, "All items must come from the same chef"}
			}
			if !food.IsAvailable || food.Quantity < item.Quantity {
				return &orderRejection{http.StatusUnprocessableEntity, fmt.Sprintf("'%s' is not available in that quantity", food.Name)}
			}
			if err := tx.Model(&food).Update("quantity", gorm.Expr("quantity - ?", item.Quantity)).Error; err != nil {
				return err
			}

			price := decimal.NewFromFloat(food.Price)
			subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			order.Items = append(order.Items, OrderItem{
				FoodID:   food.ID,
				FoodName: food.Name,
				Price:    food.Price,
				Quantity: item.Quantity,
			})
		}
		order.TotalPrice = subtotal.Add(deliveryFee).InexactFloat64()
		return tx.Create(&order).Error
	})

	var rejection *orderRejection
	if errors.As(err, &rejection) {
		fail(c, rejection.status, rejection.message)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to place order")
		return
	}

	s.logger.Infow("order placed", "order_id", order.ID, "customer_id", customerID, "chef_id", chefID, "total", order.TotalPrice)
	if err := s.loadOrder(&order, order.ID); err != nil {
		s.logger.Errorw("reload placed order", "order_id", order.ID, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Order placed successfully", "data": order})
}

func (s *Server) loadOrder(order *Order, id interface{}) error {
	return s.db.Preload("Items.Food").Preload("Customer").Preload("Chef").First(order, id).Error
}

// listOrders returns the caller's orders: placed ones for customers, received
// ones for chefs
func (s *Server) listOrders(c *gin.Context) {
	column := "customer_id"
	if getRole(c) == models.RoleChef {
		column = "chef_id"
	}

	var orders []Order
	err := s.db.Preload("Items.Food").Preload("Customer").Preload("Chef").
		Where(column+" = ?", getUserID(c)).
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

// participantOrder loads an order the caller is party to
func (s *Server) participantOrder(c *gin.Context) (*Order, bool) {
	var order Order
	if err := s.loadOrder(&order, c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, "Order not found")
		return nil, false
	}
	userID := getUserID(c)
	if order.CustomerID != userID && order.ChefID != userID {
		fail(c, http.StatusForbidden, "This order does not belong to you")
		return nil, false
	}
	return &order, true
}

func (s *Server) getOrder(c *gin.Context) {
	order, ok := s.participantOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// updateOrderStatus lets the receiving chef move an order along its lifecycle.
// Cancelling puts the ordered quantities back in stock.
func (s *Server) updateOrderStatus(c *gin.Context) {
	order, ok := s.participantOrder(c)
	if !ok {
		return
	}
	if order.ChefID != getUserID(c) {
		fail(c, http.StatusForbidden, "This order was not placed with you")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if req.Status == order.Status {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status unchanged", "data": order})
		return
	}
	if !statemachine.IsForward(order.Status, req.Status) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"success":           false,
			"message":           fmt.Sprintf("Cannot move order from %s to %s", order.Status, req.Status),
			"valid_next_states": statemachine.NextStatuses(order.Status),
		})
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Update("status", req.Status).Error; err != nil {
			return err
		}
		if req.Status != models.StatusCancelled {
			return nil
		}
		for _, item := range order.Items {
			err := tx.Model(&Food{}).Where("id = ?", item.FoodID).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	s.logger.Infow("order status changed", "order_id", order.ID, "status", req.Status)
	if err := s.loadOrder(order, order.ID); err != nil {
		s.logger.Errorw("reload updated order", "order_id", order.ID, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated", "data": order})
}
