package routes

import (
	"food-marketplace-client/handlers"
	"food-marketplace-client/middleware"
	"food-marketplace-client/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Session
		public.GET("/session", h.GetSession)
		public.POST("/session/login", h.Login)
		public.POST("/session/register", h.Register)
		public.POST("/session/logout", h.Logout)
		public.POST("/session/refresh", h.Refresh)

		// Catalog
		public.GET("/foods", h.ListFoods)
		public.GET("/foods/:id", h.GetFood)
		public.GET("/categories", h.ListCategories)
		public.GET("/categories/:id", h.GetCategory)
		public.GET("/categories/:id/foods", h.CategoryFoods)

		// Cart lives on this profile, signed in or not
		public.GET("/cart", h.GetCart)
		public.GET("/cart/details", h.CartDetails)
		public.POST("/cart/items", h.AddToCart)
		public.PUT("/cart/items/:foodId", h.UpdateCartItem)
		public.DELETE("/cart/items/:foodId", h.RemoveCartItem)
		public.DELETE("/cart", h.ClearCart)

		// Change signals
		public.GET("/events", h.Events)
	}

	// ── Signed-in routes ───────────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.SessionRequired(h.Session))
	{
		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)
		auth.PUT("/profile/password", h.UpdatePassword)

		auth.GET("/orders", h.GetMyOrders)
		auth.GET("/orders/:id", h.GetOrderDetail)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/checkout")
	customer.Use(middleware.SessionRequired(h.Session), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("", h.PlaceOrder)
	}

	// ── Chef routes ────────────────────────────────────────────────
	chef := r.Group("/api/dashboard")
	chef.Use(middleware.SessionRequired(h.Session), middleware.RoleRequired(models.RoleChef))
	{
		chef.GET("/foods", h.GetMyFoods)
		chef.POST("/foods", h.AddFood)
		chef.PUT("/foods/:id", h.UpdateFood)
		chef.POST("/foods/:id/toggle", h.ToggleFood)
		chef.DELETE("/foods/:id", h.DeleteFood)

		chef.GET("/orders", h.GetChefOrders)
		chef.PUT("/orders/:id/status", h.UpdateOrderStatus)
	}
}
