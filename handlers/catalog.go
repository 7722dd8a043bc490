package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListFoods searches the catalog (public)
func (h *Handler) ListFoods(c *gin.Context) {
	foods, err := h.Marketplace.ListFoods(c.Request.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Novelty: filter to what can be ordered right now
	if c.Query("available") == "true" {
		orderable := foods[:0]
		for _, f := range foods {
			if f.Orderable() {
				orderable = append(orderable, f)
			}
		}
		foods = orderable
	}
	c.JSON(http.StatusOK, gin.H{"count": len(foods), "foods": foods})
}

func (h *Handler) GetFood(c *gin.Context) {
	food, err := h.Marketplace.GetFood(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"food": food, "orderable": food.Orderable()})
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Marketplace.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.Marketplace.GetCategory(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *Handler) CategoryFoods(c *gin.Context) {
	foods, err := h.Marketplace.CategoryFoods(c.Request.Context(), paramID(c, "id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(foods), "foods": foods})
}
