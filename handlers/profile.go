package handlers

import (
	"net/http"

	"food-marketplace-client/api"

	"github.com/gin-gonic/gin"
)

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.Marketplace.GetProfile(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile saves the changes remotely and refreshes the session snapshot
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req api.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.Marketplace.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.Session.Replace(user); err != nil {
		h.Logger.Warnw("update session after profile change", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Marketplace.UpdatePassword(c.Request.Context(), req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
