package handlers

import (
	"net/http"

	"food-marketplace-client/api"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GetSession reports the cached session without touching the network
func (h *Handler) GetSession(c *gin.Context) {
	user := h.Session.User()
	c.JSON(http.StatusOK, gin.H{"authenticated": user != nil, "user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.Session.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user})
}

func (h *Handler) Register(c *gin.Context) {
	var req api.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.Session.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully", "user": user})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Session.Logout(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Refresh re-validates the token; an invalid one quietly signs the profile out
func (h *Handler) Refresh(c *gin.Context) {
	h.Session.Refresh(c.Request.Context())
	h.GetSession(c)
}
