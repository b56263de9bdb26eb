package handlers

import (
	"errors"
	"net/http"
	"strings"

	"funko-catalog-api/internal/auth"
	"funko-catalog-api/internal/logging"
	"funko-catalog-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// AuthHandler issues tokens for catalog users.
type AuthHandler struct {
	db     *gorm.DB
	issuer *auth.TokenIssuer
}

// NewAuthHandler creates an AuthHandler storing users in db.
func NewAuthHandler(db *gorm.DB, issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{db: db, issuer: issuer}
}

// Login handles the login endpoint
// POST /api/login
// The first login for a username registers it; later logins must match the stored password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Username and password are required.",
		})
		return
	}
	username := strings.TrimSpace(req.Username)
	log := logging.FromContext(c.Request.Context())

	var user models.User
	err := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
			return
		}
		user = models.User{
			ID:           uuid.NewString(),
			Username:     username,
			PasswordHash: hash,
		}
		if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
			log.Error().Err(err).Str("username", username).Msg("failed to create user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		log.Info().Str("user_id", user.ID).Str("username", username).Msg("user registered")
	case err != nil:
		log.Error().Err(err).Str("username", username).Msg("failed to fetch user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	default:
		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
	}

	token, err := h.issuer.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Message:  "Login successful",
	})
}
