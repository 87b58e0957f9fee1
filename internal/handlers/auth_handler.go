package handlers

import (
	"errors"
	"net/http"
	"time"

	"merchandising-service/internal/middleware"
	"merchandising-service/internal/models"
	"merchandising-service/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

type AuthHandler struct {
	repo      *repository.UserRepository
	jwtSecret string
	logger    *logrus.Logger
}

func NewAuthHandler(repo *repository.UserRepository, jwtSecret string, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		repo:      repo,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Login verifies credentials and issues a signed session token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, err := h.repo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			errorJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		errorJSON(c, http.StatusInternalServerError, "DB_ERROR", "Failed to fetch user")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		errorJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
		return
	}

	now := time.Now()
	claims := middleware.Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		MagasinID: user.MagasinID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign token")
		errorJSON(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}

// Me returns the account behind the current token.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		errorJSON(c, http.StatusUnauthorized, "MISSING_TOKEN", "Authentication required")
		return
	}
	id, ok := userID.(int)
	if !ok {
		errorJSON(c, http.StatusUnauthorized, "INVALID_CLAIMS", "Invalid token claims")
		return
	}

	user, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			errorJSON(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		errorJSON(c, http.StatusInternalServerError, "DB_ERROR", "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// UsersByStore lists the accounts assigned to one store, for task assignment.
// GET /api/auth1/users/store/:magasinId
func (h *AuthHandler) UsersByStore(c *gin.Context) {
	users, err := h.repo.GetByMagasin(c.Param("magasinId"))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "DB_ERROR", "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, models.UserListResponse{Success: true, Data: users})
}
