package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mallardapp/mallard/backend/internal/models"
	"github.com/mallardapp/mallard/backend/internal/repositories"
)

// UserHandler serves user profile endpoints.
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user profile routes on a protected group
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetCurrentUser)
}

// GetCurrentUser resolves the authenticated user's record from the JWT claims
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, user)
}
