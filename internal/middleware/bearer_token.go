package middleware

import (
	"net/http"
	"strings"

	"github.com/onegreenvn/title-studio-backend/internal/database/repository"
	"github.com/onegreenvn/title-studio-backend/internal/services/auth"

	"github.com/gin-gonic/gin"
)

type BearerTokenMiddleware struct {
	authService *auth.AuthService
	userRepo    *repository.UserRepository
}

func NewBearerTokenMiddleware(authService *auth.AuthService, userRepo *repository.UserRepository) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{
		authService: authService,
		userRepo:    userRepo,
	}
}

// BearerTokenAuthMiddleware validates JWT token and sets user info in context
func (m *BearerTokenMiddleware) BearerTokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		tokenInfo, err := m.authService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		user, err := m.userRepo.GetByID(tokenInfo.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("token_info", tokenInfo)

		c.Next()
	}
}
