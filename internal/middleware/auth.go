package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/edupress/lms-backend/internal/model"
	"github.com/edupress/lms-backend/internal/repository"
	"github.com/edupress/lms-backend/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthMiddleware struct {
	userRepo repository.UserRepository
	tokens   *token.Service
}

func NewAuthMiddleware(userRepo repository.UserRepository, tokens *token.Service) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	// Fallback to query parameter "token"
	return c.Query("token")
}

// resolve turns a raw token into the current user record. A stale token for
// a since-deleted user is a miss, not an anonymous fallback.
func (m *AuthMiddleware) resolve(c *gin.Context, raw string) (*model.User, error) {
	claims, err := m.tokens.Parse(raw)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpired):
			return nil, errors.New("token expired")
		case errors.Is(err, token.ErrMalformed):
			return nil, errors.New("token malformed")
		case errors.Is(err, token.ErrNoSubject):
			return nil, errors.New("token has no subject")
		default:
			return nil, errors.New("invalid token")
		}
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.New("invalid token subject")
	}

	user, err := m.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, errors.New("could not resolve user")
	}

	return user, nil
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		user, err := m.resolve(c, raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth resolves an identity when a token is present but lets
// anonymous callers through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}

		user, err := m.resolve(c, raw)
		if err != nil || !user.IsActive {
			c.Next()
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set("user", user)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "not enough privileges"})
		c.Abort()
	}
}

// CurrentUser returns the resolved user, or nil for anonymous callers.
func CurrentUser(c *gin.Context) *model.User {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}
