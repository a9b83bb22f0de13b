package middleware

import (
	"net/http"
	"strings"

	"anoa.com/freelancehub/internal/entity"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/pkg/jwtauth"
	"anoa.com/freelancehub/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	signer   *jwtauth.Signer
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, signer *jwtauth.Signer) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		signer:   signer,
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

	// Fallback to query parameter "token" (useful for WebSockets)
	return c.Query("token")
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required", "status": "unauthorized"})
			return
		}

		claims, err := m.signer.Parse(tokenString, jwtauth.TypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "status": "unauthorized"})
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RequireRole trusts the role claim of the access token.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := entity.Role(response.GetUserRole(c))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you are not allowed to perform this action", "status": "permission_denied"})
	}
}

// RequireAdmin re-reads the role from the database so demoted admins lose access immediately.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := response.GetUserID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated", "status": "unauthorized"})
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found", "status": "unauthorized"})
			return
		}

		if user.Role != entity.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required", "status": "permission_denied"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
