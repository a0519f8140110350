package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/services"
)

const (
	contextUserID    = "user_id"
	contextTenantID  = "tenant_id"
	contextRole      = "role"
	contextProfileID = "profile_id"
)

// JWTAuthMiddleware validates the bearer token and stores the caller's
// identity in the gin context.
type JWTAuthMiddleware struct {
	authService services.AuthService
}

func NewJWTAuthMiddleware(authService services.AuthService) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{authService: authService}
}

func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authorization header is required",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authorization header must be a bearer token",
			})
			return
		}

		claims, err := m.authService.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		if err := m.authService.VerifyUser(c.Request.Context(), claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Account is no longer active",
			})
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextTenantID, claims.TenantID)
		c.Set(contextRole, string(claims.Role))
		c.Set(contextProfileID, claims.ProfileID)

		c.Next()
	}
}

// RequireRoleMiddleware rejects callers whose role is not in the allowed set.
func (m *JWTAuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.UserRole(c.GetString(contextRole))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient role for this operation",
		})
	}
}

// actorFromContext rebuilds the service-layer actor from context values set
// by the auth middleware.
func actorFromContext(c *gin.Context) services.Actor {
	return services.Actor{
		UserID:    c.GetString(contextUserID),
		TenantID:  c.GetString(contextTenantID),
		Role:      models.UserRole(c.GetString(contextRole)),
		ProfileID: c.GetString(contextProfileID),
	}
}
