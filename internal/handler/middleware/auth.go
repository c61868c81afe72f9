package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"bookline/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Staff endpoints (completing and cancelling appointments) require a
// bearer token from the external identity service. Customer-facing
// endpoints are public.
type AuthMiddleware struct {
	tokens *jwt.Service
}

const (
	ctxStaffIDKey   = "staff_id"
	ctxCompanyIDKey = "staff_company_id"
	ctxStaffRoleKey = "staff_role"
)

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxStaffIDKey, claims.StaffID)
		c.Set(ctxCompanyIDKey, claims.CompanyID)
		c.Set(ctxStaffRoleKey, claims.Role)
		c.Set("jwt_claims", map[string]any{
			"staff_id": claims.StaffID.String(),
			"role":     claims.Role,
		})
		c.Next()
	}
}

// GetStaffCompanyID reads the authenticated staff's company from the
// request context. Handlers use it to scope appointment access to the
// caller's company.
func GetStaffCompanyID(c *gin.Context) (uuid.UUID, bool) {
	companyID, exists := c.Get(ctxCompanyIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := companyID.(uuid.UUID)
	return id, ok
}
