package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meddesk/clinic-api/pkg/auth"
)

const (
	ctxStaffID  = "staff_id"
	ctxClinicID = "clinic_id"
	ctxRole     = "role"
)

// Auth validates the bearer token and stores the staff identity on the
// request context.
func Auth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing authorization header"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid authorization header"})
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.Set(ctxStaffID, claims.StaffID)
		c.Set(ctxClinicID, claims.ClinicID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// StaffID returns the authenticated staff id, or uuid.Nil on unauthenticated
// routes.
func StaffID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ctxStaffID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// ClinicID returns the authenticated staff member's clinic id.
func ClinicID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ctxClinicID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
