package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const adminSubjectKey = "adminSubject"

// RequireAdmin rejects requests without a valid admin bearer token.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		subject, err := h.auth.Verify(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(adminSubjectKey, subject)
		c.Next()
	}
}
