package middleware

import (
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = contextKey("userID")
	orgIDKey  = contextKey("orgID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetOrgIDFromContext retrieves the caller's organization ID from the request context.
func GetOrgIDFromContext(c *gin.Context) (string, bool) {
	orgID, ok := c.Request.Context().Value(orgIDKey).(string)
	if !ok || orgID == "" {
		return "", false
	}
	return orgID, true
}

// GetOrgContext builds the explicit organization context passed to the services.
func GetOrgContext(c *gin.Context) (domain.OrgContext, bool) {
	orgID, ok := GetOrgIDFromContext(c)
	if !ok {
		return domain.OrgContext{}, false
	}
	userID, _ := GetUserIDFromContext(c)
	return domain.OrgContext{OrgID: orgID, UserID: userID}, true
}
