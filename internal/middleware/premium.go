package middleware

import (
	"net/http" // HTTP status codes

	"expense_tracker/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// PremiumOnlyMiddleware checks the user's entitlement in the database on each
// request rather than trusting the token's premium claim, so an upgrade takes
// effect immediately and a stale token never grants access.
func PremiumOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Premium feature only"})
			return
		}
		// Check the live entitlement flag
		if !user.IsPremium {
			// If not premium, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Premium feature only"})
			return
		}
		// If premium, proceed to the next handler
		c.Next()
	}
}
