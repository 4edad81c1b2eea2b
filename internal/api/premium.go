package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"expense_tracker/internal/premium" // Entitlement service
	"expense_tracker/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// premiumCacheKey builds the cache key for one user's entitlement flag
func premiumCacheKey(userID uint) string {
	return "premium:user:" + strconv.Itoa(int(userID))
}

// PremiumStatusHandler reports whether the authenticated user holds premium
// entitlement, cached briefly to keep the landing page cheap
func PremiumStatusHandler(premiums *premium.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()                // Context for Redis operations
		cacheKey := premiumCacheKey(userID.(uint)) // Cache key for the flag
		var cached bool
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			// Return cached flag
			c.JSON(http.StatusOK, gin.H{"isPremium": cached, "cached": true})
			return
		}
		// Read the live entitlement
		isPremium, err := premiums.Status(userID.(uint))
		if err != nil {
			// Unknown user or query failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching premium status"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, isPremium, 60*time.Second)     // Cache the flag for 60 seconds
		c.JSON(http.StatusOK, gin.H{"isPremium": isPremium, "cached": false}) // Return the flag
	}
}

// LeaderboardHandler returns all users ranked by expense total, highest
// first, reading only the denormalized aggregate
func LeaderboardHandler(premiums *premium.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		var cached []premium.LeaderboardRow
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, leaderboardCacheKey, &cached)
		if err == nil && found {
			// Return cached ranking
			c.JSON(http.StatusOK, cached)
			return
		}
		// Rank from the aggregate column
		rows, err := premiums.Leaderboard()
		if err != nil {
			// If ranking fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching leaderboard"})
			return
		}
		// Cache the ranking for 60 seconds; ledger mutations invalidate it
		_ = utils.SetCache(ctx, rdb, leaderboardCacheKey, rows, 60*time.Second)
		c.JSON(http.StatusOK, rows) // Return the ranking
	}
}
