package api

import (
	"context"  // Context for Redis operations
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"expense_tracker/internal/domain" // Importing domain models
	"expense_tracker/internal/ledger" // Ledger service
	"expense_tracker/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// AddExpenseRequest represents a new ledger entry
type AddExpenseRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`               // Positive amount
	Type        string  `json:"type" binding:"required,oneof=income expense"` // Entry kind
	Description string  `json:"description" binding:"required"`               // Free-text description
	Category    string  `json:"category"`                                     // Category label
}

// leaderboardCacheKey is shared with the premium handlers: ledger mutations
// change the aggregate the leaderboard ranks on
const leaderboardCacheKey = "leaderboard"

// expenseCachePrefix builds the cache-key prefix for one user's history pages
func expenseCachePrefix(userID uint) string {
	return "expenses:user:" + strconv.Itoa(int(userID))
}

// invalidateLedgerCaches drops every cached history page for the user plus
// the leaderboard, both derived from state the mutation just changed
func invalidateLedgerCaches(rdb *redis.Client, userID uint) {
	ctx := context.Background()                                      // Context for Redis operations
	_ = utils.InvalidatePrefix(ctx, rdb, expenseCachePrefix(userID)) // All cached pages for this user
	_ = utils.DeleteCache(ctx, rdb, leaderboardCacheKey)             // Leaderboard ranks on the aggregate
}

// AddExpenseHandler records a new income or expense entry for the
// authenticated user
func AddExpenseHandler(ledgers *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req AddExpenseRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		// Persist the entry and re-aggregate atomically
		entry, err := ledgers.Add(userID.(uint), req.Amount, req.Type, req.Description, req.Category)
		if err != nil {
			// Validation sentinels map to bad request
			if errors.Is(err, ledger.ErrInvalidAmount) || errors.Is(err, ledger.ErrInvalidKind) || errors.Is(err, ledger.ErrEmptyDesc) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Owner
				"amount":  req.Amount,  // Entry amount
				"type":    req.Type,    // Entry kind
				"error":   err.Error(), // Error message
			}).Error("Add transaction failed") // Log add failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add transaction"})
			return
		}
		// Log successful add
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,                          // Owner
			"amount":    req.Amount,                      // Entry amount
			"type":      req.Type,                        // Entry kind
			"category":  req.Category,                    // Category label
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Transaction added") // Log add success
		// Invalidate derived caches
		invalidateLedgerCaches(rdb, userID.(uint))
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Transaction added successfully", "transaction": entry})
	}
}

// DeleteExpenseHandler removes one of the authenticated user's entries
func DeleteExpenseHandler(ledgers *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Parse the path-scoped entry id
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			// Malformed ids are indistinguishable from missing entries
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		// Delete and re-aggregate atomically; ownership is checked inside
		if err := ledgers.Delete(userID.(uint), uint(id)); err != nil {
			// Another user's entry or an unknown id is a miss, never a leak
			if errors.Is(err, ledger.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":        userID,      // Owner
				"transaction_id": id,          // Target entry
				"error":          err.Error(), // Error message
			}).Error("Delete transaction failed") // Log delete failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
			return
		}
		// Log successful delete
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,                          // Owner
			"transaction_id": id,                              // Deleted entry
			"timestamp":      time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Transaction deleted") // Log delete success
		// Invalidate derived caches
		invalidateLedgerCaches(rdb, userID.(uint))
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
	}
}

// ListExpensesHandler returns one page of the authenticated user's ledger,
// newest first
func ListExpensesHandler(ledgers *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		page := 1      // Default page
		pageSize := 20 // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			// Convert page to integer
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If page_size exists in query
		if ps := c.Query("page_size"); ps != "" {
			// Convert page_size to integer
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		// Redis cache key
		cacheKey := expenseCachePrefix(userID.(uint)) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		ctx := context.Background() // Context for Redis operations
		var cached struct {
			Expenses   []domain.Expense `json:"expenses"`    // List of entries
			Page       int              `json:"page"`        // Current page
			PageSize   int              `json:"page_size"`   // Page size
			Total      int64            `json:"total"`       // Total entries
			TotalPages int              `json:"total_pages"` // Total pages
		}
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"expenses":    cached.Expenses,   // Cached entries
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total entries
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,
			})
			return
		}
		// Fetch the page from the ledger
		entries, total, err := ledgers.ListPage(userID.(uint), page, pageSize)
		if err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		// Calculate total pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"expenses":    entries,    // List of entries
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total entries
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Not from cache
		}
		// Cache the result for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp) // Return the page
	}
}
