package api

import (
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes

	"expense_tracker/internal/export" // Export service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// DownloadExpensesHandler exports the authenticated user's full ledger as CSV
// and returns the generated file's URL
func DownloadExpensesHandler(exports *export.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Build the CSV, store it and record the history row
		url, err := exports.Export(c.Request.Context(), userID.(uint))
		if err != nil {
			// Nothing to export is a miss
			if errors.Is(err, export.ErrNoEntries) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No expenses found"})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Owner
				"error":   err.Error(), // Error message
			}).Error("Export failed") // Log export failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error downloading expenses"})
			return
		}
		// Return the file location
		c.JSON(http.StatusOK, gin.H{"fileUrl": url})
	}
}

// DownloadHistoryHandler lists the authenticated user's past exports,
// newest first
func DownloadHistoryHandler(exports *export.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Fetch the append-only history
		history, err := exports.History(userID.(uint))
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Owner
				"error":   err.Error(), // Error message
			}).Error("Fetch download history failed") // Log history failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching download history"})
			return
		}
		// Return the history rows
		c.JSON(http.StatusOK, gin.H{"history": history})
	}
}
