package api

import (
	"context"  // Context for Redis operations
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes
	"time"     // Time durations

	"expense_tracker/internal/gateway" // Payment gateway port
	"expense_tracker/internal/premium" // Entitlement service
	"expense_tracker/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// premiumPricePaise is the fixed premium price in the currency's smallest unit
const premiumPricePaise = 2500

// UpdateStatusRequest is the client-side payment outcome callback
type UpdateStatusRequest struct {
	OrderID   string `json:"order_id" binding:"required"` // External order identifier
	PaymentID string `json:"payment_id"`                  // External payment identifier
	Status    string `json:"status" binding:"required"`   // Terminal status reported by the gateway
}

// CreateOrderHandler registers a purchase intent with the payment gateway and
// records it at PENDING status; nothing transitions yet
func CreateOrderHandler(premiums *premium.Service, pg gateway.PaymentGateway, keyID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second) // Bound the gateway call
		defer cancel()
		// Ask the gateway for an order id
		orderID, err := pg.CreateOrder(ctx, premiumPricePaise, "INR")
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Buyer
				"error":   err.Error(), // Error message
			}).Error("Create order failed") // Log gateway failure
			// Gateway failures surface as a dependency error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating order"})
			return
		}
		// Record the intent at PENDING
		if _, err := premiums.RecordOrder(userID.(uint), orderID); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":  userID,      // Buyer
				"order_id": orderID,     // Gateway order
				"error":    err.Error(), // Error message
			}).Error("Record order failed") // Log persistence failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating order"})
			return
		}
		// Hand the client what checkout needs
		c.JSON(http.StatusOK, gin.H{"order_id": orderID, "key_id": keyID})
	}
}

// UpdateStatusHandler persists the gateway's outcome for the caller's order;
// a SUCCESSFUL status upgrades the caller to premium atomically with the
// order write
func UpdateStatusHandler(premiums *premium.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateStatusRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Apply the status; the entitlement transition happens inside
		isPremium, err := premiums.UpdateStatus(userID.(uint), req.OrderID, req.PaymentID, req.Status)
		if err != nil {
			// Another user's order id is a miss, not an update
			if errors.Is(err, premium.ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":  userID,      // Buyer
				"order_id": req.OrderID, // Gateway order
				"status":   req.Status,  // Reported status
				"error":    err.Error(), // Error message
			}).Error("Update transaction status failed") // Log update failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating transaction"})
			return
		}
		// Log the applied transition
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,      // Buyer
			"order_id":   req.OrderID, // Gateway order
			"status":     req.Status,  // Applied status
			"is_premium": isPremium,   // Resulting entitlement
		}).Info("Payment status updated") // Log update success
		// Drop the cached entitlement flag so the upgrade is visible at once
		_ = utils.DeleteCache(context.Background(), rdb, premiumCacheKey(userID.(uint)))
		// Return the resulting entitlement
		c.JSON(http.StatusOK, gin.H{"success": true, "isPremium": isPremium})
	}
}
