package api

import (
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes

	"expense_tracker/internal/account" // Credential service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// ForgotPasswordRequestBody carries the email asking for a reset
type ForgotPasswordRequestBody struct {
	Email string `json:"email" binding:"required,email"` // Email must be provided
}

// ResetPasswordRequestBody carries the new password for a reset token
type ResetPasswordRequestBody struct {
	Password string `json:"password" binding:"required"` // New password must be provided
}

// ForgotPasswordHandler issues a one-time reset token and mails its link.
// A failed send deletes the token again, so the caller can safely retry.
func ForgotPasswordHandler(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequestBody // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Create the request and attempt delivery
		if err := accounts.RequestReset(c.Request.Context(), req.Email); err != nil {
			switch {
			case errors.Is(err, account.ErrNoSuchUser):
				// Unknown email
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			case errors.Is(err, account.ErrMailDelivery):
				// Delivery failed; the compensating delete already ran
				logrus.WithFields(logrus.Fields{
					"email": req.Email,   // Target address
					"error": err.Error(), // Error message
				}).Error("Reset mail delivery failed") // Log delivery failure
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error sending reset email"})
			default:
				logrus.WithFields(logrus.Fields{
					"email": req.Email,   // Target address
					"error": err.Error(), // Error message
				}).Error("Forgot password failed") // Log request failure
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			}
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset link sent"})
	}
}

// VerifyResetHandler reports whether a reset token is still redeemable
func VerifyResetHandler(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token") // Token from the path
		// Look up the active request
		valid, err := accounts.VerifyReset(token)
		if err != nil {
			// Lookup failures surface as a server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error verifying token"})
			return
		}
		// Consumed or unknown tokens are invalid
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired reset link"})
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Valid reset token"})
	}
}

// ResetPasswordHandler consumes the token and sets the new password; a token
// is redeemable at most once even under concurrent requests
func ResetPasswordHandler(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")        // Token from the path
		var req ResetPasswordRequestBody // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}
		// Validate password length
		if !isValidPassword(req.Password) {
			// If password is invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be 8-64 characters"})
			return
		}
		// Atomically consume the token and update the credential hash
		if err := accounts.CompleteReset(token, req.Password); err != nil {
			// A consumed or unknown token never grants another change
			if errors.Is(err, account.ErrInvalidToken) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired reset link"})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"error": err.Error(), // Error message
			}).Error("Reset password failed") // Log reset failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error resetting password"})
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
	}
}
