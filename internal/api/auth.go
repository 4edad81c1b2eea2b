package api

import (
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"expense_tracker/internal/account" // Credential service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for signup
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`        // Display name must be provided
	Email    string `json:"email" binding:"required,email"` // Email must be provided and well-formed
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Email must be provided
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Message   string `json:"message"`   // Human-readable outcome
	Token     string `json:"token"`     // JWT session token
	IsPremium bool   `json:"isPremium"` // Entitlement at login time
}

// isValidPassword checks if the password length is between 8 and 64 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 64 // Return true if length is valid
}

// SignupHandler registers a new user account
func SignupHandler(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate display name
		if strings.TrimSpace(req.Name) == "" {
			// If name is blank, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name must not be empty"})
			return
		}
		// Validate password length
		if !isValidPassword(req.Password) {
			// If password is invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-64 characters"})
			return
		}
		// Create the user
		user, err := accounts.SignUp(req.Name, req.Email, req.Password)
		if err != nil {
			// Duplicate email is a conflict, everything else is a server error
			if errors.Is(err, account.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"email": req.Email,   // Attempted email
				"error": err.Error(), // Error message
			}).Error("Signup failed") // Log signup failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully",
			"user":    gin.H{"id": user.ID, "name": user.Name, "email": user.Email},
		})
	}
}

// LoginHandler authenticates a user and returns a JWT session token
func LoginHandler(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Authenticate and issue a token
		token, isPremium, err := accounts.Login(req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, account.ErrNoSuchUser):
				// Unknown email
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			case errors.Is(err, account.ErrBadCredentials):
				// Wrong password
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
			default:
				logrus.WithFields(logrus.Fields{
					"email": req.Email,   // Attempted email
					"error": err.Error(), // Error message
				}).Error("Login failed") // Log login failure
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging in user"})
			}
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Message: "Login successful", Token: token, IsPremium: isPremium})
	}
}
