package api

import (
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes

	"expense_tracker/internal/report" // Report service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// GetReportHandler generates the daily/monthly/yearly report for the
// authenticated premium user. The route also sits behind the premium
// middleware; the service re-checks entitlement itself before querying.
func GetReportHandler(reports *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		period := c.Param("type") // Period token from the path
		// Generate the report
		rep, err := reports.Generate(userID.(uint), period)
		if err != nil {
			switch {
			case errors.Is(err, report.ErrInvalidPeriod):
				// Unknown period token
				c.JSON(http.StatusBadRequest, gin.H{"error": "Period must be daily, monthly or yearly"})
			case errors.Is(err, report.ErrNotPremium):
				// Gate fires before any ledger query runs
				c.JSON(http.StatusForbidden, gin.H{"error": "Premium feature only"})
			default:
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"user_id": userID,      // Owner
					"period":  period,      // Requested period
					"error":   err.Error(), // Error message
				}).Error("Report generation failed") // Log report failure
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating report"})
			}
			return
		}
		// Return entries plus the summary
		c.JSON(http.StatusOK, gin.H{"transactions": rep.Entries, "summary": rep.Summary})
	}
}
