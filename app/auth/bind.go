// Package auth contains the handlers for the login, registration and one
// time code endpoints
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bind decodes the request body into dst and answers 400 when it can't
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		requestID := c.GetString("requestID")

		c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"status":    "BAD_REQUEST",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return false
	}

	return true
}
