package root

import (
	"bitwise74/auth-api/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validate answers 200 with the caller when the token is good. Rejection
// of requests without a token is done by RequireIdentity.
func Validate(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)

	c.JSON(http.StatusOK, gin.H{
		"userID":      id.UserID,
		"email":       id.Email,
		"authorities": id.Authorities,
	})
}
