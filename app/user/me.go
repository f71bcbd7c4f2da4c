package user

import (
	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/pkg/apierr"
	"bitwise74/auth-api/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me returns the profile of the caller
func Me(c *gin.Context, d *internal.Deps) {
	id, _ := middleware.GetIdentity(c)

	user, err := d.Store.FindByID(c.Request.Context(), id.UserID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"emailVerified": user.EmailVerified,
		"authorities":   id.Authorities,
		"createdAt":     user.CreatedAt,
	})
}
