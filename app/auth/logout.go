package auth

import (
	"bitwise74/auth-api/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// Logout expires the auth cookie. Tokens are stateless so one that was
// copied elsewhere stays valid until it expires.
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.DefaultCookieName, "", -1, "/", "", viper.GetBool("security.cookie_secure"), true)
	c.Status(http.StatusNoContent)
}
