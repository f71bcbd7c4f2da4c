package auth

import (
	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/pkg/apierr"
	"bitwise74/auth-api/pkg/middleware"
	"bitwise74/auth-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if !bind(c, &data) {
		return
	}

	if data.Email == "" {
		apierr.Respond(c, apierr.Field("email", validators.ErrEmailEmpty))
		return
	}

	if data.Password == "" {
		apierr.Respond(c, apierr.Field("password", validators.ErrPasswordEmpty))
		return
	}

	res, err := d.Auth.Login(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		zap.L().Debug("Login failed", zap.Error(err), zap.String("requestID", requestID))

		apierr.Respond(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.DefaultCookieName, res.Token, CookieMaxAge, "/", "", viper.GetBool("security.cookie_secure"), true)

	c.JSON(http.StatusOK, gin.H{
		"token":     res.Token,
		"email":     res.User.Email,
		"expiresAt": res.ExpiresAt,
	})
}

// CookieMaxAge is the lifetime of the auth cookie in seconds
const CookieMaxAge = 3600
