package auth

import (
	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/pkg/apierr"
	"bitwise74/auth-api/pkg/validators"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func Register(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if !bind(c, &data) {
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		zap.L().Debug("Invalid email", zap.Error(err), zap.String("requestID", requestID))

		apierr.Respond(c, apierr.Field("email", err))
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		zap.L().Debug("Invalid password", zap.Error(err), zap.String("requestID", requestID))

		apierr.Respond(c, apierr.Field("password", err))
		return
	}

	user, err := d.Auth.Register(c.Request.Context(), data.Email, data.Password, strings.TrimSpace(data.Name))
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	zap.L().Info("User registered", zap.String("userID", user.ID), zap.String("requestID", requestID))

	c.JSON(http.StatusCreated, gin.H{
		"userID": user.ID,
		"email":  user.Email,
	})
}
