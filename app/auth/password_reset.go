package auth

import (
	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/pkg/apierr"
	"bitwise74/auth-api/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type resetRequestBody struct {
	Email string `json:"email"`
}

// PasswordResetRequest mails a reset code. The email comes from the query
// string or, if absent there, from the JSON body.
func PasswordResetRequest(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	email := c.Query("email")
	if email == "" && c.Request.ContentLength != 0 {
		var data resetRequestBody
		if !bind(c, &data) {
			return
		}

		email = data.Email
	}

	if err := validators.EmailValidator(email); err != nil {
		apierr.Respond(c, apierr.Field("email", err))
		return
	}

	if err := d.Auth.RequestPasswordReset(c.Request.Context(), email); err != nil {
		if !errors.Is(err, apierr.ErrNotificationFailure) {
			zap.L().Debug("Password reset request failed", zap.Error(err), zap.String("requestID", requestID))
		} else {
			zap.L().Warn("Failed to send password reset code", zap.Error(err), zap.String("requestID", requestID))
		}

		apierr.Respond(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}

type resetBody struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// PasswordReset consumes a reset code and sets the new password
func PasswordReset(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resetBody
	if !bind(c, &data) {
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		apierr.Respond(c, apierr.Field("email", err))
		return
	}

	if err := validators.OTPValidator(data.Code); err != nil {
		apierr.Respond(c, apierr.Field("code", err))
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		apierr.Respond(c, apierr.Field("newPassword", err))
		return
	}

	if err := d.Auth.ResetPassword(c.Request.Context(), data.Email, data.Code, data.NewPassword); err != nil {
		apierr.Respond(c, err)
		return
	}

	zap.L().Info("Password reset", zap.String("requestID", requestID))
	c.Status(http.StatusNoContent)
}
