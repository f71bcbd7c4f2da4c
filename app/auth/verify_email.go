package auth

import (
	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/pkg/apierr"
	"bitwise74/auth-api/pkg/middleware"
	"bitwise74/auth-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VerifyEmailRequest mails a verification code to the caller
func VerifyEmailRequest(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	id, _ := middleware.GetIdentity(c)

	if err := d.Auth.RequestEmailVerification(c.Request.Context(), id.Email); err != nil {
		zap.L().Warn("Failed to issue verification code", zap.Error(err), zap.String("requestID", requestID))

		apierr.Respond(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}

type verifyEmailBody struct {
	Code string `json:"code"`
}

// VerifyEmail consumes the code and marks the caller's email verified
func VerifyEmail(c *gin.Context, d *internal.Deps) {
	id, _ := middleware.GetIdentity(c)

	var data verifyEmailBody
	if !bind(c, &data) {
		return
	}

	if err := validators.OTPValidator(data.Code); err != nil {
		apierr.Respond(c, apierr.Field("code", err))
		return
	}

	user, err := d.Auth.VerifyEmail(c.Request.Context(), id.Email, data.Code)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":    user.Email,
		"verified": user.EmailVerified,
	})
}
