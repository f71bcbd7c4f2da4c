package apierr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Problem is the classification of an error at the HTTP boundary
type Problem struct {
	Code    int
	Status  string
	Message string
	Field   string
}

var table = []struct {
	err error
	p   Problem
}{
	{ErrInvalidCredentials, Problem{http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials", ""}},
	{ErrAccountDisabled, Problem{http.StatusForbidden, "FORBIDDEN", "This account has been disabled", ""}},
	{ErrTokenExpired, Problem{http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token expired. Please log in again", ""}},
	{ErrTokenInvalid, Problem{http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token invalid", ""}},
	{ErrAuthenticationFailed, Problem{http.StatusUnauthorized, "UNAUTHORIZED", "Authentication failed", ""}},
	{ErrUnauthenticated, Problem{http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", ""}},
	{ErrUserNotFound, Problem{http.StatusNotFound, "NOT_FOUND", "User not found", ""}},
	{ErrUserAlreadyExists, Problem{http.StatusConflict, "CONFLICT", "This email is already registered. Please login or use a different email", ""}},
	{ErrInvalidOTP, Problem{http.StatusBadRequest, "BAD_REQUEST", "Invalid verification code", ""}},
	{ErrOTPExpired, Problem{http.StatusGone, "GONE", "Verification code expired. Please request a new one", ""}},
	{ErrNotificationFailure, Problem{http.StatusBadGateway, "BAD_GATEWAY", "Failed to send email. Please try again", ""}},
	{ErrVersionConflict, Problem{http.StatusConflict, "CONFLICT", "The account was modified concurrently. Please try again", ""}},
}

var internalProblem = Problem{http.StatusInternalServerError, "INTERNAL", "Internal server error", ""}

// Classify maps err onto a Problem. Unknown errors become an internal
// error so store or signing details never leak to the caller.
func Classify(err error) Problem {
	var fe *FieldError
	if errors.As(err, &fe) {
		return Problem{http.StatusBadRequest, "BAD_REQUEST", fe.Err.Error(), fe.Field}
	}

	for _, e := range table {
		if errors.Is(err, e.err) {
			return e.p
		}
	}

	return internalProblem
}

// Respond aborts the request with the JSON representation of err
func Respond(c *gin.Context, err error) {
	p := Classify(err)
	requestID := c.GetString("requestID")

	if p.Code == http.StatusInternalServerError {
		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
	}

	body := gin.H{
		"error":     p.Message,
		"status":    p.Status,
		"requestID": requestID,
	}

	if p.Field != "" {
		body["field"] = p.Field
	}

	c.AbortWithStatusJSON(p.Code, body)
}
