// Package middleware contains the custom middleware used by the router
package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const RequestIDHeader = "X-Request-ID"

const requestIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// NewRequestIDMiddleware returns a middleware that sets requestID for each
// incoming request. A well formed X-Request-ID sent by a proxy is reused,
// otherwise a new one is generated. The ID is echoed back in the response.
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = gonanoid.MustGenerate(requestIDAlphabet, 12)
		}

		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
