package middleware

import (
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/pkg/apierr"
	"bitwise74/auth-api/pkg/security"
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const DefaultCookieName = "jwt"

// TokenValidator checks a bearer token and returns its claims
type TokenValidator interface {
	Validate(token string) (*security.Claims, error)
}

// UserFinder resolves a token subject to the stored account
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type GateConfig struct {
	// PublicPaths are let through without looking at the token. Entries
	// ending in "/*" match every path below them.
	PublicPaths []string
	CookieName  string
}

// NewGate returns a middleware that resolves the caller of a request.
// Requests without a token pass through anonymously and it's up to the
// handler to reject them, see RequireIdentity. A token that is present but
// can't be validated or tied to an active account aborts the request.
func NewGate(tokens TokenValidator, users UserFinder, cfg GateConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	public := newPathMatcher(cfg.PublicPaths)

	return func(c *gin.Context) {
		if _, ok := GetIdentity(c); ok {
			c.Next()
			return
		}

		if public.match(c.Request.URL.Path) {
			c.Next()
			return
		}

		token := extractToken(c, cfg.CookieName)
		if token == "" {
			c.Next()
			return
		}

		requestID := c.GetString("requestID")

		claims, err := tokens.Validate(token)
		if err != nil {
			zap.L().Debug("Rejected token", zap.Error(err), zap.String("requestID", requestID))

			if errors.Is(err, apierr.ErrTokenExpired) {
				apierr.Respond(c, apierr.ErrTokenExpired)
				return
			}

			apierr.Respond(c, apierr.ErrTokenInvalid)
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, apierr.ErrUserNotFound) {
				apierr.Respond(c, apierr.ErrAuthenticationFailed)
				return
			}

			apierr.Respond(c, err)
			return
		}

		if user.Disabled {
			apierr.Respond(c, apierr.ErrAuthenticationFailed)
			return
		}

		setIdentity(c, &Identity{
			UserID:      user.ID,
			Email:       user.Email,
			Authorities: user.Authorities(),
		})

		c.Next()
	}
}

// RequireIdentity aborts requests the gate didn't attach an identity to
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetIdentity(c); !ok {
			apierr.Respond(c, apierr.ErrUnauthenticated)
			return
		}

		c.Next()
	}
}

// extractToken looks for a bearer token in the Authorization header first
// and falls back to the auth cookie
func extractToken(c *gin.Context, cookie string) string {
	h := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}

	if v, err := c.Cookie(cookie); err == nil {
		return v
	}

	return ""
}

type pathMatcher struct {
	exact    map[string]struct{}
	prefixes []string
}

func newPathMatcher(paths []string) *pathMatcher {
	m := &pathMatcher{exact: make(map[string]struct{})}

	for _, p := range paths {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			m.prefixes = append(m.prefixes, prefix)

			// "/docs/*" also covers "/docs"
			if trimmed := strings.TrimSuffix(prefix, "/"); trimmed != "" {
				m.exact[trimmed] = struct{}{}
			}
			continue
		}

		m.exact[p] = struct{}{}
	}

	return m
}

func (m *pathMatcher) match(path string) bool {
	if _, ok := m.exact[path]; ok {
		return true
	}

	for _, p := range m.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
