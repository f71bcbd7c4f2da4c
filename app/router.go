// Package app contains the router and all endpoints available
package app

import (
	"bitwise74/auth-api/app/auth"
	"bitwise74/auth-api/app/root"
	"bitwise74/auth-api/app/user"
	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/pkg/middleware"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

// NewRouter builds the gin engine on top of d
func NewRouter(d *internal.Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors"),
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	gate := middleware.NewGate(d.Tokens, d.Store, middleware.GateConfig{
		PublicPaths: viper.GetStringSlice("security.public_paths"),
		CookieName:  middleware.DefaultCookieName,
	})
	needsIdentity := middleware.RequireIdentity()
	maxBody := viper.GetInt64("upload.max_body")

	main := router.Group("/api", gate)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })

		// GET /api/validate		-> Validates a JWT token
		main.GET("/validate", needsIdentity, root.Validate)

		// GET /api/docs/*		-> Serves the API description
		main.GET("/docs/*any", cacheFor(10*60), root.Docs)
	}

	a := main.Group("/auth", middleware.BodySizeLimiter(maxBody))
	{
		// POST /api/auth/login		-> Logs in a user and returns a JWT token
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// POST /api/auth/register	-> Registers a new user
		a.POST("/register", func(c *gin.Context) { auth.Register(c, d) })

		// POST /api/auth/logout	-> Clears the auth cookie
		a.POST("/logout", auth.Logout)

		// POST /api/auth/password-reset/request	-> Mails a password reset code
		a.POST("/password-reset/request", func(c *gin.Context) { auth.PasswordResetRequest(c, d) })

		// POST /api/auth/password-reset		-> Sets a new password using a reset code
		a.POST("/password-reset", func(c *gin.Context) { auth.PasswordReset(c, d) })

		// POST /api/auth/verify-email/request	-> Mails an email verification code
		a.POST("/verify-email/request", needsIdentity, func(c *gin.Context) { auth.VerifyEmailRequest(c, d) })

		// POST /api/auth/verify-email		-> Verifies an email using a code
		a.POST("/verify-email", needsIdentity, func(c *gin.Context) { auth.VerifyEmail(c, d) })
	}

	u := main.Group("/users", needsIdentity)
	{
		// GET /api/users/me		-> Returns the profile of the caller
		u.GET("/me", func(c *gin.Context) { user.Me(c, d) })
	}

	return router
}

// MakeLogger replaces the global zap logger with a console logger at
// the given level
func MakeLogger(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(log)
	return nil
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
