// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath = pflag.String("config", "", "Path to the config.toml file")

	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBTypes   = []string{"sqlite", "postgres"}
)

// DefaultPublicPaths are reachable without a token
var DefaultPublicPaths = []string{
	"/api/heartbeat",
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/logout",
	"/api/auth/password-reset",
	"/api/auth/password-reset/*",
	"/api/docs/*",
}

// ErrNoJWTSecret is returned by Setup when jwt.secret isn't set. The error
// text carries a freshly generated secret the operator can paste in.
var ErrNoJWTSecret = errors.New("no jwt secret set")

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	if *configPath != "" {
		v.SetConfigFile(*configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvs()
	SetDefaults()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		// env only deployments are fine
		fmt.Println("[WARNING]: config.toml file is missing, using defaults and environment variables")
	}

	return Validate()
}

func bindEnvs() {
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.domain", "HOST_DOMAIN")
	v.BindEnv("host.cors", "HOST_CORS")

	v.BindEnv("host.ssl.enabled", "HOST_SSL_ENABLED")
	v.BindEnv("host.ssl.certificate_path", "HOST_SSL_CERTIFICATE_PATH")
	v.BindEnv("host.ssl.certificate_key_path", "HOST_SSL_CERTIFICATE_KEY_PATH")

	v.BindEnv("db.type", "DB_TYPE")
	v.BindEnv("db.dsn", "DB_DSN")

	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.ttl", "JWT_TTL")
	v.BindEnv("jwt.issuer", "JWT_ISSUER")

	v.BindEnv("otp.verify_ttl", "OTP_VERIFY_TTL")
	v.BindEnv("otp.reset_ttl", "OTP_RESET_TTL")

	v.BindEnv("mail.enabled", "MAIL_ENABLED")
	v.BindEnv("mail.host", "MAIL_HOST")
	v.BindEnv("mail.port", "MAIL_PORT")
	v.BindEnv("mail.username", "MAIL_USERNAME")
	v.BindEnv("mail.password", "MAIL_PASSWORD")
	v.BindEnv("mail.sender", "MAIL_SENDER")

	v.BindEnv("security.public_paths", "SECURITY_PUBLIC_PATHS")
	v.BindEnv("security.cookie_secure", "SECURITY_COOKIE_SECURE")

	v.BindEnv("upload.max_body", "UPLOAD_MAX_BODY")
}

// SetDefaults registers the default value of every key
func SetDefaults() {
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.type", "sqlite")
	v.SetDefault("db.dsn", "./data/auth.db")

	v.SetDefault("jwt.ttl", time.Hour)
	v.SetDefault("jwt.issuer", "auth-api")

	v.SetDefault("otp.verify_ttl", 24*time.Hour)
	v.SetDefault("otp.reset_ttl", 15*time.Minute)

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)

	v.SetDefault("security.public_paths", DefaultPublicPaths)
	v.SetDefault("security.cookie_secure", false)

	v.SetDefault("upload.max_body", 1<<20)
}

// Validate checks the loaded values
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if p := v.GetInt("host.port"); p <= 0 || p > 65535 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDBTypes, v.GetString("db.type")) {
		return errors.New("invalid database type provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("no database dsn provided")
	}

	if v.GetString("jwt.secret") == "" {
		return fmt.Errorf("%w. A random one has been generated for you, paste it into your config.toml file:\n\n%s", ErrNoJWTSecret, genSecret())
	}

	if v.GetDuration("jwt.ttl") <= 0 {
		return errors.New("jwt.ttl must be bigger than 0")
	}

	if v.GetDuration("otp.verify_ttl") <= 0 {
		return errors.New("otp.verify_ttl must be bigger than 0")
	}

	if v.GetDuration("otp.reset_ttl") <= 0 {
		return errors.New("otp.reset_ttl must be bigger than 0")
	}

	if v.GetBool("mail.enabled") {
		if v.GetString("mail.host") == "" {
			return errors.New("no mail host provided")
		}

		if v.GetInt("mail.port") <= 0 {
			return errors.New("invalid mail port provided")
		}

		if v.GetString("mail.sender") == "" {
			return errors.New("no mail sender provided")
		}
	} else {
		fmt.Println("[WARNING]: Mail is disabled. Verification and reset codes will only be written to the debug log")
	}

	if v.GetInt64("upload.max_body") <= 0 {
		return errors.New("upload.max_body must be bigger than 0")
	}

	return nil
}
