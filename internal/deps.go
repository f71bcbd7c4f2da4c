package internal

import (
	"bitwise74/auth-api/db"
	"bitwise74/auth-api/internal/service"
	"bitwise74/auth-api/internal/store"
	"bitwise74/auth-api/pkg/security"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// Deps holds every collaborator the handlers need
type Deps struct {
	DB       *gorm.DB
	Store    store.Store
	Argon    *security.ArgonHash
	Tokens   *security.TokenService
	Notifier service.Notifier
	OTP      *service.OTPManager
	Auth     *service.AuthService
	Clock    clockwork.Clock
}

// NewDeps opens the database and builds the services from the loaded
// config
func NewDeps() (*Deps, error) {
	conn, err := db.New(viper.GetString("db.type"), viper.GetString("db.dsn"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	var n service.Notifier = service.LogNotifier{}
	if viper.GetBool("mail.enabled") {
		n = service.NewMailNotifier(service.MailConfig{
			Host:     viper.GetString("mail.host"),
			Port:     viper.GetInt("mail.port"),
			Username: viper.GetString("mail.username"),
			Password: viper.GetString("mail.password"),
			Sender:   viper.GetString("mail.sender"),
		})
	}

	return Build(conn, security.New(), n, clockwork.NewRealClock())
}

// Build wires the services on top of an open connection
func Build(conn *gorm.DB, argon *security.ArgonHash, n service.Notifier, clock clockwork.Clock) (*Deps, error) {
	d := &Deps{
		DB:       conn,
		Store:    store.NewGormStore(conn),
		Argon:    argon,
		Notifier: n,
		Clock:    clock,
	}

	var err error

	d.Tokens, err = security.NewTokenService(
		[]byte(viper.GetString("jwt.secret")),
		viper.GetDuration("jwt.ttl"),
		viper.GetString("jwt.issuer"),
		clock,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service, %w", err)
	}

	d.OTP, err = service.NewOTPManager(d.Store, n, clock, service.DefaultPurposes(
		viper.GetDuration("otp.verify_ttl"),
		viper.GetDuration("otp.reset_ttl"),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create otp manager, %w", err)
	}

	d.Auth, err = service.NewAuthService(d.Store, argon, d.Tokens, d.OTP)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service, %w", err)
	}

	return d, nil
}
