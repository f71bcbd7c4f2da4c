package security

import (
	"bitwise74/auth-api/pkg/apierr"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// Claims is the payload of an auth token. The subject is the user's email.
type Claims struct {
	UserID string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 signed bearer tokens. It keeps
// no state besides the signing key, so any instance sharing the key can
// validate tokens issued by another.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	clock  clockwork.Clock
}

func NewTokenService(secret []byte, ttl time.Duration, issuer string, clock clockwork.Clock) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("no token secret provided")
	}

	if ttl <= 0 {
		return nil, errors.New("token ttl must be bigger than 0")
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &TokenService{
		secret: secret,
		ttl:    ttl,
		issuer: issuer,
		clock:  clock,
	}, nil
}

// TTL returns how long issued tokens stay valid
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject that expires after the configured TTL
func (s *TokenService) Issue(subject, userID string) (token string, expiresAt time.Time, err error) {
	if subject == "" {
		return "", time.Time{}, errors.New("no token subject provided")
	}

	now := s.clock.Now()
	expiresAt = now.Add(s.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	token, err = t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token, %w", err)
	}

	return token, expiresAt, nil
}

// Validate checks the signature and expiry of token. A token with a valid
// signature whose expiry has passed fails with apierr.ErrTokenExpired,
// anything else that isn't a well formed token signed by us fails with
// apierr.ErrTokenInvalid.
func (s *TokenService) Validate(token string) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	}

	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apierr.ErrTokenExpired
		}

		return nil, fmt.Errorf("%w: %v", apierr.ErrTokenInvalid, err)
	}

	if !t.Valid || claims.Subject == "" {
		return nil, apierr.ErrTokenInvalid
	}

	return claims, nil
}

// ExtractSubject validates token and returns only its subject
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.Validate(token)
	if err != nil {
		return "", err
	}

	return claims.Subject, nil
}

// Signer issues and validates auth tokens
type Signer interface {
	Issue(subject, userID string) (string, time.Time, error)
	Validate(token string) (*Claims, error)
}

var _ Signer = (*TokenService)(nil)
