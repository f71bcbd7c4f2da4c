package service

import (
	"bitwise74/auth-api/db"
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/internal/store"
	"bitwise74/auth-api/pkg/security"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// database/sql keeps a connection opener goroutine per pool
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

// spyStore counts writes going through the wrapped store
type spyStore struct {
	store.Store

	mu    sync.Mutex
	saves int
}

func (s *spyStore) Save(ctx context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()

	return s.Store.Save(ctx, u)
}

func (s *spyStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saves
}

type sentMail struct {
	To, Subject, Body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}

	n.sent = append(n.sent, sentMail{to, subject, body})
	return nil
}

func (n *fakeNotifier) Sent() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]sentMail(nil), n.sent...)
}

type fixture struct {
	store    *spyStore
	notifier *fakeNotifier
	clock    *clockwork.FakeClock
	hasher   *security.ArgonHash
	tokens   *security.TokenService
	otp      *OTPManager
	auth     *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	d, err := db.New("sqlite", ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := d.DB()
		sqlDB.Close()
	})

	f := &fixture{
		store:    &spyStore{Store: store.NewGormStore(d)},
		notifier: &fakeNotifier{},
		clock:    clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		hasher:   &security.ArgonHash{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
	}

	f.tokens, err = security.NewTokenService([]byte("test-secret"), time.Hour, "auth-api", f.clock)
	require.NoError(t, err)

	f.otp, err = NewOTPManager(f.store, f.notifier, f.clock, DefaultPurposes(24*time.Hour, 15*time.Minute))
	require.NoError(t, err)

	f.auth, err = NewAuthService(f.store, f.hasher, f.tokens, f.otp)
	require.NoError(t, err)

	return f
}

func (f *fixture) createUser(t *testing.T, email, password string) *model.User {
	t.Helper()

	u, err := f.auth.Register(context.Background(), email, password, "Test User")
	require.NoError(t, err)

	return u
}

func (f *fixture) user(t *testing.T, email string) *model.User {
	t.Helper()

	u, err := f.store.FindByEmail(context.Background(), email)
	require.NoError(t, err)

	return u
}

// lastCode returns the code mailed most recently
func (f *fixture) lastCode(t *testing.T) string {
	t.Helper()

	sent := f.notifier.Sent()
	require.NotEmpty(t, sent)

	body := sent[len(sent)-1].Body
	for i := 0; i+6 <= len(body); i++ {
		c := body[i : i+6]
		if isDigits(c) {
			return c
		}
	}

	t.Fatal("no code in mail body")
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

var errSMTP = errors.New("smtp: connection refused")
