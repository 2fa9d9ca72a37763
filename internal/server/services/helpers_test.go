package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/metrics"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/items"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

var errDBDown = errors.New("db down")

type sentMail struct {
	to, subject, body string
	hasDeadline       bool
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := ctx.Deadline()
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body, hasDeadline: ok})
	return f.err
}

type fakeHasher struct {
	err error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Verify(password, hash string) bool {
	return hash == "hashed:"+password
}

// spyCounts is shared by a spyManager and the transaction managers it hands out.
type spyCounts struct {
	users atomic.Int64
	tx    atomic.Int64
}

// spyManager wraps a repository manager and counts store access. users, when
// set, replaces the user store both outside and inside transactions.
type spyManager struct {
	repomanager.RepositoryManager
	calls *spyCounts
	users users.Repository
}

func newSpyManager(inner repomanager.RepositoryManager) *spyManager {
	return &spyManager{RepositoryManager: inner, calls: &spyCounts{}}
}

func (m *spyManager) Users() users.Repository {
	m.calls.users.Add(1)
	if m.users != nil {
		return m.users
	}
	return m.RepositoryManager.Users()
}

func (m *spyManager) Items() items.Repository {
	return m.RepositoryManager.Items()
}

func (m *spyManager) WithTx(ctx context.Context, fn func(ctx context.Context, m repomanager.RepositoryManager) error) error {
	m.calls.tx.Add(1)
	return m.RepositoryManager.WithTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		return fn(ctx, &spyManager{RepositoryManager: tx, calls: m.calls, users: m.users})
	})
}

// failingUsers fails every call with errDBDown.
type failingUsers struct {
	users.Repository
}

func (failingUsers) GetByEmail(context.Context, string) (*models.User, error) { return nil, errDBDown }
func (failingUsers) GetByID(context.Context, string) (*models.User, error)    { return nil, errDBDown }
func (failingUsers) FindByResetToken(context.Context, string, time.Time) (*models.User, error) {
	return nil, errDBDown
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AppSecret = "test-secret"
	cfg.FrontendURL = "http://shop.test/"
	cfg.MailTimeout = time.Second
	return cfg
}

type authFixture struct {
	svc     *AuthService
	manager *spyManager
	mailer  *fakeMailer
	issuer  *auth.SessionIssuer
	now     time.Time
}

func newAuthFixture() *authFixture {
	cfg := testConfig()
	f := &authFixture{
		manager: newSpyManager(repomanager.NewMemoryRepositoryManager()),
		mailer:  &fakeMailer{},
		issuer:  auth.NewSessionIssuer([]byte(cfg.AppSecret)),
		now:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewAuthService(f.manager, auth.NewHasher(bcrypt.MinCost), f.issuer, f.mailer, cfg,
		metrics.New(prometheus.NewRegistry()), logging.Nop())
	f.svc.now = func() time.Time { return f.now }
	return f
}
