// Package server assembles the storefront API: it opens the configured store,
// runs migrations, builds the auth and item services and serves them over HTTP
// until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/httpapi"
	"github.com/dmitrijs2005/storefront/internal/server/mail"
	"github.com/dmitrijs2005/storefront/internal/server/metrics"
	"github.com/dmitrijs2005/storefront/internal/server/ratelimit"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	limiter ratelimit.Limiter
	server  *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	app := &App{config: c, logger: logger}

	um, err := app.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	met := metrics.New(reg)

	app.limiter = app.newLimiter(ctx)

	sessions := auth.NewSessionIssuer([]byte(c.AppSecret))
	hasher := auth.NewHasher(c.BcryptCost)

	as := services.NewAuthService(um, hasher, sessions, app.newMailer(), c, met, logger)
	is := services.NewItemService(um, c, logger)

	app.server = httpapi.NewHTTPServer(c, logger, as, is, sessions, app.limiter, met, reg)

	return app, nil
}

func (app *App) openStorage(ctx context.Context) (repomanager.RepositoryManager, error) {

	if app.config.Storage == config.StorageMemory {
		app.logger.Warn(ctx, "Using in-memory storage, data is lost on exit")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	db, um, err := repomanager.OpenPostgres(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	app.db = db
	return um, nil
}

func (app *App) newMailer() mail.Sender {
	c := app.config
	if c.SMTPHost == "" {
		return mail.NewLogSender(app.logger)
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPassword,
		From:     c.MailFrom,
	})
}

// newLimiter prefers Redis and falls back to in-process counters when Redis
// is not configured or unreachable.
func (app *App) newLimiter(ctx context.Context) ratelimit.Limiter {
	c := app.config
	if c.RedisAddr == "" {
		return ratelimit.NewMemory()
	}
	rl, err := ratelimit.NewRedis(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB, app.logger)
	if err != nil {
		app.logger.Warn(ctx, "Redis unavailable, using in-memory rate limiter", "error", err)
		return ratelimit.NewMemory()
	}
	return rl
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or the process receives a stop signal,
// then releases the store and the rate limiter.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if app.limiter != nil {
		app.limiter.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
