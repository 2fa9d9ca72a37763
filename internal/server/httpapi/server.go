// Package httpapi exposes the storefront services as a JSON API over HTTP.
// Sessions travel in the "token" cookie.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/metrics"
	"github.com/dmitrijs2005/storefront/internal/server/ratelimit"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	config   *config.Config
	auth     *services.AuthService
	items    *services.ItemService
	sessions *auth.SessionIssuer
	limiter  ratelimit.Limiter
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   logging.Logger
}

// NewHTTPServer builds the API server. limiter, met and gatherer may be nil.
func NewHTTPServer(c *config.Config, l logging.Logger, as *services.AuthService, is *services.ItemService,
	sessions *auth.SessionIssuer, limiter ratelimit.Limiter, met *metrics.Metrics, gatherer prometheus.Gatherer) *HTTPServer {
	return &HTTPServer{
		config:   c,
		auth:     as,
		items:    is,
		sessions: sessions,
		limiter:  limiter,
		metrics:  met,
		gatherer: gatherer,
		logger:   l.With("module", "http_server"),
	}
}

// Run serves the API on the configured address until ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.config.HTTPAddr)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
