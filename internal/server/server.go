// Package server assembles the gin engine for the feed and runs it.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/postfeed/config"
	"github.com/ncobase/postfeed/feed/data/repository"
	"github.com/ncobase/postfeed/feed/handler"
	"github.com/ncobase/postfeed/feed/service"
	"github.com/ncobase/postfeed/feed/session"
	"github.com/ncobase/postfeed/feed/view"
	"github.com/ncobase/postfeed/logging/logger"
	"github.com/ncobase/postfeed/net/cookie"
	"github.com/ncobase/postfeed/security/jwt"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// Server serves the feed page and API.
type Server struct {
	cfg    *config.Config
	logger *logger.Logger
	engine *gin.Engine
	views  *view.Registry
}

// New builds the engine on top of repo.
func New(cfg *config.Config, repo repository.PostRepository, log *logger.Logger) *Server {
	if log == nil {
		log = logger.StdLogger()
	}
	setMode(cfg.RunMode)

	feed := cfg.Feed
	if feed == nil {
		feed = &config.Feed{}
	}

	svc := service.NewPostService(repo, log)
	sessions := session.ContextProvider{}
	views := view.NewRegistry(func() *view.View {
		return view.New(svc, sessions, log, view.WithReloadAfterSubmit(feed.ReloadAfterSubmit))
	}, feed.ViewTTL, log)

	var tm *jwt.TokenManager
	if cfg.Auth != nil && cfg.Auth.JWT != nil && cfg.Auth.JWT.Secret != "" {
		tm = jwt.NewTokenManager(cfg.Auth.JWT.Secret)
	} else {
		log.Warn(context.Background(), "auth.jwt.secret is not set, every request is anonymous")
	}

	var cookies cookie.Options
	if cfg.Server != nil {
		cookies = cookie.Options{Domain: cfg.Server.Domain, Secure: cfg.Server.Secure}
	}

	engine := gin.New()
	engine.SetHTMLTemplate(view.Templates)
	engine.Use(gin.Recovery(), Trace(), Logger(log), session.Middleware(tm, log))
	handler.New(svc, views, sessions, cookies, log).RegisterRoutes(engine)

	return &Server{cfg: cfg, logger: log, engine: engine, views: views}
}

func setMode(mode string) {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Views returns the view registry.
func (s *Server) Views() *view.Registry {
	return s.views
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully and closes every view.
func (s *Server) Run(ctx context.Context) error {
	var sweep time.Duration
	if s.cfg.Feed != nil {
		sweep = s.cfg.Feed.SweepInterval
	}
	go s.views.Run(ctx, sweep)

	srv := &http.Server{
		Addr:         s.cfg.Server.Address(),
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(shutdownCtx, "server forced to shutdown", "error", err)
		return err
	}
	s.logger.Info(shutdownCtx, "server exited")
	return nil
}
