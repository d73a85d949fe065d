package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/session"
)

type App struct {
	logger *logrus.Logger
	config *config.Config
	router *http.ServeMux
	store  *session.Store
	jwt    *config.JWT
	ws     *config.WebSocket
}

func New(logger *logrus.Logger, cfg *config.Config) (*App, error) {
	jwt, err := config.NewJWT(cfg.Token)
	if err != nil {
		return nil, err
	}

	app := &App{
		logger: logger,
		config: cfg,
		router: http.NewServeMux(),
		store: session.NewStore(
			cfg.Session.TTL,
			session.WithLogger(logger),
		),
		jwt: jwt,
		ws:  config.NewWebSocket(cfg.Cors.AllowedOrigins),
	}

	app.loadRoutes()

	return app, nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(),
		middleware.Cors(a.config.Cors.AllowedOrigins),
		middleware.Recover(a.logger),
		middleware.Logging(a.logger),
	)
}

// Start serves until ctx is done, then shuts the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	listener, err := net.Listen("tcp", a.config.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", a.config.Addr, err)
	}

	a.logger.WithField("addr", listener.Addr().String()).Info("server listening")

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.store.Run(gCtx, a.config.Session.SweepInterval)
	})

	return g.Wait()
}
