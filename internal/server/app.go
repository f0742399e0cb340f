// Package server wires configuration, storage, services and transports
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/httpserver"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passvault/internal/server/services"

	gs "github.com/dmitrijs2005/passvault/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	httpServer  *httpserver.HTTPServer
	grpcServer  *gs.GRPCServer
}

// NewApp opens the configured storage backend and builds both servers.
// Log lines go to out.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(out, c.LogLevel)

	for _, name := range c.InsecureDefaults() {
		logger.Warn(ctx, "insecure default secret in use, override it before production", "setting", name)
	}

	rm, err := repomanager.New(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.JWTSecret), c.TokenValidityDuration)
	vault := services.NewVaultService(rm.VaultItems(), services.NewKeyDeriver(c.EncryptionKey), logger)
	users := services.NewUserService(rm.Users(), tokens, logger)

	app := &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		httpServer: httpserver.NewHTTPServer(c.EndpointAddrHTTP, logger, vault, users, auth.NewAuthenticator(tokens),
			httpserver.CookieConfig{MaxAge: tokens.Validity(), Secure: c.CookieSecure}),
	}
	if c.EndpointAddrGRPC != "" {
		app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, rm)
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// serve runs fn and cancels everything else if it fails.
func (app *App) serve(ctx context.Context, cancelFunc context.CancelFunc, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		app.logger.Error(ctx, name+" server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives, ctx is cancelled or a
// server fails, then closes the storage backend.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "http", app.httpServer.Run)
	}()

	if app.grpcServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.serve(ctx, cancelFunc, "grpc", app.grpcServer.Run)
		}()
	}

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
