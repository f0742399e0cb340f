// Package httpserver exposes the vault and account operations as a JSON API
// on top of gin. Authentication is carried by the "token" session cookie.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type VaultAPI interface {
	List(ctx context.Context, id auth.Identity, query string) ([]models.DecryptedItem, error)
	Get(ctx context.Context, id auth.Identity, itemID string) (models.DecryptedItem, error)
	Create(ctx context.Context, id auth.Identity, fields models.VaultFields) (string, error)
	Update(ctx context.Context, id auth.Identity, itemID string, fields models.VaultFields) error
	Delete(ctx context.Context, id auth.Identity, itemID string) error
}

type UserAPI interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, auth.Identity, error)
}

type IdentityResolver interface {
	ResolveIdentity(r *http.Request) (auth.Identity, bool)
}

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

type HTTPServer struct {
	address string
	engine  *gin.Engine
	logger  logging.Logger

	vault  VaultAPI
	users  UserAPI
	auth   IdentityResolver
	cookie CookieConfig
}

func NewHTTPServer(address string, l logging.Logger, v VaultAPI, u UserAPI, a IdentityResolver, cookie CookieConfig) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	s := &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
		vault:   v,
		users:   u,
		auth:    a,
		cookie:  cookie,
	}

	r := gin.New()
	r.Use(s.requestLogger, gin.CustomRecovery(s.recovery))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.GET("/check", s.authCheck)
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.POST("/logout", s.logout)

	items := api.Group("/vault/items", s.requireIdentity)
	items.GET("", s.listItems)
	items.POST("", s.createItem)
	items.GET("/:id", s.getItem)
	items.PUT("/:id", s.updateItem)
	items.DELETE("/:id", s.deleteItem)

	api.GET("/generator", s.generatePassword)

	s.engine = r
	return s
}

// Handler returns the routed gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
