// Package httpserver exposes the auth and destination services over a gin
// JSON API. Every route is served at the root and again under /api.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/travelwishlist/internal/logging"
	"github.com/dmitrijs2005/travelwishlist/internal/server/auth"
	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
	"github.com/dmitrijs2005/travelwishlist/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// AuthAPI is the token lifecycle the auth endpoints delegate to.
type AuthAPI interface {
	Register(ctx context.Context, email, password string) (*services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// DestinationAPI is the destination store seen by the handlers.
type DestinationAPI interface {
	List(ctx context.Context, userID string) ([]*models.Destination, error)
	Get(ctx context.Context, userID string, id int64) (*models.Destination, error)
	Create(ctx context.Context, userID string, in services.DestinationInput) (*models.Destination, error)
	Update(ctx context.Context, userID string, id int64, in services.DestinationInput) (*models.Destination, error)
	Delete(ctx context.Context, userID string, id int64) error
	Stats(ctx context.Context, userID string) (*models.DestinationStats, error)
	Export(ctx context.Context, userID, format string) (*services.Export, error)
}

// TokenParser verifies bearer access tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Options configures the HTTP layer.
type Options struct {
	Address        string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type Server struct {
	address      string
	engine       *gin.Engine
	logger       logging.Logger
	auth         AuthAPI
	destinations DestinationAPI
	tokens       TokenParser
}

// New builds the router and middleware chain.
func New(opts Options, l logging.Logger, a AuthAPI, d DestinationAPI, p TokenParser) *Server {
	s := &Server{
		address:      opts.Address,
		engine:       gin.New(),
		logger:       l.With("module", "http_server"),
		auth:         a,
		destinations: d,
		tokens:       p,
	}

	s.engine.Use(
		gin.Recovery(),
		s.requestLogger(),
		corsMiddleware(opts.AllowedOrigins),
		requestTimeout(opts.RequestTimeout),
	)

	s.registerRoutes(&s.engine.RouterGroup)
	s.registerRoutes(s.engine.Group("/api"))

	return s
}

func (s *Server) registerRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.POST("/refresh", s.refresh)
	authGroup.POST("/revoke", s.revoke)

	dest := r.Group("/destinations", s.bearerAuth())
	dest.GET("", s.listDestinations)
	dest.POST("", s.createDestination)
	dest.GET("/stats", s.destinationStats)
	dest.GET("/export", s.exportDestinations)
	dest.GET("/:id", s.getDestination)
	dest.PUT("/:id", s.updateDestination)
	dest.DELETE("/:id", s.deleteDestination)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
