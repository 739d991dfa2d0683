// Package devserver serves the lapinstance REST API from a local sqlite database.
// It is meant for development and for exercising the client end to end.
package devserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/lapinstance/internal/config"
	"github.com/jon4hz/lapinstance/internal/database"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
)

type Server struct {
	cfg       *config.DevServerConfig
	db        database.DB
	notifier  Notifier
	now       func() time.Time
	logger    *log.Logger
	session   lapinstance.Session
	ginEngine *gin.Engine
}

type Option func(*Server)

// WithNotifier replaces the default log notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Server) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock sets the time source used for reset computations.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates the server and makes sure the configured session user exists.
func New(ctx context.Context, cfg *config.DevServerConfig, db database.DB, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Session == nil || cfg.Session.UserName == "" {
		return nil, fmt.Errorf("session user is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	s := &Server{
		cfg:    cfg,
		db:     db,
		now:    time.Now,
		logger: log.Default().WithPrefix("devserver"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewLogNotifier(s.logger.WithPrefix("notify"))
	}

	user, err := db.GetOrCreateUser(ctx, cfg.Session.UserName, cfg.Session.DiscordID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session user: %w", err)
	}
	s.session = lapinstance.Session{
		User:  toUser(*user),
		Roles: cfg.SessionRoles(),
	}

	s.ginEngine = gin.New()
	s.ginEngine.Use(gin.Recovery(), s.requestLogger(), gzip.Gzip(gzip.DefaultCompression))
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	r := s.ginEngine

	raids := r.Group("/raids")
	raids.GET("", s.findAllRaids)
	raids.POST("", s.saveRaid)
	raids.GET("/:id", s.getRaid)
	raids.DELETE("/:id", s.deleteRaid)
	raids.GET("/:id/missingSubscriptions", s.findMissingSubscriptions)
	raids.POST("/:id/missingSubscriptions/notify", s.notifyMissingSubscriptions)
	raids.GET("/:id/subscriptions", s.findRaidSubscriptions)
	raids.POST("/:id/subscriptions", s.saveRaidSubscription)

	r.GET("/userCharacters", s.findAllUserCharacters)
	r.GET("/applicationSettings", s.getApplicationSettings)

	users := r.Group("/users")
	users.GET("", s.findAllUsers)
	users.GET("/:id/characters", s.findUserCharacters)
	users.POST("/:id/characters", s.saveUserCharacter)
	users.GET("/:id/rosterMemberships", s.findUserRosterMemberships)
	users.GET("/:id/subscriptions", s.findUserSubscriptions)

	r.GET("/session/user", s.getCurrentUser)
	r.GET("/raidTypes/:raidType/nextReset", s.nextReset)

	roster := r.Group("/roster")
	roster.GET("", s.findAllRosterMembers)
	roster.POST("", s.addRosterMember)
	roster.DELETE("", s.removeRosterMember)
}

// requestLogger logs every request with the id the client sent.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader(lapinstance.RequestIDHeader),
			"duration", time.Since(start),
		)
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Session returns the session served by /session/user.
func (s *Server) Session() lapinstance.Session {
	return s.session
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
