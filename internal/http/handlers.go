package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"neon-time/backend/internal/clock"
	"neon-time/backend/internal/db"
)

const pingTimeout = 5 * time.Second

type Options struct {
	CORSOrigin string
	Logger     *slog.Logger
}

type Server struct {
	R     *gin.Engine
	DB    db.Pool
	Clock *clock.Service
	Log   *slog.Logger
	Now   func() time.Time
}

func NewServer(pool db.Pool, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(opts.Logger), CORS(opts.CORSOrigin))

	tmpl, err := pageTemplate()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	s := &Server{R: r, DB: pool, Clock: clock.New(pool), Log: opts.Logger, Now: time.Now}

	r.GET("/", s.page)
	r.GET("/health", s.health)
	r.GET("/ready", s.ready)
	r.GET("/api/neon", s.dbTime)

	return s, nil
}

// dbTime serves the database clock: {"time": ...} or 500 {"error": ...}.
func (s *Server) dbTime(c *gin.Context) {
	ts, err := s.Clock.Now(c.Request.Context())
	if err != nil {
		s.Log.Error("db time query failed",
			"request_id", c.GetString(requestIDKey),
			"kind", errKind(err),
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"time": ts})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": s.Now().UTC()})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := s.DB.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": s.Now().UTC()})
}

func errKind(err error) string {
	switch {
	case errors.Is(err, clock.ErrConnection):
		return "connection"
	case errors.Is(err, clock.ErrQuery):
		return "query"
	default:
		return "unknown"
	}
}
