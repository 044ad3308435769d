// Package web serves a tally book over HTTP: a read-only HTML page and a JSON
// API to edit, import and export it.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/tally/date"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server exposes a Session over HTTP.
type Server struct {
	Addr    string
	session *Session
	logger  *zap.Logger
	today   func() date.Date

	maxImport int64 // bytes accepted by POST /import
}

// DefaultMaxImport is the largest import body the server accepts.
const DefaultMaxImport = 10 << 20

// NewServer creates a new web server instance. A nil logger disables logging.
func NewServer(addr string, session *Session, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Addr: addr, session: session, logger: logger, today: date.Today, maxImport: DefaultMaxImport}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(requestLogger(s.logger), gin.Recovery())

	r.GET("/", s.handleIndex)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/orders", s.handleOrders)
	r.POST("/orders", s.handleCreateOrder)
	r.PATCH("/orders/:order", s.handleChangeOrder)
	r.DELETE("/orders/:order", s.handleDeleteOrder)
	r.POST("/orders/:order/buys", s.handleCreateBuy)
	r.PATCH("/orders/:order/buys/:buy", s.handleChangeBuy)
	r.DELETE("/orders/:order/buys/:buy", s.handleDeleteBuy)

	r.GET("/positions", s.handlePositions)
	r.GET("/export", s.handleExport)
	r.POST("/import", s.handleImport)
	return r
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", zap.String("addr", s.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs every request once it has been served.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
			logger.Warn("request failed", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
