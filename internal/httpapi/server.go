// Package httpapi exposes the assistant over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"assistant/internal/logging"
	"assistant/internal/router"
)

// Answerer answers document questions.
type Answerer interface {
	Answer(ctx context.Context, query string) string
}

// Router routes one stateless chat message.
type Router interface {
	Route(ctx context.Context, message string) (router.Intent, string)
}

// Counter reports how many chunks are indexed.
type Counter interface {
	Len() int
}

type answerRequest struct {
	Query string `json:"query" binding:"required"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type chatResponse struct {
	Intent string `json:"intent"`
	Reply  string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves /v1/answer, /v1/chat and /healthz.
type Server struct {
	answerer Answerer
	router   Router
	counter  Counter
	logger   *slog.Logger
	engine   *gin.Engine
}

func New(answerer Answerer, r Router, counter Counter, logger *slog.Logger) *Server {
	s := &Server{
		answerer: answerer,
		router:   r,
		counter:  counter,
		logger:   logging.OrDefault(logger),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.GET("/healthz", s.health)
	v1 := engine.Group("/v1")
	{
		v1.POST("/answer", s.answer)
		v1.POST("/chat", s.chat)
	}
	s.engine = engine
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, answerResponse{Answer: s.answerer.Answer(c.Request.Context(), req.Query)})
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	intent, reply := s.router.Route(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, chatResponse{Intent: intent.String(), Reply: reply})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "chunks": s.counter.Len()})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
		s.logger.Info("http request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
