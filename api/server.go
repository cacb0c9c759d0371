package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bububa/research-agents/components"
	"github.com/bububa/research-agents/research"
	"github.com/bububa/research-agents/schema"
)

// Server exposes the research pipeline over HTTP. Conversation state lives
// with the client: each request carries its history and each turn builds a
// fresh session from it, so handlers share nothing but the pipeline.
type Server struct {
	pipeline *research.Pipeline
	logger   *zap.Logger
	srv      *http.Server
}

func NewServer(addr string, pipeline *research.Pipeline, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		pipeline: pipeline,
		logger:   logger,
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/healthz", s.handleHealth)
	engine.POST("/api/research", s.handleResearch)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight turns up to the context
// deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleResearch(c *gin.Context) {
	var req ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	session := research.NewSession(s.pipeline)
	session.Seed(historyMessages(req.History))
	answer, err := session.Ask(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, research.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "message must not be blank"})
			return
		}
		s.logger.Error("research turn failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "sorry, something went wrong while researching your question, please try again",
		})
		return
	}
	resp := ResearchResponse{Answer: answer.Text}
	for _, src := range answer.Sources {
		resp.Sources = append(resp.Sources, SourcePayload{
			Title: src.Title,
			URL:   src.URL,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func historyMessages(history []ChatMessage) []components.Message {
	out := make([]components.Message, 0, len(history))
	for _, msg := range history {
		out = append(out, *components.NewMessage(msg.Role, schema.String(msg.Content)))
	}
	return out
}
